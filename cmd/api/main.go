package main

import (
	"fmt"
	"os"

	"desktop-core-service/cmd/api/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
