// Package text contains the string helpers exposed to the desktop frontend.
package text

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Uppercase applies full Unicode upper case mapping, so a letter may expand
// to several ("ß" becomes "SS").
func Uppercase(s string) string {
	// A Caser keeps state between calls and cannot be shared.
	return cases.Upper(language.Und).String(s)
}

// Greet returns the greeting shown by the frontend for name.
func Greet(name string) string {
	return fmt.Sprintf("Hello, %s!", name)
}
