package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"desktop-core-service/cmd/api/di"
	domain "desktop-core-service/internal/domain/user"
	"desktop-core-service/internal/usecase/compute"
	"desktop-core-service/pkg/structured"
)

func (s *state) compute() *compute.Service {
	return di.NewComputeService(s.cfg, s.toolLogger())
}

func parseUint(arg string) (uint64, error) {
	n, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a non-negative integer", arg)
	}
	return n, nil
}

func newFactorialCommand(st *state) *cobra.Command {
	var big bool

	cmd := &cobra.Command{
		Use:   "factorial N",
		Short: "Print N!",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseUint(args[0])
			if err != nil {
				return err
			}

			svc := st.compute()
			if big {
				r, err := svc.FactorialBig(cmd.Context(), n)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), r.String())
				return err
			}

			r, err := svc.Factorial(cmd.Context(), n)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), r)
			return err
		},
	}
	cmd.Flags().BoolVar(&big, "big", false, "use arbitrary precision")
	return cmd
}

func newPrimeCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "prime N",
		Short: "Report whether N is prime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseUint(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), st.compute().IsPrime(cmd.Context(), n))
			return err
		},
	}
}

func newUpperCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "upper TEXT...",
		Short: "Print TEXT in upper case",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), st.compute().Uppercase(cmd.Context(), strings.Join(args, " ")))
			return err
		},
	}
}

func newGreetCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "greet [NAME]",
		Short: "Print a greeting",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), st.compute().Greet(cmd.Context(), name))
			return err
		},
	}
}

func newAddCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "add A B",
		Short: "Add two 32-bit integers, wrapping on overflow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ops [2]int32
			for i, arg := range args {
				v, err := strconv.ParseInt(arg, 10, 32)
				if err != nil {
					return fmt.Errorf("%q is not a 32-bit integer", arg)
				}
				ops[i] = int32(v)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), st.compute().Add(cmd.Context(), ops[0], ops[1]))
			return err
		},
	}
}

func newParseCommand(st *state) *cobra.Command {
	var kindOnly bool

	cmd := &cobra.Command{
		Use:   "parse [JSON|-]",
		Short: "Parse a JSON document and print it back",
		Long:  "Parse a JSON document given as an argument, or read from stdin when the argument is - or missing.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := st.compute()

			var data []byte
			if len(args) == 1 && args[0] != "-" {
				data = []byte(args[0])
			} else {
				// One byte over the limit is enough for the service to reject it.
				in := io.LimitReader(cmd.InOrStdin(), int64(svc.Limits().MaxJSONBytes)+1)
				var err error
				if data, err = io.ReadAll(in); err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
			}

			v, err := svc.ParseJSON(cmd.Context(), data)
			if err != nil {
				return err
			}

			out := structured.Kind(v)
			if !kindOnly {
				if out, err = structured.Encode(v); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().BoolVar(&kindOnly, "kind", false, "print only the kind of the top-level value")
	return cmd
}

func newEmailCommand(*state) *cobra.Command {
	return &cobra.Command{
		Use:   "email ADDRESS",
		Short: "Check that ADDRESS looks like an email address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), domain.New(0, "", args[0]).IsValidEmail())
			return err
		},
	}
}
