// Command remapctl checks and inspects remap plan files.
package main

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/Station-Manager/remap/planfile"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "remapctl",
		Short:        "Validate and inspect remap plan files",
		SilenceUsage: true,
	}
	root.AddCommand(newValidateCmd(), newDescribeCmd(), newConvertersCmd())
	return root
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Parse plan files and check that every converter they name exists",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			conv := planfile.DefaultConverters()
			failed := 0
			for _, path := range args {
				if err := validateFile(path, conv); err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s\n  %v\n", path, err)
					continue
				}
				fmt.Fprintf(out, "ok   %s\n", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d plan files invalid", failed, len(args))
			}
			return nil
		},
	}
}

func validateFile(path string, conv planfile.Converters) error {
	f, err := planfile.Load(path)
	if err != nil {
		return err
	}
	var errs []error
	for i := range f.Mappings {
		if _, err := f.Mappings[i].Directives(conv); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func newDescribeCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "describe FILE",
		Short: "Print a plan file, or one of its mappings, as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := planfile.Load(args[0])
			if err != nil {
				return err
			}
			var v any = f
			if name != "" {
				m, ok := f.Lookup(name)
				if !ok {
					return fmt.Errorf("%s: no mapping named %q", args[0], name)
				}
				v = m
			}
			data, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().StringVarP(&name, "mapping", "m", "", "describe only the named mapping")
	return cmd
}

func newConvertersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "converters",
		Short: "List the converter names plan files can use",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			conv := planfile.DefaultConverters()
			names := make([]string, 0, len(conv))
			for name := range conv {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
