package genericclioptions

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// MarkFlagsHidden hides the given flags from the target's help output.
func MarkFlagsHidden(target *cobra.Command, hidden ...string) {
	f := target.HelpFunc()

	target.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd == target {
			for _, n := range hidden {
				flag := cmd.Flags().Lookup(n)
				if flag != nil {
					flag.Hidden = true
				}
			}
		}

		f(cmd, args)
	})
}

// MarkAllFlagsHidden hides every inherited and local flag from the target's
// help output, except the given names.
func MarkAllFlagsHidden(target *cobra.Command, except ...string) {
	f := target.HelpFunc()

	target.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd == target {
			cmd.InheritedFlags().VisitAll(func(flag *pflag.Flag) {
				if !slices.Contains(except, flag.Name) {
					flag.Hidden = true
				}
			})

			cmd.Flags().VisitAll(func(flag *pflag.Flag) {
				if !slices.Contains(except, flag.Name) {
					flag.Hidden = true
				}
			})
		}

		f(cmd, args)
	})
}

// RejectDisallowedFlags fails when any of the disallowed flags was set on
// the command line.
func RejectDisallowedFlags(cmd *cobra.Command, disallowed ...string) error {
	for _, name := range disallowed {
		if cmd.Flags().Changed(name) {
			return fmt.Errorf("flag --%s is not allowed with '%s' command", name, cmd.Name())
		}
	}

	return nil
}
