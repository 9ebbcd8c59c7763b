package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) matchCmd() *cobra.Command {
	var start int
	cmd := &cobra.Command{
		Use:   "match LITERAL TEXT",
		Short: "Report whether TEXT contains a match",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			re, err := a.compile(args[0])
			if err != nil {
				return err
			}
			ok, err := re.IsMatchAt(args[1], start)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "is_match: %t\n", ok)
			return nil
		},
	}
	cmd.Flags().IntVar(&start, "start", 0, "Byte offset to start searching from.")
	return cmd
}
