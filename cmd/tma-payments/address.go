package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mariafchaparro/tma-test/internal/payment"
)

var addressCmd = &cobra.Command{
	Use:   "address [addr]",
	Short: "Validate address and print its forms",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := payment.ParseAnyAddr(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "bounceable:    ", a.IsBounceable())
		fmt.Fprintln(out, "testnet only:  ", a.IsTestnetOnly())
		fmt.Fprintln(out, "workchain:     ", a.Workchain())
		fmt.Fprintln(out, "user-friendly: ", a.String())
		fmt.Fprintln(out, "raw:           ", a.StringRaw())
		return nil
	},
}
