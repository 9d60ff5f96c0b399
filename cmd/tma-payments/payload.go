package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mariafchaparro/tma-test/internal/payment"
	"github.com/mariafchaparro/tma-test/ton/jetton"
)

var (
	payloadTo       string
	payloadAmount   string
	payloadFrom     string
	payloadDecimals int
	payloadDump     bool
)

func init() {
	payloadCmd.Flags().StringVar(&payloadTo, "to", "", "destination owner address")
	payloadCmd.Flags().StringVar(&payloadAmount, "amount", "", "amount in jettons, e.g. 1.5")
	payloadCmd.Flags().StringVar(&payloadFrom, "from", "", "sender address, receives excess")
	payloadCmd.Flags().IntVar(&payloadDecimals, "decimals", jetton.USDTDecimals, "jetton decimals")
	payloadCmd.Flags().BoolVar(&payloadDump, "dump", false, "print cell tree")

	_ = payloadCmd.MarkFlagRequired("to")
	_ = payloadCmd.MarkFlagRequired("amount")
	_ = payloadCmd.MarkFlagRequired("from")
}

var payloadCmd = &cobra.Command{
	Use:   "payload",
	Short: "Build base64 BOC of jetton transfer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := payment.ParseAnyAddr(payloadFrom)
		if err != nil {
			return errors.Wrap(err, "invalid --from")
		}

		b := jetton.NewPayloadBuilder(jetton.WithDecimals(payloadDecimals))

		c, err := b.Payload(payloadTo, payloadAmount, from.String())
		if err != nil {
			return errors.Wrap(err, "failed to build payload")
		}

		payload, err := jetton.EncodePayload(c)
		if err != nil {
			return errors.Wrap(err, "failed to encode payload")
		}

		if payloadDump {
			fmt.Fprintln(cmd.OutOrStdout(), c.Dump())
		}
		fmt.Fprintln(cmd.OutOrStdout(), payload)
		return nil
	},
}
