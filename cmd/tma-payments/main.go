package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "tma-payments",
		Short: "USD₮ jetton transfer payloads for Telegram Mini App",
	}

	root.AddCommand(serveCmd, payloadCmd, addressCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
