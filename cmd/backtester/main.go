package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "backtester",
		Short: "Discrete-event backtesting kernel",
		Long: `backtester replays market observations through pluggable trading
strategies, gates the resulting intents through admission control, and
keeps a consistent accounting ledger of fills, cash and equity.`,
	}

	root.AddCommand(
		newRunCmd(),
		newExampleCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
