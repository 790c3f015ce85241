package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quantfold/backtester/config"
	"github.com/quantfold/backtester/data"
)

func newExampleCmd() *cobra.Command {
	var (
		configPath string
		dataPath   string
	)

	cmd := &cobra.Command{
		Use:   "example",
		Short: "Write a starter config and dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			cfg.Data.CSVPath = dataPath
			if err := cfg.SaveToFile(configPath); err != nil {
				return err
			}
			if err := os.WriteFile(dataPath, []byte(data.ExampleCSV), 0644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", configPath, dataPath)
			fmt.Fprintf(cmd.OutOrStdout(), "try: backtester run -c %s\n", configPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "backtester.yaml", "config file to write")
	cmd.Flags().StringVar(&dataPath, "data", "observations.csv", "dataset file to write")

	return cmd
}
