package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		redacted := *cfg
		if redacted.Pronto.Key != "" {
			redacted.Pronto.Key = "***"
		}
		if redacted.Apify.Token != "" {
			redacted.Apify.Token = "***"
		}
		if redacted.Auth.APIKey != "" {
			redacted.Auth.APIKey = "***"
		}

		out, err := yaml.Marshal(redacted)
		if err != nil {
			return eris.Wrap(err, "marshal config")
		}
		fmt.Print(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
