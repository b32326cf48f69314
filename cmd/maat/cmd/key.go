package cmd

import (
	"github.com/spf13/cobra"

	"maatnet.io/maat/cmd/maat/cmd/key"
)

func init() {
	keyCmd := &cobra.Command{
		Use:   "key",
		Short: "Manage keypairs",
		Run: func(c *cobra.Command, args []string) {
			if len(args) == 0 {
				c.Usage()
			}
		},
	}

	keyCmd.AddCommand(key.GenerateCmd)
	rootCmd.AddCommand(keyCmd)
}
