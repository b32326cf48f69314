package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"maatnet.io/maat/lib/version"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(c *cobra.Command, args []string) {
			fmt.Println(version.ToDetailVersion())
		},
	})
}
