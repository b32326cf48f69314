package cmd

import (
	"os"

	"github.com/spf13/cobra"

	cmdcommon "maatnet.io/maat/cmd/maat/common"
)

var rootCmd = &cobra.Command{
	Use:   os.Args[0],
	Short: "maat",
	Run: func(c *cobra.Command, args []string) {
		if len(args) == 0 {
			c.Usage()
		}
	},
}

// Execute runs the command line and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cmdcommon.PrintFlagsError(rootCmd, "", err)
	}
}

// SetArgs overrides os.Args for the root command, mainly for tests.
func SetArgs(s []string) {
	rootCmd.SetArgs(s)
}
