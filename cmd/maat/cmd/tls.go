package cmd

import (
	"os"
	"path/filepath"

	logging "github.com/inconshreveable/log15"
	"github.com/spf13/cobra"

	"maatnet.io/maat/lib/network"

	cmdcommon "maatnet.io/maat/cmd/maat/common"
)

var flagTLSOutputPath = "."

func init() {
	tlsCmd := &cobra.Command{
		Use:   "tls",
		Short: "Generate tls certificate and key file",
		Run: func(c *cobra.Command, args []string) {
			generateTLSFiles(c)
		},
	}

	tlsCmd.Flags().StringVar(&flagTLSCertFile, "cert", flagTLSCertFile, "tls certificate file name")
	tlsCmd.Flags().StringVar(&flagTLSKeyFile, "key", flagTLSKeyFile, "tls key file name")
	tlsCmd.Flags().StringVar(&flagTLSOutputPath, "output", flagTLSOutputPath, "tls output path")

	rootCmd.AddCommand(tlsCmd)
}

func generateTLSFiles(c *cobra.Command) {
	network.NewKeyGenerator(flagTLSOutputPath, flagTLSCertFile, flagTLSKeyFile)

	if _, err := os.Stat(flagTLSOutputPath); os.IsNotExist(err) {
		cmdcommon.PrintFlagsError(c, "output", err)
	}
	if _, err := os.Stat(filepath.Join(flagTLSOutputPath, flagTLSCertFile)); os.IsNotExist(err) {
		cmdcommon.PrintFlagsError(c, "cert", err)
	}
	if _, err := os.Stat(filepath.Join(flagTLSOutputPath, flagTLSKeyFile)); os.IsNotExist(err) {
		cmdcommon.PrintFlagsError(c, "key", err)
	}

	tlsLog := logging.New("module", "tls")
	tlsLog.Info("Generate tls certificate and key files", "cert", flagTLSCertFile, "key", flagTLSKeyFile, "out", flagTLSOutputPath)
}
