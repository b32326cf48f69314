package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/common/keypair"
	"maatnet.io/maat/lib/governance"
	"maatnet.io/maat/lib/storage"

	cmdcommon "maatnet.io/maat/cmd/maat/common"
)

func init() {
	genesisCmd := &cobra.Command{
		Use:   "genesis <public address>",
		Short: "initialize new network",
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			flagName, err := MakeGenesisLedger(args[0], flagNetworkID, flagStorageConfigString)
			if len(flagName) != 0 || err != nil {
				cmdcommon.PrintFlagsError(c, flagName, err)
			}

			fmt.Println("successfully initialized the network")
		},
	}

	genesisCmd.Flags().StringVar(&flagStorageConfigString, "storage", flagStorageConfigString, "storage uri")
	genesisCmd.Flags().StringVar(&flagNetworkID, "network-id", flagNetworkID, "network id")

	rootCmd.AddCommand(genesisCmd)
}

// MakeGenesisLedger writes the administrator account and the zero proposal
// counter into a fresh storage, refusing to touch one that is already
// initialized. It is exported so other packages can bootstrap a ledger with
// the same defaults and error reporting as the command line.
//
// The returned string names the flag to blame when the input is bad; a
// non-empty name or a non-nil error is each enough to treat the call as
// failed.
func MakeGenesisLedger(addressStr, networkID, storageString string) (string, error) {
	kp, err := keypair.Parse(addressStr)
	if err != nil {
		return "<public address>", err
	}

	if len(networkID) == 0 {
		return "--network-id", errors.New("--network-id must be provided")
	}

	if len(storageString) == 0 {
		if storageString, err = defaultStorageString(); err != nil {
			return "--storage", err
		}
	}

	storageConfig, err := storage.NewConfigFromString(storageString)
	if err != nil {
		return "--storage", err
	}

	st, err := storage.NewStorage(storageConfig)
	if err != nil {
		return "--storage", fmt.Errorf("failed to initialize storage: %v", err)
	}
	defer st.Close()

	if exists, _ := governance.ExistsAdministrator(st); exists {
		return "<public address>", errors.New("network is already initialized")
	}

	administrator := governance.NewAdministrator(kp.Address())
	if err = administrator.Save(st); err != nil {
		return "<public address>", err
	}
	if err = governance.SetProposalCount(st, 0); err != nil {
		return "--storage", err
	}

	return "", nil
}

// defaultStorageString falls back to MAAT_STORAGE, then to a db directory
// under the current working directory.
func defaultStorageString() (string, error) {
	if fromEnv := common.GetENVValue("MAAT_STORAGE", ""); len(fromEnv) != 0 {
		return fromEnv, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if wd, err = filepath.Abs(wd); err != nil {
		return "", err
	}
	return fmt.Sprintf("file://%s/db", wd), nil
}
