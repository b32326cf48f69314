package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"maatnet.io/maat/lib/errors"
)

func messageOf(err error) string {
	if coded, ok := err.(*errors.Error); ok {
		return coded.Message
	}
	return err.Error()
}

// PrintFlagsError reports a bad flag value on stderr, prints usage and
// exits.
func PrintFlagsError(cmd *cobra.Command, flagName string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid '%s'; %s\n\n", flagName, messageOf(err))
	}

	cmd.Help()
	os.Exit(1)
}

func PrintError(cmd *cobra.Command, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n\n", messageOf(err))
	}

	cmd.Help()
	os.Exit(1)
}

// ListFlags collects a repeatable string flag.
type ListFlags []string

func (i *ListFlags) Type() string {
	return "list"
}

func (i *ListFlags) String() string {
	return strings.Join(*i, " ")
}

func (i *ListFlags) Set(value string) error {
	*i = append(*i, value)
	return nil
}
