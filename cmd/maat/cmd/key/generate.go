package key

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"maatnet.io/maat/lib/common/keypair"

	cmdcommon "maatnet.io/maat/cmd/maat/common"
)

var (
	GenerateCmd *cobra.Command

	flagParse  bool
	flagFormat string
)

type keyPair struct {
	Seed              string  `json:"seed"`
	Address           string  `json:"address"`
	NetworkPassphrase *string `json:"network_passphrase,omitempty"`
}

var textTemplate = template.Must(template.New("keypair").Funcs(template.FuncMap{
	"valueString": func(input *string) string {
		if input == nil {
			return ""
		}
		return *input
	},
}).Parse(`       Secret Seed: {{ .Seed }}
    Public Address: {{ .Address }}{{ if valueString .NetworkPassphrase }}
Network Passphrase: "{{ .NetworkPassphrase|valueString }}"{{ end }}
`))

func textEncode(v interface{}, w io.Writer) error {
	return textTemplate.Execute(w, v)
}

func onelineEncode(v interface{}, w io.Writer) error {
	kp := v.(keyPair)
	_, err := fmt.Fprintf(w, "%s %s\n", kp.Seed, kp.Address)
	return err
}

var encoders = map[string]cmdcommon.Encode{
	"json":       cmdcommon.DefaultEncodes["json"],
	"prettyjson": cmdcommon.DefaultEncodes["prettyjson"],
	"yaml":       cmdcommon.DefaultEncodes["yaml"],
	"default":    textEncode,
	"oneline":    onelineEncode,
}

func init() {
	GenerateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate keypair",
		Run:   runGenerate,
	}

	GenerateCmd.Flags().BoolVar(&flagParse, "parse", false, "parse secret seed")
	GenerateCmd.Flags().StringVar(&flagFormat, "format", "default", "format={default, json, oneline, prettyjson, yaml}")
}

func runGenerate(c *cobra.Command, args []string) {
	input := strings.TrimSpace(strings.Join(args, " "))

	if flagParse && len(input) == 0 {
		cmdcommon.PrintFlagsError(c, "--parse", errors.New("--parse needs <secret seed>"))
	}

	kp, err := generateKP(input, flagParse)
	if flagParse && err != nil {
		cmdcommon.PrintFlagsError(c, "<input>", fmt.Errorf("failed to parse secret seed: %v", err))
	}

	// without --parse a positional argument is a network passphrase, and
	// worth echoing back
	var passphrase *string
	if !flagParse && len(input) > 0 {
		passphrase = &input
	}

	encode, ok := encoders[flagFormat]
	if !ok {
		cmdcommon.PrintFlagsError(c, "format", fmt.Errorf(`"%s" not recognized`, flagFormat))
	}

	out := keyPair{
		Seed:              kp.Seed(),
		Address:           kp.Address(),
		NetworkPassphrase: passphrase,
	}
	if err := encode(out, os.Stdout); err != nil {
		panic(err)
	}
}

func generateKP(input string, fromSeed bool) (*keypair.Full, error) {
	if len(input) == 0 {
		return keypair.RandomCanFail()
	}
	if !fromSeed {
		return keypair.Master(input).(*keypair.Full), nil
	}

	kp, err := keypair.Parse(input)
	if err != nil {
		return nil, err
	}
	full, ok := kp.(*keypair.Full)
	if !ok {
		return nil, errors.New("not a secret seed")
	}
	return full, nil
}
