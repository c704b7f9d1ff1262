package cmd

import (
	"encoding/hex"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/dh1tw/gochromaprint/chromaprint"
)

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:   "encode [values]",
	Short: "Encode raw fingerprint values into the compressed format",
	Long: `Encode raw fingerprint values into the compressed format

The values are expected as a comma separated list of signed 32 bit
integers. By default the fingerprint is printed in the URL safe base64
encoded text form. With --hex the binary form is printed hex encoded.
`,
	Args: cobra.ExactArgs(1),
	Run:  encodeFingerprint,
}

func init() {
	RootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().StringP("algorithm", "a", "test2", "fingerprint algorithm (test1, test2, test3)")
	encodeCmd.Flags().Bool("hex", false, "print the binary fingerprint hex encoded")
}

func encodeFingerprint(cmd *cobra.Command, args []string) {

	algorithmName, _ := cmd.Flags().GetString("algorithm")
	asHex, _ := cmd.Flags().GetBool("hex")

	algorithm, err := chromaprint.AlgorithmByName(algorithmName)
	if err != nil {
		log.Fatal(err)
	}

	values, err := parseInt32List(args[0])
	if err != nil {
		log.Fatal(err)
	}

	fingerprint, err := chromaprint.EncodeFingerprint(values, algorithm, !asHex)
	if err != nil {
		log.Fatal(err)
	}

	if asHex {
		fmt.Printf("FINGERPRINT=%s\n", hex.EncodeToString(fingerprint))
		return
	}

	fmt.Printf("FINGERPRINT=%s\n", fingerprint)
}
