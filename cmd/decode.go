package cmd

import (
	"encoding/hex"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/dh1tw/gochromaprint/chromaprint"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode [fingerprint]",
	Short: "Decode a compressed fingerprint into its raw values",
	Long: `Decode a compressed fingerprint into its raw values

By default the fingerprint is expected in the URL safe base64 encoded text
form. With --hex a hex encoded binary fingerprint can be decoded instead.
`,
	Args: cobra.ExactArgs(1),
	Run:  decodeFingerprint,
}

func init() {
	RootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().Bool("hex", false, "interpret the argument as a hex encoded binary fingerprint")
}

func decodeFingerprint(cmd *cobra.Command, args []string) {

	isHex, _ := cmd.Flags().GetBool("hex")

	data := []byte(args[0])
	isText := true

	if isHex {
		binary, err := hex.DecodeString(args[0])
		if err != nil {
			log.Fatal(err)
		}
		data = binary
		isText = false
	}

	values, algorithm, err := chromaprint.DecodeFingerprint(data, isText)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("ALGORITHM=%s\n", algorithm)
	fmt.Printf("LENGTH=%d\n", len(values))
	fmt.Printf("VALUES=%s\n", joinInt32(values))
}
