package cmd

import (
	"fmt"
	"log"
	"math/bits"

	"github.com/spf13/cobra"

	"github.com/dh1tw/gochromaprint/chromaprint"
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare [fingerprint] [fingerprint]",
	Short: "Compare two compressed fingerprints",
	Long: `Compare two compressed fingerprints

Both fingerprints are expected in the URL safe base64 encoded text form
and must have been calculated with the same algorithm. The printed score
is the fraction of matching bits over the overlapping part of the two
fingerprints and ranges from 0.0 (no similarity) to 1.0 (identical).
`,
	Args: cobra.ExactArgs(2),
	Run:  compareFingerprints,
}

func init() {
	RootCmd.AddCommand(compareCmd)
}

func compareFingerprints(cmd *cobra.Command, args []string) {

	a, algorithmA, err := chromaprint.DecodeFingerprint([]byte(args[0]), true)
	if err != nil {
		log.Fatal(err)
	}

	b, algorithmB, err := chromaprint.DecodeFingerprint([]byte(args[1]), true)
	if err != nil {
		log.Fatal(err)
	}

	if algorithmA != algorithmB {
		log.Fatalf("fingerprints were calculated with different algorithms (%s / %s)",
			algorithmA, algorithmB)
	}

	fmt.Printf("SCORE=%.3f\n", similarity(a, b))
}

// similarity returns the fraction of matching bits over the overlapping
// part of the two fingerprints.
func similarity(a, b []int32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}

	matching := 0
	for i := 0; i < n; i++ {
		matching += 32 - bits.OnesCount32(uint32(a[i])^uint32(b[i]))
	}

	return float64(matching) / float64(n*32)
}
