package cmd

import (
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/dh1tw/gochromaprint/chromaprint"
)

var version string
var commitHash string

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gochromaprint",
	Long:  `All software has versions. This is gochromaprint's.`,
	Run: func(cmd *cobra.Command, args []string) {
		printGochromaprintVersion()
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}

func printGochromaprintVersion() {
	buildDate := time.Now().Format(time.RFC3339)
	engine := "built-in"
	if chromaprint.NativeAvailable() {
		engine = "libchromaprint"
	}
	fmt.Printf("gochromaprint Version: %s, %s/%s, BuildDate: %s, Commit: %s, Engine: %s\n",
		version, runtime.GOOS, runtime.GOARCH, buildDate, commitHash, engine)
}
