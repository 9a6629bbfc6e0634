// Command edupathctl siembra stores, corre el quiz en terminal y puntua respuestas offline.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "edupathctl",
	Short: "EduPath admin and offline tooling",
	Long:  "edupathctl loads the embedded catalog into a store, runs the assessment quiz in the terminal and scores answer files offline.",
}

var streamsFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&streamsFile, "streams", "", "Path to a stream table YAML (defaults to the embedded table)")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
