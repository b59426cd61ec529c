package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/hdcat/cmd/hdcat/commands"
	"github.com/teranos/hdcat/logger"
)

var rootCmd = &cobra.Command{
	Use:   "hdcat",
	Short: "hdcat - Convert CSV data to HealthDCAT-AP RDF",
	Long: `hdcat - CSV to RDF converter for the HealthDCAT-AP profile.

hdcat reads tabular health data, validates it against required-field
rules, and emits RDF metadata (Turtle or N-Triples) describing the
dataset and its column schema. Conversion stages are pluggable: WASM
step modules dropped into the steps directory are discovered at
startup and can be run standalone or as pipeline replacements.

Available commands:
  convert  - Convert a CSV file to RDF
  steps    - List registered conversion steps
  run      - Run a single step by name
  config   - Manage hdcat configuration
  version  - Show version information

Examples:
  hdcat convert data.csv                        # Turtle to stdout
  hdcat convert data.csv --format ntriples      # N-Triples instead
  hdcat convert data.csv --required-fields name # Fail on missing names
  hdcat steps                                   # What can run
  hdcat run validator data.csv                  # One step, ad hoc`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize global logger before any command runs
		jsonOutput, _ := cmd.Flags().GetBool("json")
		verbosity, _ := cmd.Flags().GetCount("verbose")
		if err := logger.Initialize(jsonOutput, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json", false, "Machine-readable output (JSON logs and results)")

	// Add commands
	rootCmd.AddCommand(commands.ConvertCmd)
	rootCmd.AddCommand(commands.StepsCmd)
	rootCmd.AddCommand(commands.RunCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	err := rootCmd.Execute()
	logger.Cleanup()
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
