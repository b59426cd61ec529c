package commands

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/hdcat/config"
	"github.com/teranos/hdcat/display"
	"github.com/teranos/hdcat/errors"
	"github.com/teranos/hdcat/pipeline"
)

// ConvertCmd represents the convert command
var ConvertCmd = &cobra.Command{
	Use:   "convert <file.csv>",
	Short: "Convert a CSV file to HealthDCAT-AP RDF",
	Long: `Convert a CSV file to RDF metadata following the HealthDCAT-AP profile.

The pipeline reads the file, optionally validates every record against
the required-field rules, and serializes a dataset description with a
csvw column schema. The document goes to stdout unless --output names
a file, so the result can be piped straight into other tools.

Validation failures abort the conversion and report every finding at
once. Validation warnings (an empty dataset, for example) are printed
but never fail the run.

Settings resolve in order: built-in defaults, the config file, a
--profile file, then flags.

Examples:
  hdcat convert data.csv                             # Turtle to stdout
  hdcat convert data.csv --format ntriples           # N-Triples
  hdcat convert data.csv --output data.ttl           # Write to file
  hdcat convert data.csv --required-fields name,age  # Enforce fields
  hdcat convert data.csv --no-validate               # Skip validation
  hdcat convert data.csv --profile release.yaml      # Options from YAML
  hdcat convert data.csv --dataset-uri http://data.example.org/d1`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

var (
	convertFormat       string
	convertDatasetURI   string
	convertNoValidate   bool
	convertRequired     []string
	convertNoAllowEmpty bool
	convertProfile      string
	convertOutput       string
	convertDelimiter    string
	convertKeywords     []string
)

func init() {
	ConvertCmd.Flags().StringVar(&convertFormat, "format", "", "Output format: turtle, ntriples")
	ConvertCmd.Flags().StringVar(&convertDatasetURI, "dataset-uri", "", "Dataset URI (default derived from the file name)")
	ConvertCmd.Flags().BoolVar(&convertNoValidate, "no-validate", false, "Skip the validation stage")
	ConvertCmd.Flags().StringSliceVar(&convertRequired, "required-fields", nil, "Fields every record must carry")
	ConvertCmd.Flags().BoolVar(&convertNoAllowEmpty, "no-allow-empty", false, "Treat empty values in required fields as errors")
	ConvertCmd.Flags().StringVar(&convertProfile, "profile", "", "YAML profile with conversion options")
	ConvertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Write the document to a file instead of stdout")
	ConvertCmd.Flags().StringVar(&convertDelimiter, "delimiter", "", "CSV field delimiter (default comma)")
	ConvertCmd.Flags().StringSliceVar(&convertKeywords, "keyword", nil, "Keyword to attach to the dataset (repeatable)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	source := args[0]

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	opts, err := convertOptions(cmd, cfg)
	if err != nil {
		return err
	}

	reg, loader, err := discoverSteps(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer loader.Close(cmd.Context())

	var emitter pipeline.WarningEmitter = pipeline.CLIEmitter{}
	if display.ShouldOutputJSON(cmd) {
		emitter = pipeline.JSONEmitter{}
	}

	converter := pipeline.New(source, reg, emitter)
	doc, err := converter.Convert(cmd.Context(), opts)
	if err != nil {
		return err
	}

	if convertOutput != "" {
		if err := os.WriteFile(convertOutput, []byte(doc), config.DefaultFilePermissions); err != nil {
			return errors.Wrapf(err, "failed to write %s", convertOutput)
		}
		pterm.Success.Printfln("Wrote %s", convertOutput)
		return nil
	}

	fmt.Print(doc)
	return nil
}

// convertOptions resolves the effective conversion settings: defaults,
// then the config file, then the --profile file, then flags.
func convertOptions(cmd *cobra.Command, cfg *config.Config) (pipeline.ConvertOptions, error) {
	opts := pipeline.DefaultConvertOptions()
	opts.Format = cfg.GetFormat()
	opts.Validate = cfg.Convert.Validate
	opts.AllowEmpty = cfg.Convert.AllowEmpty
	opts.RequiredFields = cfg.Convert.RequiredFields

	if convertProfile != "" {
		profiled, err := pipeline.ProfileFromYAML(convertProfile)
		if err != nil {
			return opts, err
		}
		opts = profiled
	}

	if cmd.Flags().Changed("format") {
		opts.Format = convertFormat
	}
	if cmd.Flags().Changed("dataset-uri") {
		opts.DatasetURI = convertDatasetURI
	}
	if convertNoValidate {
		opts.Validate = false
	}
	if cmd.Flags().Changed("required-fields") {
		opts.RequiredFields = convertRequired
	}
	if convertNoAllowEmpty {
		opts.AllowEmpty = false
	}
	if cmd.Flags().Changed("delimiter") {
		opts.Delimiter = convertDelimiter
	}
	if cmd.Flags().Changed("keyword") {
		opts.Keywords = convertKeywords
	}
	return opts, nil
}
