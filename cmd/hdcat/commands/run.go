package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/hdcat/config"
	"github.com/teranos/hdcat/display"
	"github.com/teranos/hdcat/errors"
	"github.com/teranos/hdcat/pipeline"
	"github.com/teranos/hdcat/record"
	"github.com/teranos/hdcat/step"
	"github.com/teranos/hdcat/steps"
)

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run <step> [input.csv]",
	Short: "Run a single step by name",
	Long: `Run one registered step outside the conversion pipeline.

When an input file is given it is read through the csv_reader step
first and the resulting record set becomes the step's input. Without
one, the step runs on whatever input it gets (nil), which lets steps
with no data dependency run standalone.

Options are passed as repeatable --opt key=value pairs or collected
in a YAML file via --options; --opt pairs win on conflict.

Examples:
  hdcat run validator data.csv --opt "required_fields=name age"
  hdcat run custom_transform data.csv --opt add_field=source --opt add_value=csv
  hdcat run csv_reader data.csv                # Just parse, show records
  hdcat run rdf_generator data.csv --opt format=ntriples
  hdcat run validator data.csv --options checks.yaml`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRun,
}

var (
	runOpts        []string
	runOptionsFile string
)

func init() {
	RunCmd.Flags().StringArrayVar(&runOpts, "opt", nil, "Step option as key=value (repeatable)")
	RunCmd.Flags().StringVar(&runOptionsFile, "options", "", "YAML file with step options")
}

func runRun(cmd *cobra.Command, args []string) error {
	name := args[0]
	source := ""
	if len(args) > 1 {
		source = args[1]
	}

	stepOpts, err := collectStepOptions()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
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

	// The reader takes the path itself; every other step gets the records
	// loaded from it.
	var input any
	if source != "" {
		if name == steps.NameCSVReader {
			input = source
		} else if _, err := converter.Load(cmd.Context(), nil); err != nil {
			return err
		}
	}

	out, err := converter.Run(cmd.Context(), name, input, stepOpts)
	if err != nil {
		return err
	}

	return renderRunResult(cmd, out)
}

// collectStepOptions merges the --options file with --opt pairs, pairs
// winning on conflict.
func collectStepOptions() (step.Options, error) {
	opts := step.Options{}

	if runOptionsFile != "" {
		data, err := os.ReadFile(runOptionsFile)
		if err != nil {
			return nil, errors.Wrapf(err, "read options file %s", runOptionsFile)
		}
		if err := yaml.Unmarshal(data, &opts); err != nil {
			return nil, errors.Wrapf(err, "parse options file %s", runOptionsFile)
		}
	}

	for _, pair := range runOpts {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, errors.Newf("invalid option %q, want key=value", pair)
		}
		opts[key] = value
	}
	return opts, nil
}

func renderRunResult(cmd *cobra.Command, out any) error {
	if display.ShouldOutputJSON(cmd) {
		if set, ok := out.(record.Set); ok {
			return display.OutputJSON(set.ToMaps())
		}
		return display.OutputJSON(out)
	}

	switch v := out.(type) {
	case record.Set:
		renderRecordTable(v)
	case *steps.ValidationResult:
		renderValidation(v)
	case string:
		fmt.Print(v)
		if !strings.HasSuffix(v, "\n") {
			fmt.Println()
		}
	default:
		return display.OutputJSON(out)
	}
	return nil
}

func renderRecordTable(set record.Set) {
	if len(set) == 0 {
		pterm.Info.Println("No records")
		return
	}

	fields := fieldUnion(set)
	rows := pterm.TableData{fields}
	for _, r := range set {
		row := make([]string, len(fields))
		for i, f := range fields {
			row[i] = r.Value(f).String()
		}
		rows = append(rows, row)
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		pterm.Error.Println(err)
		return
	}
	pterm.Info.Printfln("%d records", len(set))
}

func renderValidation(result *steps.ValidationResult) {
	for _, w := range result.Warnings {
		pterm.Warning.Println(w)
	}
	if result.Valid {
		pterm.Success.Println("Validation passed")
		return
	}
	pterm.Error.Printfln("Validation failed with %d finding(s):", len(result.Errors))
	for _, e := range result.Errors {
		pterm.Printf("  %s\n", e)
	}
}

// fieldUnion returns every field name appearing in the set, in first
// appearance order.
func fieldUnion(set record.Set) []string {
	var order []string
	seen := make(map[string]bool)
	for _, r := range set {
		for _, f := range r.Fields() {
			if !seen[f] {
				seen[f] = true
				order = append(order, f)
			}
		}
	}
	return order
}
