package commands

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/hdcat/config"
	"github.com/teranos/hdcat/discovery"
	"github.com/teranos/hdcat/display"
	"github.com/teranos/hdcat/errors"
	"github.com/teranos/hdcat/step"
)

// StepsCmd represents the steps command
var StepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "List registered conversion steps",
	Long: `List every step the pipeline can run: the builtin conversion stages
plus any WASM step modules discovered in the steps directory.

A step module is a .wasm file, optionally with a sidecar manifest
(<module>.wasm.toml) carrying its name and description. Modules that
fail to load are skipped with a warning; they never block the builtin
steps.

Examples:
  hdcat steps             # Table of steps and descriptions
  hdcat steps --json      # Machine-readable listing`,
	RunE: runSteps,
}

// stepInfo is the listing entry for one registered step.
type stepInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func runSteps(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	reg, loader, err := discoverSteps(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer loader.Close(cmd.Context())

	infos := make([]stepInfo, 0, reg.Len())
	for _, name := range reg.Names() {
		info := stepInfo{Name: name}
		if s, ok := reg.Get(name); ok {
			info.Description = step.Describe(s)
		}
		infos = append(infos, info)
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(infos)
	}

	rows := pterm.TableData{{"NAME", "DESCRIPTION"}}
	for _, info := range infos {
		rows = append(rows, []string{info.Name, info.Description})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		return err
	}
	pterm.Info.Printfln("%d steps registered (modules dir: %s)", len(infos), cfg.GetModulesDir())
	return nil
}

// discoverSteps builds a registry with the builtin steps plus whatever
// modules the configured steps directory provides. The caller owns the
// returned loader and must Close it to release module runtimes.
func discoverSteps(ctx context.Context, cfg *config.Config) (*step.Registry, *discovery.Loader, error) {
	reg := step.NewRegistry()
	loader := discovery.New(reg, cfg.GetModulesDir())
	if _, err := loader.Load(ctx); err != nil {
		return nil, nil, errors.Wrap(err, "step discovery failed")
	}
	return reg, loader, nil
}
