package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/hdcat/config"
	"github.com/teranos/hdcat/errors"
)

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage hdcat configuration",
	Long: `Display and manage hdcat configuration settings.

Configuration sources (in order of precedence):
1. Environment variables (HDCAT_* prefix)
2. Project config (./hdcat.toml, searched upward)
3. User config (~/.config/hdcat/config.toml)
4. System config (/etc/hdcat/config.toml)
5. Default values

Examples:
  hdcat config show                # Show current configuration
  hdcat config show --format json  # Show configuration in JSON format
  hdcat config get convert.format  # Get specific config value
  hdcat config init                # Write the default user config
  hdcat config path                # Print the user config path`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the current hdcat configuration from all sources",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., convert.format, steps.modules_dir)",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default user configuration file",
	Long: `Write the default configuration to the user config path.

Refuses to overwrite an existing file; edit it in place instead. New
writes of an existing path keep up to three rotating backups.`,
	RunE: runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the user configuration file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(config.UserConfigPath())
		return nil
	},
}

var configFormat string

func init() {
	// Add flags
	configShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")

	// Add subcommands
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configGetCmd)
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	switch configFormat {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Println(string(data))

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Printf("# hdcat configuration\n%s", string(data))

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Printf("# hdcat configuration\n%s", string(data))

	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", configFormat)
	}

	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	v := config.GetViper()
	if !v.IsSet(key) {
		return errors.Newf("configuration key %q not found", key)
	}

	fmt.Println(v.Get(key))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := config.Init()
	if err != nil {
		return err
	}

	pterm.Success.Printfln("Wrote default configuration to %s", path)
	return nil
}
