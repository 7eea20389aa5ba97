package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/tonsigil/internal/config"
	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

// configCmd is the parent command for configuration operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Manage configuration",
	GroupID: groupConfig,
	Long: `View and modify tonsigil configuration settings.

Settings live in config.yaml under the home directory. Environment
variables and flags override them for a single run.`,
}

// configInitCmd initializes the configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a default configuration file at ~/.tonsigil/config.yaml.

If a configuration file already exists, this command will not overwrite it
unless --force is specified.`,
	Example: `  tonsigil config init
  tonsigil config init --force`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// configShowCmd shows the current configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the effective configuration, after environment variables and
flags are applied. API keys are masked.`,
	Example: `  tonsigil config show
  tonsigil config show -o json`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

// configPathCmd prints the configuration file location.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configPathCmd = &cobra.Command{
	Use:     "path",
	Short:   "Print the configuration file path",
	Long:    `Print the path of the configuration file for the current home directory.`,
	Example: `  tonsigil config path`,
	Args:    cobra.NoArgs,
	RunE:    runConfigPath,
}

// configGetCmd gets a specific configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configGetCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Get a configuration value",
	Long: `Get a specific configuration value by its path.

The path uses dot notation to navigate the configuration tree.`,
	Example: `  tonsigil config get network
  tonsigil config get networks.testnet.api
  tonsigil config get discovery.parallel`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

// configSetCmd sets a configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configSetCmd = &cobra.Command{
	Use:   "set <path> <value>",
	Short: "Set a configuration value",
	Long: `Set a specific configuration value by its path.

The path uses dot notation to navigate the configuration tree. The new
configuration is validated before the file is written.`,
	Example: `  tonsigil config set network testnet
  tonsigil config set networks.mainnet.api_key YOUR_KEY
  tonsigil config set storage.backend badger`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var configForce bool

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite existing configuration")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	cc := GetCmdContext(cmd)
	configPath := config.Path(cc.Cfg.GetHome())

	if _, err := os.Stat(configPath); err == nil && !configForce {
		return sigilerr.WithSuggestion(
			sigilerr.ErrInvalidInput,
			fmt.Sprintf("configuration already exists at %s. Use --force to overwrite.", configPath),
		)
	}

	defaultCfg := config.Defaults()
	defaultCfg.Home = cc.Cfg.GetHome()
	if err := config.Save(defaultCfg, configPath); err != nil {
		return sigilerr.Wrap(err, "writing config file")
	}

	w := cmd.OutOrStdout()
	out(w, "Configuration initialized at %s\n", configPath)
	outln(w)
	outln(w, "Edit this file to configure:")
	outln(w, "  - network: Default network (mainnet/testnet)")
	outln(w, "  - networks.<network>.api_key: Your toncenter API key (optional)")
	outln(w, "  - discovery.parallel: Probe contract versions concurrently")
	outln(w, "  - storage.backend: Account storage (file/badger)")
	outln(w, "  - logging.level: Log level (off/error/info/debug)")
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cc := GetCmdContext(cmd)
	data, err := yaml.Marshal(maskSecrets(cfg))
	if err != nil {
		return err
	}
	// Decode into a plain map so JSON output keeps the YAML key names.
	var settings map[string]any
	if err = yaml.Unmarshal(data, &settings); err != nil {
		return err
	}
	return cc.Fmt.Emit(settings, func(w io.Writer) error {
		_, werr := w.Write(data)
		return werr
	})
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	outln(cmd.OutOrStdout(), config.Path(GetCmdContext(cmd).Cfg.GetHome()))
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	value, err := getConfigValue(cfg, args[0])
	if err != nil {
		return err
	}
	outln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path, value := args[0], args[1]
	configPath := config.Path(GetCmdContext(cmd).Cfg.GetHome())

	current, err := config.LoadOrDefault(configPath)
	if err != nil {
		return sigilerr.WithCause(sigilerr.ErrConfigInvalid, err)
	}

	updated, err := setConfigValue(current, path, value)
	if err != nil {
		return err
	}
	if err = updated.Validate(); err != nil {
		return err
	}
	if err = config.Save(updated, configPath); err != nil {
		return sigilerr.Wrap(err, "saving config")
	}

	out(cmd.OutOrStdout(), "Set %s = %s\n", path, value)
	return nil
}

// maskSecrets returns a copy with API keys shortened.
func maskSecrets(c *config.Config) *config.Config {
	masked := *c
	masked.Networks.Mainnet.APIKey = maskKey(c.Networks.Mainnet.APIKey)
	masked.Networks.Testnet.APIKey = maskKey(c.Networks.Testnet.APIKey)
	return &masked
}

func maskKey(key string) string {
	switch {
	case key == "":
		return ""
	case len(key) >= 4:
		return key[:4] + "..."
	default:
		return "***..."
	}
}

// configNode encodes c as a YAML tree so settings can be addressed by
// their dotted key path.
func configNode(c *config.Config) (*yaml.Node, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err = yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Content[0], nil
}

// lookupNode walks a mapping node along dot-separated keys.
func lookupNode(root *yaml.Node, path string) (*yaml.Node, error) {
	node := root
	for _, key := range strings.Split(path, ".") {
		if node.Kind != yaml.MappingNode {
			return nil, unknownKey(path)
		}
		var next *yaml.Node
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == key {
				next = node.Content[i+1]
				break
			}
		}
		if next == nil {
			return nil, unknownKey(path)
		}
		node = next
	}
	return node, nil
}

func unknownKey(path string) error {
	return sigilerr.WithSuggestion(
		sigilerr.WithDetails(sigilerr.ErrInvalidInput, map[string]string{"key": path}),
		fmt.Sprintf("configuration path '%s' not found. See: tonsigil config show", path),
	)
}

// getConfigValue retrieves a value from the config using dot notation.
// Sections are printed as YAML.
func getConfigValue(c *config.Config, path string) (string, error) {
	root, err := configNode(c)
	if err != nil {
		return "", err
	}
	node, err := lookupNode(root, path)
	if err != nil {
		return "", err
	}
	if node.Kind == yaml.ScalarNode {
		return node.Value, nil
	}
	data, err := yaml.Marshal(node)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// setConfigValue returns a copy of c with the scalar at path replaced.
// The value must decode into the field's type.
func setConfigValue(c *config.Config, path, value string) (*config.Config, error) {
	root, err := configNode(c)
	if err != nil {
		return nil, err
	}
	node, err := lookupNode(root, path)
	if err != nil {
		return nil, err
	}
	if node.Kind != yaml.ScalarNode {
		return nil, sigilerr.WithSuggestion(
			sigilerr.WithDetails(sigilerr.ErrInvalidInput, map[string]string{"key": path}),
			"only single values can be set; name a key inside this section",
		)
	}

	node.Value = value
	node.Style = 0
	if node.Tag == "!!str" {
		node.Style = yaml.DoubleQuotedStyle
	}

	data, err := yaml.Marshal(root)
	if err != nil {
		return nil, err
	}
	updated := config.Defaults()
	if err = yaml.Unmarshal(data, updated); err != nil {
		return nil, sigilerr.WithCause(sigilerr.ErrConfigInvalid, fmt.Errorf("%s: %w", path, err))
	}
	return updated, nil
}
