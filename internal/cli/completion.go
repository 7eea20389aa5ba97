package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/tonsigil/internal/account"
	"github.com/mrz1836/tonsigil/internal/chain"
	"github.com/mrz1836/tonsigil/internal/config"
	"github.com/mrz1836/tonsigil/internal/output"
)

// completionCmd generates shell completion scripts.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var completionCmd = &cobra.Command{
	Use:     "completion [bash|zsh|fish|powershell]",
	Short:   "Generate shell completion script",
	GroupID: groupConfig,
	Long: `Generate shell completion scripts for tonsigil.

To load completions:

Bash:
  $ source <(tonsigil completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ tonsigil completion bash > /etc/bash_completion.d/tonsigil
  # macOS:
  $ tonsigil completion bash > $(brew --prefix)/etc/bash_completion.d/tonsigil

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ tonsigil completion zsh > "${fpath[1]}/_tonsigil"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ tonsigil completion fish | source

  # To load completions for each session, execute once:
  $ tonsigil completion fish > ~/.config/fish/completions/tonsigil.fish

PowerShell:
  PS> tonsigil completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> tonsigil completion powershell > tonsigil.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Example: `  tonsigil completion bash
  tonsigil completion zsh > "${fpath[1]}/_tonsigil"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(w)
		case "zsh":
			return cmd.Root().GenZshCompletion(w)
		case "fish":
			return cmd.Root().GenFishCompletion(w, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletionWithDesc(w)
		}
		return nil
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(completionCmd)
}

// registerCompletions attaches dynamic completions. It runs after the
// persistent flags exist.
func registerCompletions() {
	_ = rootCmd.RegisterFlagCompletionFunc("network", completeNetworks)
	_ = rootCmd.RegisterFlagCompletionFunc("output", completeOutputFormats)

	for _, cmd := range []*cobra.Command{walletUseCmd, walletRevealCmd, walletReceiveCmd, walletBalanceCmd} {
		cmd.ValidArgsFunction = completeWalletAddresses
	}
	configGetCmd.ValidArgsFunction = completeConfigKeys
	configSetCmd.ValidArgsFunction = completeConfigKeys
}

func completeNetworks(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	networks := chain.Networks()
	names := make([]string, len(networks))
	for i, n := range networks {
		names[i] = n.String()
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func completeOutputFormats(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{
		string(output.FormatAuto) + "\tjson when piped, text otherwise",
		string(output.FormatText),
		string(output.FormatJSON),
	}, cobra.ShellCompDirectiveNoFileComp
}

// completeWalletAddresses offers the saved wallets of the selected
// network, described by name. Failures complete nothing.
func completeWalletAddresses(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	loaded, err := loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	store, err := account.Open(loaded.GetStorageBackend(), loaded.GetHome(), nil)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	state, err := store.Load(ctx, loaded.GetNetwork())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var candidates []string
	for _, w := range state.Wallets {
		if strings.HasPrefix(w.Address, toComplete) {
			candidates = append(candidates, w.Address+"\t"+w.Name)
		}
	}
	return candidates, cobra.ShellCompDirectiveNoFileComp
}

// completeConfigKeys offers dot paths of scalar settings for the first
// argument of config get and set.
func completeConfigKeys(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	root, err := configNode(config.Defaults())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var keys []string
	collectKeys(root, "", func(path string) {
		if strings.HasPrefix(path, toComplete) {
			keys = append(keys, path)
		}
	})
	return keys, cobra.ShellCompDirectiveNoFileComp
}

func collectKeys(node *yaml.Node, prefix string, emit func(string)) {
	if node.Kind != yaml.MappingNode {
		emit(prefix)
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		path := node.Content[i].Value
		if prefix != "" {
			path = prefix + "." + path
		}
		collectKeys(node.Content[i+1], path, emit)
	}
}
