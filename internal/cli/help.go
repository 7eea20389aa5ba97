package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const (
	// annotationEnriched marks a command whose Long text already carries
	// the generated help sections.
	annotationEnriched = "tonsigil.enriched"

	networkScopeNote = "Wallets are kept per network. This command uses the account of the\nnetwork chosen with --network (default from config)."
)

// walkCommands visits every command in the tree depth-first.
func walkCommands(cmd *cobra.Command, fn func(*cobra.Command)) {
	fn(cmd)
	for _, sub := range cmd.Commands() {
		walkCommands(sub, fn)
	}
}

// enrichHelp adds the generated sections to a command's Long text once.
func enrichHelp(cmd *cobra.Command) {
	if cmd.Annotations[annotationEnriched] != "" {
		return
	}
	enrichParentLong(cmd)
	enrichNetworkScope(cmd)

	if cmd.Annotations == nil {
		cmd.Annotations = make(map[string]string)
	}
	cmd.Annotations[annotationEnriched] = "true"
}

// enrichParentLong appends the list of available subcommands, with their
// aliases, to a parent command's Long description.
func enrichParentLong(cmd *cobra.Command) {
	if !cmd.HasSubCommands() {
		return
	}

	var sb strings.Builder
	sb.WriteString(cmd.Long)
	sb.WriteString("\n\nSubcommands:\n")

	for _, sub := range cmd.Commands() {
		if !sub.IsAvailableCommand() {
			continue
		}
		short := sub.Short
		if len(sub.Aliases) > 0 {
			short += " (alias: " + strings.Join(sub.Aliases, ", ") + ")"
		}
		fmt.Fprintf(&sb, "  %-16s %s\n", sub.Name(), short)
	}

	cmd.Long = sb.String()
}

// enrichNetworkScope notes on runnable wallet subcommands that they act on
// the selected network's account.
func enrichNetworkScope(cmd *cobra.Command) {
	if !cmd.Runnable() || cmd.Parent() != walletCmd {
		return
	}
	cmd.Long = strings.TrimRight(cmd.Long, "\n") + "\n\n" + networkScopeNote
}
