package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pinout/pkg/document"
	"github.com/matzehuels/pinout/pkg/pipeline"
)

// completionCommand generates shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for your shell.

  $ source <(pinout completion bash)
  $ pinout completion zsh > "${fpath[1]}/_pinout"
  $ pinout completion fish | source
  PS> pinout completion powershell | Out-String | Invoke-Expression

Completion covers subcommands, flags, description files, formats and pages.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeDescriptions offers description files for positional arguments.
func completeDescriptions(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{strings.TrimPrefix(descriptionExt, ".")}, cobra.ShellCompDirectiveFilterFileExt
}

// registerRenderCompletions completes the --format and --page values.
func registerRenderCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, typed string) ([]string, cobra.ShellCompDirective) {
		// Complete the last element of a comma-separated list.
		prefix := ""
		if i := strings.LastIndexByte(typed, ','); i >= 0 {
			prefix = typed[:i+1]
		}
		var out []string
		for _, f := range []string{pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF} {
			out = append(out, prefix+f)
		}
		return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	})
	_ = cmd.RegisterFlagCompletionFunc("page", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return document.PageNames(), cobra.ShellCompDirectiveNoFileComp
	})
}
