package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pinout/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
// The configuration is loaded before any subcommand runs; --config selects
// the file.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Pinout renders pinout diagrams from CSV descriptions",
		Long: `Pinout turns a comma-separated description of labels, themes and pins into
an SVG pinout diagram, with optional PNG and PDF export.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (.toml, .yaml); default $XDG_CONFIG_HOME/pinout/config.toml")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.themesCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
