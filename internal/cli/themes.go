package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pinout/pkg/command"
	"github.com/matzehuels/pinout/pkg/errors"
	"github.com/matzehuels/pinout/pkg/render"
	"github.com/matzehuels/pinout/pkg/render/themegraph"
	"github.com/matzehuels/pinout/pkg/theme"
)

// themesCommand lists the themes a description's setup phase defines.
func (c *CLI) themesCommand() *cobra.Command {
	var graph string
	var detailed bool
	var only []string

	cmd := &cobra.Command{
		Use:   "themes [file]",
		Short: "Show the themes defined by a description",
		Long: `Run the setup phase of a description and list every theme it defines.

With --theme, list only the named themes, e.g. --theme BOX_PORT,GROUP_PWM.
With --graph, write the theme cascade as an SVG or PDF graph instead.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeDescriptions,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := c.resolveInputs(args)
			if err != nil || len(inputs) == 0 {
				return err
			}
			return c.runThemes(cmd, inputs[0], graph, detailed, only)
		},
	}

	cmd.Flags().StringVar(&graph, "graph", "", "write the theme graph to this .svg or .pdf file")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "list attributes in graph nodes")
	cmd.Flags().StringSliceVar(&only, "theme", nil, "only list these themes (e.g. BOX_PORT, TYPE_IO, DEFAULT)")
	return cmd
}

func (c *CLI) runThemes(cmd *cobra.Command, input, graph string, detailed bool, only []string) error {
	ctx := cmd.Context()
	desc, err := os.ReadFile(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read description")
	}
	cmds, err := command.Parse(bytes.NewReader(desc))
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	r, err := render.New(render.WithLogger(loggerFromContext(ctx)))
	if err != nil {
		return err
	}
	if err := r.Setup(cmds); err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	store := r.Store()

	if graph == "" {
		keys, err := selectThemes(store, only)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), styleTitle.Render("Themes in "+filepath.Base(input)))
		fmt.Fprintln(cmd.OutOrStdout(), themeTable(store, keys))
		return nil
	}

	dot := themegraph.ToDOT(store, themegraph.Options{Detailed: detailed})
	var data []byte
	switch strings.ToLower(filepath.Ext(graph)) {
	case ".svg":
		data, err = themegraph.RenderSVG(ctx, dot)
	case ".pdf":
		data, err = themegraph.RenderPDF(ctx, dot)
	case ".dot", ".gv":
		data = []byte(dot)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "graph output %s must end in .svg, .pdf or .dot", graph)
	}
	if err != nil {
		return err
	}
	if err := writeOutput(graph, data); err != nil {
		return err
	}
	printSuccess("Wrote theme graph (%d themes)", len(store.Keys()))
	printFile(graph)
	return nil
}

// selectThemes resolves --theme names against s. Without names every theme
// is selected.
func selectThemes(s *theme.Store, names []string) ([]theme.Key, error) {
	if len(names) == 0 {
		return s.Keys(), nil
	}
	keys := make([]theme.Key, 0, len(names))
	for _, n := range names {
		k := theme.ParseKey(strings.TrimSpace(n))
		if !s.Has(k) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "theme %s is not defined", k)
		}
		keys = append(keys, k)
	}
	return keys, nil
}
