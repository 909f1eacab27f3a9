package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pinout/pkg/command"
	"github.com/matzehuels/pinout/pkg/errors"
	"github.com/matzehuels/pinout/pkg/render"
)

// checkCommand validates a description by rendering it without export.
func (c *CLI) checkCommand() *cobra.Command {
	var strict bool
	var assets string

	cmd := &cobra.Command{
		Use:               "check [file]",
		Short:             "Validate a description without writing output",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeDescriptions,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := c.resolveInputs(args)
			if err != nil || len(inputs) == 0 {
				return err
			}
			if !cmd.Flags().Changed("strict") {
				strict = c.Config.Render.Strict
			}
			if !cmd.Flags().Changed("assets") {
				assets = c.Config.Render.AssetDir
			}
			return c.runCheck(cmd, inputs[0], assets, strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail on undefined wire and box themes")
	cmd.Flags().StringVar(&assets, "assets", "", "asset directory (default: the description's directory)")
	return cmd
}

func (c *CLI) runCheck(cmd *cobra.Command, input, assets string, strict bool) error {
	logger := loggerFromContext(cmd.Context())
	desc, err := os.ReadFile(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read description")
	}
	cmds, err := command.Parse(bytes.NewReader(desc))
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	opts := []render.Option{
		render.WithLogger(logger),
		render.WithAssets(assetFS(assets, input)),
		render.WithPage(c.Config.Render.Page),
		render.WithDPI(c.Config.Render.DPI),
	}
	if strict {
		opts = append(opts, render.WithStrictReferences())
	}
	doc, err := render.Render(cmd.Context(), cmds, opts...)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	w, h := doc.Resolution()
	printSuccess("%s is valid", filepath.Base(input))
	printKeyValue("Page", fmt.Sprintf("%s (%dx%d px at %d dpi)", doc.Page().Name, w, h, doc.DPI()))
	printKeyValue("Commands", strconv.Itoa(len(cmds)))
	printKeyValue("Elements", strconv.Itoa(len(doc.Elements())))
	if assets := command.Assets(cmds); len(assets) > 0 {
		printKeyValue("Assets", strconv.Itoa(len(assets)))
	}
	if links := doc.StyleImports(); len(links) > 0 {
		printKeyValue("Fonts", strings.Join(links, ", "))
	}
	if off := doc.OffPage(); len(off) > 0 {
		printWarning("%d elements reach past the page", len(off))
	}
	printNextStep("Render it", "pinout render "+input)
	return nil
}
