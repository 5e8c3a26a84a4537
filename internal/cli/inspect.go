package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apperrors "github.com/resograph/resograph/pkg/errors"
	"github.com/resograph/resograph/pkg/render/nodelink"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	format   string // output format: dot or svg
	output   string // output file path (stdout if empty)
	detailed bool   // include attribute values in node labels
	noCache  bool   // bypass the payload cache
}

// inspectCommand creates the inspect command. It normalizes a payload and
// renders the resulting graph as DOT or SVG.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect <file-or-url>",
		Short: "Render a payload's object graph as DOT or SVG",
		Long: `Normalize a payload and render the object graph as a node-link diagram.

Placeholder records (referenced but never delivered) are drawn dashed.

Examples:
  resograph inspect articles.json                      # DOT to stdout
  resograph inspect articles.json -f svg -o graph.svg
  resograph inspect articles.json --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "dot", "output format (dot, svg)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include attribute values in node labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the payload cache")

	return cmd
}

func (c *CLI) runInspect(cmd *cobra.Command, source string, opts inspectOpts) error {
	result, err := c.runPipeline(cmd.Context(), source, opts.noCache, false)
	if err != nil {
		return err
	}
	s := result.Store

	dot := nodelink.ToDOT(s, nodelink.Options{Detailed: opts.detailed})

	var out []byte
	switch opts.format {
	case "dot":
		out = []byte(dot)
	case "svg":
		out, err = nodelink.RenderSVG(dot)
		if err != nil {
			return err
		}
	default:
		return apperrors.New(apperrors.ErrCodeUnsupported, "unknown format %q (use dot or svg)", opts.format)
	}

	if opts.output == "" {
		fmt.Print(string(out))
		return nil
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Rendered %d records", s.Size())
	printFile(opts.output)
	return nil
}
