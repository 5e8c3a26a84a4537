package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/resograph/resograph/pkg/pipeline"
	"github.com/resograph/resograph/pkg/render/nodelink"
	"github.com/resograph/resograph/pkg/store"
)

// syncOpts holds the command-line flags for the sync command.
type syncOpts struct {
	noCache bool   // bypass the payload cache
	refresh bool   // refetch even if a cached copy exists
	dotOut  string // write the graph as DOT to this path
	svgOut  string // write the graph as SVG to this path
}

// syncCommand creates the sync command. It normalizes a payload from a local
// file or an HTTP URL into a fresh store and reports what the graph contains.
func (c *CLI) syncCommand() *cobra.Command {
	var opts syncOpts

	cmd := &cobra.Command{
		Use:   "sync <file-or-url>",
		Short: "Normalize a payload into an object graph",
		Long: `Normalize a resource-linking payload into a de-duplicated object graph.

The argument is either a local JSON file or an HTTP(S) URL. Fetched payloads
are cached under the XDG cache directory; use --refresh to refetch or
--no-cache to skip caching entirely.

Examples:
  resograph sync articles.json
  resograph sync https://api.example.com/articles --refresh
  resograph sync articles.json --dot graph.dot --svg graph.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSync(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the payload cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "refetch even if cached")
	cmd.Flags().StringVar(&opts.dotOut, "dot", "", "write the graph as DOT to this file")
	cmd.Flags().StringVar(&opts.svgOut, "svg", "", "write the graph as SVG to this file")

	return cmd
}

func (c *CLI) runSync(ctx context.Context, source string, opts syncOpts) error {
	prog := newProgress(c.Logger)
	result, err := c.runPipeline(ctx, source, opts.noCache, opts.refresh)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Normalized %d resources", result.ResourceCount))

	if len(result.Sync.Errors) > 0 {
		for _, e := range result.Sync.Errors {
			printWarning("payload error: %s %s", e.Status, e.Title)
		}
		return nil
	}

	printSummary(result.Store, result.Sync, result.Cached)

	if opts.dotOut != "" || opts.svgOut != "" {
		if err := writeGraph(result.Store, opts.dotOut, opts.svgOut); err != nil {
			return err
		}
	}
	printNextStep("Browse the graph", fmt.Sprintf("resograph browse %s", source))
	return nil
}

// runPipeline normalizes the payload at source, showing a spinner while
// remote payloads are fetched. The runner logs through the context logger
// attached by RootCommand.
func (c *CLI) runPipeline(ctx context.Context, source string, noCache, refresh bool) (*pipeline.Result, error) {
	runner := pipeline.NewRunner(newCache(noCache), loggerFromContext(ctx))
	runner.TTL = defaultCacheTTL

	var spin *Spinner
	if pipeline.IsURL(source) {
		spin = newSpinner(ctx, fmt.Sprintf("Fetching %s", source))
		spin.Start()
	}
	result, err := runner.Run(ctx, source, pipeline.Options{Refresh: refresh})
	if spin != nil {
		spin.Stop()
	}
	return result, err
}

// printSummary reports the normalized graph: record counts per type, how many
// records are still placeholders, and any document meta.
func printSummary(s *store.Store, result store.Result, cached bool) {
	placeholders := 0
	for _, m := range s.All() {
		if m.Placeholder() {
			placeholders++
		}
	}
	printStats(s.Size(), placeholders, cached)

	for _, typeName := range s.Types() {
		printKeyValue(typeName, fmt.Sprintf("%d", len(s.FindAll(typeName))))
	}
	for k, v := range result.Meta {
		printDetail("meta %s: %v", k, v)
	}
}

// writeGraph renders the store and writes DOT and/or SVG files.
func writeGraph(s *store.Store, dotOut, svgOut string) error {
	dot := nodelink.ToDOT(s, nodelink.Options{})

	if dotOut != "" {
		if err := os.WriteFile(dotOut, []byte(dot), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dotOut, err)
		}
		printFile(dotOut)
	}
	if svgOut != "" {
		svg, err := nodelink.RenderSVG(dot)
		if err != nil {
			return err
		}
		if err := os.WriteFile(svgOut, svg, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", svgOut, err)
		}
		printFile(svgOut)
	}
	return nil
}
