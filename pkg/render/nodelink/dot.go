package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/resograph/resograph/pkg/record"
	"github.com/resograph/resograph/pkg/store"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes attribute values in node labels.
	// When false, only the record identity is shown.
	Detailed bool
}

// ToDOT converts a store's record graph to Graphviz DOT format for node-link
// visualization. The resulting DOT string can be rendered using [RenderSVG].
//
// Records appear as boxes labeled with their identity. Placeholder records
// (created by forward relationship references and never populated) are
// rendered with dashed outlines and grey fill. Relationships become labeled
// edges; a to-many relationship contributes one edge per related record.
func ToDOT(s *store.Store, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	records := s.All()
	for _, m := range records {
		label := fmtLabel(m, opts.Detailed)
		attrs := fmtAttrs(m, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(m), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, m := range records {
		for _, name := range m.RelationshipNames() {
			value, _ := m.Relationship(name)
			switch v := value.(type) {
			case *record.Record:
				fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", nodeID(m), nodeID(v), name)
			case []*record.Record:
				for _, related := range v {
					fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", nodeID(m), nodeID(related), name)
				}
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(m *record.Record) string {
	return m.Identity().String()
}

func fmtLabel(m *record.Record, detailed bool) string {
	label := nodeID(m)
	if !detailed {
		return label
	}

	parts := []string{label}
	for _, name := range m.AttributeNames() {
		value, _ := m.Attribute(name)
		parts = append(parts, fmt.Sprintf("%s: %v", name, value))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(m *record.Record, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if m.Placeholder() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
