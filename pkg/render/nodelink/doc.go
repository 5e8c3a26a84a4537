// Package nodelink renders record graphs as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// records appear as boxes connected by relationship arrows. It gives a quick
// structural view of a normalized store: which records exist, how they link,
// and which are still placeholders awaiting their own data.
//
// # Usage
//
// Convert a store to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(s, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include attribute values
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with rounded box
// nodes. Placeholder records are drawn dashed with grey fill.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
