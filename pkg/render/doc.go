// Package render draws mapped branch networks.
//
// The [nodelink] subpackage turns a network graph into Graphviz DOT and
// renders it to SVG in-process. [ToPDF] and [ToPNG] convert that SVG with
// the external rsvg-convert tool:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// [nodelink]: github.com/ferreusveritas/dynamictrees/pkg/render/nodelink
package render
