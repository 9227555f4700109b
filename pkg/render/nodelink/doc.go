// Package nodelink renders branch networks as node-link diagrams.
//
// Each voxel of a mapped network becomes a node and each step of the
// mapping walk an edge. Roots are drawn as houses, endpoints as green
// ellipses, and branch outlines thicken with radius.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// SVG rendering runs Graphviz in-process through
// [github.com/goccy/go-graphviz]. PDF and PNG need librsvg (rsvg-convert).
package nodelink
