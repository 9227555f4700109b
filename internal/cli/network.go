package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ferreusveritas/dynamictrees/pkg/buildinfo"
	"github.com/ferreusveritas/dynamictrees/pkg/cache"
	"github.com/ferreusveritas/dynamictrees/pkg/dag"
	"github.com/ferreusveritas/dynamictrees/pkg/errors"
	dtio "github.com/ferreusveritas/dynamictrees/pkg/io"
	"github.com/ferreusveritas/dynamictrees/pkg/network"
	"github.com/ferreusveritas/dynamictrees/pkg/render/nodelink"
)

const (
	formatDOT  = "dot"
	formatJSON = "json"
	formatSVG  = "svg"
	formatPDF  = "pdf"
	formatPNG  = "png"

	pngScale = 2.0
)

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{formatDOT: true, formatJSON: true, formatSVG: true, formatPDF: true, formatPNG: true}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat,
				"invalid format: %s (must be 'dot', 'json', 'svg', 'pdf', or 'png')", f)
		}
	}
	return nil
}

// networkOpts holds the command-line flags for the network command.
type networkOpts struct {
	output   string   // output file (single format) or base path (multiple)
	formats  []string // output formats
	detailed bool     // include rows and radii in node labels
	noCache  bool     // bypass the render cache
}

// networkCommand creates the network command, which maps one tree and
// writes its network graph.
func (c *CLI) networkCommand() *cobra.Command {
	var formatsStr string
	var opts networkOpts

	cmd := &cobra.Command{
		Use:   "network <scene> <x,y,z>",
		Short: "Map a tree and export its branch network",
		Long: `Network maps the tree containing the coordinate from its root and writes
the resulting graph as Graphviz DOT, JSON, or a rendered SVG, PDF or PNG.

Rendered outputs are cached by scene contents and options.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runNetwork(cmd.Context(), args[0], args[1], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json, pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show rows and radii in node labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not read or write the render cache")

	return cmd
}

func (c *CLI) runNetwork(ctx context.Context, path, coord string, opts *networkOpts) error {
	scene, reg, err := c.loadScene(path)
	if err != nil {
		return err
	}
	starts, err := parseCoords([]string{coord})
	if err != nil {
		return err
	}

	a := network.NewAnalyzer(scene.Grid(), reg.Parts,
		network.WithSpecies(reg.Species),
		network.WithMaxDepth(reg.MaxDepth),
		network.WithLogger(c.Logger))
	root, ok := a.FindRoot(starts[0])
	if !ok {
		return errors.New(errors.ErrCodeRootNotFound, "no root found from %s", starts[0])
	}
	g, err := a.Graph(root)
	if err != nil {
		return err
	}
	printSuccess("Mapped %s", StyleTitle.Render(root.String()))

	sceneHash, err := hashScene(scene)
	if err != nil {
		return err
	}
	store, err := newCache(opts.noCache)
	if err != nil {
		return errors.Wrap(errors.ErrCodeCacheFailed, err, "open cache")
	}
	defer store.Close()

	r := &networkRenderer{
		cache:     store,
		keyer:     cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+":"+buildinfo.Version+":"),
		sceneHash: sceneHash,
		root:      root.String(),
		maxDepth:  reg.MaxDepth,
		detailed:  opts.detailed,
		title:     filepath.Base(path),
	}
	for _, f := range opts.formats {
		data, cached, err := r.render(ctx, g, f)
		if err != nil {
			return err
		}
		out := outputPath(path, opts.output, f, len(opts.formats))
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write %s", out)
		}
		fmt.Println(statsLine(cached,
			fmt.Sprintf("%d nodes", g.NodeCount()),
			fmt.Sprintf("%d edges", g.EdgeCount()),
			fmt.Sprintf("%d rows", g.RowCount())))
		printFile(out)
	}
	return nil
}

// networkRenderer renders one mapped network into each requested format,
// consulting the cache for the formats that need Graphviz or rsvg-convert.
type networkRenderer struct {
	cache     cache.Cache
	keyer     cache.Keyer
	sceneHash string
	root      string
	maxDepth  int
	detailed  bool
	title     string
}

func (r *networkRenderer) render(ctx context.Context, g *dag.DAG, format string) ([]byte, bool, error) {
	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: r.detailed, Title: r.title})
	switch format {
	case formatDOT:
		return []byte(dot), false, nil
	case formatJSON:
		var buf bytes.Buffer
		if err := dtio.WriteNetwork(g, &buf); err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode network")
		}
		return buf.Bytes(), false, nil
	}

	key := r.keyer.NetworkKey(r.sceneHash, r.root, cache.NetworkKeyOpts{
		Format:   format,
		Detailed: r.detailed,
		MaxDepth: r.maxDepth,
	})
	if data, ok, err := r.cache.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case formatSVG:
		data, err = nodelink.RenderSVG(ctx, dot)
	case formatPDF:
		data, err = nodelink.RenderPDF(ctx, dot)
	case formatPNG:
		data, err = nodelink.RenderPNG(ctx, dot, pngScale)
	default:
		return nil, false, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", format)
	}
	_ = r.cache.Set(ctx, key, data, cache.DefaultTTL)
	return data, false, nil
}

// hashScene fingerprints a scene by its canonical JSON encoding, so the
// compressed and plain forms of one scene share cache entries.
func hashScene(s *dtio.Scene) (string, error) {
	var buf bytes.Buffer
	if err := dtio.WriteScene(s, &buf); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}

// outputPath picks the file for one format. A single format writes to
// output as given; several formats treat output as a base path. Without
// output the scene's name is used as the base.
func outputPath(scene, output, format string, count int) string {
	if output != "" && count == 1 {
		return output
	}
	base := output
	if base == "" {
		name := filepath.Base(scene)
		name = strings.TrimSuffix(name, ".zst")
		base = strings.TrimSuffix(name, filepath.Ext(name)) + "-network"
	} else {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return base + "." + format
}
