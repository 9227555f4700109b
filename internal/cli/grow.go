package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ferreusveritas/dynamictrees/pkg/errors"
	"github.com/ferreusveritas/dynamictrees/pkg/grow"
	dtio "github.com/ferreusveritas/dynamictrees/pkg/io"
	"github.com/ferreusveritas/dynamictrees/pkg/observability"
)

// growOpts holds the command-line flags for the grow command.
type growOpts struct {
	output     string // scene file to write; empty leaves the input untouched
	cycles     int    // growth rounds over every tree
	seed       uint64 // overrides the configured seed when set
	leafRadius int    // leaf tick radius around endpoints
	stats      bool   // print hook counters after the run
}

// growCommand creates the grow command.
func (c *CLI) growCommand() *cobra.Command {
	opts := growOpts{cycles: 1, leafRadius: grow.DefaultLeafRadius}

	cmd := &cobra.Command{
		Use:   "grow <scene> [x,y,z ...]",
		Short: "Run growth cycles over the trees of a scene",
		Long: `Grow runs growth cycles over each tree: the leaves around every branch
endpoint are ticked once and the species places its features.

Without coordinates the scene's tree list is used. Use -o to save the grown
scene; a .zst suffix writes it compressed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.cycles < 1 {
				return errors.New(errors.ErrCodeInvalidInput, "--cycles must be at least 1")
			}
			runOpts := []grow.Option{grow.WithLogger(c.Logger), grow.WithLeafRadius(opts.leafRadius)}
			if cmd.Flags().Changed("seed") {
				runOpts = append(runOpts, grow.WithSeed(opts.seed))
			}
			return c.runGrow(cmd.Context(), args[0], args[1:], &opts, runOpts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the grown scene to this file")
	cmd.Flags().IntVarP(&opts.cycles, "cycles", "n", opts.cycles, "number of growth rounds")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (default from config)")
	cmd.Flags().IntVar(&opts.leafRadius, "leaf-radius", opts.leafRadius, "leaf tick radius around endpoints")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print traversal, tick and feature counters")

	return cmd
}

func (c *CLI) runGrow(ctx context.Context, path string, args []string, opts *growOpts, runOpts []grow.Option) error {
	scene, reg, err := c.loadScene(path)
	if err != nil {
		return err
	}
	starts, err := startsFor(scene, args)
	if err != nil {
		return err
	}

	var counters observability.Counters
	if opts.stats {
		counters.Install()
		defer observability.Reset()
	}

	grid := scene.Grid()
	runner := grow.NewRunner(grid, reg, runOpts...)
	prog := newProgress(c.Logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Growing %d trees...", len(starts)))
	spinner.Start()
	reports, err := runner.Run(ctx, starts, opts.cycles)
	if err != nil {
		spinner.StopWithError("Growth interrupted")
		return err
	}
	spinner.Stop()

	trees := 0
	for _, rep := range reports {
		if !rep.Found {
			printWarning("%s: no root found", rep.Start)
			continue
		}
		trees++
		printSuccess("%s %s", StyleTitle.Render(rep.Root.String()), StyleDim.Render(rep.Species))
		fmt.Println(statsLine(false,
			fmt.Sprintf("%d endpoints", len(rep.Endpoints)),
			fmt.Sprintf("+%d/-%d leaves", rep.Tick.Grown, rep.Tick.Removed),
			fmt.Sprintf("%d placed", rep.Features.Placed)))
	}
	prog.done(fmt.Sprintf("Grew %d trees over %d cycles", trees, opts.cycles))

	if opts.stats {
		printStats(counters.Snapshot())
	}

	if opts.output == "" {
		return nil
	}
	if err := dtio.ExportScene(dtio.FromGrid(grid, starts), opts.output); err != nil {
		return err
	}
	printFile(opts.output)
	printNextStep("Inspect the result", fmt.Sprintf("%s view %s", appName, opts.output))
	return nil
}

// printStats prints the hook counters of a run as a table.
func printStats(s observability.Stats) {
	rows := [][]string{
		{"traversals", strconv.Itoa(s.Traversals), "visits", strconv.Itoa(s.Visits)},
		{"roots found", strconv.Itoa(s.RootsFound), "ticks", strconv.Itoa(s.Ticks)},
		{"cells updated", strconv.Itoa(s.CellsUpdated), "cells removed", strconv.Itoa(s.CellsRemoved)},
		{"cells grown", strconv.Itoa(s.CellsGrown), "feature runs", strconv.Itoa(s.FeatureRuns)},
		{"voxels placed", strconv.Itoa(s.FeaturePlaced), "grow time", s.GrowTime.Round(time.Microsecond).String()},
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col%2 == 0 {
				return lipgloss.NewStyle().Foreground(colorGray).Padding(0, 1)
			}
			return StyleValue.Padding(0, 1)
		})
	fmt.Println()
	fmt.Println(t.Render())
}
