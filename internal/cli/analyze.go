package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ferreusveritas/dynamictrees/pkg/network"
	"github.com/ferreusveritas/dynamictrees/pkg/voxel"
)

// analyzeCommand creates the analyze command, which reports on the networks
// containing the given coordinates without modifying the scene.
func (c *CLI) analyzeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <scene> [x,y,z ...]",
		Short: "Find roots and describe tree networks",
		Long: `Analyze walks the network containing each coordinate to its root and reports
the species, trunk radius, distance to the root, endpoints and volume.

Without coordinates the scene's tree list is used.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scene, reg, err := c.loadScene(args[0])
			if err != nil {
				return err
			}
			starts, err := startsFor(scene, args[1:])
			if err != nil {
				return err
			}

			a := network.NewAnalyzer(scene.Grid(), reg.Parts,
				network.WithSpecies(reg.Species),
				network.WithMaxDepth(reg.MaxDepth),
				network.WithLogger(c.Logger))
			for _, s := range starts {
				c.describe(a, s)
			}
			return nil
		},
	}
}

func (c *CLI) describe(a *network.Analyzer, start voxel.Coord) {
	root, ok := a.FindRoot(start)
	if !ok {
		printWarning("%s: no root found", start)
		return
	}
	printSuccess("%s", StyleTitle.Render(start.String()))

	dist, _ := a.DistanceToRoot(start)
	ends := a.MapEndpoints(root)

	printKeyValue("root", root.String())
	printKeyValue("family", a.Family(root).Name)
	printKeyValue("species", a.SpeciesForLocation(root).Name)
	printKeyValue("radius", strconv.Itoa(a.RadiusForBranch(start)))
	printKeyValue("trunk radius", strconv.Itoa(a.TrunkRadius(start)))
	printKeyValue("distance", strconv.Itoa(dist))
	printKeyValue("endpoints", strconv.Itoa(len(ends)))
	printKeyValue("volume", strconv.Itoa(a.Volume(root)))
	for _, e := range ends {
		printDetail("%s %s", iconArrow, e)
	}
	fmt.Println()
}
