package cli

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ferreusveritas/dynamictrees/pkg/errors"
	"github.com/ferreusveritas/dynamictrees/pkg/grow"
)

// viewCommand creates the view command, an interactive layer browser that
// can grow the scene's trees in place. Grown scenes are not saved.
func (c *CLI) viewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view <scene>",
		Short: "Browse a scene layer by layer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scene, reg, err := c.loadScene(args[0])
			if err != nil {
				return err
			}
			grid := scene.Grid()
			if grid.Len() == 0 {
				printInfo("Scene is empty")
				return nil
			}

			m := NewLayerModel(grid, reg.Parts, filepath.Base(args[0]))
			m.Runner = grow.NewRunner(grid, reg)
			m.Trees = scene.TreeCoords()
			p := tea.NewProgram(m, tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "run viewer")
			}
			return nil
		},
	}
}
