package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ferreusveritas/dynamictrees/pkg/grow"
	"github.com/ferreusveritas/dynamictrees/pkg/treepart"
	"github.com/ferreusveritas/dynamictrees/pkg/voxel"
)

// Layer styles
var (
	layerRootStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	layerBranchStyle = lipgloss.NewStyle().Foreground(colorBrown)
	layerLeafStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	layerFadedStyle  = lipgloss.NewStyle().Foreground(colorDim)
	layerBlockStyle  = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// LayerModel - Horizontal slice viewer
// =============================================================================

// LayerModel is the bubbletea model for browsing a scene one Y layer at a
// time. X runs left to right and Z top to bottom. With a runner attached,
// "g" grows every tree by one cycle.
type LayerModel struct {
	Grid   *voxel.MemGrid
	Parts  *treepart.Registry
	Runner *grow.Runner
	Trees  []voxel.Coord
	Title  string
	Y      int

	cycles int
	status string
	lo, hi voxel.Coord
}

// NewLayerModel creates a viewer over grid starting at its lowest layer.
func NewLayerModel(grid *voxel.MemGrid, parts *treepart.Registry, title string) LayerModel {
	lo, hi, _ := grid.Bounds()
	return LayerModel{Grid: grid, Parts: parts, Title: title, Y: lo.Y, lo: lo, hi: hi}
}

// growCycle runs one cycle over every tree and refreshes the bounds, which
// spreading leaves and vines may have widened.
func (m LayerModel) growCycle() LayerModel {
	if m.Runner == nil || len(m.Trees) == 0 {
		m.status = "no trees to grow"
		return m
	}
	reports, err := m.Runner.Run(context.Background(), m.Trees, 1)
	if err != nil {
		m.status = err.Error()
		return m
	}
	m.cycles++
	var grown, removed, placed int
	for _, r := range reports {
		grown += r.Tick.Grown
		removed += r.Tick.Removed
		placed += r.Features.Placed
	}
	m.status = fmt.Sprintf("cycle %d: +%d/-%d leaves, %d placed", m.cycles, grown, removed, placed)
	m.lo, m.hi, _ = m.Grid.Bounds()
	m.Y = min(max(m.Y, m.lo.Y), m.hi.Y)
	return m
}

func (m LayerModel) Init() tea.Cmd {
	return nil
}

func (m LayerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k", "+":
			if m.Y < m.hi.Y {
				m.Y++
			}
		case "down", "j", "-":
			if m.Y > m.lo.Y {
				m.Y--
			}
		case "home":
			m.Y = m.lo.Y
		case "end":
			m.Y = m.hi.Y
		case "g":
			m = m.growCycle()
		}
	}
	return m, nil
}

func (m LayerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ layer  home/end bottom/top  g grow  q quit"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("y = %s  %s\n\n", StyleValue.Render(strconv.Itoa(m.Y)),
		StyleDim.Render(fmt.Sprintf("[%d..%d]", m.lo.Y, m.hi.Y))))

	for z := m.lo.Z; z <= m.hi.Z; z++ {
		for x := m.lo.X; x <= m.hi.X; x++ {
			b.WriteString(m.glyph(voxel.Coord{X: x, Y: m.Y, Z: z}))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s root  %s branch radius  %s leaves  %s other\n",
		layerRootStyle.Render("R"), layerBranchStyle.Render("1-9"),
		layerLeafStyle.Render("*"), layerBlockStyle.Render("#")))
	if m.status != "" {
		b.WriteString("\n" + StyleDim.Render(m.status) + "\n")
	}
	return b.String()
}

// glyph draws one voxel. Leaves fade once their value drops low.
func (m LayerModel) glyph(c voxel.Coord) string {
	s := m.Grid.State(c)
	switch p := m.Parts.Classify(s).(type) {
	case treepart.Root:
		return layerRootStyle.Render("R")
	case treepart.Branch:
		r := p.Radius(s)
		if r > 9 {
			return layerBranchStyle.Render("B")
		}
		return layerBranchStyle.Render(strconv.Itoa(r))
	case treepart.Leaves:
		if p.Hydro(s) <= 1 {
			return layerFadedStyle.Render("*")
		}
		return layerLeafStyle.Render("*")
	}
	if s.IsAir() {
		return layerFadedStyle.Render("·")
	}
	return layerBlockStyle.Render("#")
}
