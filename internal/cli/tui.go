package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cropsy/pkg/crop"
	cerrors "github.com/matzehuels/cropsy/pkg/errors"
	"github.com/matzehuels/cropsy/pkg/panner"
	"github.com/matzehuels/cropsy/pkg/pipeline"
)

// Map dimensions in terminal cells. Cells are roughly twice as tall as wide.
const (
	mapWidth  = 48
	mapHeight = 13
)

// defaultExploreMax is the largest gallery Zoom shows on one page.
const defaultExploreMax = 49

// Map styles
var (
	mapFrameStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	mapBoxStyle   = lipgloss.NewStyle().Foreground(colorCyan)
	mapAltStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	mapLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
)

// exploreCommand creates the explore command which opens the interactive
// gallery explorer.
func (c *CLI) exploreCommand() *cobra.Command {
	opts := calcOptions{}

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Step through gallery sizes interactively",
		Long: `Open an interactive view of the solved gallery. Arrow keys change the number
of boxes; the map and the table of Panner values follow.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateRequestWithLimit(opts.width, opts.height, opts.max, c.config().OSC.MaxCount); err != nil {
				return err
			}
			if err := cerrors.ValidateCount(opts.max, 1); err != nil {
				return err
			}
			m := NewExploreModel(c.config().Layout, opts.width, opts.height, opts.count, opts.max)
			_, err := tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	addScreenFlags(cmd, &opts)
	cmd.Flags().IntVarP(&opts.count, "count", "n", pipeline.DefaultCount, "initial number of boxes")
	cmd.Flags().IntVar(&opts.max, "max", defaultExploreMax, "largest number of boxes")

	return cmd
}

// =============================================================================
// ExploreModel - Interactive gallery explorer
// =============================================================================

// ExploreModel is the bubbletea model for stepping through gallery sizes.
type ExploreModel struct {
	Width  float64
	Height float64
	Count  int
	Max    int

	Result crop.Result
	Params panner.Params
	Err    error

	crops  *crop.Calculator
	panner *panner.Calculator
}

// NewExploreModel creates an explorer for the given geometry and screen.
// The count is clamped to [1, maxCount].
func NewExploreModel(geometry crop.Config, width, height float64, count, maxCount int) ExploreModel {
	m := ExploreModel{
		Width:  width,
		Height: height,
		Max:    maxCount,
		crops:  crop.NewCalculator(crop.WithConfig(geometry)),
		panner: panner.NewCalculator(crop.WithConfig(geometry)),
	}
	m.setCount(count)
	return m
}

func (m *ExploreModel) setCount(n int) {
	m.Count = min(max(n, 1), max(m.Max, 1))
	m.Result, m.Err = m.crops.Compute(m.Width, m.Height, m.Count)
	if m.Err != nil {
		m.Params = panner.Params{}
		return
	}
	m.Params, m.Err = m.panner.Compute(m.Width, m.Height, m.Count)
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "right", "k", "l", "+":
			m.setCount(m.Count + 1)
		case "down", "left", "j", "h", "-":
			m.setCount(m.Count - 1)
		case "home", "g":
			m.setCount(1)
		case "end", "G":
			m.setCount(m.Max)
		}
	}
	return m, nil
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render(fmt.Sprintf("Gallery %d/%d", m.Count, m.Max)))
	b.WriteString("  ")
	b.WriteString(styleDim.Render(fmt.Sprintf("%vx%v", m.Width, m.Height)))
	b.WriteString("\n")
	b.WriteString(styleDim.Render("←/→ boxes  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if m.Err != nil {
		b.WriteString(styleWarning.Render(fmt.Sprintf("%s: %s", cerrors.GetCode(m.Err), cerrors.UserMessage(m.Err))))
		b.WriteString("\n")
		return b.String()
	}

	l := m.Result.Layout
	b.WriteString(styleDim.Render(fmt.Sprintf("grid %d x %d · box %vx%v · panner %v%% x %v%%",
		l.Cols, l.Rows, m.Params.BoxWidth, m.Params.BoxHeight, m.Params.WidthPercent, m.Params.HeightPercent)))
	b.WriteString("\n")
	b.WriteString(mapFrameStyle.Render(m.renderMap()))
	b.WriteString("\n")
	b.WriteString(renderBoxTable(m.Result, m.Params))
	b.WriteString("\n")

	return b.String()
}

// renderMap draws the boxes scaled to a mapWidth x mapHeight character grid.
// Neighbouring boxes alternate shading and each is numbered at its center.
func (m ExploreModel) renderMap() string {
	cells := make([][]string, mapHeight)
	for y := range cells {
		cells[y] = make([]string, mapWidth)
		for x := range cells[y] {
			cells[y][x] = " "
		}
	}

	sx, sy := mapWidth/m.Width, mapHeight/m.Height
	for i, r := range crop.ToRects(m.Width, m.Height, m.Result.Crops) {
		x0, x1 := clampCell(r.X*sx, mapWidth), clampCell((r.X+r.Width)*sx, mapWidth)
		y0, y1 := clampCell(r.Y*sy, mapHeight), clampCell((r.Y+r.Height)*sy, mapHeight)
		x1, y1 = max(x1, x0+1), max(y1, y0+1)

		shade, style := "▓", mapBoxStyle
		if i%2 == 1 {
			shade, style = "░", mapAltStyle
		}
		for y := y0; y < min(y1, mapHeight); y++ {
			for x := x0; x < min(x1, mapWidth); x++ {
				cells[y][x] = style.Render(shade)
			}
		}

		label := fmt.Sprint(i + 1)
		cy := min((y0+y1)/2, mapHeight-1)
		cx := min(max((x0+x1-len(label))/2, 0), mapWidth-len(label))
		for j, ch := range label {
			cells[cy][cx+j] = mapLabelStyle.Render(string(ch))
		}
	}

	lines := make([]string, mapHeight)
	for y, row := range cells {
		lines[y] = strings.Join(row, "")
	}
	return strings.Join(lines, "\n")
}

func clampCell(v float64, limit int) int {
	return min(max(int(v), 0), limit)
}
