package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/crosscover/pkg/config"
	"github.com/matzehuels/crosscover/pkg/coverage"
	"github.com/matzehuels/crosscover/pkg/cross"
	"github.com/matzehuels/crosscover/pkg/pipeline"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// CandidateListModel is the bubbletea model for choosing which candidate
// crosses the optimizer may use.
type CandidateListModel struct {
	Crosses []cross.Cross
	Counts  []int
	Picked  []bool
	Cursor  int
	Height  int
	Offset  int

	// Confirmed is set when the user accepted the selection with enter.
	Confirmed bool
}

// NewCandidateListModel lists crosses with their informative counts from
// m. All crosses start picked.
func NewCandidateListModel(crosses []cross.Cross, m *coverage.Map) CandidateListModel {
	counts := make([]int, len(crosses))
	picked := make([]bool, len(crosses))
	for i, c := range crosses {
		counts[i] = m.Count(c)
		picked[i] = true
	}
	return CandidateListModel{Crosses: crosses, Counts: counts, Picked: picked, Height: 15}
}

// Chosen returns the picked crosses in list order, or nil when the user
// quit without confirming.
func (m CandidateListModel) Chosen() []cross.Cross {
	if !m.Confirmed {
		return nil
	}
	var out []cross.Cross
	for i, c := range m.Crosses {
		if m.Picked[i] {
			out = append(out, c)
		}
	}
	return out
}

func (m CandidateListModel) pickedCount() int {
	n := 0
	for _, p := range m.Picked {
		if p {
			n++
		}
	}
	return n
}

func (m CandidateListModel) Init() tea.Cmd {
	return nil
}

func (m CandidateListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Crosses)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Picked) > 0 {
				m.Picked = toggled(m.Picked, m.Cursor)
			}
		case "a":
			all := m.pickedCount() < len(m.Picked)
			m.Picked = make([]bool, len(m.Picked))
			for i := range m.Picked {
				m.Picked[i] = all
			}
		case "enter":
			if m.pickedCount() == 0 {
				return m, nil
			}
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

// toggled returns a copy of picked with index i flipped, so earlier model
// values are not changed.
func toggled(picked []bool, i int) []bool {
	out := append([]bool(nil), picked...)
	out[i] = !out[i]
	return out
}

func (m CandidateListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Candidate Crosses"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all/none  ⏎ run  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Crosses))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := "[ ]"
		if m.Picked[i] {
			mark = "[x]"
		}
		c := m.Crosses[i]
		rows = append(rows, []string{cursor, mark, c.Mother, c.Father, strconv.Itoa(m.Counts[i])})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Mother", "Father", "Informative").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Crosses) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col == 4 {
				base = base.Foreground(colorCyan)
			}
			switch {
			case idx == m.Cursor && m.Picked[idx]:
				return base.Foreground(colorGreen).Bold(true)
			case idx == m.Cursor:
				return base.Foreground(colorGray).Bold(true)
			case m.Picked[idx]:
				return base
			}
			return base.Foreground(colorDim)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d picked", m.Cursor+1, len(m.Crosses), m.pickedCount())))

	return b.String()
}

// runInteractiveSelect loads the candidates, lets the user narrow them down,
// and runs selection and rendering on the chosen crosses.
func (c *CLI) runInteractiveSelect(ctx context.Context, runner *pipeline.Runner, cfg *config.Config, opts pipeline.Options) error {
	spinner := newSpinnerWithContext(ctx, "Loading assay...")
	spinner.Start()
	loaded, loadHit, err := runner.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return err
	}
	spinner.Stop()

	unique, _ := cross.Dedupe(loaded.Candidates)
	final, err := tea.NewProgram(NewCandidateListModel(unique, loaded.Map), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("candidate picker: %w", err)
	}
	chosen := final.(CandidateListModel).Chosen()
	if chosen == nil {
		printInfo("No crosses selected")
		return nil
	}
	loaded.Candidates = chosen

	spinner = newSpinnerWithContext(ctx, "Selecting crosses...")
	spinner.Start()
	sel, selectHit, err := runner.SelectWithCacheInfo(ctx, loaded, opts)
	if err != nil {
		spinner.StopWithError("Selection failed")
		return err
	}
	artifacts, _, err := runner.RenderWithCacheInfo(ctx, sel.Report, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	printSuccess("Selected %d of %d crosses (%s)", sel.Report.Reached, len(chosen), sel.Report.Strategy)
	printStats(loaded.Map.Index().Len(), len(chosen), loadHit && selectHit)
	printReport(sel.Report, sel.Greedy)

	return c.writeArtifacts(artifacts, opts.Formats, basePath(cfg.Output, cfg.Assay), cfg.Output != "")
}
