package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/linealens/linealens/pkg/lineage"
	"github.com/linealens/linealens/pkg/lineage/traverse"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// nodeRow is one explorer entry with precomputed traversal counts.
// Counts exclude the node itself.
type nodeRow struct {
	node       lineage.Node
	upstream   int
	downstream int
}

// NodeListModel is the bubbletea model for interactive graph exploration.
// Enter focuses the lineage of the selected node (its ancestors and
// descendants); esc returns to the full graph.
type NodeListModel struct {
	graph   *lineage.Graph
	rows    []nodeRow
	visible []int // indexes into rows, shrunk while focused

	Cursor  int
	Offset  int
	Height  int
	focused string // id of the focused node, empty when unfocused
}

// NewNodeListModel creates an explorer model over the given graph.
func NewNodeListModel(g *lineage.Graph) NodeListModel {
	rows := make([]nodeRow, len(g.Nodes))
	for i, n := range g.Nodes {
		rows[i] = nodeRow{
			node:       n,
			upstream:   len(traverse.Ancestors(n.ID, g.Edges)) - 1,
			downstream: len(traverse.Descendants(n.ID, g.Edges)) - 1,
		}
	}
	m := NodeListModel{graph: g, rows: rows, Height: 15}
	m.showAll()
	return m
}

func (m *NodeListModel) showAll() {
	m.visible = make([]int, len(m.rows))
	for i := range m.rows {
		m.visible[i] = i
	}
	m.focused = ""
	m.Cursor = 0
	m.Offset = 0
}

// focus narrows the list to the selected node's full lineage.
func (m *NodeListModel) focus(id string) {
	keep := traverse.Ancestors(id, m.graph.Edges)
	for nid := range traverse.Descendants(id, m.graph.Edges) {
		keep[nid] = true
	}
	m.visible = m.visible[:0]
	for i, r := range m.rows {
		if keep[r.node.ID] {
			m.visible = append(m.visible, i)
		}
	}
	m.focused = id
	m.Cursor = 0
	m.Offset = 0
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.focused != "" {
				m.showAll()
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.visible) > 0 {
				m.focus(m.rows[m.visible[m.Cursor]].node.ID)
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m NodeListModel) View() string {
	var b strings.Builder

	title := "Lineage Explorer"
	if m.focused != "" {
		title = "Lineage of " + m.focused
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ focus lineage  esc back  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.visible) {
		end = len(m.visible)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.rows[m.visible[i]]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		layer := "—"
		if len(r.node.Data.InferredLayerTags) > 0 {
			layer = r.node.Data.InferredLayerTags[0]
		}

		rows = append(rows, []string{
			cursor,
			r.node.Data.Label,
			r.node.Data.ResourceType,
			layer,
			fmt.Sprintf("%d", r.upstream),
			fmt.Sprintf("%d", r.downstream),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Type", "Layer", "Up", "Down").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			actualIdx := m.Offset + row
			if actualIdx == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col >= 4 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.visible))))

	return b.String()
}

// exploreCommand creates the explore command: an interactive terminal view
// of a graph or saved project.
func (c *CLI) exploreCommand() *cobra.Command {
	var source graphSource

	cmd := &cobra.Command{
		Use:   "explore [project-id]",
		Short: "Explore a lineage graph interactively",
		Long: `Explore opens an interactive terminal list of the graph's nodes with
their inferred layer and upstream/downstream counts. Selecting a node
narrows the list to its full lineage.

Examples:
  linealens explore <project-id>
  linealens explore -g graph.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				source.projectID = args[0]
			}
			g, err := c.resolveGraph(cmd.Context(), source)
			if err != nil {
				return err
			}
			if len(g.Nodes) == 0 {
				printWarning("Graph has no nodes")
				return nil
			}

			_, err = tea.NewProgram(NewNodeListModel(g)).Run()
			return err
		},
	}

	source.addFlags(cmd)
	return cmd
}
