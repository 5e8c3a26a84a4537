package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/resograph/resograph/pkg/record"
	"github.com/resograph/resograph/pkg/store"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command. It normalizes a payload and opens
// an interactive terminal browser over the resulting graph.
func (c *CLI) browseCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "browse <file-or-url>",
		Short: "Explore an object graph interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.runPipeline(cmd.Context(), args[0], noCache, false)
			if err != nil {
				return err
			}
			s := result.Store
			if s.Size() == 0 {
				printInfo("Payload produced an empty graph")
				return nil
			}

			p := tea.NewProgram(newBrowseModel(s))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the payload cache")
	return cmd
}

// =============================================================================
// browseModel - Type / Record / Detail Navigation
// =============================================================================

// browseLevel is the navigation depth of the browser.
type browseLevel int

const (
	levelTypes browseLevel = iota
	levelRecords
	levelDetail
)

// browseModel is the bubbletea model for graph browsing. It descends from the
// type list into the records of a type and finally into a single record's
// attributes and relationships.
type browseModel struct {
	store *store.Store

	level   browseLevel
	types   []string
	records []*record.Record

	typeCursor   int
	recordCursor int
	height       int
	offset       int
}

func newBrowseModel(s *store.Store) browseModel {
	return browseModel{
		store:  s,
		types:  s.Types(),
		height: 15,
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "backspace", "left", "h":
			return m.ascend(), nil
		case "up", "k":
			m.moveCursor(-1)
		case "down", "j":
			m.moveCursor(1)
		case "enter", "right", "l":
			return m.descend(), nil
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m *browseModel) moveCursor(delta int) {
	cursor, limit := m.cursor()
	cursor += delta
	if cursor < 0 || cursor >= limit {
		return
	}
	m.setCursor(cursor)
	if cursor < m.offset {
		m.offset = cursor
	}
	if cursor >= m.offset+m.height {
		m.offset = cursor - m.height + 1
	}
}

func (m browseModel) cursor() (pos, limit int) {
	switch m.level {
	case levelTypes:
		return m.typeCursor, len(m.types)
	default:
		return m.recordCursor, len(m.records)
	}
}

func (m *browseModel) setCursor(pos int) {
	switch m.level {
	case levelTypes:
		m.typeCursor = pos
	default:
		m.recordCursor = pos
	}
}

func (m browseModel) descend() browseModel {
	switch m.level {
	case levelTypes:
		if len(m.types) == 0 {
			return m
		}
		m.records = m.store.FindAll(m.types[m.typeCursor])
		m.level = levelRecords
		m.recordCursor = 0
		m.offset = 0
	case levelRecords:
		if len(m.records) > 0 {
			m.level = levelDetail
		}
	}
	return m
}

func (m browseModel) ascend() browseModel {
	switch m.level {
	case levelDetail:
		m.level = levelRecords
	case levelRecords:
		m.level = levelTypes
		m.offset = 0
	}
	return m
}

func (m browseModel) View() string {
	switch m.level {
	case levelDetail:
		return m.detailView()
	case levelRecords:
		return m.recordsView()
	default:
		return m.typesView()
	}
}

func (m browseModel) typesView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Record Types"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  q quit"))
	b.WriteString("\n\n")

	rows := [][]string{}
	for i, typeName := range m.visibleTypes() {
		idx := m.offset + i
		cursor := "  "
		if idx == m.typeCursor {
			cursor = "▸ "
		}
		records := m.store.FindAll(typeName)
		placeholders := 0
		for _, r := range records {
			if r.Placeholder() {
				placeholders++
			}
		}
		rows = append(rows, []string{
			cursor,
			typeName,
			fmt.Sprintf("%d", len(records)),
			fmt.Sprintf("%d", placeholders),
		})
	}

	b.WriteString(m.renderTable([]string{"", "Type", "Records", "Placeholders"}, rows, m.typeCursor-m.offset))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.typeCursor+1, len(m.types))))
	return b.String()
}

func (m browseModel) recordsView() string {
	var b strings.Builder

	typeName := m.types[m.typeCursor]
	b.WriteString(StyleTitle.Render("Records: " + typeName))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  esc back  q quit"))
	b.WriteString("\n\n")

	rows := [][]string{}
	end := min(m.offset+m.height, len(m.records))
	for i := m.offset; i < end; i++ {
		r := m.records[i]
		cursor := "  "
		if i == m.recordCursor {
			cursor = "▸ "
		}
		state := ""
		if r.Placeholder() {
			state = "placeholder"
		}
		rows = append(rows, []string{
			cursor,
			r.ID(),
			fmt.Sprintf("%d", len(r.AttributeNames())),
			fmt.Sprintf("%d", len(r.RelationshipNames())),
			state,
		})
	}

	b.WriteString(m.renderTable([]string{"", "ID", "Attributes", "Relationships", ""}, rows, m.recordCursor-m.offset))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.recordCursor+1, len(m.records))))
	return b.String()
}

func (m browseModel) detailView() string {
	var b strings.Builder

	r := m.records[m.recordCursor]
	b.WriteString(StyleTitle.Render(r.Identity().String()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	b.WriteString("\n\n")

	if r.Placeholder() {
		b.WriteString(StyleWarning.Render("  placeholder (referenced but never delivered)"))
		b.WriteString("\n\n")
	}

	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(20)

	if names := r.AttributeNames(); len(names) > 0 {
		b.WriteString(StyleHighlight.Render("  Attributes"))
		b.WriteString("\n")
		for _, name := range names {
			value, _ := r.Attribute(name)
			b.WriteString("  " + keyStyle.Render(name) + " " + StyleValue.Render(fmt.Sprintf("%v", value)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if names := r.RelationshipNames(); len(names) > 0 {
		b.WriteString(StyleHighlight.Render("  Relationships"))
		b.WriteString("\n")
		for _, name := range names {
			value, _ := r.Relationship(name)
			b.WriteString("  " + keyStyle.Render(name) + " " + listNormalStyle.Render(formatRelated(value)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m browseModel) visibleTypes() []string {
	end := min(m.offset+m.height, len(m.types))
	return m.types[m.offset:end]
}

func (m browseModel) renderTable(headers []string, rows [][]string, selected int) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == selected {
				return listSelectedStyle
			}
			return listNormalStyle
		})

	return t.Render()
}

// formatRelated renders a relationship value as related record identities.
func formatRelated(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case *record.Record:
		return v.Identity().String()
	case []*record.Record:
		ids := make([]string, len(v))
		for i, r := range v {
			ids[i] = r.Identity().String()
		}
		if len(ids) == 0 {
			return "[]"
		}
		return strings.Join(ids, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
