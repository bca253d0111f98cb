package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tmengistu/stratum/pkg/errors"
	"github.com/tmengistu/stratum/pkg/model"
	"github.com/tmengistu/stratum/pkg/source"
	"github.com/tmengistu/stratum/pkg/takeoff"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = StyleValue
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ElementListModel - Interactive element selection
// =============================================================================

// elementRow is one selectable row in the picker.
type elementRow struct {
	ID       model.ID
	TypeName string
	Layers   int
}

// ElementListModel is the bubbletea model for interactive element selection.
type ElementListModel struct {
	Elements []elementRow
	Cursor   int
	Checked  map[int]bool
	Accepted bool
	Height   int
	Offset   int
}

// NewElementListModel creates a new element list model.
func NewElementListModel(elements []elementRow) ElementListModel {
	return ElementListModel{
		Elements: elements,
		Cursor:   0,
		Checked:  make(map[int]bool),
		Height:   15,
		Offset:   0,
	}
}

func (m ElementListModel) Init() tea.Cmd {
	return nil
}

func (m ElementListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Elements)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ":
			m.Checked[m.Cursor] = !m.Checked[m.Cursor]
		case "a":
			for i := range m.Elements {
				m.Checked[i] = true
			}
		case "enter":
			m.Accepted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ElementListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select elements to take off"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("space: toggle  a: all  enter: confirm  q: cancel"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Elements) {
		end = len(m.Elements)
	}

	for i := m.Offset; i < end; i++ {
		el := m.Elements[i]

		check := "[ ]"
		if m.Checked[i] {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %s  %s", check, el.ID, el.TypeName)
		if el.Layers > 0 {
			line += listDimStyle.Render(fmt.Sprintf("  (%d layers)", el.Layers))
		}

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("> " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if len(m.Elements) > m.Height {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("%d/%d elements", m.Cursor+1, len(m.Elements))))
		b.WriteString("\n")
	}

	return b.String()
}

// pickElements loads the model and runs the interactive picker,
// returning the chosen element ids in model order. Cancelling the
// picker returns no ids, which the pipeline reports as an invalid
// selection.
func pickElements(ctx context.Context, src source.Source, modelArg string) ([]int64, error) {
	snap, err := src.Load(ctx, modelArg)
	if err != nil {
		return nil, err
	}
	doc, err := snap.Document()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidModel, err, "building document for %q", snap.Name)
	}

	var rows []elementRow
	for _, el := range doc.Elements() {
		rows = append(rows, elementRow{
			ID:       el.ID(),
			TypeName: elementTypeName(doc, el),
			Layers:   elementLayerCount(doc, el),
		})
	}
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidSelection, "model %q has no placed elements", snap.Name)
	}

	prog := tea.NewProgram(NewElementListModel(rows), tea.WithContext(ctx))
	final, err := prog.Run()
	if err != nil {
		return nil, fmt.Errorf("element picker: %w", err)
	}

	m, ok := final.(ElementListModel)
	if !ok || !m.Accepted {
		return nil, nil
	}

	var ids []int64
	for i, el := range m.Elements {
		if m.Checked[i] {
			ids = append(ids, int64(el.ID))
		}
	}
	return ids, nil
}

// elementTypeName resolves an element's type name for display, falling
// back to the takeoff default for unbound or unresolvable types.
func elementTypeName(doc model.Document, el model.Element) string {
	typ, ok := elementType(doc, el)
	if !ok {
		return takeoff.DefaultTypeName
	}
	name, err := typ.Attribute(model.AttrTypeName)
	if err != nil || name == "" {
		return takeoff.DefaultTypeName
	}
	return name
}

// elementLayerCount reports how many layers the element's type carries.
func elementLayerCount(doc model.Document, el model.Element) int {
	typ, ok := elementType(doc, el)
	if !ok {
		return 0
	}
	structure, ok := typ.Structure()
	if !ok {
		return 0
	}
	return len(structure.Layers)
}

func elementType(doc model.Document, el model.Element) (model.ElementType, bool) {
	if el.TypeID().IsNil() {
		return nil, false
	}
	ent, ok := doc.Element(el.TypeID())
	if !ok {
		return nil, false
	}
	typ, ok := ent.(model.ElementType)
	return typ, ok
}
