package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingopro/internal/ui/theme"
)

// MultiChoice is an option selector. In single mode Enter picks the
// highlighted option; in multi mode Space toggles options and Enter
// confirms the checked set.
type MultiChoice struct {
	Options   []string
	Multi     bool
	Selected  int
	checked   map[int]bool
	Confirmed bool
}

// NewMultiChoice creates a selector over options.
func NewMultiChoice(options []string, multi bool) MultiChoice {
	return MultiChoice{
		Options: options,
		Multi:   multi,
		checked: map[int]bool{},
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection. Number keys jump to an
// option (and toggle it in multi mode).
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "space", " ":
		if m.Multi {
			m.toggle(m.Selected)
		}
	case "enter":
		if !m.Multi || len(m.checked) > 0 {
			m.Confirmed = true
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			i := int(key[0] - '1')
			if i < len(m.Options) {
				m.Selected = i
				if m.Multi {
					m.toggle(i)
				}
			}
		}
	}
	return m, nil
}

func (m *MultiChoice) toggle(i int) {
	if m.checked == nil {
		m.checked = map[int]bool{}
	}
	if m.checked[i] {
		delete(m.checked, i)
	} else {
		m.checked[i] = true
	}
}

// Chosen returns the picked options in display order.
func (m MultiChoice) Chosen() []string {
	if !m.Multi {
		if m.Selected < 0 || m.Selected >= len(m.Options) {
			return nil
		}
		return []string{m.Options[m.Selected]}
	}
	var out []string
	for i, opt := range m.Options {
		if m.checked[i] {
			out = append(out, opt)
		}
	}
	return out
}

// Reset clears the confirmation and checked options.
func (m *MultiChoice) Reset() {
	m.Confirmed = false
	m.checked = map[int]bool{}
}

// View renders the option list.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected {
			prefix = "▸ "
		}
		box := ""
		if m.Multi {
			box = "[ ] "
			if m.checked[i] {
				box = "[x] "
			}
		}
		line := fmt.Sprintf("%s%d) %s%s", prefix, i+1, box, opt)

		if i == m.Selected {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
