package app

import (
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingopro/internal/lessons"
	"github.com/abhisek/lingopro/internal/progress"
	"github.com/abhisek/lingopro/internal/router"
	"github.com/abhisek/lingopro/internal/screen"
	"github.com/abhisek/lingopro/internal/screens/home"
	"github.com/abhisek/lingopro/internal/screens/welcome"
	"github.com/abhisek/lingopro/internal/ui/layout"
)

// Options holds the dependencies of the terminal app.
type Options struct {
	Catalog *lessons.Catalog
	Store   *progress.Store
	Learner string

	// SyncState reports the sync status shown in the header. Nil hides it.
	SyncState func() string

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts   Options
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel starting on the welcome splash.
func newAppModel(opts Options) AppModel {
	homeFactory := func() screen.Screen {
		return home.New(home.Config{
			Catalog: opts.Catalog,
			Store:   opts.Store,
			Learner: opts.Learner,
			Clock:   opts.Clock,
		})
	}
	return AppModel{
		opts:   opts,
		router: router.New(welcome.New(greeting(opts), homeFactory)),
	}
}

func greeting(opts Options) welcome.Greeting {
	g := welcome.Greeting{Learner: opts.Learner}
	if opts.Store == nil {
		return g
	}
	snap := opts.Store.Snapshot(opts.Learner)
	g.XP, g.Streak = snap.Profile.XP, snap.Profile.Streak
	for _, e := range snap.Records {
		switch e.Record.Status {
		case progress.StatusInProgress:
			g.InProgress++
		case progress.StatusCompleted:
			g.Completed++
		}
	}
	return g
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			m.suspend()
			return m, tea.Quit
		case "esc":
			if bi, ok := m.router.Active().(screen.BackInterceptor); ok && bi.InterceptsBack() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render composes header, active screen and footer for the current size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := m.router.Breadcrumb()

	syncState := ""
	if m.opts.SyncState != nil {
		syncState = m.opts.SyncState()
	}
	header := layout.RenderHeader(title, m.opts.Learner, syncState, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until the learner quits.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	final, err := p.Run()
	if m, ok := final.(AppModel); ok {
		// The program can also end on a signal, bypassing ctrl+c.
		m.suspend()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}

// suspend lets the active screen save unsaved work before exit.
func (m AppModel) suspend() {
	if sp, ok := m.router.Active().(screen.Suspender); ok {
		sp.Suspend()
	}
}
