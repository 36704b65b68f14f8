package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/relline/pkg/config"
	pkgio "github.com/matzehuels/relline/pkg/io"
	"github.com/matzehuels/relline/pkg/overlay"
	"github.com/matzehuels/relline/pkg/render/sink"
	"github.com/matzehuels/relline/pkg/scene"
)

const (
	// viewChrome is the number of terminal rows used by the title and
	// status lines.
	viewChrome = 3

	defaultCols = 80
	defaultRows = 24
)

// viewCommand creates the interactive viewer.
func (c *CLI) viewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view [scene]",
		Short: "Scroll through a scene in the terminal",
		Long: `View opens a scene as a live page. Arrow keys (or hjkl) scroll it, pgup and
pgdown scroll by a page, r toggles a narrower viewport and s scrolls the
bounding element. Connectors are cleared on every event and redrawn once
the page has settled.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runView(cmd.Context(), args[0], cfg)
		},
	}
}

func (c *CLI) runView(ctx context.Context, input string, cfg *config.Config) error {
	s, err := pkgio.ImportScene(input)
	if err != nil {
		return err
	}

	opts := append(cfg.OverlayOptions(), overlay.WithLogger(quietLogger()))
	m, err := newViewModel(s, cfg.View.Step, opts...)
	if err != nil {
		return err
	}
	defer m.close()

	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// redrawMsg tells the model that the collector changed.
type redrawMsg struct{}

// viewModel is the bubbletea model of the viewer. The page, overlay and
// collector are shared pointers, so copies of the model made by bubbletea
// all see the same live state.
type viewModel struct {
	title     string
	page      *scene.Page
	overlay   *overlay.Overlay
	collector *sink.Collector
	boundID   string
	redraw    chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	step       float64
	fullWidth  float64
	narrow     bool
	cols, rows int
}

// newViewModel mounts the scene on a page and initializes its overlay. The
// first draw happens after the settle delay, like every other.
func newViewModel(s *scene.Scene, step float64, opts ...overlay.Option) (*viewModel, error) {
	m := &viewModel{
		title:     fmt.Sprintf("%s · %d relations", s.BoundID, len(s.Relations)),
		page:      scene.NewPage(*s),
		boundID:   s.BoundID,
		redraw:    make(chan struct{}, 1),
		done:      make(chan struct{}),
		step:      step,
		fullWidth: s.Width,
		cols:      defaultCols,
		rows:      defaultRows - viewChrome,
	}
	m.collector = sink.NewCollector(m.notify)
	m.overlay = overlay.New(m.page, m.page, m.collector, opts...)

	if err := m.overlay.SetBoundID(s.BoundID); err != nil {
		return nil, err
	}
	m.overlay.SetRelations(s.Relations)
	if err := m.overlay.Init(); err != nil {
		return nil, err
	}
	return m, nil
}

// notify coalesces collector changes into at most one queued redraw.
func (m *viewModel) notify() {
	select {
	case m.redraw <- struct{}{}:
	default:
	}
}

// waitForRedraw blocks until the collector changes or the model is closed.
// A closed model yields no message.
func (m *viewModel) waitForRedraw() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.redraw:
			return redrawMsg{}
		case <-m.done:
			return nil
		}
	}
}

func (m *viewModel) close() {
	m.closeOnce.Do(func() {
		close(m.done)
		m.overlay.Close()
	})
}

func (m *viewModel) Init() tea.Cmd { return m.waitForRedraw() }

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case redrawMsg:
		return m, m.waitForRedraw()
	case tea.WindowSizeMsg:
		m.cols = max(msg.Width, 1)
		m.rows = max(msg.Height-viewChrome, 1)
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	}
	return m, nil
}

func (m *viewModel) handleKey(key string) tea.Cmd {
	vp := m.page.Viewport()
	switch key {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case "up", "k":
		m.page.ScrollBy(0, -m.step)
	case "down", "j":
		m.page.ScrollBy(0, m.step)
	case "left", "h":
		m.page.ScrollBy(-m.step, 0)
	case "right", "l":
		m.page.ScrollBy(m.step, 0)
	case "pgup":
		m.page.ScrollBy(0, -vp.Height)
	case "pgdown", " ":
		m.page.ScrollBy(0, vp.Height)
	case "home":
		m.page.ScrollTo(0, 0)
	case "r":
		m.narrow = !m.narrow
		width := m.fullWidth
		if m.narrow {
			width = m.fullWidth * 3 / 4
		}
		m.page.Resize(width, vp.Height)
	case "s":
		m.page.ScrollElement(m.boundID)
	}
	return nil
}

func (m *viewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("relline") + " " + StyleDim.Render(m.title))
	b.WriteString("\n")

	frame := sink.FrameOf(m.page, m.boundID, true)
	b.WriteString(sink.Rasterize(frame, m.collector.Connectors(), m.cols, m.rows).Render())
	b.WriteString("\n")

	b.WriteString(m.status())
	return b.String()
}

func (m *viewModel) status() string {
	scroll := m.page.Scroll()
	vp := m.page.Viewport()
	state := StyleHighlight.Render(fmt.Sprintf("%d connectors", m.collector.Len()))
	if m.overlay.Pending() {
		state = StyleWarning.Render("settling")
	}
	stats := m.overlay.LastStats()
	return StyleDim.Render(fmt.Sprintf("scroll %g,%g · viewport %gx%g · ", scroll.X, scroll.Y, vp.Width, vp.Height)) +
		state +
		StyleDim.Render(fmt.Sprintf(" · %d skipped · ↑↓←→ scroll  r resize  s scroll bound  q quit", stats.Skipped))
}
