package ui

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"

	"github.com/Dicklesworthstone/sysdash/internal/config"
	"github.com/Dicklesworthstone/sysdash/internal/errors"
	"github.com/Dicklesworthstone/sysdash/internal/model"
)

// State of the dashboard loop. Stopped is terminal.
type State int

const (
	Running State = iota
	Stopped
)

func (s State) String() string {
	if s == Stopped {
		return "stopped"
	}
	return "running"
}

// Ticker produces one snapshot per call.
type Ticker interface {
	Tick(ctx context.Context) model.Snapshot
}

// Model drives sample -> render -> wait, one tick at a time. The next wait
// is only scheduled once the previous snapshot has been rendered, so ticks
// never overlap.
type Model struct {
	ctx     context.Context
	sampler Ticker
	cfg     config.Config

	state     State
	width     int
	frame     int
	ticks     int
	farewells int
	latest    model.Snapshot
	screen    string
}

// Messages
type (
	tickMsg     time.Time
	snapshotMsg model.Snapshot
	// StopMsg asks the dashboard to shut down, as if the user pressed Ctrl+C.
	StopMsg struct{}
)

func New(ctx context.Context, sampler Ticker, cfg config.Config, width int) *Model {
	return &Model{
		ctx:     ctx,
		sampler: sampler,
		cfg:     cfg,
		width:   cfg.ClampWidth(width),
		latest:  model.Zero(),
		screen:  headerStyle.Render("Starting System Monitor..."),
	}
}

func (m *Model) State() State { return m.state }

// Ticks is the number of frames rendered so far.
func (m *Model) Ticks() int { return m.ticks }

func (m *Model) Init() tea.Cmd { return m.sampleCmd() }

func (m *Model) sampleCmd() tea.Cmd {
	ctx, s := m.ctx, m.sampler
	return func() tea.Msg { return snapshotMsg(s.Tick(ctx)) }
}

func (m *Model) waitCmd() tea.Cmd {
	return tea.Tick(m.cfg.Interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = m.cfg.ClampWidth(msg.Width)
		if m.state == Running && m.ticks > 0 {
			m.screen = Render(m.latest, m.width, m.frame-1)
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, m.stop()
		}
	case StopMsg:
		return m, m.stop()
	case snapshotMsg:
		if m.state == Stopped {
			return m, nil
		}
		m.latest = model.Snapshot(msg)
		m.screen = Render(m.latest, m.width, m.frame)
		m.frame++
		m.ticks++
		return m, m.waitCmd()
	case tickMsg:
		if m.state == Stopped {
			return m, nil
		}
		return m, m.sampleCmd()
	}
	return m, nil
}

// stop moves to Stopped once and swaps the screen for the farewell.
func (m *Model) stop() tea.Cmd {
	if m.state == Stopped {
		return nil
	}
	m.state = Stopped
	m.farewells++
	m.screen = farewell()
	return tea.Sequence(tea.ClearScreen, tea.Quit)
}

func (m *Model) View() string { return m.screen }

func farewell() string {
	return "\n" + memTitle.Render("System Monitor Closed") + "\n" +
		headerStyle.Render("Thanks for using sysdash!") + "\n"
}

// Run starts the dashboard and blocks until the user quits, the process is
// signalled, or ctx is cancelled.
func Run(ctx context.Context, cfg config.Config, sampler Ticker, opts ...tea.ProgramOption) error {
	width := 80
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil {
		width = w
	}

	opts = append([]tea.ProgramOption{tea.WithoutSignalHandler()}, opts...)
	prog := tea.NewProgram(New(ctx, sampler, cfg, width), opts...)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sigs:
			prog.Send(StopMsg{})
		case <-ctx.Done():
			prog.Send(StopMsg{})
		case <-done:
		}
	}()

	if _, err := prog.Run(); err != nil {
		return errors.Wrap(err, errors.ErrTerminal,
			"Dashboard stopped unexpectedly",
			"Make sure sysdash is attached to an interactive terminal.")
	}
	return nil
}
