package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"stationboard/pkg/board"
)

// refreshTickMsg fires when the refresh interval has elapsed. Only the
// tick with the model's current id may start a cycle.
type refreshTickMsg struct {
	id int
	at time.Time
}

// clockTickMsg fires every second to advance the on-screen clock.
type clockTickMsg time.Time

// cycleMsg carries the outcome of one refresh cycle.
type cycleMsg board.State

// BoardModel is the live departure board program.
type BoardModel struct {
	ctx       context.Context
	refresher *board.Refresher
	interval  time.Duration
	styles    Styles

	state    board.State
	fetching bool
	tickID   int
	titled   bool
	now      time.Time
}

func NewBoardModel(ctx context.Context, r *board.Refresher, interval time.Duration, styles Styles) *BoardModel {
	return &BoardModel{
		ctx:       ctx,
		refresher: r,
		interval:  interval,
		styles:    styles,
		state:     board.State{StationCode: r.StationCode()},
		now:       time.Now(),
	}
}

// State is the board currently on screen.
func (m *BoardModel) State() board.State {
	return m.state
}

func (m *BoardModel) Init() tea.Cmd {
	m.fetching = true
	return tea.Batch(m.fetch(), clockTick())
}

// fetch runs one cycle off the event loop; its result comes back as a cycleMsg.
func (m *BoardModel) fetch() tea.Cmd {
	ctx, r := m.ctx, m.refresher
	return func() tea.Msg {
		return cycleMsg(r.Cycle(ctx))
	}
}

// scheduleRefresh arms the next interval. Any tick armed earlier goes stale.
func (m *BoardModel) scheduleRefresh() tea.Cmd {
	m.tickID++
	id := m.tickID
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return refreshTickMsg{id: id, at: t}
	})
}

func clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

func (m *BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			if m.fetching {
				return m, nil
			}
			m.fetching = true
			return m, m.fetch()
		}

	case cycleMsg:
		m.state = board.State(msg)
		m.fetching = false

		// The next cycle is only armed once this one has landed
		cmds := []tea.Cmd{m.scheduleRefresh()}
		if !m.titled && !m.state.Failed() && m.state.LocationName != "" {
			m.titled = true
			cmds = append(cmds, tea.SetWindowTitle(m.state.Title()))
		}
		return m, tea.Batch(cmds...)

	case refreshTickMsg:
		if m.fetching || msg.id != m.tickID {
			return m, nil
		}
		m.fetching = true
		return m, m.fetch()

	case clockTickMsg:
		m.now = time.Time(msg)
		return m, clockTick()
	}

	return m, nil
}

func (m *BoardModel) View() string {
	return RenderBoard(m.state, m.styles, m.now)
}

// RunBoard runs the full-screen board until the user quits or ctx ends.
func RunBoard(ctx context.Context, r *board.Refresher, interval time.Duration, styles Styles) error {
	m := NewBoardModel(ctx, r, interval, styles)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
