package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tskovgaard/vcs6507/console"
)

var (
	styleLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	styleValue = lipgloss.NewStyle().Bold(true)
	styleErr   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// watchModel is a read-only live view onto a free-running console: it
// has no breakpoints, no stepping, and no pause — the console advances
// every frame exactly as it would headlessly, and q (or ctrl+c) is the
// only input that does anything.
type watchModel struct {
	con   *console.Console
	ticks int64
	limit int64
	err   error
}

type tickMsg struct{}

func doTick() tea.Cmd {
	return func() tea.Msg { return tickMsg{} }
}

func (m watchModel) Init() tea.Cmd {
	return doTick()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	case tickMsg:
		if m.err != nil || (m.limit != 0 && m.ticks >= m.limit) {
			return m, nil
		}
		if err := m.con.Tick(); err != nil {
			m.err = err
			return m, nil
		}
		m.ticks++
		return m, doTick()
	}
	return m, nil
}

func (m watchModel) registers() string {
	c := m.con.CPU
	return fmt.Sprintf(
		"%s %s  %s %s  %s %s  %s %s  %s %s  %s %s",
		styleLabel.Render("PC"), styleValue.Render(fmt.Sprintf("%04X", c.PC)),
		styleLabel.Render("A"), styleValue.Render(fmt.Sprintf("%02X", c.A)),
		styleLabel.Render("X"), styleValue.Render(fmt.Sprintf("%02X", c.X)),
		styleLabel.Render("Y"), styleValue.Render(fmt.Sprintf("%02X", c.Y)),
		styleLabel.Render("SP"), styleValue.Render(fmt.Sprintf("%02X", c.SP)),
		styleLabel.Render("P"), styleValue.Render(fmt.Sprintf("%02X", c.P)),
	)
}

func (m watchModel) busses() string {
	addr, addrErr := m.con.AddressBusValue()
	data, dataErr := m.con.DataBusValue()
	addrs, datas := "----", "--"
	if addrErr == nil {
		addrs = fmt.Sprintf("%04X", addr)
	}
	if dataErr == nil {
		datas = fmt.Sprintf("%02X", data)
	}
	return fmt.Sprintf("%s %s  %s %s",
		styleLabel.Render("addr"), styleValue.Render(addrs),
		styleLabel.Render("data"), styleValue.Render(datas),
	)
}

func (m watchModel) View() string {
	body := lipgloss.JoinVertical(
		lipgloss.Left,
		fmt.Sprintf("tick %d", m.ticks),
		m.registers(),
		m.busses(),
	)
	if m.err != nil {
		body = lipgloss.JoinVertical(lipgloss.Left, body, styleErr.Render(m.err.Error()))
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		body,
		"",
		styleLabel.Render("q: quit"),
	)
}

// runWatch free-runs the console exactly like runHeadless, rendering a
// live register/bus snapshot each tick instead of running silently.
func runWatch(con *console.Console, limit int64) error {
	m, err := tea.NewProgram(watchModel{con: con, limit: limit}).Run()
	if err != nil {
		return err
	}
	if w, ok := m.(watchModel); ok && w.err != nil {
		return w.err
	}
	return nil
}
