package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/script-engine/internal/config"
	"github.com/jwebster45206/script-engine/internal/storage"
	"github.com/jwebster45206/script-engine/pkg/engine"
)

// RunnerUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type RunnerUI struct {
	cfg           *config.Config
	logger        *slog.Logger
	eng           *engine.Engine
	world         *consoleWorld
	store         storage.Storage
	slot          uuid.UUID
	scriptFile    string
	sceneViewport viewport.Model
	metaViewport  viewport.Model
	ready         bool
	width         int
	height        int
	notice        string

	// Quit confirmation state
	showQuitModal bool
}

type tickMsg time.Time

type savedMsg struct {
	err error
}

type loadedMsg struct {
	snapshot map[string]string
	err      error
}

var (
	scenePanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	dialogStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	effectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	optionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	selectedOptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewRunnerUI(cfg *config.Config, logger *slog.Logger, eng *engine.Engine, world *consoleWorld, store storage.Storage, slot uuid.UUID, scriptFile string) RunnerUI {
	sceneVp := viewport.New(50, 20)
	sceneVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return RunnerUI{
		cfg:           cfg,
		logger:        logger,
		eng:           eng,
		world:         world,
		store:         store,
		slot:          slot,
		scriptFile:    scriptFile,
		sceneViewport: sceneVp,
		metaViewport:  metaVp,
	}
}

func (m RunnerUI) tick() tea.Cmd {
	return tea.Tick(m.cfg.TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m RunnerUI) Init() tea.Cmd {
	return m.tick()
}

func (m RunnerUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var vpCmd tea.Cmd

	switch msg := msg.(type) {
	case tickMsg:
		m.eng.Update(m.cfg.TickInterval)
		m.world.tick(m.eng.Clock())
		if m.ready {
			m.writeSceneContent()
			m.metaViewport.SetContent(m.writeMetadata())
		}
		return m, m.tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		sceneWidth := int(float64(m.width)*0.75) - 4
		metaWidth := m.width - sceneWidth - 6

		m.sceneViewport.Width = sceneWidth - 2
		m.sceneViewport.Height = m.height - 4
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4

		m.ready = true
		m.writeSceneContent()
		m.metaViewport.SetContent(m.writeMetadata())

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if len(m.world.options) > 0 && m.world.cursor > 0 {
				m.world.cursor--
				m.writeSceneContent()
			}
		case tea.KeyDown:
			if len(m.world.options) > 0 && m.world.cursor < len(m.world.options)-1 {
				m.world.cursor++
				m.writeSceneContent()
			}
		case tea.KeySpace:
			if len(m.world.options) > 0 && m.world.multiSelect {
				m.world.chosen[m.world.cursor] = !m.world.chosen[m.world.cursor]
				m.writeSceneContent()
			}
		case tea.KeyEnter:
			return m.handleEnter()
		case tea.KeyCtrlS:
			return m, m.saveVars()
		case tea.KeyCtrlL:
			return m, m.loadVars()
		}

	case savedMsg:
		if msg.err != nil {
			m.notice = errorStyle.Render("save failed: " + msg.err.Error())
		} else {
			m.notice = noticeStyle.Render("variables saved to slot " + m.slot.String()[:8])
		}

	case loadedMsg:
		if msg.err != nil {
			m.notice = errorStyle.Render("load failed: " + msg.err.Error())
		} else {
			m.eng.Vars().Restore(msg.snapshot)
			m.notice = noticeStyle.Render("variables loaded from slot " + m.slot.String()[:8])
		}
	}

	m.sceneViewport, vpCmd = m.sceneViewport.Update(msg)
	return m, vpCmd
}

// handleEnter acknowledges whatever the script is waiting on: a pending
// selection first, then an open dialog.
func (m RunnerUI) handleEnter() (tea.Model, tea.Cmd) {
	w := m.world
	switch {
	case len(w.options) > 0 && w.multiSelect:
		var picks []int
		for i := range w.options {
			if w.chosen[i] {
				picks = append(picks, i)
			}
		}
		sort.Ints(picks)
		parts := make([]string, len(picks))
		for i, p := range picks {
			parts[i] = strconv.Itoa(p)
		}
		w.options = nil
		w.resolver.Resolve(engine.WaitMultiSelectDone, strings.Join(parts, ","))

	case len(w.options) > 0:
		choice := w.cursor
		w.options = nil
		w.resolver.Resolve(engine.WaitSelectionMade, strconv.Itoa(choice))

	case w.dialogOpen:
		w.dialogOpen = false
		w.resolver.Resolve(engine.WaitDialogClosed, "")
	}

	m.writeSceneContent()
	return m, nil
}

func (m *RunnerUI) writeSceneContent() {
	sceneWidth := m.sceneViewport.Width - 6
	if sceneWidth < 20 {
		sceneWidth = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("SCRIPT RUNNER") + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", sceneWidth-6)) + "\n\n")

	for _, line := range m.world.lines {
		if strings.HasPrefix(line, "* ") {
			content.WriteString(effectStyle.Render(wordwrap.String(line, sceneWidth)) + "\n")
		} else {
			content.WriteString(dialogStyle.Render(wordwrap.String(line, sceneWidth)) + "\n")
		}
	}

	if len(m.world.options) > 0 {
		content.WriteString("\n")
		for i, opt := range m.world.options {
			label := opt
			if m.world.multiSelect {
				mark := "[ ]"
				if m.world.chosen[i] {
					mark = "[x]"
				}
				label = mark + " " + opt
			}
			if i == m.world.cursor {
				content.WriteString(selectedOptionStyle.Render("▶ "+label) + "\n")
			} else {
				content.WriteString(optionStyle.Render("  "+label) + "\n")
			}
		}
		content.WriteString("\n" + promptStyle.Render("↑/↓ to choose, enter to confirm"))
		if m.world.multiSelect {
			content.WriteString(promptStyle.Render(", space to toggle"))
		}
		content.WriteString("\n")
	} else if m.world.dialogOpen {
		content.WriteString("\n" + promptStyle.Render("(enter to continue)") + "\n")
	} else if !m.eng.Active() {
		content.WriteString("\n" + promptStyle.Render("script finished, ctrl+c to exit") + "\n")
	}

	if m.notice != "" {
		content.WriteString("\n" + m.notice + "\n")
	}

	m.sceneViewport.SetContent(content.String())
	m.sceneViewport.GotoBottom()
}

func (m *RunnerUI) writeMetadata() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("ENGINE") + "\n\n")

	content.WriteString("Script:\n")
	content.WriteString(m.scriptFile + "\n\n")

	if main := m.eng.Main(); main != nil {
		content.WriteString(fmt.Sprintf("Main: %s\n", main.Status))
		content.WriteString(fmt.Sprintf("Thread: %s\n", main.ID.String()[:8]))
		content.WriteString(fmt.Sprintf("Line: %d\n", main.Line+1))
	} else {
		content.WriteString("Main: idle\n")
	}
	content.WriteString(fmt.Sprintf("Parallel: %d\n", m.eng.ParallelCount()))
	content.WriteString(fmt.Sprintf("Waits: %d\n", m.eng.Resolver().PendingCount()))
	content.WriteString(fmt.Sprintf("Clock: %s\n\n", m.eng.Clock().Round(time.Millisecond)))

	snapshot := m.eng.Vars().Snapshot()
	if len(snapshot) > 0 {
		content.WriteString("Variables:\n")
		names := make([]string, 0, len(snapshot))
		for k := range snapshot {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			content.WriteString(fmt.Sprintf("• %s = %s\n", k, snapshot[k]))
		}
	} else {
		content.WriteString("Variables:\nNone set\n")
	}

	content.WriteString("\n")
	content.WriteString("Commands:\n")
	content.WriteString("• Enter: Continue\n")
	content.WriteString("• Ctrl+S: Save vars\n")
	content.WriteString("• Ctrl+L: Load vars\n")
	content.WriteString("• Ctrl+C: Quit\n")

	return content.String()
}

func (m RunnerUI) saveVars() tea.Cmd {
	snapshot := m.eng.Vars().Snapshot()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return savedMsg{err: m.store.SaveVars(ctx, m.slot, snapshot)}
	}
}

func (m RunnerUI) loadVars() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		snapshot, err := m.store.LoadVars(ctx, m.slot)
		return loadedMsg{snapshot: snapshot, err: err}
	}
}

func (m RunnerUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				return m, m.tick()
			}
		}
	}

	return m, nil
}

func (m RunnerUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("The running script will be abandoned.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to keep playing"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m RunnerUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	sceneWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - sceneWidth - 6

	scenePanel := scenePanelStyle.Width(sceneWidth).Height(m.height - 2).Render(
		m.sceneViewport.View(),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, scenePanel, metaPanel)
}
