package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/tatianab/stronghold/internal/engine"
	"github.com/tatianab/stronghold/internal/models"
	"github.com/tatianab/stronghold/internal/persistence"
)

// DefaultSave is the slot used for autosaves.
const DefaultSave = "current"

type sessionState int

const (
	stateInputName sessionState = iota
	stateLoading
	statePlaying
	stateError
)

// Options controls how a game starts.
type Options struct {
	// SaveName is the slot autosaves go to.
	SaveName string
	// Load resumes SaveName instead of founding a new kingdom.
	Load        bool
	DefaultName string
	MapSize     int
}

type model struct {
	state     sessionState
	engine    *engine.Engine
	store     *persistence.Store
	log       *zap.Logger
	opts      Options
	session   *engine.Session
	textInput textinput.Model
	viewport  viewport.Model
	err       error
	notice    string
	gameLog   string
	width     int
	height    int
	busy      bool
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)
)

func NewModel(eng *engine.Engine, store *persistence.Store, log *zap.Logger, opts Options) model {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.SaveName == "" {
		opts.SaveName = DefaultSave
	}
	if opts.DefaultName == "" {
		opts.DefaultName = engine.DefaultKingdomName
	}
	ti := textinput.New()
	ti.Placeholder = opts.DefaultName
	ti.Focus()
	ti.CharLimit = 156
	ti.Width = 40

	m := model{
		state:     stateInputName,
		engine:    eng,
		store:     store,
		log:       log,
		opts:      opts,
		textInput: ti,
	}
	if opts.Load {
		m.state = stateLoading
	}
	return m
}

func (m model) Init() tea.Cmd {
	if m.state == stateLoading {
		return m.loadSession()
	}
	return textinput.Blink
}

type sessionReadyMsg struct {
	session *engine.Session
	intro   string
}

type turnProcessedMsg struct {
	command string
	outcome string
	err     error
}

type errMsg struct {
	err error
}

func (m model) logWidth() int {
	return int(float64(m.width) * 0.75)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if m.state == stateInputName {
				name := strings.TrimSpace(m.textInput.Value())
				if name == "" {
					name = m.opts.DefaultName
				}
				return m, m.newSession(name)
			}
			if m.state == statePlaying {
				action := strings.TrimSpace(m.textInput.Value())
				if action == "" || m.busy {
					return m, nil
				}
				m.textInput.Reset()

				switch action {
				case "/quit":
					return m, tea.Quit
				case "/save":
					note := m.save()
					if note == "" {
						note = helpStyle.Render("Saved as " + m.opts.SaveName + ".")
					}
					m.appendLog(note)
					return m, nil
				}

				m.appendLog(userStyle.Width(m.logWidth()).Render("> " + action))
				m.busy = true
				return m, m.processTurn(action)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.logWidth()
		m.viewport.Height = msg.Height - 6
		if m.state == statePlaying {
			m.viewport.SetContent(m.gameLog)
		}

	case sessionReadyMsg:
		m.session = msg.session
		m.state = statePlaying
		m.notice = ""
		if m.viewport.Width == 0 {
			m.viewport = viewport.New(m.logWidth(), max(m.height-6, 0))
		}
		header := gameStyle.Bold(true).Render(fmt.Sprintf("The kingdom of %s", m.session.Human().Name))
		m.gameLog = header + "\n\n" + gameStyle.Width(m.logWidth()).Render(msg.intro) + "\n\n"
		m.viewport.SetContent(m.gameLog)
		m.textInput.Placeholder = "Type a command, or help"
		m.textInput.Reset()
		if note := m.save(); note != "" {
			m.appendLog(note)
		}
		return m, nil

	case turnProcessedMsg:
		m.busy = false
		if msg.err != nil {
			m.appendLog(errorStyle.Width(m.logWidth()).Render(msg.err.Error()))
			return m, nil
		}
		m.appendLog(gameStyle.Width(m.logWidth()).Render(msg.outcome))
		if note := m.save(); note != "" {
			m.appendLog(note)
		}
		return m, nil

	case errMsg:
		if m.state == stateInputName {
			// A rejected kingdom name: ask again.
			m.notice = msg.err.Error()
			m.textInput.Reset()
			return m, nil
		}
		m.err = msg.err
		m.state = stateError
		return m, nil
	}

	if m.state == stateInputName || m.state == statePlaying {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *model) appendLog(s string) {
	if s == "" {
		return
	}
	m.gameLog += s + "\n\n"
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()
}

// save writes the autosave and returns a log line only when it failed.
func (m *model) save() string {
	if m.store == nil || m.session == nil {
		return ""
	}
	if err := m.store.Save(m.opts.SaveName, m.session); err != nil {
		m.log.Error("autosave failed", zap.String("save", m.opts.SaveName), zap.Error(err))
		return errorStyle.Render("Could not save the game: " + err.Error())
	}
	return ""
}

func (m model) View() string {
	var s string

	switch m.state {
	case stateInputName:
		s = fmt.Sprintf(
			"Welcome to Stronghold!\n\n%s\n\n%s",
			"Name your kingdom:",
			m.textInput.View(),
		)
		if m.notice != "" {
			s += "\n\n" + errorStyle.Render(m.notice)
		}

	case stateLoading:
		s = "\n  Loading your kingdom... please wait.\n"

	case statePlaying:
		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewport.View(),
			m.renderState(),
		)

		help := helpStyle.Render("Commands: help, end, /save, /quit.")

		s = lipgloss.JoinVertical(lipgloss.Left,
			mainView,
			"\n"+m.textInput.View(),
			"\n"+help,
		)

	case stateError:
		s = fmt.Sprintf("\n  Error: %v\n\nPress Esc to quit.", m.err)
	}

	return "\n" + s + "\n"
}

func (m model) renderState() string {
	if m.session == nil {
		return ""
	}
	k := m.session.Human()

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(strings.ToUpper(k.Name)) + "\n")
	fmt.Fprintf(&sb, "Turn %d\n", m.session.Turn)
	fmt.Fprintf(&sb, "Population: %s\n", humanize.Comma(int64(k.Population)))
	fmt.Fprintf(&sb, "Happiness: %d\n\n", k.Happiness)

	sb.WriteString(titleStyle.Render("RESOURCES") + "\n")
	for _, r := range models.AllResourceTypes() {
		fmt.Fprintf(&sb, "%s: %s\n", r, humanize.Comma(int64(k.Resources.Get(r))))
	}
	sb.WriteString("\n")

	sb.WriteString(titleStyle.Render("ARMY") + "\n")
	fmt.Fprintf(&sb, "Soldiers: %d\nArchers: %d\nCavalry: %d\nSiege: %d\n",
		k.Military.Soldiers, k.Military.Archers, k.Military.Cavalry, k.Military.Siege)
	fmt.Fprintf(&sb, "Attack %d / Defense %d\n\n", k.Military.AttackPower(), k.Military.DefensePower())

	sb.WriteString(titleStyle.Render("COURT") + "\n")
	fmt.Fprintf(&sb, "Buildings: %d\n", len(k.Buildings))
	fmt.Fprintf(&sb, "Unread messages: %d\n", m.session.Courier.Unread(k.Name))
	fmt.Fprintf(&sb, "Trade offers: %d\n", len(m.session.Market.OffersFor(k.Name)))
	fmt.Fprintf(&sb, "Treaties: %d\n", len(m.session.Diplomacy.ActiveFor(k.Name)))
	if m.session.Over {
		sb.WriteString("\n" + errorStyle.Render("Your kingdom has fallen."))
	}

	stateWidth := int(float64(m.width) * 0.23)
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(sb.String())
}

func (m model) newSession(name string) tea.Cmd {
	return func() tea.Msg {
		s, err := engine.NewSession(engine.Options{KingdomName: name, MapSize: m.opts.MapSize}, m.engine.Rand())
		if err != nil {
			return errMsg{err}
		}
		intro := fmt.Sprintf("You rule %s from (%d,%d). Four rival kingdoms share the land. Type help to see your options.",
			s.Human().Name, s.Human().X, s.Human().Y)
		return sessionReadyMsg{session: s, intro: intro}
	}
}

func (m model) loadSession() tea.Cmd {
	return func() tea.Msg {
		if m.store == nil {
			return errMsg{errors.New("no save directory configured")}
		}
		s, meta, err := m.store.Load(m.opts.SaveName)
		if err != nil {
			return errMsg{err}
		}
		intro := fmt.Sprintf("Resumed on turn %d, last saved %s.", meta.Turn, humanize.Time(meta.SavedAt))
		return sessionReadyMsg{session: s, intro: intro}
	}
}

func (m model) processTurn(action string) tea.Cmd {
	return func() tea.Msg {
		outcome, err := m.engine.ProcessTurn(context.Background(), m.session, action)
		return turnProcessedMsg{command: action, outcome: outcome, err: err}
	}
}

// Run plays an interactive game until the player quits.
func Run(eng *engine.Engine, store *persistence.Store, log *zap.Logger, opts Options) error {
	p := tea.NewProgram(NewModel(eng, store, log, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
