// Package tui is the interactive terminal chat for one document.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/documentor/internal/chatclient"
	"github.com/custodia-labs/documentor/internal/core/domain"
)

// StateChangedMsg carries a new session state into the model.
type StateChangedMsg struct {
	State chatclient.State
}

// NoticeMsg carries a failure the user should see.
type NoticeMsg struct {
	Notice chatclient.Notification
}

type sendDoneMsg struct{ err error }

type refreshDoneMsg struct{ err error }

// Chatter is the part of a chat session the view drives.
type Chatter interface {
	Send(ctx context.Context, text string) error
	Refresh(ctx context.Context) error
	LoadMore(ctx context.Context) error
}

// App is the chat view following the Elm architecture. Session calls run
// inside tea.Cmds; state arrives back as StateChangedMsg.
type App struct {
	ctx     context.Context
	session Chatter
	title   string

	styles   *Styles
	keys     *KeyMap
	help     help.Model
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	state  chatclient.State
	notice string

	width  int
	height int
	ready  bool
}

var _ tea.Model = (*App)(nil)

// NewApp creates the chat view.
func NewApp(ctx context.Context, session Chatter, title string) *App {
	ti := textinput.New()
	ti.Placeholder = "Ask a question about this document..."
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return &App{
		ctx:      ctx,
		session:  session,
		title:    title,
		styles:   DefaultStyles(),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		input:    ti,
		viewport: viewport.New(80, 20),
		spinner:  sp,
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		a.spinner.Tick,
		tea.SetWindowTitle("documentor - "+a.title),
		a.refresh(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case StateChangedMsg:
		a.state = msg.State
		// A rollback puts the question back into the input.
		if !msg.State.Loading && msg.State.Input != "" && a.input.Value() == "" {
			a.input.SetValue(msg.State.Input)
			a.input.CursorEnd()
		}
		a.renderMessages()
		return a, nil

	case NoticeMsg:
		a.notice = msg.Notice.Title + ": " + msg.Notice.Detail
		return a, nil

	case sendDoneMsg:
		return a, nil

	case refreshDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			a.notice = "Could not load messages: " + msg.err.Error()
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Send):
		text := strings.TrimSpace(a.input.Value())
		if text == "" || a.state.Loading {
			return a, nil
		}
		a.input.Reset()
		a.notice = ""
		return a, a.send(text)

	case key.Matches(msg, a.keys.LoadMore):
		return a, a.loadMore()

	case key.Matches(msg, a.keys.ScrollUp), key.Matches(msg, a.keys.ScrollDn):
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) send(text string) tea.Cmd {
	return func() tea.Msg {
		return sendDoneMsg{err: a.session.Send(a.ctx, text)}
	}
}

func (a *App) refresh() tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg{err: a.session.Refresh(a.ctx)}
	}
}

func (a *App) loadMore() tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg{err: a.session.LoadMore(a.ctx)}
	}
}

// SetDimensions resizes the view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	// title, input box, notice and help lines
	chrome := 8
	a.viewport.Width = width
	a.viewport.Height = max(height-chrome, 3)
	a.input.Width = max(width-6, 10)
	a.renderMessages()
}

func (a *App) renderMessages() {
	entries := a.state.Messages()
	slices.Reverse(entries)

	wrap := a.styles.Body.Width(max(a.viewport.Width-2, 10))
	var b strings.Builder
	for _, e := range entries {
		label := a.styles.Assistant.Render("Assistant")
		if e.IsUserMessage {
			label = a.styles.User.Render("You")
		}
		text := e.Text
		if e.Provenance == chatclient.Streaming {
			text += "▌"
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(wrap.Render(text))
		b.WriteString("\n\n")
	}
	a.viewport.SetContent(b.String())
	a.viewport.GotoBottom()
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var status string
	switch {
	case a.notice != "":
		status = a.styles.Error.Render(a.notice)
	case a.state.Loading:
		status = a.spinner.View() + a.styles.Muted.Render(" thinking")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.styles.Title.Render(a.title),
		a.viewport.View(),
		status,
		a.styles.Input.Render(a.input.View()),
		a.help.ShortHelpView(a.keys.ShortHelp()),
	)
}

// State returns the last state the view received.
func (a *App) State() chatclient.State {
	return a.state
}

// Notice returns the failure message on screen, if any.
func (a *App) Notice() string {
	return a.notice
}

// Run starts the chat view for doc and blocks until the user quits.
func Run(ctx context.Context, api chatclient.API, doc *domain.Document) error {
	var p *tea.Program
	session := chatclient.NewSession(chatclient.SessionConfig{
		API:    api,
		FileID: doc.ID,
		Logger: slog.New(slog.DiscardHandler),
		OnChange: func(s chatclient.State) {
			p.Send(StateChangedMsg{State: s})
		},
		Notify: func(n chatclient.Notification) {
			p.Send(NoticeMsg{Notice: n})
		},
	})

	p = tea.NewProgram(NewApp(ctx, session, doc.Name), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
