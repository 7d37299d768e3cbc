// Package ui implements the demo's terminal interface: a chat
// transcript that virtualizes a large message feed, loading older
// history as the user scrolls toward the top and following new
// messages at the bottom.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/scrollkit/virtual"
	"github.com/scrollkit/virtual/internal/config"
	"github.com/scrollkit/virtual/internal/feed"
	"github.com/scrollkit/virtual/internal/schedule"
)

const statusBarRows = 1

type liveMsg struct{ message feed.Message }

type historyRequestMsg struct{}

type historyLoadedMsg struct{ count int }

// Model is the root bubbletea model.
type Model struct {
	cfg  *config.Config
	feed *feed.Feed
	log  *logrus.Entry

	v  *virtual.Virtualizer[feed.Message]
	vp *lineViewport

	keys   keyMap
	spin   spinner.Model
	styles styles

	width  int
	height int

	loadingHistory bool
	historyReq     chan struct{}
}

// NewModel wires the feed, the virtualizer and the terminal viewport
// together.
func NewModel(cfg *config.Config, f *feed.Feed, log *logrus.Logger) *Model {
	if log == nil {
		log = logrus.New()
	}
	m := &Model{
		cfg:        cfg,
		feed:       f,
		log:        log.WithField("component", "ui"),
		vp:         &lineViewport{},
		keys:       defaultKeyMap(),
		styles:     newStyles(cfg.Theme),
		historyReq: make(chan struct{}, 1),
	}
	m.spin = spinner.New(spinner.WithSpinner(spinner.Dot))

	interval := time.Duration(cfg.UI.FrameIntervalMS) * time.Millisecond
	m.v = virtual.New(f.Messages,
		virtual.WithItemHeight[feed.Message](cfg.UI.DefaultItemHeight),
		virtual.WithOverscan[feed.Message](cfg.UI.Overscan),
		virtual.WithDirection[feed.Message](virtual.DirectionReverse),
		virtual.WithItemID[feed.Message](func(msg feed.Message) string { return msg.ID }),
		virtual.WithScheduler[feed.Message](schedule.NewFrame(interval)),
		virtual.WithStartThreshold[feed.Message](cfg.UI.TopThreshold),
		virtual.WithOnStartReached[feed.Message](m.requestHistory),
		virtual.WithViewport[feed.Message](m.vp),
	)
	return m
}

// requestHistory runs on the engine's edge frame, off the bubbletea
// loop, so it only signals; the load itself happens in Update.
func (m *Model) requestHistory(float64) {
	select {
	case m.historyReq <- struct{}{}:
	default:
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		m.nextLiveMessage(),
		m.waitForHistoryRequest(),
	)
}

func (m *Model) nextLiveMessage() tea.Cmd {
	if m.cfg.Feed.ArrivalIntervalMS <= 0 {
		return nil
	}
	d := time.Duration(m.cfg.Feed.ArrivalIntervalMS) * time.Millisecond
	return tea.Tick(d, func(time.Time) tea.Msg {
		return liveMsg{}
	})
}

func (m *Model) waitForHistoryRequest() tea.Cmd {
	return func() tea.Msg {
		<-m.historyReq
		return historyRequestMsg{}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		firstSize := m.height == 0
		m.width = msg.Width
		m.height = msg.Height
		rows := msg.Height - statusBarRows
		if rows < 0 {
			rows = 0
		}
		m.vp.setHeight(float64(rows))
		m.v.ResizeViewport(float64(msg.Width), float64(rows))
		if firstSize {
			m.pinToNewest()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scrollBy(-3)
		case tea.MouseButtonWheelDown:
			m.scrollBy(3)
		}
		return m, nil

	case liveMsg:
		wasAtBottom := m.atBottom()
		m.feed.Append()
		m.v.Refresh()
		if wasAtBottom {
			m.pinToNewest()
		}
		return m, m.nextLiveMessage()

	case historyRequestMsg:
		if m.loadingHistory || !m.feed.HasHistory() {
			return m, m.waitForHistoryRequest()
		}
		m.loadingHistory = true
		return m, tea.Batch(m.loadHistory(), m.waitForHistoryRequest())

	case historyLoadedMsg:
		m.loadingHistory = false
		if msg.count > 0 {
			m.v.Refresh()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) loadHistory() tea.Cmd {
	return func() tea.Msg {
		// A small delay keeps the spinner visible and mimics a fetch.
		time.Sleep(150 * time.Millisecond)
		n := m.feed.LoadOlder(m.cfg.Feed.PageSize)
		m.log.WithField("count", n).Debug("older messages fetched")
		return historyLoadedMsg{count: n}
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.v.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.scrollBy(-1)
	case key.Matches(msg, m.keys.Down):
		m.scrollBy(1)
	case key.Matches(msg, m.keys.PageUp):
		m.scrollBy(-m.vp.Height())
	case key.Matches(msg, m.keys.PageDown):
		m.scrollBy(m.vp.Height())
	case key.Matches(msg, m.keys.Top):
		m.v.ScrollTo(0, virtual.ScrollToOptions{Block: virtual.BlockStart})
	case key.Matches(msg, m.keys.Bottom):
		if n := m.feed.Len(); n > 0 {
			m.v.ScrollTo(n-1, virtual.ScrollToOptions{Block: virtual.BlockEnd})
		}
	}
	return m, nil
}

// atBottom reports whether the newest message is on screen.
func (m *Model) atBottom() bool {
	return m.v.ScrollOffset()+m.vp.Height() >= m.v.TotalExtent()-0.5
}

// pinToNewest aligns the last message with the bottom edge. The
// engine's notion of "bottom" is the raw extent, which a real browser
// viewport clamps; a terminal has no such clamp, so the model aligns
// explicitly.
func (m *Model) pinToNewest() {
	if n := m.feed.Len(); n > 0 {
		m.v.ScrollTo(n-1, virtual.ScrollToOptions{Block: virtual.BlockEnd})
	}
}

// scrollBy moves the viewport a discrete number of rows. Key and
// wheel events are single steps, so each one settles immediately.
func (m *Model) scrollBy(rows float64) {
	max := m.v.TotalExtent() - m.vp.Height()
	if max < 0 {
		max = 0
	}
	m.vp.scrollBy(rows, max)
	m.v.Scroll()
	m.v.ScrollEnd()
}

func (m *Model) View() string {
	if m.height <= statusBarRows {
		return ""
	}

	body := m.renderTranscript()
	return body + "\n" + m.renderStatusBar()
}

// renderTranscript renders the virtualized window and crops it to the
// viewport: the engine says which rows exist, the view slices out the
// ones on screen.
func (m *Model) renderTranscript() string {
	rows := m.height - statusBarRows

	switch m.v.State() {
	case virtual.StateLoading:
		return padToRows(m.spin.View()+" loading", rows)
	case virtual.StateEmpty:
		return padToRows("no messages", rows)
	case virtual.StateError:
		return padToRows(m.styles.errorTag.Render("feed unavailable"), rows)
	}

	var lines []string
	for i, msg := range m.v.Items() {
		rendered := m.renderMessage(msg)
		if h := lipgloss.Height(rendered); h > 0 {
			m.v.ResizeItem(i, float64(h))
		}
		lines = append(lines, strings.Split(rendered, "\n")...)
	}

	// Crop to the viewport: skip the part of the overscanned block
	// that sits above the scroll offset.
	skip := int(m.v.ScrollOffset() - m.v.LeadingOffset())
	if skip < 0 {
		skip = 0
	}
	if skip > len(lines) {
		skip = len(lines)
	}
	lines = lines[skip:]
	if len(lines) > rows {
		lines = lines[:rows]
	}
	return padToRows(strings.Join(lines, "\n"), rows)
}

func (m *Model) renderMessage(msg feed.Message) string {
	header := fmt.Sprintf("%s %s",
		m.styles.author.Render(msg.Author),
		m.styles.timestamp.Render(msg.SentAt.Format("15:04:05")),
	)
	width := m.width
	if width <= 0 {
		width = 80
	}
	body := m.styles.body.Width(width).Render(msg.Body)
	return header + "\n" + body
}

func (m *Model) renderStatusBar() string {
	first, last := m.v.Range()
	tag := m.styles.statusTag.Render(m.v.State().String())
	status := fmt.Sprintf("%s  %d messages  rows %d-%d", tag, m.feed.Len(), first, last)
	if m.loadingHistory {
		status = m.spin.View() + " fetching history  " + status
	} else if !m.feed.HasHistory() {
		status = "start of history  " + status
	}
	bar := m.styles.statusBar.Width(m.width)
	return bar.Render(status)
}

func padToRows(s string, rows int) string {
	have := strings.Count(s, "\n") + 1
	if s == "" {
		have = 0
	}
	if have >= rows {
		return s
	}
	return s + strings.Repeat("\n", rows-have)
}
