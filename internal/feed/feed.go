// Package feed simulates a chat message source: a window of messages
// ordered oldest-first, with live arrivals appended at the end and a
// finite backlog of history that can be paged in at the front.
package feed

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Message is one chat message.
type Message struct {
	ID     string
	Author string
	Body   string
	SentAt time.Time
}

var authors = []string{"ada", "grace", "edsger", "barbara", "tony", "leslie"}

var phrases = []string{
	"did anyone look at the flaky deploy job yet",
	"pushed a fix, should be green now",
	"the staging cluster is back up",
	"can you re-run the migration on your branch",
	"lunch?",
	"that trace points at the connection pool, not the query planner, so the index change will not help",
	"I rolled the canary back, error rate dropped immediately",
	"ok",
	"meeting moved to 3pm, same room",
	"the new dashboard looks great, thanks for wiring the latency panel in",
	"heads up, rotating the API keys in an hour",
	"works on my machine, which I realize is not the reassurance you were hoping for, checking the CI image now",
}

// Feed holds the currently loaded message window. All methods are
// safe for concurrent use.
type Feed struct {
	mu       sync.Mutex
	messages []Message
	backlog  int
	seq      int
	rng      *rand.Rand
	log      *logrus.Entry
}

// New creates a feed pre-filled with initial messages and backlog
// older messages available for history loads.
func New(initial, backlog int, log *logrus.Logger) *Feed {
	if log == nil {
		log = logrus.New()
	}
	f := &Feed{
		backlog: backlog,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		log:     log.WithField("component", "feed"),
	}
	for i := 0; i < initial; i++ {
		f.messages = append(f.messages, f.generate())
	}
	return f
}

// Messages returns the loaded window, oldest first. The returned
// slice must not be mutated.
func (f *Feed) Messages() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.messages
}

// Len returns the number of loaded messages.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

// Append generates one live message at the end of the window and
// returns it.
func (f *Feed) Append() Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.generate()
	f.messages = append(f.messages, m)
	f.log.WithField("id", m.ID).Debug("live message")
	return m
}

// LoadOlder moves up to n messages from the backlog to the front of
// the window and returns how many were loaded. Zero means the history
// is exhausted.
func (f *Feed) LoadOlder(n int) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	if n > f.backlog {
		n = f.backlog
	}
	if n <= 0 {
		return 0
	}
	f.backlog -= n

	older := make([]Message, n, n+len(f.messages))
	for i := range older {
		older[i] = f.generate()
	}
	f.messages = append(older, f.messages...)
	f.log.WithFields(logrus.Fields{"count": n, "backlog": f.backlog}).Debug("history loaded")
	return n
}

// HasHistory reports whether older messages remain to be loaded.
func (f *Feed) HasHistory() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.backlog > 0
}

func (f *Feed) generate() Message {
	f.seq++
	body := phrases[f.rng.Intn(len(phrases))]
	if f.rng.Intn(4) == 0 {
		body = fmt.Sprintf("%s %s", body, phrases[f.rng.Intn(len(phrases))])
	}
	return Message{
		ID:     uuid.NewString(),
		Author: authors[f.rng.Intn(len(authors))],
		Body:   body,
		SentAt: time.Now(),
	}
}
