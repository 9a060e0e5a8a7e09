package agent

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/punchbar/punchbar/internal/domain"
	"github.com/punchbar/punchbar/internal/port"
)

// fakeBrowser is an in-memory DOM: a set of visible selectors plus click
// hooks that mutate it, standing in for page transitions. Waits return
// immediately so flows run at test speed.
type fakeBrowser struct {
	mu      sync.Mutex
	visible map[string]bool
	checked map[string]bool
	typed   map[string]string
	clicks  []string
	onClick map[string]func(b *fakeBrowser)

	navigations []string
	urlErr      error
	closed      bool
}

func newFakeBrowser(visible ...string) *fakeBrowser {
	b := &fakeBrowser{
		visible: make(map[string]bool),
		checked: make(map[string]bool),
		typed:   make(map[string]string),
		onClick: make(map[string]func(*fakeBrowser)),
	}
	for _, sel := range visible {
		b.visible[sel] = true
	}
	return b
}

func (b *fakeBrowser) show(sels ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sel := range sels {
		b.visible[sel] = true
	}
}

func (b *fakeBrowser) hide(sels ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sel := range sels {
		delete(b.visible, sel)
	}
}

// matches handles selector groups ("a, b") the way querySelector does.
// Whole-selector lookup comes first so XPath selectors containing commas
// are not torn apart.
func (b *fakeBrowser) matches(sel string) bool {
	if b.visible[sel] {
		return true
	}
	for _, part := range strings.Split(sel, ",") {
		if b.visible[strings.TrimSpace(part)] {
			return true
		}
	}
	return false
}

func (b *fakeBrowser) Navigate(_ context.Context, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.navigations = append(b.navigations, url)
	return nil
}

func (b *fakeBrowser) CurrentURL(context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.urlErr != nil {
		return "", b.urlErr
	}
	return "https://app.gusto.com/dashboard", nil
}

func (b *fakeBrowser) TryFind(_ context.Context, sel string, _ time.Duration) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.matches(sel), nil
}

func (b *fakeBrowser) Click(_ context.Context, sel string) error {
	b.mu.Lock()
	b.clicks = append(b.clicks, sel)
	hook := b.onClick[sel]
	b.mu.Unlock()
	if hook != nil {
		hook(b)
	}
	return nil
}

func (b *fakeBrowser) SendKeys(_ context.Context, sel, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.typed[sel] += text
	return nil
}

func (b *fakeBrowser) Clear(_ context.Context, sel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.typed, sel)
	return nil
}

func (b *fakeBrowser) IsChecked(_ context.Context, sel string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.checked[sel], nil
}

func (b *fakeBrowser) WaitGone(_ context.Context, sel string, _ time.Duration) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.matches(sel), nil
}

func (b *fakeBrowser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// fakeFactory hands out preset browsers in order and counts launches.
type fakeFactory struct {
	mu       sync.Mutex
	browsers []*fakeBrowser
	launches int
	err      error
}

func (f *fakeFactory) New(context.Context) (port.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.launches >= len(f.browsers) {
		b := newFakeBrowser()
		f.browsers = append(f.browsers, b)
	}
	b := f.browsers[f.launches]
	f.launches++
	return b, nil
}

type fakeConfigStore struct {
	creds   domain.Credentials
	loadErr error
	saved   []domain.Credentials
}

func (s *fakeConfigStore) Load() (domain.Credentials, error) { return s.creds, s.loadErr }

func (s *fakeConfigStore) Save(c domain.Credentials) error {
	s.creds = c
	s.saved = append(s.saved, c)
	return nil
}

type fakeTimerStore struct {
	mu    sync.Mutex
	state domain.TimerState
	saved []domain.TimerState
}

func (s *fakeTimerStore) Load() (domain.TimerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, nil
}

func (s *fakeTimerStore) Save(t domain.TimerState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = t
	s.saved = append(s.saved, t)
	return nil
}

func (s *fakeTimerStore) last() domain.TimerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

type fakePrompter struct {
	email, password string
	credsOK         bool
	code            string
	codeOK          bool
	codeAsked       int
	alerts          []string
}

func (p *fakePrompter) Credentials() (string, string, bool) {
	return p.email, p.password, p.credsOK
}

func (p *fakePrompter) TwoFactorCode() (string, bool) {
	p.codeAsked++
	return p.code, p.codeOK
}

func (p *fakePrompter) Alert(message string) { p.alerts = append(p.alerts, message) }
