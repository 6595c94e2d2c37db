package app_test

import (
	"context"
	"sync"
	"time"

	"github.com/randomtoy/oracle-go/internal/ports"
)

// seqRNG pops scripted values first, then falls back to a fixed-seed LCG,
// so tests can steer the early branch picks (style, algorithm) while the
// rest of the animation stays deterministic but unconstrained.
type seqRNG struct {
	state  uint64
	ints   []int
	floats []float64
}

func (r *seqRNG) next() uint64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

func (r *seqRNG) Intn(n int) int {
	if len(r.ints) > 0 {
		v := r.ints[0]
		r.ints = r.ints[1:]
		return v % n
	}
	return int(r.next() >> 33 % uint64(n))
}

func (r *seqRNG) Float64() float64 {
	if len(r.floats) > 0 {
		v := r.floats[0]
		r.floats = r.floats[1:]
		return v
	}
	return float64(r.next()>>11) / float64(1<<53)
}

// instantSleeper skips all pacing waits.
type instantSleeper struct{}

func (instantSleeper) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// fakeMessenger records every channel interaction.
type fakeMessenger struct {
	mu        sync.Mutex
	sent      []string
	frames    []string
	editErrs  []error
	editCalls int
	pings     int
	photos    []string
	deleted   []ports.MessageRef
	deleteErr error
	nextID    int
}

func (m *fakeMessenger) SendMessage(_ context.Context, chatID int64, text string, _ ports.SendOptions) (ports.MessageRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.sent = append(m.sent, text)
	return ports.MessageRef{ChatID: chatID, MessageID: m.nextID}, nil
}

func (m *fakeMessenger) EditMessage(_ context.Context, _ ports.MessageRef, text string, _ ports.SendOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.editCalls++
	if len(m.editErrs) > 0 {
		err := m.editErrs[0]
		m.editErrs = m.editErrs[1:]
		if err != nil {
			return err
		}
	}
	m.frames = append(m.frames, text)
	return nil
}

func (m *fakeMessenger) DeleteMessage(_ context.Context, ref ports.MessageRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, ref)
	return nil
}

func (m *fakeMessenger) SendPhoto(_ context.Context, _ int64, path, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.photos = append(m.photos, path)
	return nil
}

func (m *fakeMessenger) PresencePing(_ context.Context, _ int64, _ ports.PingKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pings++
	return nil
}

// fakeDeck serves a fixed card list.
type fakeDeck struct {
	cards []string
	err   error
}

func (d *fakeDeck) Cards(_ context.Context) ([]string, error) {
	return d.cards, d.err
}

// fakeShare pretends to render images.
type fakeShare struct {
	path  string
	err   error
	calls int
}

func (s *fakeShare) Render(_ context.Context, _ string, _ int64) (string, error) {
	s.calls++
	return s.path, s.err
}
