package balance

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Boost is a time-boxed effect. It is active until ExpiresAt, computed as
// StartedAt + Duration when the boost is activated locally.
type Boost struct {
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// Snapshot is the local mirror of the server-side monetizable counters.
// All counts are kept >= 0.
type Snapshot struct {
	Gems             int    `json:"gems"`
	Boosters         int    `json:"boosters"`
	Letters          int    `json:"letters"`
	ActiveBoost      *Boost `json:"active_boost,omitempty"`
	ReferralCode     string `json:"referral_code,omitempty"`
	ReferralRedeemed bool   `json:"referral_redeemed"`
}

// Store holds a balance snapshot and reconciles it with server responses.
// Decrements clamp at zero and never fail; insufficiency is the caller's
// check before invoking a paid action. Individual operations are atomic, but
// a read-decide-call-update sequence is not: a failed server call after an
// optimistic local mutation leaves the snapshot stale until the caller
// re-syncs.
type Store struct {
	mu    sync.RWMutex
	snap  Snapshot
	clock clockwork.Clock
}

// Option configures a Store at construction.
type Option func(*Store)

// WithInitial seeds the store with a starting snapshot.
func WithInitial(snap Snapshot) Option {
	return func(s *Store) {
		s.snap = snap
	}
}

func New(clock clockwork.Clock, opts ...Option) *Store {
	s := &Store{clock: clock}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// SetBalance overwrites all three counters at once.
func (s *Store) SetBalance(gems, boosters, letters int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Gems = clampNonNegative(gems)
	s.snap.Boosters = clampNonNegative(boosters)
	s.snap.Letters = clampNonNegative(letters)
}

func (s *Store) AddGems(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Gems = clampNonNegative(s.snap.Gems + n)
}

func (s *Store) DeductGems(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Gems = clampNonNegative(s.snap.Gems - n)
}

func (s *Store) AddBoosters(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Boosters = clampNonNegative(s.snap.Boosters + n)
}

func (s *Store) DeductBooster() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Boosters = clampNonNegative(s.snap.Boosters - 1)
}

func (s *Store) AddLetters(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Letters = clampNonNegative(s.snap.Letters + n)
}

// DeductLetter consumes one letter. Calling it on a zero balance leaves the
// balance at zero.
func (s *Store) DeductLetter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Letters = clampNonNegative(s.snap.Letters - 1)
}

// SetActiveBoost records a boost started at startedAt lasting durationMinutes.
// The expiry is derived as startedAt + durationMinutes.
func (s *Store) SetActiveBoost(startedAt time.Time, durationMinutes int) {
	duration := time.Duration(durationMinutes) * time.Minute
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.ActiveBoost = &Boost{
		StartedAt: startedAt,
		Duration:  duration,
		ExpiresAt: startedAt.Add(duration),
	}
}

// ClearBoost drops the active boost, if any.
func (s *Store) ClearBoost() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.ActiveBoost = nil
}

// BoostActive reports whether a boost is currently in effect: a boost is
// active iff now < ExpiresAt.
func (s *Store) BoostActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	boost := s.snap.ActiveBoost
	if boost == nil {
		return false
	}
	return s.clock.Now().Before(boost.ExpiresAt)
}

func (s *Store) SetReferral(code string, redeemed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.ReferralCode = code
	s.snap.ReferralRedeemed = redeemed
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
