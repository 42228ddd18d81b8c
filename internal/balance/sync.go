package balance

import "time"

// UserBalances is the balance slice of the server's user payload. Field names
// follow the backend contract; fields the server omits unmarshal to their
// zero values.
type UserBalances struct {
	GemsCount        int           `json:"gemsCount"`
	BoostersOwned    int           `json:"boostersOwned"`
	LettersOwned     int           `json:"lettersOwned"`
	ActiveBoost      *ServerBoost  `json:"activeBoost,omitempty"`
	ReferralCode     string        `json:"referralCode,omitempty"`
	ReferralRedeemed bool          `json:"referralRedeemed"`
}

// ServerBoost is the wire form of an active boost.
type ServerBoost struct {
	StartedAt       time.Time `json:"startedAt"`
	DurationMinutes int       `json:"durationMinutes"`
	ExpiresAt       time.Time `json:"expiresAt"`
}

// SyncFromUser overwrites the snapshot from a server user payload. Missing
// payload fields default to zero or nil, so a partial payload resets the
// corresponding counters.
func (s *Store) SyncFromUser(u UserBalances) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Gems = clampNonNegative(u.GemsCount)
	s.snap.Boosters = clampNonNegative(u.BoostersOwned)
	s.snap.Letters = clampNonNegative(u.LettersOwned)
	s.snap.ReferralCode = u.ReferralCode
	s.snap.ReferralRedeemed = u.ReferralRedeemed

	if u.ActiveBoost == nil {
		s.snap.ActiveBoost = nil
		return
	}

	boost := Boost{
		StartedAt: u.ActiveBoost.StartedAt,
		Duration:  time.Duration(u.ActiveBoost.DurationMinutes) * time.Minute,
		ExpiresAt: u.ActiveBoost.ExpiresAt,
	}
	if boost.ExpiresAt.IsZero() {
		boost.ExpiresAt = boost.StartedAt.Add(boost.Duration)
	}
	s.snap.ActiveBoost = &boost
}
