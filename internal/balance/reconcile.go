package balance

// ServerDelta carries the fields a server response confirmed. Nil fields were
// not reported by the server.
type ServerDelta struct {
	Gems             *int
	Boosters         *int
	Letters          *int
	ActiveBoost      *Boost
	ClearBoost       bool
	ReferralRedeemed *bool
}

// Reconcile merges a server-confirmed delta into a local snapshot and returns
// the result. Precedence: any field the server reported wins over the local
// optimistic value; fields the server omitted keep their local values. The
// function is pure, so callers can audit a reconciliation without touching
// the store.
func Reconcile(local Snapshot, delta ServerDelta) Snapshot {
	next := local

	if delta.Gems != nil {
		next.Gems = clampNonNegative(*delta.Gems)
	}
	if delta.Boosters != nil {
		next.Boosters = clampNonNegative(*delta.Boosters)
	}
	if delta.Letters != nil {
		next.Letters = clampNonNegative(*delta.Letters)
	}
	if delta.ClearBoost {
		next.ActiveBoost = nil
	} else if delta.ActiveBoost != nil {
		boost := *delta.ActiveBoost
		next.ActiveBoost = &boost
	}
	if delta.ReferralRedeemed != nil {
		next.ReferralRedeemed = *delta.ReferralRedeemed
	}

	return next
}

// Apply reconciles the store's snapshot with a server delta in place.
func (s *Store) Apply(delta ServerDelta) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = Reconcile(s.snap, delta)
	return s.snap
}
