package access

import (
	"errors"
	"sync"
)

var (
	// ErrAlreadyPending is returned when a user with a pending submission submits again.
	ErrAlreadyPending = errors.New("submission already pending")
	// ErrAlreadyApproved is returned when an approved user starts a new submission.
	ErrAlreadyApproved = errors.New("user already approved")
)

// Store holds all runtime application state. Everything is in-memory and
// lost on restart. Handlers run on separate goroutines, so every accessor
// takes the mutex.
type Store struct {
	mu       sync.Mutex
	pending  map[int64]Submission
	approved []Submission
	rejected []Submission
	manual   bool
	seq      int
}

// NewStore creates an empty store in manual mode.
func NewStore() *Store {
	return &Store{
		pending: make(map[int64]Submission),
		manual:  true,
	}
}

// Mode returns the routing mode new submissions will take.
func (s *Store) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.manual {
		return ModeManual
	}
	return ModeAuto
}

// Toggle flips the routing mode and returns the new value. Pending
// submissions keep the mode captured when they were stored.
func (s *Store) Toggle() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manual = !s.manual
	if s.manual {
		return ModeManual
	}
	return ModeAuto
}

// PutPending stores a new pending submission. Approved users and users
// with a submission already under review are refused.
func (s *Store) PutPending(sub Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.approved {
		if a.UserID == sub.UserID {
			return ErrAlreadyApproved
		}
	}
	if _, ok := s.pending[sub.UserID]; ok {
		return ErrAlreadyPending
	}
	s.pending[sub.UserID] = sub
	return nil
}

// TakePending atomically removes and returns the pending submission for
// the user. The second decision on the same submission finds nothing.
func (s *Store) TakePending(userID int64) (Submission, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.pending[userID]
	if ok {
		delete(s.pending, userID)
	}
	return sub, ok
}

// HasPending reports whether the user has a submission under review.
func (s *Store) HasPending(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[userID]
	return ok
}

// IsApproved reports whether the user has an approved submission.
func (s *Store) IsApproved(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.approved {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

// PendingCount returns the number of submissions under review.
func (s *Store) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Approve appends the submission to the approved history and returns the
// new approval sequence number.
func (s *Store) Approve(sub Submission) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.approved = append(s.approved, sub)
	s.seq++
	return s.seq
}

// Reject appends the submission to the rejected history.
func (s *Store) Reject(sub Submission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejected = append(s.rejected, sub)
}

// Approved returns a copy of the approved history in approval order.
func (s *Store) Approved() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Submission, len(s.approved))
	copy(out, s.approved)
	return out
}

// Rejected returns a copy of the rejected history in rejection order.
func (s *Store) Rejected() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Submission, len(s.rejected))
	copy(out, s.rejected)
	return out
}
