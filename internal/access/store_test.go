package access

import (
	"errors"
	"sync"
	"testing"
)

func TestStoreDefaultsToManual(t *testing.T) {
	s := NewStore()
	if got := s.Mode(); got != ModeManual {
		t.Fatalf("Mode() = %v, want %v", got, ModeManual)
	}
}

func TestToggleFlipsMode(t *testing.T) {
	s := NewStore()
	if got := s.Toggle(); got != ModeAuto {
		t.Fatalf("first Toggle() = %v, want %v", got, ModeAuto)
	}
	if got := s.Toggle(); got != ModeManual {
		t.Fatalf("second Toggle() = %v, want %v", got, ModeManual)
	}
}

func TestPutPendingRejectsDuplicate(t *testing.T) {
	s := NewStore()
	sub := Submission{UserID: 42, FullName: "Abel Kebede"}
	if err := s.PutPending(sub); err != nil {
		t.Fatalf("first PutPending: %v", err)
	}
	if err := s.PutPending(sub); !errors.Is(err, ErrAlreadyPending) {
		t.Fatalf("second PutPending = %v, want ErrAlreadyPending", err)
	}
}

func TestPutPendingRejectsApprovedUser(t *testing.T) {
	s := NewStore()
	sub := Submission{UserID: 42, FullName: "Abel Kebede"}
	if err := s.PutPending(sub); err != nil {
		t.Fatalf("PutPending: %v", err)
	}
	got, ok := s.TakePending(42)
	if !ok {
		t.Fatal("TakePending: missing submission")
	}
	s.Approve(got)
	if err := s.PutPending(sub); !errors.Is(err, ErrAlreadyApproved) {
		t.Fatalf("PutPending after approval = %v, want ErrAlreadyApproved", err)
	}
}

func TestTakePendingIsIdempotent(t *testing.T) {
	s := NewStore()
	if err := s.PutPending(Submission{UserID: 7}); err != nil {
		t.Fatalf("PutPending: %v", err)
	}
	if _, ok := s.TakePending(7); !ok {
		t.Fatal("first TakePending: missing submission")
	}
	if _, ok := s.TakePending(7); ok {
		t.Fatal("second TakePending found a submission")
	}
}

func TestTakePendingConcurrentSingleWinner(t *testing.T) {
	s := NewStore()
	if err := s.PutPending(Submission{UserID: 7}); err != nil {
		t.Fatalf("PutPending: %v", err)
	}
	const attempts = 16
	var wg sync.WaitGroup
	wins := make(chan struct{}, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := s.TakePending(7); ok {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)
	var won int
	for range wins {
		won++
	}
	if won != 1 {
		t.Fatalf("winners = %d, want 1", won)
	}
}

func TestApproveIncrementsSequence(t *testing.T) {
	s := NewStore()
	if seq := s.Approve(Submission{UserID: 1}); seq != 1 {
		t.Fatalf("first Approve seq = %d, want 1", seq)
	}
	if seq := s.Approve(Submission{UserID: 2}); seq != 2 {
		t.Fatalf("second Approve seq = %d, want 2", seq)
	}
	s.Reject(Submission{UserID: 3})
	if seq := s.Approve(Submission{UserID: 4}); seq != 3 {
		t.Fatalf("Approve after Reject seq = %d, want 3", seq)
	}
}

func TestHistoriesPreserveOrder(t *testing.T) {
	s := NewStore()
	s.Approve(Submission{UserID: 1, FullName: "First"})
	s.Approve(Submission{UserID: 2, FullName: "Second"})
	s.Reject(Submission{UserID: 3, FullName: "Third"})

	approved := s.Approved()
	if len(approved) != 2 || approved[0].FullName != "First" || approved[1].FullName != "Second" {
		t.Fatalf("Approved() = %+v", approved)
	}
	rejected := s.Rejected()
	if len(rejected) != 1 || rejected[0].FullName != "Third" {
		t.Fatalf("Rejected() = %+v", rejected)
	}

	// Mutating the copy must not touch store state.
	approved[0].FullName = "mutated"
	if s.Approved()[0].FullName != "First" {
		t.Fatal("Approved() returned shared backing array")
	}
}

func TestParseSex(t *testing.T) {
	cases := []struct {
		in      string
		want    Sex
		wantErr bool
	}{
		{in: "Male", want: SexMale},
		{in: "Female", want: SexFemale},
		{in: " Male ", want: SexMale},
		{in: "male", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseSex(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseSex(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseSex(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
	}
}

func TestDisplayUsername(t *testing.T) {
	if got := DisplayUsername("abel"); got != "@abel" {
		t.Fatalf("DisplayUsername(abel) = %q", got)
	}
	if got := DisplayUsername(""); got != "Not set" {
		t.Fatalf("DisplayUsername(empty) = %q", got)
	}
}
