package state

import "testing"

func TestMemoryManagerStateLifecycle(t *testing.T) {
	m := NewMemoryManager()
	const userID int64 = 77

	if m.HasState(userID) {
		t.Fatal("fresh manager should have no state")
	}
	if got := m.GetState(userID); got != StateIdle {
		t.Fatalf("state = %q, expected idle", got)
	}

	m.SetState(userID, State("awaiting_name"))
	if !m.InProgress(userID) {
		t.Fatal("expected conversation in progress")
	}
	if got := m.GetState(userID); got != State("awaiting_name") {
		t.Fatalf("state = %q", got)
	}

	m.ClearState(userID)
	if m.InProgress(userID) {
		t.Fatal("expected idle after ClearState")
	}
}

func TestMemoryManagerTempData(t *testing.T) {
	m := NewMemoryManager()
	const userID int64 = 5

	if _, ok := m.GetTemp(userID, "full_name"); ok {
		t.Fatal("unexpected temp value")
	}

	m.SetTemp(userID, "full_name", "Jane Doe")
	got, ok := m.GetTempString(userID, "full_name")
	if !ok || got != "Jane Doe" {
		t.Fatalf("GetTempString = %q, %v", got, ok)
	}

	m.SetTemp(userID, "attempts", 3)
	if _, ok := m.GetTempString(userID, "attempts"); ok {
		t.Fatal("GetTempString should reject non-string values")
	}

	m.ClearTemp(userID, "full_name")
	if _, ok := m.GetTemp(userID, "full_name"); ok {
		t.Fatal("temp value should be cleared")
	}

	m.Clear(userID)
	if m.HasState(userID) {
		t.Fatal("session should be gone after Clear")
	}
}
