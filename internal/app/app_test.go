package app

import (
	"testing"

	"github.com/abjtutorial/accessbot/internal/access/flow"
	"github.com/abjtutorial/accessbot/internal/config"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New(&config.Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestAdminKeyboardToggleLabel(t *testing.T) {
	a := newTestApp(t)

	kb := a.adminKeyboard()
	if got := kb.ReplyKeyboard[0][0].Text; got != BtnToAuto {
		t.Fatalf("manual mode toggle label = %q, want %q", got, BtnToAuto)
	}

	a.store.Toggle()
	kb = a.adminKeyboard()
	if got := kb.ReplyKeyboard[0][0].Text; got != BtnToManual {
		t.Fatalf("auto mode toggle label = %q, want %q", got, BtnToManual)
	}
}

func TestUserMenuKeyboardLayout(t *testing.T) {
	kb := userMenuKeyboard()
	if len(kb.ReplyKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(kb.ReplyKeyboard))
	}
	labels := []string{
		kb.ReplyKeyboard[0][0].Text,
		kb.ReplyKeyboard[0][1].Text,
		kb.ReplyKeyboard[1][0].Text,
	}
	want := []string{BtnHelp, BtnPayment, BtnContact}
	for i, w := range want {
		if labels[i] != w {
			t.Fatalf("label[%d] = %q, want %q", i, labels[i], w)
		}
	}
}

func TestFlowSessionRoundTrip(t *testing.T) {
	a := newTestApp(t)
	const userID = int64(99)

	sess := flow.Session{Step: flow.StepAwaitingSex, FullName: "Abel Kebede"}
	a.storeFlowSession(userID, sess)

	got := a.flowSession(userID)
	if got != sess {
		t.Fatalf("flowSession = %+v, want %+v", got, sess)
	}
	if !a.fsm.InProgress(userID) {
		t.Fatal("session not marked in progress")
	}

	a.storeFlowSession(userID, flow.Session{Step: flow.StepIdle})
	if a.fsm.InProgress(userID) {
		t.Fatal("idle session still in progress")
	}
	if got := a.flowSession(userID); got.Step != flow.StepIdle || got.FullName != "" {
		t.Fatalf("session after reset = %+v", got)
	}
}
