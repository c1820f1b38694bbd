package moderation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abjtutorial/accessbot/internal/access"
)

type sentMessage struct {
	ChatID  int64
	Text    string
	Buttons [][]Button
}

type sentPhoto struct {
	ChatID  int64
	PhotoID string
	Caption string
	Buttons [][]Button
}

type fakeMessenger struct {
	messages []sentMessage
	photos   []sentPhoto

	inviteLink   string
	inviteCalls  int
	inviteErr    error
	messageErrTo map[int64]error
}

func (f *fakeMessenger) SendMessage(_ context.Context, chatID int64, text string, buttons ...[]Button) error {
	if err := f.messageErrTo[chatID]; err != nil {
		return err
	}
	f.messages = append(f.messages, sentMessage{ChatID: chatID, Text: text, Buttons: buttons})
	return nil
}

func (f *fakeMessenger) SendPhoto(_ context.Context, chatID int64, photoID, caption string, buttons ...[]Button) error {
	f.photos = append(f.photos, sentPhoto{ChatID: chatID, PhotoID: photoID, Caption: caption, Buttons: buttons})
	return nil
}

func (f *fakeMessenger) CreateInviteLink(_ context.Context, _ int64, memberLimit int) (string, error) {
	f.inviteCalls++
	if memberLimit != 1 {
		return "", errors.New("member limit must be 1")
	}
	if f.inviteErr != nil {
		return "", f.inviteErr
	}
	return f.inviteLink, nil
}

const (
	adminID = int64(1000)
	auditID = int64(-2000)
	chanID  = int64(-3000)
)

func newService(m *fakeMessenger) (*Service, *access.Store) {
	store := access.NewStore()
	svc := NewService(store, m, Config{
		AdminID:         adminID,
		ChannelID:       chanID,
		AuditChannelID:  auditID,
		JoinRequestLink: "https://t.me/+joinreq",
	})
	return svc, store
}

func sub(mode access.Mode) access.Submission {
	return access.Submission{
		UserID:   42,
		FullName: "Abel Kebede",
		Sex:      access.SexMale,
		TGName:   "Abel",
		Username: "@abel",
		PhotoID:  "photo-1",
		Mode:     mode,
	}
}

func TestDispatchManual(t *testing.T) {
	m := &fakeMessenger{}
	svc, store := newService(m)

	if err := svc.Dispatch(context.Background(), sub(access.ModeManual)); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !store.HasPending(42) {
		t.Fatal("submission not pending after dispatch")
	}
	if len(m.photos) != 1 {
		t.Fatalf("photos = %d, want 1", len(m.photos))
	}
	p := m.photos[0]
	if p.ChatID != adminID || p.PhotoID != "photo-1" {
		t.Fatalf("review photo = %+v", p)
	}
	if !strings.Contains(p.Caption, "Manual Review Request") || !strings.Contains(p.Caption, "Abel Kebede") {
		t.Fatalf("caption = %q", p.Caption)
	}
	if len(p.Buttons) != 1 || len(p.Buttons[0]) != 2 {
		t.Fatalf("buttons = %+v", p.Buttons)
	}
	if p.Buttons[0][0].Key != "approve_manual" || p.Buttons[0][0].Payload != "42" {
		t.Fatalf("approve button = %+v", p.Buttons[0][0])
	}
	if p.Buttons[0][1].Key != "reject_manual" {
		t.Fatalf("reject button = %+v", p.Buttons[0][1])
	}
	if len(m.messages) != 0 {
		t.Fatalf("manual dispatch sent user messages: %+v", m.messages)
	}
}

func TestDispatchAutoSendsJoinPrompt(t *testing.T) {
	m := &fakeMessenger{}
	svc, _ := newService(m)

	if err := svc.Dispatch(context.Background(), sub(access.ModeAuto)); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(m.photos) != 1 || !strings.Contains(m.photos[0].Caption, "Auto-Approval Submission") {
		t.Fatalf("photos = %+v", m.photos)
	}
	if m.photos[0].Buttons[0][0].Key != "approve_auto" {
		t.Fatalf("approve button = %+v", m.photos[0].Buttons[0][0])
	}
	if len(m.messages) != 1 {
		t.Fatalf("messages = %+v", m.messages)
	}
	join := m.messages[0]
	if join.ChatID != 42 {
		t.Fatalf("join prompt chat = %d", join.ChatID)
	}
	if len(join.Buttons) != 1 || join.Buttons[0][0].URL != "https://t.me/+joinreq" {
		t.Fatalf("join button = %+v", join.Buttons)
	}
}

func TestDispatchRefusesDuplicate(t *testing.T) {
	m := &fakeMessenger{}
	svc, _ := newService(m)
	if err := svc.Dispatch(context.Background(), sub(access.ModeManual)); err != nil {
		t.Fatalf("first Dispatch: %v", err)
	}
	err := svc.Dispatch(context.Background(), sub(access.ModeManual))
	if !errors.Is(err, access.ErrAlreadyPending) {
		t.Fatalf("second Dispatch = %v, want ErrAlreadyPending", err)
	}
	if len(m.photos) != 1 {
		t.Fatalf("duplicate dispatch reached the admin: %d photos", len(m.photos))
	}
}

func TestResolveApproveManual(t *testing.T) {
	m := &fakeMessenger{inviteLink: "https://t.me/+single"}
	svc, store := newService(m)
	if err := svc.Dispatch(context.Background(), sub(access.ModeManual)); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	out, err := svc.Resolve(context.Background(), Decision{IntentApprove, access.ModeManual, 42})
	if err != nil || out != OutcomeApproved {
		t.Fatalf("Resolve = %v, %v", out, err)
	}
	if store.HasPending(42) {
		t.Fatal("submission still pending")
	}
	if !store.IsApproved(42) {
		t.Fatal("user not recorded as approved")
	}
	if m.inviteCalls != 1 {
		t.Fatalf("inviteCalls = %d", m.inviteCalls)
	}

	// Audit entry first, then the invite to the user.
	if len(m.messages) != 2 {
		t.Fatalf("messages = %+v", m.messages)
	}
	audit := m.messages[0]
	if audit.ChatID != auditID {
		t.Fatalf("audit chat = %d", audit.ChatID)
	}
	for _, want := range []string{"*1. Full Name:* `Abel Kebede`", "*Sex:* `Male`", "*Username:* @abel"} {
		if !strings.Contains(audit.Text, want) {
			t.Fatalf("audit text %q missing %q", audit.Text, want)
		}
	}
	invite := m.messages[1]
	if invite.ChatID != 42 || !strings.Contains(invite.Text, "Payment Approved") {
		t.Fatalf("invite message = %+v", invite)
	}
	if invite.Buttons[0][0].URL != "https://t.me/+single" {
		t.Fatalf("invite button = %+v", invite.Buttons[0][0])
	}
}

func TestResolveApproveAuto(t *testing.T) {
	m := &fakeMessenger{}
	svc, _ := newService(m)
	if err := svc.Dispatch(context.Background(), sub(access.ModeAuto)); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	m.messages = nil

	out, err := svc.Resolve(context.Background(), Decision{IntentApprove, access.ModeAuto, 42})
	if err != nil || out != OutcomeApproved {
		t.Fatalf("Resolve = %v, %v", out, err)
	}
	if m.inviteCalls != 0 {
		t.Fatal("auto approval created an invite link")
	}
	if len(m.messages) != 2 {
		t.Fatalf("messages = %+v", m.messages)
	}
	if m.messages[1].ChatID != 42 || !strings.Contains(m.messages[1].Text, "Request Confirmed") {
		t.Fatalf("confirmation = %+v", m.messages[1])
	}
}

func TestResolveReject(t *testing.T) {
	cases := []struct {
		mode access.Mode
		want string
	}{
		{access.ModeManual, "could not be verified"},
		{access.ModeAuto, "denied by the admin"},
	}
	for _, tc := range cases {
		m := &fakeMessenger{}
		svc, store := newService(m)
		if err := svc.Dispatch(context.Background(), sub(tc.mode)); err != nil {
			t.Fatalf("Dispatch: %v", err)
		}
		m.messages = nil

		out, err := svc.Resolve(context.Background(), Decision{IntentReject, tc.mode, 42})
		if err != nil || out != OutcomeRejected {
			t.Fatalf("mode %v: Resolve = %v, %v", tc.mode, out, err)
		}
		if store.IsApproved(42) {
			t.Fatalf("mode %v: rejected user marked approved", tc.mode)
		}
		if got := store.Rejected(); len(got) != 1 {
			t.Fatalf("mode %v: rejected history = %+v", tc.mode, got)
		}
		if len(m.messages) != 1 || !strings.Contains(m.messages[0].Text, tc.want) {
			t.Fatalf("mode %v: messages = %+v", tc.mode, m.messages)
		}
	}
}

func TestResolveSecondClickAlreadyTaken(t *testing.T) {
	m := &fakeMessenger{inviteLink: "https://t.me/+x"}
	svc, _ := newService(m)
	if err := svc.Dispatch(context.Background(), sub(access.ModeManual)); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	d := Decision{IntentApprove, access.ModeManual, 42}
	if out, err := svc.Resolve(context.Background(), d); err != nil || out != OutcomeApproved {
		t.Fatalf("first Resolve = %v, %v", out, err)
	}
	sent := len(m.messages)
	out, err := svc.Resolve(context.Background(), d)
	if err != nil || out != OutcomeAlreadyTaken {
		t.Fatalf("second Resolve = %v, %v", out, err)
	}
	if len(m.messages) != sent {
		t.Fatal("second Resolve produced side effects")
	}
}

func TestResolveInviteFailureNotifiesAdminKeepsCommit(t *testing.T) {
	m := &fakeMessenger{inviteErr: errors.New("bot is not channel admin")}
	svc, store := newService(m)
	if err := svc.Dispatch(context.Background(), sub(access.ModeManual)); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	out, err := svc.Resolve(context.Background(), Decision{IntentApprove, access.ModeManual, 42})
	if err != nil || out != OutcomeApproved {
		t.Fatalf("Resolve = %v, %v", out, err)
	}
	if !store.IsApproved(42) {
		t.Fatal("approval rolled back on invite failure")
	}
	var adminNotified bool
	for _, msg := range m.messages {
		if msg.ChatID == adminID && strings.Contains(msg.Text, "Link creation failed") {
			adminNotified = true
		}
		if msg.ChatID == 42 {
			t.Fatalf("user got a message despite invite failure: %+v", msg)
		}
	}
	if !adminNotified {
		t.Fatal("admin not notified of invite failure")
	}
}

func TestResolveAuditFailureNotifiesAdminKeepsCommit(t *testing.T) {
	m := &fakeMessenger{
		inviteLink:   "https://t.me/+x",
		messageErrTo: map[int64]error{auditID: errors.New("chat not found")},
	}
	svc, store := newService(m)
	if err := svc.Dispatch(context.Background(), sub(access.ModeManual)); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	out, err := svc.Resolve(context.Background(), Decision{IntentApprove, access.ModeManual, 42})
	if err != nil || out != OutcomeApproved {
		t.Fatalf("Resolve = %v, %v", out, err)
	}
	if !store.IsApproved(42) {
		t.Fatal("approval rolled back on audit failure")
	}
	var adminNotified, userInvited bool
	for _, msg := range m.messages {
		if msg.ChatID == adminID && strings.Contains(msg.Text, "Could not send approved user data") {
			adminNotified = true
		}
		if msg.ChatID == 42 && strings.Contains(msg.Text, "Payment Approved") {
			userInvited = true
		}
	}
	if !adminNotified {
		t.Fatal("admin not notified of audit failure")
	}
	if !userInvited {
		t.Fatal("user invite skipped after audit failure")
	}
}

func TestSequenceNumbersAcrossApprovals(t *testing.T) {
	m := &fakeMessenger{inviteLink: "https://t.me/+x"}
	svc, _ := newService(m)

	for i, userID := range []int64{10, 20, 30} {
		s := sub(access.ModeManual)
		s.UserID = userID
		if err := svc.Dispatch(context.Background(), s); err != nil {
			t.Fatalf("Dispatch %d: %v", userID, err)
		}
		if out, err := svc.Resolve(context.Background(), Decision{IntentApprove, access.ModeManual, userID}); err != nil || out != OutcomeApproved {
			t.Fatalf("Resolve %d = %v, %v", userID, out, err)
		}
		var audits []sentMessage
		for _, msg := range m.messages {
			if msg.ChatID == auditID {
				audits = append(audits, msg)
			}
		}
		if len(audits) != i+1 {
			t.Fatalf("audit count = %d, want %d", len(audits), i+1)
		}
		wantPrefix := []string{"*1. ", "*2. ", "*3. "}[i]
		if !strings.HasPrefix(audits[i].Text, wantPrefix) {
			t.Fatalf("audit %d text = %q", i, audits[i].Text)
		}
	}
}
