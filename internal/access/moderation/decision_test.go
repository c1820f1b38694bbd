package moderation

import (
	"testing"

	"github.com/abjtutorial/accessbot/internal/access"
)

func TestParseDecision(t *testing.T) {
	cases := []struct {
		token   string
		want    Decision
		wantErr bool
	}{
		{token: "approve_manual_12345", want: Decision{IntentApprove, access.ModeManual, 12345}},
		{token: "reject_manual_12345", want: Decision{IntentReject, access.ModeManual, 12345}},
		{token: "approve_auto_7", want: Decision{IntentApprove, access.ModeAuto, 7}},
		{token: "reject_auto_7", want: Decision{IntentReject, access.ModeAuto, 7}},
		{token: "approve_manual", wantErr: true},
		{token: "", wantErr: true},
		{token: "ban_manual_12345", wantErr: true},
		{token: "approve_instant_12345", wantErr: true},
		{token: "approve_manual_abc", wantErr: true},
		{token: "approve_manual_-5", wantErr: true},
		{token: "approve_manual_0", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseDecision(tc.token)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseDecision(%q): expected error, got %+v", tc.token, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDecision(%q): %v", tc.token, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDecision(%q) = %+v, want %+v", tc.token, got, tc.want)
		}
	}
}

func TestDecisionTokenRoundTrip(t *testing.T) {
	d := Decision{Intent: IntentApprove, Mode: access.ModeAuto, UserID: 99}
	got, err := ParseDecision(d.Token())
	if err != nil {
		t.Fatalf("ParseDecision(%q): %v", d.Token(), err)
	}
	if got != d {
		t.Fatalf("round trip = %+v, want %+v", got, d)
	}
}
