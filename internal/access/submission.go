package access

import (
	"fmt"
	"strings"
	"time"
)

// Sex is the self-reported sex captured during the payment conversation.
type Sex string

const (
	SexMale   Sex = "Male"
	SexFemale Sex = "Female"
)

// ParseSex converts raw callback data into a Sex value.
func ParseSex(raw string) (Sex, error) {
	switch strings.TrimSpace(raw) {
	case string(SexMale):
		return SexMale, nil
	case string(SexFemale):
		return SexFemale, nil
	}
	return "", fmt.Errorf("unknown sex value: %q", raw)
}

// Mode selects how a new submission is routed to the admin.
type Mode string

const (
	ModeManual Mode = "manual"
	ModeAuto   Mode = "auto"
)

// ParseMode converts a callback token segment into a Mode value.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeManual:
		return ModeManual, nil
	case ModeAuto:
		return ModeAuto, nil
	}
	return "", fmt.Errorf("unknown mode value: %q", raw)
}

// Submission is a completed payment submission awaiting or past moderation.
type Submission struct {
	UserID      int64
	FullName    string
	Sex         Sex
	TGName      string
	Username    string
	PhotoID     string
	Mode        Mode
	SubmittedAt time.Time
}

// DisplayUsername returns the @-prefixed username or a placeholder.
func DisplayUsername(username string) string {
	if strings.TrimSpace(username) == "" {
		return "Not set"
	}
	return "@" + username
}
