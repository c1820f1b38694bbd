package moderation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abjtutorial/accessbot/internal/access"
)

// Intent is the admin's verdict on a submission.
type Intent string

const (
	IntentApprove Intent = "approve"
	IntentReject  Intent = "reject"
)

// Decision is a parsed moderation callback token.
type Decision struct {
	Intent Intent
	Mode   access.Mode
	UserID int64
}

// Token renders the decision back into its callback form.
func (d Decision) Token() string {
	return fmt.Sprintf("%s_%s_%d", d.Intent, d.Mode, d.UserID)
}

// ParseDecision parses a callback token of the form
// {approve|reject}_{manual|auto}_{user_id}.
func ParseDecision(token string) (Decision, error) {
	parts := strings.SplitN(token, "_", 3)
	if len(parts) != 3 {
		return Decision{}, fmt.Errorf("malformed decision token: %q", token)
	}
	var d Decision
	switch Intent(parts[0]) {
	case IntentApprove:
		d.Intent = IntentApprove
	case IntentReject:
		d.Intent = IntentReject
	default:
		return Decision{}, fmt.Errorf("unknown decision intent in token %q", token)
	}
	mode, err := access.ParseMode(parts[1])
	if err != nil {
		return Decision{}, fmt.Errorf("decision token %q: %w", token, err)
	}
	d.Mode = mode
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || id <= 0 {
		return Decision{}, fmt.Errorf("bad user id in decision token %q", token)
	}
	d.UserID = id
	return d, nil
}
