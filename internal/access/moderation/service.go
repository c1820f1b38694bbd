// Package moderation routes completed submissions to the admin and
// applies the admin's decisions. It talks to Telegram only through the
// Messenger interface so the protocol can be tested with a fake.
package moderation

import (
	"context"
	"fmt"

	"github.com/abjtutorial/accessbot/internal/access"
	"github.com/abjtutorial/accessbot/internal/logger"
	"log/slog"
)

// Button is a transport-free inline button. Key plus Payload form the
// callback token; URL buttons open a link instead.
type Button struct {
	Text    string
	Key     string
	Payload string
	URL     string
}

// Messenger is the outbound surface the service needs from the bot.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string, buttons ...[]Button) error
	SendPhoto(ctx context.Context, chatID int64, photoID, caption string, buttons ...[]Button) error
	CreateInviteLink(ctx context.Context, chatID int64, memberLimit int) (string, error)
}

// Config carries the chat targets the protocol writes to.
type Config struct {
	AdminID         int64
	ChannelID       int64
	AuditChannelID  int64
	JoinRequestLink string
}

// Outcome reports how a decision was applied.
type Outcome string

const (
	OutcomeApproved     Outcome = "approved"
	OutcomeRejected     Outcome = "rejected"
	OutcomeAlreadyTaken Outcome = "already_taken"
)

const (
	manualApprovedText = "✅ *Payment Approved!* Click the button below to join."
	autoApprovedText   = "✅ *Request Confirmed!* The admin has approved your join request."
	manualRejectedText = "❌ Your payment could not be verified."
	autoRejectedText   = "❌ Your join request was denied by the admin."
	joinRequestText    = "Please click the button below to send your join request to the channel."

	inviteFailedNotice = "⚠️ ERROR: Link creation failed. Is the bot an admin in the channel?"
)

// Service implements the moderation protocol over a Store and a Messenger.
type Service struct {
	store     *access.Store
	messenger Messenger
	cfg       Config
}

// NewService wires the protocol to its store, transport and targets.
func NewService(store *access.Store, m Messenger, cfg Config) *Service {
	return &Service{
		store:     store,
		messenger: m,
		cfg:       cfg,
	}
}

func reviewCaption(sub access.Submission) string {
	return fmt.Sprintf(
		"👤 *Full Name :* %s\n🏷️ *Telegram Name:* %s\n🔗 *Username:* %s",
		sub.FullName, sub.TGName, sub.Username,
	)
}

// Dispatch stores the submission as pending and sends the review prompt
// to the admin. In auto mode the user additionally gets an immediate
// join-request prompt.
func (s *Service) Dispatch(ctx context.Context, sub access.Submission) error {
	if err := s.store.PutPending(sub); err != nil {
		return fmt.Errorf("moderation: store submission for %d: %w", sub.UserID, err)
	}

	payload := fmt.Sprintf("%d", sub.UserID)
	var caption string
	var row []Button
	switch sub.Mode {
	case access.ModeAuto:
		caption = "📬 *Auto-Approval Submission*\n\n" + reviewCaption(sub)
		row = []Button{
			{Text: "Approve ✅", Key: "approve_auto", Payload: payload},
			{Text: "Reject ❌", Key: "reject_auto", Payload: payload},
		}
	default:
		caption = "🚨 *Manual Review Request* 🚨\n\n" + reviewCaption(sub)
		row = []Button{
			{Text: "✅ Approve (One-Time Link)", Key: "approve_manual", Payload: payload},
			{Text: "❌ Reject", Key: "reject_manual", Payload: payload},
		}
	}

	if err := s.messenger.SendPhoto(ctx, s.cfg.AdminID, sub.PhotoID, caption, row); err != nil {
		return fmt.Errorf("moderation: review prompt for %d: %w", sub.UserID, err)
	}

	if sub.Mode == access.ModeAuto && s.cfg.JoinRequestLink != "" {
		joinRow := []Button{{Text: "➡️ Request to Join Channel", URL: s.cfg.JoinRequestLink}}
		if err := s.messenger.SendMessage(ctx, sub.UserID, joinRequestText, joinRow); err != nil {
			logger.Warn(ctx, "moderation", "dispatch.join_prompt_failed",
				slog.Int64("user_id", sub.UserID),
				slog.String("err", err.Error()),
			)
		}
	}

	logger.Info(ctx, "moderation", "dispatch.sent",
		slog.Int64("user_id", sub.UserID),
		slog.String("mode", string(sub.Mode)),
		slog.Int("pending_count", s.store.PendingCount()),
	)
	return nil
}

// Resolve applies a decision. The pending record is popped atomically, so
// the second click on an already handled prompt gets OutcomeAlreadyTaken.
// The verdict is committed to the store before any notification; audit or
// invite failures are reported to the admin and never undo the commit.
func (s *Service) Resolve(ctx context.Context, d Decision) (Outcome, error) {
	sub, ok := s.store.TakePending(d.UserID)
	if !ok {
		return OutcomeAlreadyTaken, nil
	}

	if d.Intent == IntentReject {
		s.store.Reject(sub)
		text := manualRejectedText
		if d.Mode == access.ModeAuto {
			text = autoRejectedText
		}
		if err := s.messenger.SendMessage(ctx, sub.UserID, text); err != nil {
			logger.Warn(ctx, "moderation", "resolve.notify_failed",
				slog.Int64("user_id", sub.UserID),
				slog.String("intent", string(d.Intent)),
				slog.String("err", err.Error()),
			)
		}
		logger.Info(ctx, "moderation", "resolve.rejected",
			slog.Int64("user_id", sub.UserID),
			slog.String("mode", string(d.Mode)),
		)
		return OutcomeRejected, nil
	}

	seq := s.store.Approve(sub)
	s.audit(ctx, seq, sub)

	switch d.Mode {
	case access.ModeManual:
		link, err := s.messenger.CreateInviteLink(ctx, s.cfg.ChannelID, 1)
		if err != nil {
			logger.Error(ctx, "moderation", "resolve.invite_failed",
				slog.Int64("user_id", sub.UserID),
				slog.String("err", err.Error()),
			)
			if nerr := s.messenger.SendMessage(ctx, s.cfg.AdminID, inviteFailedNotice); nerr != nil {
				logger.Warn(ctx, "moderation", "resolve.admin_notice_failed",
					slog.String("err", nerr.Error()),
				)
			}
			break
		}
		joinRow := []Button{{Text: "➡️ Join Channel Now", URL: link}}
		if err := s.messenger.SendMessage(ctx, sub.UserID, manualApprovedText, joinRow); err != nil {
			logger.Warn(ctx, "moderation", "resolve.notify_failed",
				slog.Int64("user_id", sub.UserID),
				slog.String("intent", string(d.Intent)),
				slog.String("err", err.Error()),
			)
		}
	case access.ModeAuto:
		if err := s.messenger.SendMessage(ctx, sub.UserID, autoApprovedText); err != nil {
			logger.Warn(ctx, "moderation", "resolve.notify_failed",
				slog.Int64("user_id", sub.UserID),
				slog.String("intent", string(d.Intent)),
				slog.String("err", err.Error()),
			)
		}
	}

	logger.Info(ctx, "moderation", "resolve.approved",
		slog.Int64("user_id", sub.UserID),
		slog.String("mode", string(d.Mode)),
		slog.Int("seq", seq),
	)
	return OutcomeApproved, nil
}

func (s *Service) audit(ctx context.Context, seq int, sub access.Submission) {
	msg := fmt.Sprintf(
		"*%d. Full Name:* `%s`\n*Sex:* `%s`\n\n*TG Profile:*\n  *Name:* `%s`\n  *Username:* %s",
		seq, sub.FullName, sub.Sex, sub.TGName, sub.Username,
	)
	if err := s.messenger.SendMessage(ctx, s.cfg.AuditChannelID, msg); err != nil {
		logger.Error(ctx, "moderation", "resolve.audit_failed",
			slog.Int64("user_id", sub.UserID),
			slog.Int("seq", seq),
			slog.String("err", err.Error()),
		)
		notice := fmt.Sprintf("⚠️ ERROR: Could not send approved user data for %s to the log channel. Check bot permissions.", sub.FullName)
		if nerr := s.messenger.SendMessage(ctx, s.cfg.AdminID, notice); nerr != nil {
			logger.Warn(ctx, "moderation", "resolve.admin_notice_failed",
				slog.String("err", nerr.Error()),
			)
		}
	}
}
