package app

import (
	"fmt"

	"github.com/abjtutorial/accessbot/internal/access"
	"github.com/abjtutorial/accessbot/internal/access/moderation"
	"github.com/abjtutorial/accessbot/internal/logger"
	"github.com/abjtutorial/accessbot/internal/telegram/callbacks"
	tghelpers "github.com/abjtutorial/accessbot/internal/telegram/helpers"
	"github.com/abjtutorial/accessbot/internal/telegram/keyboard"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

func userMenuKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{BtnHelp, BtnPayment},
		[]string{BtnContact},
	)
}

func (a *App) adminKeyboard() *tele.ReplyMarkup {
	toggle := BtnToAuto
	if a.store.Mode() == access.ModeAuto {
		toggle = BtnToManual
	}
	return keyboard.ReplyButtons(
		[]string{toggle},
		[]string{BtnApproved, BtnRejected},
	)
}

func (a *App) isAdmin(c tele.Context) bool {
	return c.Sender() != nil && c.Sender().ID == a.cfg.Telegram.AdminID
}

// handleStart greets the sender and installs the matching reply keyboard.
func (a *App) handleStart(c tele.Context) error {
	first := ""
	if c.Sender() != nil {
		first = c.Sender().FirstName
	}
	if a.isAdmin(c) {
		return tghelpers.SendMD(c, adminGreeting(first), a.adminKeyboard())
	}
	return tghelpers.SendMD(c, userGreeting(first), userMenuKeyboard())
}

// handleMenu routes reply-keyboard button presses. It is installed as the
// registry text fallback, so it only sees text that matched no command
// and no active conversation.
func (a *App) handleMenu(c tele.Context) error {
	switch c.Text() {
	case BtnHelp:
		return tghelpers.SendMD(c, helpText)
	case BtnContact:
		return tghelpers.SendMD(c, contactText)
	case BtnPayment:
		return a.startPayment(c)
	case BtnToAuto, BtnToManual:
		if !a.isAdmin(c) {
			return nil
		}
		return a.handleToggle(c)
	case BtnApproved:
		if !a.isAdmin(c) {
			return nil
		}
		return a.showHistory(c, a.store.Approved(), "Approved", noApprovedText, "✅")
	case BtnRejected:
		if !a.isAdmin(c) {
			return nil
		}
		return a.showHistory(c, a.store.Rejected(), "Rejected", noRejectedText, "❌")
	}
	return nil
}

// handleToggle flips the approval mode. Submissions already pending keep
// the path their review prompt was sent on.
func (a *App) handleToggle(c tele.Context) error {
	mode := a.store.Toggle()

	ctx := tghelpers.BuildContext(c)
	logger.Info(ctx, "app", "mode.toggled",
		slog.String("status", "ok"),
		slog.String("mode", string(mode)),
		slog.Int("pending_count", a.store.PendingCount()),
	)

	text := autoModeOnText
	if mode == access.ModeManual {
		text = manualModeOnText
	}
	return tghelpers.SendMD(c, text, a.adminKeyboard())
}

func (a *App) showHistory(c tele.Context, subs []access.Submission, label, emptyText, mark string) error {
	if len(subs) == 0 {
		return tghelpers.SendText(c, emptyText)
	}
	if err := tghelpers.SendMD(c, fmt.Sprintf("*--- History: %d %s User(s) ---*", len(subs), label)); err != nil {
		return err
	}
	ctx := tghelpers.BuildContext(c)
	for _, sub := range subs {
		caption := fmt.Sprintf("%s Name: %s\n🔗 Username: %s", mark, sub.FullName, sub.Username)
		if err := a.messenger.SendPhoto(ctx, a.cfg.Telegram.AdminID, sub.PhotoID, caption); err != nil {
			return err
		}
	}
	return nil
}

// handleDecision applies an approve/reject callback. The token is
// rebuilt from the button key and payload before parsing so a malformed
// button is logged and dropped instead of acted on.
func (a *App) handleDecision(c tele.Context) error {
	token := callbacks.CallbackKey(c) + "_" + callbacks.CallbackPayload(c)
	ctx := tghelpers.BuildContext(c)

	d, err := moderation.ParseDecision(token)
	if err != nil {
		logger.Warn(ctx, "moderation", "decision.malformed",
			slog.String("status", "skip"),
			slog.String("err", logger.Sanitize(err.Error())),
		)
		return nil
	}

	outcome, err := a.moderation.Resolve(ctx, d)
	if err != nil {
		return err
	}

	switch outcome {
	case moderation.OutcomeAlreadyTaken:
		return c.EditCaption(actionTakenText)
	default:
		// Collapse the review prompt once the decision is applied.
		if derr := c.Delete(); derr != nil {
			logger.Warn(ctx, "moderation", "prompt.collapse_failed",
				slog.String("status", "fail"),
				slog.String("err", derr.Error()),
			)
		}
	}
	return nil
}
