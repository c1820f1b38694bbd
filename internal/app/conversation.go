package app

import (
	"errors"
	"time"

	"github.com/abjtutorial/accessbot/internal/access"
	"github.com/abjtutorial/accessbot/internal/access/flow"
	"github.com/abjtutorial/accessbot/internal/logger"
	"github.com/abjtutorial/accessbot/internal/telegram/callbacks"
	tghelpers "github.com/abjtutorial/accessbot/internal/telegram/helpers"
	"github.com/abjtutorial/accessbot/internal/telegram/keyboard"
	"github.com/abjtutorial/accessbot/internal/telegram/state"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Conversation states of the payment flow.
const (
	statePaymentName  state.State = "payment_name"
	statePaymentSex   state.State = "payment_sex"
	statePaymentPhoto state.State = "payment_photo"
)

const (
	tempFullName = "full_name"
	tempSex      = "sex"
)

var stepByState = map[state.State]flow.Step{
	statePaymentName:  flow.StepAwaitingName,
	statePaymentSex:   flow.StepAwaitingSex,
	statePaymentPhoto: flow.StepAwaitingPhoto,
}

var stateByStep = map[flow.Step]state.State{
	flow.StepAwaitingName:  statePaymentName,
	flow.StepAwaitingSex:   statePaymentSex,
	flow.StepAwaitingPhoto: statePaymentPhoto,
}

func (a *App) flowSession(userID int64) flow.Session {
	st := a.fsm.GetState(userID)
	step, ok := stepByState[st]
	if !ok {
		step = flow.StepIdle
	}
	name, _ := a.fsm.GetTempString(userID, tempFullName)
	sex, _ := a.fsm.GetTempString(userID, tempSex)
	return flow.Session{Step: step, FullName: name, Sex: sex}
}

func (a *App) storeFlowSession(userID int64, s flow.Session) {
	if s.Step == flow.StepIdle {
		a.fsm.Clear(userID)
		return
	}
	a.fsm.SetState(userID, stateByStep[s.Step])
	a.fsm.SetTemp(userID, tempFullName, s.FullName)
	a.fsm.SetTemp(userID, tempSex, s.Sex)
}

// startPayment enters the payment conversation unless the user is
// already approved or already under review.
func (a *App) startPayment(c tele.Context) error {
	userID := c.Sender().ID
	if a.store.IsApproved(userID) {
		return tghelpers.SendText(c, alreadyMember)
	}
	if a.store.HasPending(userID) {
		return tghelpers.SendText(c, alreadyPending)
	}
	return a.advance(c, flow.Event{Kind: flow.EventStart})
}

// conversationHandler processes text and photo updates for every payment
// state. Sex is chosen via callback and arrives through handleSexChoice.
func (a *App) conversationHandler(c tele.Context) error {
	// Slash commands do not feed the conversation.
	if txt := c.Text(); len(txt) > 0 && txt[0] == '/' {
		return nil
	}
	return a.advance(c, conversationEvent(c))
}

// handleSexChoice is the callback handler behind the Male/Female buttons.
// The registry wraps it in a state guard, so it only runs while the user
// is at the sex step. The generic callback route delivers the raw
// "\f<unique>|<payload>" wire form, so the payload must be parsed out.
func (a *App) handleSexChoice(c tele.Context) error {
	raw := callbacks.CallbackPayload(c)
	if raw == "" {
		// Already unwrapped (dedicated handler path).
		raw = c.Callback().Data
	}
	if _, err := access.ParseSex(raw); err != nil {
		ctx := tghelpers.BuildContext(c)
		logger.Warn(ctx, "flow", "sex.invalid",
			slog.String("status", "skip"),
			slog.String("expected", "Male|Female"),
		)
		return c.Respond(&tele.CallbackResponse{Text: "Unsupported choice"})
	}
	return a.advance(c, flow.Event{Kind: flow.EventSex, Text: raw})
}

func conversationEvent(c tele.Context) flow.Event {
	if msg := c.Message(); msg != nil && msg.Photo != nil {
		return flow.Event{Kind: flow.EventPhoto, Text: msg.Photo.FileID}
	}
	if c.Text() == BtnCancel {
		return flow.Event{Kind: flow.EventCancel}
	}
	return flow.Event{Kind: flow.EventText, Text: c.Text()}
}

func (a *App) advance(c tele.Context, ev flow.Event) error {
	userID := c.Sender().ID
	sess := a.flowSession(userID)
	next, effects := flow.Transition(sess, ev)
	a.storeFlowSession(userID, next)

	for _, eff := range effects {
		if err := a.applyEffect(c, next, eff); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) applyEffect(c tele.Context, sess flow.Session, eff flow.Effect) error {
	switch eff.Kind {
	case flow.EffectAskName:
		return tghelpers.SendMD(c, askNameText, keyboard.ReplyButtons([]string{BtnCancel}))

	case flow.EffectRepromptName:
		return tghelpers.SendText(c, invalidNameText)

	case flow.EffectAskSex:
		markup := keyboard.InlineButtonsRows([]keyboard.InlineBtn{
			{Text: "🚹 Male", Unique: "sex", Data: string(access.SexMale)},
			{Text: "🚺 Female", Unique: "sex", Data: string(access.SexFemale)},
		})
		return tghelpers.SendText(c, askSexText, &tele.SendOptions{ReplyMarkup: markup})

	case flow.EffectShowPayment:
		// Replaces the sex prompt in place.
		return tghelpers.EditOrSendMD(c, a.cfg.Payment.Instructions)

	case flow.EffectSubmit:
		return a.submit(c, sess, eff.Value)

	case flow.EffectCancelled:
		return tghelpers.SendText(c, cancelledText, &tele.SendOptions{
			ReplyMarkup: userMenuKeyboard(),
		})
	}
	return nil
}

func (a *App) submit(c tele.Context, sess flow.Session, photoID string) error {
	sender := c.Sender()
	sex, err := access.ParseSex(sess.Sex)
	if err != nil {
		// Draft corrupted; restart the conversation cleanly.
		a.fsm.Clear(sender.ID)
		return tghelpers.SendText(c, invalidNameText, &tele.SendOptions{
			ReplyMarkup: userMenuKeyboard(),
		})
	}

	sub := access.Submission{
		UserID:      sender.ID,
		FullName:    sess.FullName,
		Sex:         sex,
		TGName:      senderDisplayName(sender),
		Username:    access.DisplayUsername(sender.Username),
		PhotoID:     photoID,
		Mode:        a.store.Mode(),
		SubmittedAt: time.Now(),
	}

	ctx := tghelpers.BuildContext(c)
	if err := a.moderation.Dispatch(ctx, sub); err != nil {
		switch {
		case errors.Is(err, access.ErrAlreadyApproved):
			return tghelpers.SendText(c, alreadyMember, &tele.SendOptions{ReplyMarkup: userMenuKeyboard()})
		case errors.Is(err, access.ErrAlreadyPending):
			return tghelpers.SendText(c, alreadyPending, &tele.SendOptions{ReplyMarkup: userMenuKeyboard()})
		}
		return err
	}

	return tghelpers.SendText(c, submittedText, &tele.SendOptions{
		ReplyMarkup: userMenuKeyboard(),
	})
}

func senderDisplayName(u *tele.User) string {
	if u == nil {
		return ""
	}
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	return name
}
