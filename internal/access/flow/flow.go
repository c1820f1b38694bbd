// Package flow models the payment conversation as a pure state machine.
// Transition takes the current session and an incoming event and returns
// the next session plus the effects the transport layer must perform.
// Keeping the transitions free of any bot types lets the whole
// conversation be tested without Telegram.
package flow

import "regexp"

// Step identifies where a user is inside the payment conversation.
type Step string

const (
	StepIdle          Step = "idle"
	StepAwaitingName  Step = "awaiting_name"
	StepAwaitingSex   Step = "awaiting_sex"
	StepAwaitingPhoto Step = "awaiting_photo"
)

// Session is the per-user conversation state with the draft data
// collected so far.
type Session struct {
	Step     Step
	FullName string
	Sex      string
}

// EventKind discriminates incoming conversation events.
type EventKind string

const (
	EventStart  EventKind = "start"
	EventText   EventKind = "text"
	EventSex    EventKind = "sex"
	EventPhoto  EventKind = "photo"
	EventCancel EventKind = "cancel"
)

// Event is a single user action inside the conversation. Text carries the
// message text for EventText, the chosen value for EventSex and the photo
// file id for EventPhoto.
type Event struct {
	Kind EventKind
	Text string
}

// EffectKind enumerates the side effects a transition requests.
type EffectKind string

const (
	// EffectAskName prompts for the full name and shows the cancel keyboard.
	EffectAskName EffectKind = "ask_name"
	// EffectRepromptName re-asks after invalid name input.
	EffectRepromptName EffectKind = "reprompt_name"
	// EffectAskSex shows the Male/Female inline choice.
	EffectAskSex EffectKind = "ask_sex"
	// EffectShowPayment replaces the sex prompt with payment instructions.
	EffectShowPayment EffectKind = "show_payment"
	// EffectSubmit hands the completed draft to moderation. Value holds
	// the photo file id.
	EffectSubmit EffectKind = "submit"
	// EffectCancelled confirms cancellation and restores the menu keyboard.
	EffectCancelled EffectKind = "cancelled"
	// EffectIgnore means the event does not advance the conversation.
	EffectIgnore EffectKind = "ignore"
)

// Effect is one side effect requested by a transition.
type Effect struct {
	Kind  EffectKind
	Value string
}

var nameRe = regexp.MustCompile(`^[A-Za-z\s]+$`)

// ValidName reports whether the input is an acceptable full name.
func ValidName(name string) bool {
	return nameRe.MatchString(name)
}

// Transition applies one event to a session. It never mutates its input.
func Transition(s Session, e Event) (Session, []Effect) {
	if e.Kind == EventCancel {
		if s.Step == StepIdle {
			return s, []Effect{{Kind: EffectIgnore}}
		}
		return Session{Step: StepIdle}, []Effect{{Kind: EffectCancelled}}
	}

	switch s.Step {
	case StepIdle:
		if e.Kind == EventStart {
			return Session{Step: StepAwaitingName}, []Effect{{Kind: EffectAskName}}
		}

	case StepAwaitingName:
		if e.Kind != EventText {
			return s, []Effect{{Kind: EffectIgnore}}
		}
		if !ValidName(e.Text) {
			return s, []Effect{{Kind: EffectRepromptName}}
		}
		next := s
		next.Step = StepAwaitingSex
		next.FullName = e.Text
		return next, []Effect{{Kind: EffectAskSex}}

	case StepAwaitingSex:
		if e.Kind != EventSex {
			return s, []Effect{{Kind: EffectIgnore}}
		}
		next := s
		next.Step = StepAwaitingPhoto
		next.Sex = e.Text
		return next, []Effect{{Kind: EffectShowPayment}}

	case StepAwaitingPhoto:
		if e.Kind != EventPhoto {
			return s, []Effect{{Kind: EffectIgnore}}
		}
		// The draft stays on the returned session so the submit effect
		// can be applied from it; the idle step ends the conversation.
		next := s
		next.Step = StepIdle
		return next, []Effect{{Kind: EffectSubmit, Value: e.Text}}
	}

	return s, []Effect{{Kind: EffectIgnore}}
}
