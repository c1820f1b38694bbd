package flow

import "testing"

func step(t *testing.T, s Session, e Event, wantStep Step, wantEffect EffectKind) Session {
	t.Helper()
	next, effects := Transition(s, e)
	if next.Step != wantStep {
		t.Fatalf("Transition(%v, %v): step = %v, want %v", s.Step, e.Kind, next.Step, wantStep)
	}
	if len(effects) != 1 || effects[0].Kind != wantEffect {
		t.Fatalf("Transition(%v, %v): effects = %+v, want single %v", s.Step, e.Kind, effects, wantEffect)
	}
	return next
}

func TestHappyPath(t *testing.T) {
	s := Session{Step: StepIdle}
	s = step(t, s, Event{Kind: EventStart}, StepAwaitingName, EffectAskName)
	s = step(t, s, Event{Kind: EventText, Text: "Abel Kebede"}, StepAwaitingSex, EffectAskSex)
	if s.FullName != "Abel Kebede" {
		t.Fatalf("FullName = %q", s.FullName)
	}
	s = step(t, s, Event{Kind: EventSex, Text: "Male"}, StepAwaitingPhoto, EffectShowPayment)
	if s.Sex != "Male" {
		t.Fatalf("Sex = %q", s.Sex)
	}
	next, effects := Transition(s, Event{Kind: EventPhoto, Text: "file-123"})
	if next.Step != StepIdle {
		t.Fatalf("final step = %v", next.Step)
	}
	if len(effects) != 1 || effects[0].Kind != EffectSubmit || effects[0].Value != "file-123" {
		t.Fatalf("final effects = %+v", effects)
	}
	if next.FullName != "Abel Kebede" || next.Sex != "Male" {
		t.Fatalf("draft lost before submit: %+v", next)
	}
}

func TestInvalidNameSelfLoops(t *testing.T) {
	s := Session{Step: StepAwaitingName}
	for _, name := range []string{"Abel42", "", "名前", "a_b"} {
		next, effects := Transition(s, Event{Kind: EventText, Text: name})
		if next.Step != StepAwaitingName {
			t.Fatalf("name %q: step = %v, want self-loop", name, next.Step)
		}
		if len(effects) != 1 || effects[0].Kind != EffectRepromptName {
			t.Fatalf("name %q: effects = %+v", name, effects)
		}
		if next.FullName != "" {
			t.Fatalf("name %q: draft stored invalid name %q", name, next.FullName)
		}
	}
}

func TestValidName(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"Abel Kebede", true},
		{"abel", true},
		{"A B C", true},
		{"Abel42", false},
		{"", false},
		{"O'Neil", false},
	}
	for _, tc := range cases {
		if got := ValidName(tc.name); got != tc.want {
			t.Errorf("ValidName(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCancelFromEveryStep(t *testing.T) {
	for _, st := range []Step{StepAwaitingName, StepAwaitingSex, StepAwaitingPhoto} {
		s := Session{Step: st, FullName: "Abel", Sex: "Male"}
		next, effects := Transition(s, Event{Kind: EventCancel})
		if next.Step != StepIdle {
			t.Fatalf("cancel from %v: step = %v", st, next.Step)
		}
		if next.FullName != "" || next.Sex != "" {
			t.Fatalf("cancel from %v: draft not cleared: %+v", st, next)
		}
		if len(effects) != 1 || effects[0].Kind != EffectCancelled {
			t.Fatalf("cancel from %v: effects = %+v", st, effects)
		}
	}
}

func TestCancelWhileIdleIsIgnored(t *testing.T) {
	_, effects := Transition(Session{Step: StepIdle}, Event{Kind: EventCancel})
	if len(effects) != 1 || effects[0].Kind != EffectIgnore {
		t.Fatalf("effects = %+v", effects)
	}
}

func TestOutOfOrderEventsIgnored(t *testing.T) {
	cases := []struct {
		step  Step
		event Event
	}{
		{StepAwaitingName, Event{Kind: EventPhoto, Text: "file-1"}},
		{StepAwaitingSex, Event{Kind: EventText, Text: "Abel"}},
		{StepAwaitingSex, Event{Kind: EventPhoto, Text: "file-1"}},
		{StepAwaitingPhoto, Event{Kind: EventText, Text: "hi"}},
		{StepIdle, Event{Kind: EventText, Text: "hi"}},
	}
	for _, tc := range cases {
		s := Session{Step: tc.step}
		next, effects := Transition(s, tc.event)
		if next != s {
			t.Errorf("step %v event %v: session changed to %+v", tc.step, tc.event.Kind, next)
		}
		if len(effects) != 1 || effects[0].Kind != EffectIgnore {
			t.Errorf("step %v event %v: effects = %+v", tc.step, tc.event.Kind, effects)
		}
	}
}
