package domain

import (
	"time"
)

// State is the conversation state derived from a session.
type State string

const (
	StateNameEntry      State = "name_entry"
	StateMenuBrowsing   State = "menu_browsing"
	StateTopicDrilldown State = "topic_drilldown"
	StateEscalationForm State = "escalation_form"
)

// TopicSelection references the record the user drilled into.
// ID is the record's index in the session dataset.
type TopicSelection struct {
	ID     int
	Record FaqRecord
}

// EscalationState tracks the escalation form.
type EscalationState struct {
	Active  bool
	Context string
}

// Session holds all per-user conversation state.
type Session struct {
	ID               string
	UserName         string
	SelectedCategory string
	Topic            *TopicSelection
	Escalation       EscalationState
	Data             *Dataset
	CreatedAt        time.Time
	UpdatedAt        time.Time

	transcript []Message
}

// NewSession creates a session in the name entry state.
func NewSession(id string, greeting string) *Session {
	now := time.Now()
	s := &Session{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if greeting != "" {
		s.Append(AssistantMessage(greeting))
	}
	return s
}

// State derives the current conversation state.
func (s *Session) State() State {
	switch {
	case s.UserName == "":
		return StateNameEntry
	case s.Escalation.Active:
		return StateEscalationForm
	case s.Topic != nil:
		return StateTopicDrilldown
	default:
		return StateMenuBrowsing
	}
}

// Append adds messages to the end of the transcript.
func (s *Session) Append(msgs ...Message) {
	s.transcript = append(s.transcript, msgs...)
	s.UpdatedAt = time.Now()
}

// Transcript returns a copy of the transcript.
func (s *Session) Transcript() []Message {
	out := make([]Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// TranscriptLen returns the number of messages appended so far.
func (s *Session) TranscriptLen() int {
	return len(s.transcript)
}

// ResetMenu returns to the category summary list.
func (s *Session) ResetMenu() {
	s.Topic = nil
	s.Escalation = EscalationState{}
}
