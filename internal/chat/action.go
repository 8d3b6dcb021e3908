// Package chat implements the FAQ conversation state machine.
package chat

// ActionType names a user action.
type ActionType string

const (
	ActionSubmitName        ActionType = "submit_name"
	ActionSelectCategory    ActionType = "select_category"
	ActionSelectTopic       ActionType = "select_topic"
	ActionBack              ActionType = "back"
	ActionSelectKeyword     ActionType = "select_keyword"
	ActionFreeText          ActionType = "free_text"
	ActionTriggerEscalation ActionType = "trigger_escalation"
	ActionCancelEscalation  ActionType = "cancel_escalation"
	ActionSubmitEscalation  ActionType = "submit_escalation"
)

// Action is one event from the presentation layer.
type Action struct {
	Type     ActionType `json:"type" validate:"required,oneof=submit_name select_category select_topic back select_keyword free_text trigger_escalation cancel_escalation submit_escalation"`
	Name     string     `json:"name,omitempty" validate:"max=200"`
	Category string     `json:"category,omitempty" validate:"max=200"`
	TopicID  int        `json:"topic_id,omitempty" validate:"min=0"`
	Keyword  string     `json:"keyword,omitempty" validate:"max=200"`
	Text     string     `json:"text,omitempty" validate:"max=4000"`
	Context  string     `json:"context,omitempty" validate:"max=200"`
	Detail   string     `json:"detail,omitempty" validate:"max=4000"`
}
