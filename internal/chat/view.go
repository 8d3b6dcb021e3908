package chat

import (
	"github.com/ashureev/faqbot/internal/domain"
	"github.com/ashureev/faqbot/internal/faq"
)

// View is the render model handed to the presentation layer.
type View struct {
	State      domain.State     `json:"state"`
	BotName    string           `json:"bot_name"`
	UserName   string           `json:"user_name,omitempty"`
	Transcript []domain.Message `json:"transcript"`
	Menu       *Menu            `json:"menu,omitempty"`
	Escalation *EscalationView  `json:"escalation,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// Menu describes the question menu below the transcript.
type Menu struct {
	DataAvailable    bool        `json:"data_available"`
	Categories       []string    `json:"categories"`
	SelectedCategory string      `json:"selected_category,omitempty"`
	Topics           []faq.Topic `json:"topics,omitempty"`
	Topic            *TopicView  `json:"topic,omitempty"`
}

// TopicView is the drilled-in topic with its keyword buttons.
type TopicView struct {
	ID       int      `json:"id"`
	Label    string   `json:"label"`
	Keywords []string `json:"keywords"`
}

// EscalationView describes the open escalation form.
type EscalationView struct {
	Context string `json:"context"`
}

// View computes the render model for a session without side effects.
func (e *Engine) View(s *domain.Session) View {
	v := View{
		State:      s.State(),
		BotName:    e.cfg.BotName,
		UserName:   s.UserName,
		Transcript: s.Transcript(),
	}

	switch v.State {
	case domain.StateNameEntry:
	case domain.StateEscalationForm:
		v.Escalation = &EscalationView{Context: s.Escalation.Context}
	default:
		v.Menu = buildMenu(s)
	}
	return v
}

func buildMenu(s *domain.Session) *Menu {
	if s.Data.Empty() {
		return &Menu{Categories: []string{}}
	}

	m := &Menu{
		DataAvailable:    true,
		Categories:       faq.Categories(s.Data.FAQ),
		SelectedCategory: s.SelectedCategory,
	}
	if s.Topic != nil {
		m.Topic = &TopicView{
			ID:       s.Topic.ID,
			Label:    s.Topic.Record.Label(),
			Keywords: s.Topic.Record.KeywordList(),
		}
		return m
	}
	if s.SelectedCategory != "" {
		m.Topics = faq.TopicsIn(s.Data.FAQ, s.SelectedCategory)
	}
	return m
}
