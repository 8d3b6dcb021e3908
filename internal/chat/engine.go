package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ashureev/faqbot/internal/domain"
	"github.com/ashureev/faqbot/internal/escalation"
	"github.com/ashureev/faqbot/internal/faq"
	"github.com/ashureev/faqbot/internal/roster"
)

// DefaultTrigger is the phrase that opens an escalation from free text.
const DefaultTrigger = "担当者へ連絡"

// Config controls engine behavior.
type Config struct {
	BotName string
	// Trigger is the literal substring that turns free text into an escalation.
	Trigger string
	// FormEnabled opens a detail form on escalation instead of escalating immediately.
	FormEnabled bool
	LogType     string
	Replies     Replies
}

// Engine applies user actions to sessions.
type Engine struct {
	source faq.Source
	logger escalation.Logger
	cfg    Config
}

// NewEngine creates an engine. Empty config fields get defaults.
func NewEngine(source faq.Source, logger escalation.Logger, cfg Config) *Engine {
	if cfg.Trigger == "" {
		cfg.Trigger = DefaultTrigger
	}
	if cfg.Replies == (Replies{}) {
		cfg.Replies = DefaultReplies(cfg.Trigger, "人事部の木村")
	}
	return &Engine{source: source, logger: logger, cfg: cfg}
}

// NewSession creates a session in the name entry state with the greeting appended.
func (e *Engine) NewSession(id string) *domain.Session {
	return domain.NewSession(id, e.cfg.Replies.Greeting)
}

// Snapshot loads data if needed and returns the current render model.
func (e *Engine) Snapshot(ctx context.Context, s *domain.Session) View {
	e.ensureData(ctx, s)
	return e.View(s)
}

// Handle applies one action. On error the session is unchanged; a
// ValidationError message is also surfaced in the returned view.
func (e *Engine) Handle(ctx context.Context, s *domain.Session, a Action) (View, error) {
	e.ensureData(ctx, s)

	err := e.apply(ctx, s, a)
	v := e.View(s)

	var verr *ValidationError
	if errors.As(err, &verr) {
		v.Error = verr.Message
	}
	return v, err
}

// ensureData memoizes the dataset on the session once it loads successfully.
func (e *Engine) ensureData(ctx context.Context, s *domain.Session) {
	if !s.Data.Empty() {
		return
	}
	data, err := e.source.FetchAll(ctx)
	if err != nil {
		slog.Warn("FAQ data unavailable", "session_id", s.ID, "error", err)
	}
	s.Data = &data
}

//nolint:gocyclo // One case per action keeps the transition table readable.
func (e *Engine) apply(ctx context.Context, s *domain.Session, a Action) error {
	state := s.State()

	if a.Type == ActionSubmitName {
		if state != domain.StateNameEntry {
			return ErrInvalidTransition
		}
		return e.submitName(s, a.Name)
	}
	if state == domain.StateNameEntry {
		switch a.Type {
		case ActionSelectCategory, ActionSelectTopic, ActionBack, ActionSelectKeyword,
			ActionFreeText, ActionTriggerEscalation, ActionCancelEscalation, ActionSubmitEscalation:
			return ErrInvalidTransition
		default:
			return fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
		}
	}

	browsing := state == domain.StateMenuBrowsing || state == domain.StateTopicDrilldown

	switch a.Type {
	case ActionSelectCategory:
		if !browsing {
			return ErrInvalidTransition
		}
		return e.selectCategory(s, a.Category)
	case ActionSelectTopic:
		if state != domain.StateMenuBrowsing {
			return ErrInvalidTransition
		}
		return e.selectTopic(s, a.TopicID)
	case ActionBack:
		if state != domain.StateTopicDrilldown {
			return ErrInvalidTransition
		}
		s.Topic = nil
		return nil
	case ActionSelectKeyword:
		if state != domain.StateTopicDrilldown {
			return ErrInvalidTransition
		}
		return e.selectKeyword(s, a.Keyword)
	case ActionFreeText:
		if !browsing {
			return ErrInvalidTransition
		}
		return e.freeText(ctx, s, a.Text)
	case ActionTriggerEscalation:
		if !browsing {
			return ErrInvalidTransition
		}
		label := strings.TrimSpace(a.Context)
		if label == "" {
			label = currentContext(s)
		}
		e.startEscalation(ctx, s, label, "")
		return nil
	case ActionCancelEscalation:
		if state != domain.StateEscalationForm {
			return ErrInvalidTransition
		}
		s.ResetMenu()
		return nil
	case ActionSubmitEscalation:
		if state != domain.StateEscalationForm {
			return ErrInvalidTransition
		}
		return e.submitEscalation(ctx, s, a.Detail)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
	}
}

func (e *Engine) submitName(s *domain.Session, name string) error {
	if strings.TrimSpace(roster.Normalize(name)) == "" {
		return invalid("name", e.cfg.Replies.NameRequired)
	}
	if !roster.IsValidName(name, s.Data.Employees) {
		slog.Info("Name not found in roster", "session_id", s.ID)
		return invalid("name", e.cfg.Replies.unknownName(name))
	}
	s.UserName = strings.TrimSpace(name)
	slog.Info("User started chat", "session_id", s.ID, "roster_size", len(s.Data.Employees))
	return nil
}

func (e *Engine) selectCategory(s *domain.Session, category string) error {
	if s.Data.Empty() {
		return ErrDataUnavailable
	}
	if category != "" && !faq.HasCategory(s.Data.FAQ, category) {
		return invalid("category", e.cfg.Replies.UnknownChoice)
	}
	s.SelectedCategory = category
	s.Topic = nil
	return nil
}

func (e *Engine) selectTopic(s *domain.Session, id int) error {
	if s.Data.Empty() {
		return ErrDataUnavailable
	}
	if id < 0 || id >= len(s.Data.FAQ) || s.Data.FAQ[id].Category == "" {
		return invalid("topic_id", e.cfg.Replies.UnknownChoice)
	}
	rec := s.Data.FAQ[id]
	s.SelectedCategory = rec.Category
	s.Topic = &domain.TopicSelection{ID: id, Record: rec}
	return nil
}

func (e *Engine) selectKeyword(s *domain.Session, keyword string) error {
	rec := s.Topic.Record
	if !rec.HasKeyword(keyword) {
		return invalid("keyword", e.cfg.Replies.UnknownChoice)
	}
	s.Append(
		domain.UserMessage(keyword),
		domain.AssistantMessage(e.cfg.Replies.answer(rec.Answer, rec.Keywords)),
	)
	s.Topic = nil
	return nil
}

func (e *Engine) freeText(ctx context.Context, s *domain.Session, text string) error {
	if strings.TrimSpace(text) == "" {
		return invalid("text", e.cfg.Replies.TextRequired)
	}
	if strings.Contains(text, e.cfg.Trigger) {
		e.startEscalation(ctx, s, currentContext(s), text)
		return nil
	}

	reply := e.cfg.Replies.NotFound
	if rec, ok := faq.Search(text, s.Data.FAQ); ok {
		reply = e.cfg.Replies.answer(rec.Answer, rec.Keywords)
	}
	s.Append(domain.UserMessage(text), domain.AssistantMessage(reply))
	return nil
}

// startEscalation opens the form, or escalates at once when the form is disabled.
// text is the free text that triggered it, empty for the escalation button.
func (e *Engine) startEscalation(ctx context.Context, s *domain.Session, label, text string) {
	if e.cfg.FormEnabled {
		s.Topic = nil
		s.Escalation = domain.EscalationState{Active: true, Context: label}
		return
	}

	userMsg, logMsg := text, text
	if text == "" {
		userMsg = e.cfg.Trigger
		logMsg = fmt.Sprintf(e.cfg.Replies.ContextFormat, e.cfg.Trigger, label)
	}
	reply := e.cfg.Replies.Confirmation
	s.Append(domain.UserMessage(userMsg), domain.AssistantMessage(reply))
	e.logEscalation(ctx, s, logMsg, reply)
}

func (e *Engine) submitEscalation(ctx context.Context, s *domain.Session, detail string) error {
	if strings.TrimSpace(detail) == "" {
		return invalid("detail", e.cfg.Replies.DetailRequired)
	}

	reply := e.cfg.Replies.Confirmation
	logMsg := fmt.Sprintf(e.cfg.Replies.ContextFormat, e.cfg.Trigger, s.Escalation.Context) +
		fmt.Sprintf(e.cfg.Replies.DetailFormat, detail)

	s.Append(domain.AssistantMessage(reply))
	s.ResetMenu()
	e.logEscalation(ctx, s, logMsg, reply)
	return nil
}

// logEscalation sends exactly one log entry. Failures are only reported in the server log.
func (e *Engine) logEscalation(ctx context.Context, s *domain.Session, message, reply string) {
	err := e.logger.Log(context.WithoutCancel(ctx), escalation.Entry{
		Message:  message,
		Reply:    reply,
		Type:     e.cfg.LogType,
		UserName: s.UserName,
	})
	if err != nil {
		slog.Warn("Escalation log failed", "session_id", s.ID, "error", err)
		return
	}
	slog.Info("Escalation logged", "session_id", s.ID)
}

func currentContext(s *domain.Session) string {
	if s.SelectedCategory != "" {
		return s.SelectedCategory
	}
	return Unselected
}
