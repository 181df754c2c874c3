package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"hr-helpdesk-be/internal/dto"
	"hr-helpdesk-be/internal/entity"
	"hr-helpdesk-be/internal/pkg/logger"
	"hr-helpdesk-be/internal/repository/unitofwork"
	"hr-helpdesk-be/pkg/dialog"
	"hr-helpdesk-be/pkg/events"
	"hr-helpdesk-be/pkg/i18n"
	"hr-helpdesk-be/pkg/language"
	"hr-helpdesk-be/pkg/rag"
	"hr-helpdesk-be/pkg/rag/escalation"
	"hr-helpdesk-be/pkg/store"

	"github.com/google/uuid"
)

var ErrQuestionNotFound = errors.New("question not found")

const (
	ragSourceLimit     = 3
	guidedConfidence   = 1.0
	StatusError        = "error"
	healthy, unhealthy = "healthy", "unhealthy"
)

// IChatbotService defines the help desk operations behind the HTTP API.
type IChatbotService interface {
	Ask(ctx context.Context, request *dto.AskRequest) (*dto.AskResponse, error)
	Feedback(ctx context.Context, request *dto.FeedbackRequest) error
	CommonQuestions(lang string) *dto.CommonQuestionsResponse
	Health(ctx context.Context) *dto.HealthResponse

	// FailureResponse is the payload returned when Ask could not complete.
	FailureResponse(request *dto.AskRequest) *dto.AskResponse
}

// Answerer runs the retrieval-augmented answer path.
type Answerer interface {
	Answer(ctx context.Context, query, lang string) rag.Result
}

// Pinger checks database reachability; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ReadinessChecker reports whether the vector index is loaded.
type ReadinessChecker interface {
	Ready() bool
}

type ChatbotDeps struct {
	UowFactory    unitofwork.RepositoryFactory
	Sessions      store.SessionStore
	Dialog        *dialog.Machine
	Answerer      Answerer
	Policy        *escalation.Policy
	Translator    language.Translator
	Publisher     events.Publisher
	Catalog       *i18n.Catalog
	DB            Pinger
	Index         ReadinessChecker
	IndexLanguage string
	Logger        logger.ILogger
}

type chatbotService struct {
	ChatbotDeps
}

func NewChatbotService(deps ChatbotDeps) IChatbotService {
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	if deps.Translator == nil {
		deps.Translator = language.NoopTranslator{}
	}
	if deps.Catalog == nil {
		deps.Catalog = i18n.Default()
	}
	deps.IndexLanguage = language.Normalize(deps.IndexLanguage)
	return &chatbotService{ChatbotDeps: deps}
}

// Ask routes a question to the guided dialog when one applies, otherwise
// answers it from the corpus and records exactly one question row.
func (cs *chatbotService) Ask(ctx context.Context, request *dto.AskRequest) (*dto.AskResponse, error) {
	question := strings.TrimSpace(request.Question)
	lang := requestLanguage(request.Language)
	sessionID := strings.TrimSpace(request.SessionId)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	if reply, handled := cs.Dialog.Handle(ctx, dialog.Turn{
		SessionID:       sessionID,
		Text:            question,
		Language:        lang,
		IsMenuSelection: request.IsCommonQuestion,
	}); handled {
		confidence := guidedConfidence
		if reply.Status == dialog.StatusError {
			confidence = 0
		}
		return &dto.AskResponse{
			Answers:          []string{reply.Answer},
			ConfidenceScores: []float64{confidence},
			Status:           reply.Status,
			SessionId:        sessionID,
		}, nil
	}

	cs.clearStaleSession(ctx, sessionID)

	detected := language.Detect(question)
	query := question
	if detected != cs.IndexLanguage {
		query = cs.Translator.Translate(ctx, question, cs.IndexLanguage)
	}

	result := cs.Answerer.Answer(ctx, query, lang)
	decision := cs.Policy.Decide(result, lang)

	answer := decision.Answer
	if decision.Answered() && language.Detect(answer) != lang {
		answer = cs.Translator.Translate(ctx, answer, lang)
	}

	questionID := cs.recordQuestion(ctx, question, answer, decision)

	if !decision.Answered() {
		cs.publishPending(ctx, events.QuestionPendingEvent{
			QuestionID: questionID,
			SessionID:  sessionID,
			Question:   question,
			Answer:     answer,
			Confidence: decision.Confidence,
			Language:   lang,
			OccurredAt: time.Now(),
		})
	}

	cs.Logger.Info("chatbot", "Question answered", map[string]interface{}{
		"session_id":  sessionID,
		"status":      decision.Status,
		"confidence":  decision.Confidence,
		"hits":        len(result.Hits),
		"detected":    detected,
		"question_id": questionID,
	})

	return &dto.AskResponse{
		Answers:          []string{answer},
		ConfidenceScores: []float64{decision.Confidence},
		QuestionId:       questionID,
		Status:           decision.Status,
		SessionId:        sessionID,
		RagSources:       ragSources(result.Hits),
	}, nil
}

func (cs *chatbotService) FailureResponse(request *dto.AskRequest) *dto.AskResponse {
	return &dto.AskResponse{
		Answers:          []string{cs.Catalog.Text("request.error", requestLanguage(request.Language))},
		ConfidenceScores: []float64{0},
		Status:           StatusError,
		SessionId:        request.SessionId,
	}
}

// clearStaleSession drops a leftover non-guided entry, unless another request
// replaced it meanwhile.
func (cs *chatbotService) clearStaleSession(ctx context.Context, sessionID string) {
	s, found, err := cs.Sessions.Get(ctx, sessionID)
	if err != nil || !found || s.Guided() {
		return
	}
	if _, err := cs.Sessions.CompareAndDelete(ctx, sessionID, s.Version); err != nil {
		cs.Logger.Warn("chatbot", "Failed to clear stale session", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}

// recordQuestion never fails the request; a nil id means nothing was stored.
func (cs *chatbotService) recordQuestion(ctx context.Context, question, answer string, d escalation.Decision) *int64 {
	q := &entity.Question{
		Text:       question,
		Answer:     answer,
		Status:     d.Status,
		Confidence: d.Confidence,
	}
	uow := cs.UowFactory.NewUnitOfWork(ctx)
	if err := uow.QuestionRepository().Create(ctx, q); err != nil {
		cs.Logger.Error("chatbot", "Failed to store question", map[string]interface{}{
			"status": d.Status,
			"error":  err.Error(),
		})
		return nil
	}
	id := q.Id
	return &id
}

func (cs *chatbotService) publishPending(ctx context.Context, ev events.QuestionPendingEvent) {
	if cs.Publisher == nil {
		return
	}
	if err := cs.Publisher.Publish(ctx, ev); err != nil {
		cs.Logger.Warn("chatbot", "Failed to publish pending question", map[string]interface{}{
			"session_id": ev.SessionID,
			"error":      err.Error(),
		})
	}
}

// Feedback stores a rating for an existing question.
func (cs *chatbotService) Feedback(ctx context.Context, request *dto.FeedbackRequest) error {
	uow := cs.UowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	exists, err := uow.QuestionRepository().Exists(ctx, *request.QuestionId)
	if err != nil {
		return err
	}
	if !exists {
		return ErrQuestionNotFound
	}

	if err := uow.FeedbackRepository().Create(ctx, &entity.Feedback{
		QuestionId: *request.QuestionId,
		IsGood:     *request.IsGood,
	}); err != nil {
		return err
	}
	return uow.Commit()
}

func (cs *chatbotService) CommonQuestions(lang string) *dto.CommonQuestionsResponse {
	lang = requestLanguage(lang)
	menu := cs.Catalog.Menu()
	questions := make([]dto.CommonQuestion, len(menu))
	for i, item := range menu {
		questions[i] = dto.CommonQuestion{Id: item.ID, Text: item.In(lang)}
	}
	return &dto.CommonQuestionsResponse{Questions: questions}
}

func (cs *chatbotService) Health(ctx context.Context) *dto.HealthResponse {
	res := &dto.HealthResponse{
		Status:    healthy,
		Database:  healthy,
		Index:     healthy,
		Timestamp: time.Now(),
	}
	if cs.DB == nil || cs.DB.PingContext(ctx) != nil {
		res.Database = unhealthy
		res.Status = unhealthy
	}
	if cs.Index == nil || !cs.Index.Ready() {
		res.Index = unhealthy
		res.Status = unhealthy
	}
	return res
}

// requestLanguage defaults to Arabic, the primary audience.
func requestLanguage(lang string) string {
	if strings.TrimSpace(lang) == "" {
		return i18n.LangArabic
	}
	return language.Normalize(lang)
}

func ragSources(hits []store.Hit) []dto.RagSource {
	if len(hits) == 0 {
		return nil
	}
	n := len(hits)
	if n > ragSourceLimit {
		n = ragSourceLimit
	}
	out := make([]dto.RagSource, n)
	for i := 0; i < n; i++ {
		out[i] = dto.RagSource{
			URL:     hits[i].Chunk.SourceURL,
			Section: hits[i].Chunk.Section,
			Score:   hits[i].Score,
		}
	}
	return out
}
