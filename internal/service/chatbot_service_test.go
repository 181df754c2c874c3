package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hr-helpdesk-be/internal/dto"
	"hr-helpdesk-be/internal/entity"
	"hr-helpdesk-be/internal/model"
	"hr-helpdesk-be/internal/repository/contract"
	"hr-helpdesk-be/internal/repository/implementation"
	"hr-helpdesk-be/internal/repository/memory"
	"hr-helpdesk-be/internal/repository/unitofwork"
	"hr-helpdesk-be/internal/service"
	"hr-helpdesk-be/pkg/dialog"
	"hr-helpdesk-be/pkg/events"
	"hr-helpdesk-be/pkg/i18n"
	"hr-helpdesk-be/pkg/rag"
	"hr-helpdesk-be/pkg/rag/escalation"
	"hr-helpdesk-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.Question{}, &model.Feedback{}, &model.Department{}, &model.Employee{}))
	require.NoError(t, db.Create(&[]model.Department{
		{DepartmentId: 1, DepartmentName: "HR", DepartmentHead: "Mona"},
		{DepartmentId: 2, DepartmentName: "Finance", DepartmentHead: "Karim"},
	}).Error)
	require.NoError(t, db.Omit("Department").Create(&model.Employee{
		EmployeeId: 101, Name: "Aya", DepartmentId: 1, RemainingVacations: 5,
	}).Error)
	return db
}

type fakeAnswerer struct {
	mu      sync.Mutex
	result  rag.Result
	queries []string
}

func (f *fakeAnswerer) Answer(_ context.Context, query, _ string) rag.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.result
}

func (f *fakeAnswerer) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

type fakeTranslator struct {
	mu      sync.Mutex
	targets []string
	output  string
}

func (f *fakeTranslator) Translate(_ context.Context, text, target string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.targets = append(f.targets, target)
	if f.output != "" {
		return f.output
	}
	return text
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

type stubIndex struct{ ready bool }

func (s stubIndex) Ready() bool { return s.ready }

// failingFactory hands out units of work whose question writes fail.
type failingFactory struct {
	unitofwork.RepositoryFactory
}

func (f failingFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return failingUow{UnitOfWork: f.RepositoryFactory.NewUnitOfWork(ctx)}
}

type failingUow struct {
	unitofwork.UnitOfWork
}

func (u failingUow) QuestionRepository() contract.QuestionRepository {
	return failingQuestions{QuestionRepository: u.UnitOfWork.QuestionRepository()}
}

type failingQuestions struct {
	contract.QuestionRepository
}

func (failingQuestions) Create(context.Context, *entity.Question) error {
	return errors.New("database is read-only")
}

type fixture struct {
	db         *gorm.DB
	service    service.IChatbotService
	answerer   *fakeAnswerer
	translator *fakeTranslator
	publisher  *recordingPublisher
	sessions   *memory.SessionRepository
	catalog    *i18n.Catalog
}

func newFixture(t *testing.T, opts ...func(*service.ChatbotDeps)) *fixture {
	t.Helper()
	db := newTestDB(t)
	catalog := i18n.Default()
	sessions := memory.NewSessionRepository(time.Minute)

	f := &fixture{
		db:         db,
		answerer:   &fakeAnswerer{},
		translator: &fakeTranslator{},
		publisher:  &recordingPublisher{},
		sessions:   sessions,
		catalog:    catalog,
	}
	deps := service.ChatbotDeps{
		UowFactory:    unitofwork.NewRepositoryFactory(db),
		Sessions:      sessions,
		Dialog:        dialog.NewMachine(sessions, implementation.NewDirectoryRepository(db), catalog, nil),
		Answerer:      f.answerer,
		Policy:        escalation.NewPolicy(escalation.DefaultThreshold, catalog),
		Translator:    f.translator,
		Publisher:     f.publisher,
		Catalog:       catalog,
		DB:            stubPinger{},
		Index:         stubIndex{ready: true},
		IndexLanguage: i18n.LangEnglish,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	f.service = service.NewChatbotService(deps)
	return f
}

func (f *fixture) questionCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&model.Question{}).Count(&n).Error)
	return n
}

func hit(score float64) store.Hit {
	return store.Hit{
		Chunk: store.Chunk{SourceURL: "https://example.org/law", Section: "Article 117", Text: "Working hours are eight per day."},
		Score: score,
	}
}

func TestAsk_GuidedDialogIsNeverPersisted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	menu, _ := f.catalog.MenuText("vacation")

	res, err := f.service.Ask(ctx, &dto.AskRequest{
		Question:         menu.In(i18n.LangEnglish),
		Language:         i18n.LangEnglish,
		SessionId:        "guided-1",
		IsCommonQuestion: true,
	})
	require.NoError(t, err)
	assert.Equal(t, dialog.StatusVacationQuery, res.Status)
	assert.Equal(t, []float64{1.0}, res.ConfidenceScores)
	assert.Nil(t, res.QuestionId)

	res, err = f.service.Ask(ctx, &dto.AskRequest{
		Question:  "101",
		Language:  i18n.LangEnglish,
		SessionId: "guided-1",
	})
	require.NoError(t, err)
	assert.Equal(t, dialog.StatusVacationAnswered, res.Status)
	assert.Contains(t, res.Answers[0], "Aya")
	assert.Contains(t, res.Answers[0], "5")
	assert.Nil(t, res.QuestionId)

	assert.Zero(t, f.questionCount(t))
	assert.Empty(t, f.answerer.calls())
	assert.Empty(t, f.publisher.published())
}

func TestAsk_AnsweredQuestionIsStoredOnce(t *testing.T) {
	f := newFixture(t)
	f.answerer.result = rag.Result{
		Answer:     "Eight hours per day. (Source: https://example.org/law)",
		Hits:       []store.Hit{hit(0.82), hit(0.7), hit(0.6), hit(0.5)},
		Confidence: 0.82,
		Generated:  true,
	}

	res, err := f.service.Ask(context.Background(), &dto.AskRequest{
		Question:  "What are the working hours?",
		Language:  i18n.LangEnglish,
		SessionId: "rag-1",
	})
	require.NoError(t, err)

	assert.Equal(t, escalation.StatusAnswered, res.Status)
	assert.Equal(t, f.answerer.result.Answer, res.Answers[0])
	assert.InDelta(t, 0.82, res.ConfidenceScores[0], 1e-9)
	require.NotNil(t, res.QuestionId)
	assert.Len(t, res.RagSources, 3)
	assert.Equal(t, "rag-1", res.SessionId)

	assert.Equal(t, int64(1), f.questionCount(t))
	var stored model.Question
	require.NoError(t, f.db.First(&stored, *res.QuestionId).Error)
	assert.Equal(t, escalation.StatusAnswered, stored.Status)
	assert.Equal(t, "What are the working hours?", stored.QuestionText)

	assert.Empty(t, f.publisher.published())
	assert.Empty(t, f.translator.targets, "english question against english index needs no translation")
}

func TestAsk_LowConfidenceEscalates(t *testing.T) {
	f := newFixture(t)
	f.answerer.result = rag.Result{
		Answer:     "Perhaps ten hours.",
		Hits:       []store.Hit{hit(0.05)},
		Confidence: 0.05,
		Generated:  true,
	}

	res, err := f.service.Ask(context.Background(), &dto.AskRequest{
		Question:  "Can I bring my cat to work?",
		Language:  i18n.LangEnglish,
		SessionId: "rag-2",
	})
	require.NoError(t, err)

	assert.Equal(t, escalation.StatusPending, res.Status)
	assert.Equal(t, f.catalog.Text("rag.apology", i18n.LangEnglish), res.Answers[0])
	assert.InDelta(t, 0.05, res.ConfidenceScores[0], 1e-9)
	require.NotNil(t, res.QuestionId)

	published := f.publisher.published()
	require.Len(t, published, 1)
	ev, err := events.QuestionPendingFrom(published[0])
	require.NoError(t, err)
	require.NotNil(t, ev.QuestionID)
	assert.Equal(t, *res.QuestionId, *ev.QuestionID)
	assert.Equal(t, "rag-2", ev.SessionID)
}

func TestAsk_ThresholdIsInclusive(t *testing.T) {
	f := newFixture(t)
	f.answerer.result = rag.Result{
		Answer:     "Exactly at the threshold.",
		Hits:       []store.Hit{hit(escalation.DefaultThreshold)},
		Confidence: escalation.DefaultThreshold,
		Generated:  true,
	}

	res, err := f.service.Ask(context.Background(), &dto.AskRequest{Question: "Borderline?", Language: i18n.LangEnglish})
	require.NoError(t, err)
	assert.Equal(t, escalation.StatusAnswered, res.Status)
}

func TestAsk_PersistenceFailureStillAnswers(t *testing.T) {
	f := newFixture(t, func(d *service.ChatbotDeps) {
		d.UowFactory = failingFactory{RepositoryFactory: d.UowFactory}
	})
	f.answerer.result = rag.Result{
		Answer:     "Eight hours per day.",
		Hits:       []store.Hit{hit(0.9)},
		Confidence: 0.9,
		Generated:  true,
	}

	res, err := f.service.Ask(context.Background(), &dto.AskRequest{Question: "Working hours?", Language: i18n.LangEnglish})
	require.NoError(t, err)
	assert.Equal(t, escalation.StatusAnswered, res.Status)
	assert.Nil(t, res.QuestionId)
	assert.Zero(t, f.questionCount(t))
}

func TestAsk_GenerationFailureIsPending(t *testing.T) {
	f := newFixture(t)
	fallback := f.catalog.Text("rag.technical_difficulty", i18n.LangArabic)
	f.answerer.result = rag.Result{Answer: fallback, Err: errors.New("llm timeout")}

	res, err := f.service.Ask(context.Background(), &dto.AskRequest{Question: "ما هي ساعات العمل؟"})
	require.NoError(t, err)
	assert.Equal(t, escalation.StatusPending, res.Status)
	assert.Equal(t, fallback, res.Answers[0])
	assert.Equal(t, []float64{0}, res.ConfidenceScores)
	assert.Len(t, f.publisher.published(), 1)
}

func TestAsk_TranslatesBetweenRequestAndIndexLanguage(t *testing.T) {
	f := newFixture(t)
	f.translator.output = "translated"
	f.answerer.result = rag.Result{
		Answer:     "Working hours are eight per day.",
		Hits:       []store.Hit{hit(0.9)},
		Confidence: 0.9,
		Generated:  true,
	}

	res, err := f.service.Ask(context.Background(), &dto.AskRequest{
		Question: "ما هي ساعات العمل؟",
		Language: i18n.LangArabic,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"translated"}, f.answerer.calls())
	assert.Equal(t, []string{i18n.LangEnglish, i18n.LangArabic}, f.translator.targets)
	assert.Equal(t, "translated", res.Answers[0])
}

func TestAsk_DefaultsSessionAndLanguage(t *testing.T) {
	f := newFixture(t)
	f.answerer.result = rag.Result{Answer: "x", Hits: nil}

	res, err := f.service.Ask(context.Background(), &dto.AskRequest{Question: "anything"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.SessionId)
	assert.Equal(t, f.catalog.Text("rag.apology", i18n.LangArabic), res.Answers[0])
}

func TestAsk_ClearsStaleSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.sessions.Set(ctx, &store.Session{ID: "stale"}))
	f.answerer.result = rag.Result{Answer: "ok", Hits: []store.Hit{hit(0.9)}, Confidence: 0.9, Generated: true}

	_, err := f.service.Ask(ctx, &dto.AskRequest{Question: "Working hours?", Language: i18n.LangEnglish, SessionId: "stale"})
	require.NoError(t, err)

	_, found, err := f.sessions.Get(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFeedback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	good := true

	t.Run("unknown question", func(t *testing.T) {
		missing := int64(404)
		err := f.service.Feedback(ctx, &dto.FeedbackRequest{QuestionId: &missing, IsGood: &good})
		assert.ErrorIs(t, err, service.ErrQuestionNotFound)
	})

	t.Run("stored against an existing question", func(t *testing.T) {
		f.answerer.result = rag.Result{Answer: "ok", Hits: []store.Hit{hit(0.9)}, Confidence: 0.9, Generated: true}
		res, err := f.service.Ask(ctx, &dto.AskRequest{Question: "Working hours?", Language: i18n.LangEnglish})
		require.NoError(t, err)
		require.NotNil(t, res.QuestionId)

		require.NoError(t, f.service.Feedback(ctx, &dto.FeedbackRequest{QuestionId: res.QuestionId, IsGood: &good}))

		var rows []model.Feedback
		require.NoError(t, f.db.Where("question_id = ?", *res.QuestionId).Find(&rows).Error)
		require.Len(t, rows, 1)
		assert.True(t, rows[0].IsGood)

		var q model.Question
		require.NoError(t, f.db.First(&q, *res.QuestionId).Error)
		assert.Equal(t, escalation.StatusAnswered, q.Status)
	})
}

func TestCommonQuestions(t *testing.T) {
	f := newFixture(t)

	ar := f.service.CommonQuestions("")
	en := f.service.CommonQuestions("en")
	require.Len(t, ar.Questions, len(f.catalog.Menu()))
	require.Len(t, en.Questions, len(ar.Questions))

	vacation, _ := f.catalog.MenuText("vacation")
	var found bool
	for i, q := range en.Questions {
		if q.Id == "vacation" {
			found = true
			assert.Equal(t, vacation.In(i18n.LangEnglish), q.Text)
			assert.Equal(t, vacation.In(i18n.LangArabic), ar.Questions[i].Text)
		}
	}
	assert.True(t, found)
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		res := newFixture(t).service.Health(context.Background())
		assert.True(t, res.Healthy())
		assert.Equal(t, "healthy", res.Database)
	})

	t.Run("database down", func(t *testing.T) {
		res := newFixture(t, func(d *service.ChatbotDeps) {
			d.DB = stubPinger{err: errors.New("connection refused")}
		}).service.Health(context.Background())
		assert.False(t, res.Healthy())
		assert.Equal(t, "unhealthy", res.Database)
		assert.Equal(t, "healthy", res.Index)
	})

	t.Run("index not loaded", func(t *testing.T) {
		res := newFixture(t, func(d *service.ChatbotDeps) {
			d.Index = stubIndex{}
		}).service.Health(context.Background())
		assert.False(t, res.Healthy())
		assert.Equal(t, "unhealthy", res.Index)
	})
}

func TestFailureResponse(t *testing.T) {
	f := newFixture(t)
	res := f.service.FailureResponse(&dto.AskRequest{Question: "x", Language: "en", SessionId: "s"})
	assert.Equal(t, service.StatusError, res.Status)
	assert.Equal(t, []float64{0}, res.ConfidenceScores)
	assert.Equal(t, f.catalog.Text("request.error", i18n.LangEnglish), res.Answers[0])
	assert.Equal(t, "s", res.SessionId)
}
