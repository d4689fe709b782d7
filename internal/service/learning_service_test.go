package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/easynatorics-api/internal/content"
	"github.com/yourusername/easynatorics-api/internal/domain/entity"
	apperrors "github.com/yourusername/easynatorics-api/internal/pkg/errors"
	"github.com/yourusername/easynatorics-api/internal/repository/memory"
	"github.com/yourusername/easynatorics-api/internal/repository/postgres"
)

type learningFixture struct {
	participants *ParticipantService
	sessions     *SessionService
	learning     *LearningService
	source       *fakeSource
	session      *entity.Session
}

func newLearningFixture(t *testing.T) *learningFixture {
	t.Helper()
	participants := newFileParticipantService(t)
	sessions := NewSessionService(memory.NewSessionRepo(nil), participants.participants, time.Hour, nil)
	source := &fakeSource{questions: samplePracticeQuestions()}
	learning := NewLearningService(participants, sessions, source, content.NewBank(), nil, nil)

	id := registerParticipant(t, participants)
	session, err := sessions.Start(context.Background(), id)
	require.NoError(t, err)

	return &learningFixture{
		participants: participants,
		sessions:     sessions,
		learning:     learning,
		source:       source,
		session:      session,
	}
}

func samplePracticeQuestions() []entity.PracticeQuestion {
	return []entity.PracticeQuestion{
		{Text: "2 × 3 = ?", Options: []string{"5", "6"}, Answer: "6", Explanation: "kali", Hint: "kalikan"},
		{Text: "3! = ?", Options: []string{"3", "6"}, Answer: "6", Explanation: "faktorial", Hint: "3×2×1"},
		{Text: "C(4,2) = ?", Options: []string{"6", "12"}, Answer: "6", Explanation: "kombinasi", Hint: "4!/(2!2!)"},
	}
}

// reload перечитывает сессию из хранилища, как это делает middleware на каждом запросе
func (f *learningFixture) reload(t *testing.T) *entity.Session {
	t.Helper()
	s, err := f.sessions.Get(context.Background(), f.session.Token)
	require.NoError(t, err)
	return s
}

func TestLearningService_Modules(t *testing.T) {
	f := newLearningFixture(t)

	modules, err := f.learning.Modules(context.Background(), f.session.ParticipantID)

	require.NoError(t, err)
	require.Len(t, modules, 3)
	assert.Equal(t, entity.ConceptMultiplication, modules[0].Concept)
	for _, m := range modules {
		assert.Equal(t, entity.LevelBeginner, m.Level)
		assert.False(t, m.Completed)
		assert.NotEmpty(t, m.Title)
	}
}

func TestLearningService_Module_ExplanationForCurrentLevel(t *testing.T) {
	f := newLearningFixture(t)

	view, err := f.learning.Module(context.Background(), f.session.ParticipantID, entity.ConceptPermutation)
	require.NoError(t, err)
	assert.Equal(t, "permutation/beginner", view.Explanation)

	_, err = f.learning.Module(context.Background(), f.session.ParticipantID, "geometry")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLearningService_Practice_StoredInSession(t *testing.T) {
	f := newLearningFixture(t)
	ctx := context.Background()

	view, err := f.learning.Practice(ctx, f.session, entity.ConceptCombination, false)
	require.NoError(t, err)
	require.Len(t, view.Items, PracticeQuestionCount)
	assert.Empty(t, view.Items[0].CorrectAnswer, "Ответ скрыт до проверки")
	assert.Equal(t, "kalikan", view.Items[0].Hint)

	session := f.reload(t)
	require.Contains(t, session.Practice, entity.ConceptCombination)
	assert.Equal(t, entity.LevelBeginner, session.Practice[entity.ConceptCombination].Level)

	// Без refresh задачи не перегенерируются
	f.source.questions = f.source.questions[:1]
	view, err = f.learning.Practice(ctx, session, entity.ConceptCombination, false)
	require.NoError(t, err)
	assert.Len(t, view.Items, 3)

	view, err = f.learning.Practice(ctx, session, entity.ConceptCombination, true)
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)
}

func TestLearningService_CheckAnswer_FirstCheckRecords(t *testing.T) {
	f := newLearningFixture(t)
	ctx := context.Background()
	_, err := f.learning.Practice(ctx, f.session, entity.ConceptMultiplication, false)
	require.NoError(t, err)

	session := f.reload(t)
	res, err := f.learning.CheckAnswer(ctx, session, entity.ConceptMultiplication, 0, "5")
	require.NoError(t, err)
	assert.True(t, res.Recorded)
	require.NotNil(t, res.Item.Correct)
	assert.False(t, *res.Item.Correct)
	assert.Equal(t, "6", res.Item.CorrectAnswer)
	assert.Equal(t, 1, res.Outcome.Attempts)

	// Повторная проверка возвращает сохранённый результат
	session = f.reload(t)
	res, err = f.learning.CheckAnswer(ctx, session, entity.ConceptMultiplication, 0, "6")
	require.NoError(t, err)
	assert.False(t, res.Recorded)
	assert.False(t, *res.Item.Correct)
	assert.Equal(t, "5", res.Item.Answer)

	rec, err := f.participants.Get(ctx, session.ParticipantID)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.LearningProgress.ProblemsAttempted, "Повторная проверка не засчитывается")
	assert.Equal(t, 0, rec.LearningProgress.ProblemsCorrect)
}

func TestLearningService_CheckAnswer_PromotesLevel(t *testing.T) {
	f := newLearningFixture(t)
	ctx := context.Background()
	_, err := f.learning.Practice(ctx, f.session, entity.ConceptPermutation, false)
	require.NoError(t, err)

	for i, answer := range []string{"6", "6", "6"} {
		session := f.reload(t)
		_, err := f.learning.CheckAnswer(ctx, session, entity.ConceptPermutation, i, answer)
		require.NoError(t, err)
	}

	view, err := f.learning.Module(ctx, f.session.ParticipantID, entity.ConceptPermutation)
	require.NoError(t, err)
	assert.Equal(t, entity.LevelAdvanced, view.Level)
	assert.Equal(t, "permutation/advanced", view.Explanation)
}

func TestLearningService_CheckAnswer_Errors(t *testing.T) {
	f := newLearningFixture(t)
	ctx := context.Background()

	_, err := f.learning.CheckAnswer(ctx, f.session, entity.ConceptMultiplication, 0, "6")
	assert.ErrorIs(t, err, apperrors.ErrConflict, "Без набора задач проверка невозможна")

	_, err = f.learning.Practice(ctx, f.session, entity.ConceptMultiplication, false)
	require.NoError(t, err)

	tests := []struct {
		name    string
		index   int
		answer  string
		wantErr error
	}{
		{"negative index", -1, "6", apperrors.ErrValidation},
		{"index out of range", 3, "6", apperrors.ErrValidation},
		{"empty answer", 0, " ", apperrors.ErrValidation},
		{"not an option", 0, "42", apperrors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.learning.CheckAnswer(ctx, f.session, entity.ConceptMultiplication, tt.index, tt.answer)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLearningService_CheckAnswer_ConcurrentChecksRecordOnce(t *testing.T) {
	f := newLearningFixture(t)
	ctx := context.Background()
	_, err := f.learning.Practice(ctx, f.session, entity.ConceptMultiplication, false)
	require.NoError(t, err)

	// Каждый запрос получает свою копию сессии, как через middleware
	const workers = 10
	var wg sync.WaitGroup
	results := make(chan *CheckResult, workers)
	for i := 0; i < workers; i++ {
		session := f.reload(t)
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.learning.CheckAnswer(ctx, session, entity.ConceptMultiplication, 0, "6")
			if assert.NoError(t, err) {
				results <- res
			}
		}()
	}
	wg.Wait()
	close(results)

	recorded := 0
	for res := range results {
		if res.Recorded {
			recorded++
		}
		assert.True(t, res.Item.Checked)
	}
	assert.Equal(t, 1, recorded, "Засчитывается только первая проверка")

	rec, err := f.participants.Get(ctx, f.session.ParticipantID)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.LearningProgress.ProblemsAttempted)
	assert.Equal(t, 0, f.learning.sessionLocks.size())
}

func TestLearningService_CheckAnswer_RollsBackWhenAttemptNotSaved(t *testing.T) {
	ctx := context.Background()
	repo := new(MockParticipantRepo)
	rec := entity.NewParticipantRecord("P001", validDemographics(), time.Now().UTC())
	repo.On("Load", mock.Anything, "P001").Return(rec, nil)
	repo.On("Save", mock.Anything, "P001", mock.Anything).Return(apperrors.ErrStorage)

	participants := NewParticipantService(repo, postgres.NoOpAttemptEventRepo{}, nil, content.NewBank(), nil)
	sessions := NewSessionService(memory.NewSessionRepo(nil), repo, time.Hour, nil)
	learning := NewLearningService(participants, sessions, &fakeSource{questions: samplePracticeQuestions()}, content.NewBank(), nil, nil)

	session, err := sessions.Start(ctx, "P001")
	require.NoError(t, err)
	_, err = learning.Practice(ctx, session, entity.ConceptMultiplication, false)
	require.NoError(t, err)

	_, err = learning.CheckAnswer(ctx, session, entity.ConceptMultiplication, 0, "6")
	assert.ErrorIs(t, err, apperrors.ErrStorage)

	stored, err := sessions.Get(ctx, session.Token)
	require.NoError(t, err)
	set := stored.Practice[entity.ConceptMultiplication]
	require.NotNil(t, set)
	assert.Nil(t, set.Results[0], "Результат откатывается, если попытка не сохранена")
	assert.Empty(t, set.Answers[0])
	assert.Nil(t, session.Practice[entity.ConceptMultiplication].Results[0], "Копия вызывающего тоже откатывается")
}

func TestLearningService_ResetAnswers_AllowsRecheck(t *testing.T) {
	f := newLearningFixture(t)
	ctx := context.Background()
	_, err := f.learning.Practice(ctx, f.session, entity.ConceptMultiplication, false)
	require.NoError(t, err)
	_, err = f.learning.CheckAnswer(ctx, f.reload(t), entity.ConceptMultiplication, 0, "6")
	require.NoError(t, err)

	view, err := f.learning.ResetAnswers(ctx, f.reload(t), entity.ConceptMultiplication)
	require.NoError(t, err)
	assert.False(t, view.Items[0].Checked)
	assert.Equal(t, "2 × 3 = ?", view.Items[0].Question, "Задачи остаются прежними")

	res, err := f.learning.CheckAnswer(ctx, f.reload(t), entity.ConceptMultiplication, 0, "6")
	require.NoError(t, err)
	assert.True(t, res.Recorded)
}

func TestLearningService_AskTutor(t *testing.T) {
	f := newLearningFixture(t)

	answer, err := f.learning.AskTutor(context.Background(), entity.ConceptCombination, "  kapan pakai kombinasi? ")
	require.NoError(t, err)
	assert.Equal(t, "answer: kapan pakai kombinasi?", answer)

	_, err = f.learning.AskTutor(context.Background(), entity.ConceptCombination, "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestLearningService_CompleteModule_ClearsPractice(t *testing.T) {
	f := newLearningFixture(t)
	ctx := context.Background()
	_, err := f.learning.Practice(ctx, f.session, entity.ConceptCombination, false)
	require.NoError(t, err)

	summary, err := f.learning.CompleteModule(ctx, f.reload(t), entity.ConceptCombination)
	require.NoError(t, err)
	assert.True(t, summary.Completed)

	assert.NotContains(t, f.reload(t).Practice, entity.ConceptCombination)
}
