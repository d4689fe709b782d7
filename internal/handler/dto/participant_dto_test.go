package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/easynatorics-api/internal/domain/entity"
)

func newRecord() *entity.ParticipantRecord {
	return entity.NewParticipantRecord("P001", entity.Demographics{Name: "Rina", Grade: "11", Age: 16, Experience: "Menengah"}, time.Now().UTC())
}

func TestNewPersonalResults(t *testing.T) {
	pre, post := 4, 7
	anxPre, anxPost := 3.56, 2.33

	rec := newRecord()
	rec.PreTest.Score = &pre
	rec.PostTest.Score = &post
	rec.AnxietySurvey.PreScore = &anxPre
	rec.AnxietySurvey.PostScore = &anxPost
	rec.LearningProgress.ProblemsAttempted = 3
	rec.LearningProgress.ProblemsCorrect = 2

	res := NewPersonalResults(rec)

	require.NotNil(t, res.ScoreImprovement)
	assert.Equal(t, 3, *res.ScoreImprovement)
	require.NotNil(t, res.AnxietyDecrease)
	assert.InDelta(t, 1.2, *res.AnxietyDecrease, 1e-9, "Снижение округляется до десятых")
	assert.InDelta(t, 66.7, res.Accuracy, 1e-9)
}

func TestNewPersonalResults_IncompleteRecord(t *testing.T) {
	pre := 5
	anxPre := 3.0
	rec := newRecord()
	rec.PreTest.Score = &pre
	rec.AnxietySurvey.PreScore = &anxPre

	res := NewPersonalResults(rec)

	assert.Nil(t, res.ScoreImprovement, "Без post-теста рост не считается")
	assert.Nil(t, res.AnxietyDecrease, "Без второго опроса снижение не считается")
	assert.Equal(t, 0.0, res.Accuracy, "Без задач точность 0")
}

func TestNewParticipantResponse_IncludesResults(t *testing.T) {
	rec := newRecord()
	rec.LearningProgress.ProblemsAttempted = 4
	rec.LearningProgress.ProblemsCorrect = 4

	resp := NewParticipantResponse(rec, 2)

	assert.Equal(t, 100.0, resp.Results.Accuracy)
	assert.False(t, resp.Stages.PostTestUnlocked)
}
