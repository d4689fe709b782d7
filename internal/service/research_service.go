package service

import (
	"context"
	"errors"
	"sort"

	"github.com/yourusername/easynatorics-api/internal/domain/entity"
	"github.com/yourusername/easynatorics-api/internal/domain/repository"
	"github.com/yourusername/easynatorics-api/internal/pkg/logger"
	"github.com/yourusername/easynatorics-api/internal/service/stats"
)

// DatasetRow - строка исследовательского датасета
type DatasetRow struct {
	ParticipantID     string   `json:"participant_id"`
	Name              string   `json:"name"`
	Grade             string   `json:"grade"`
	Age               int      `json:"age"`
	Experience        string   `json:"experience"`
	AnxietyPre        *float64 `json:"anxiety_pre"`
	AnxietyPost       *float64 `json:"anxiety_post"`
	TestPre           *int     `json:"test_pre"`
	TestPost          *int     `json:"test_post"`
	ProblemsAttempted int      `json:"problems_attempted"`
	ProblemsCorrect   int      `json:"problems_correct"`
	CompletedModules  int      `json:"completed_modules"`
	Testimonial       string   `json:"testimonial"`
}

// MetricSummary - парный t-тест по одной метрике.
// Result == nil, если данных недостаточно; причина в Note.
type MetricSummary struct {
	Metric string              `json:"metric"`
	N      int                 `json:"n"`
	Result *stats.PairedResult `json:"result,omitempty"`
	Note   string              `json:"note,omitempty"`
}

// StudySummary - сводка исследования
type StudySummary struct {
	Participants int           `json:"participants"`
	Anxiety      MetricSummary `json:"anxiety"`
	TestScore    MetricSummary `json:"test_score"`
}

// ResearchService строит датасет и сводную статистику для исследователя
type ResearchService struct {
	participants repository.ParticipantRepository
	logger       *logger.Logger
}

// NewResearchService создает сервис исследователя
func NewResearchService(participants repository.ParticipantRepository, log *logger.Logger) *ResearchService {
	if log == nil {
		log = logger.NewNop()
	}
	return &ResearchService{participants: participants, logger: log}
}

// Participants возвращает строки датасета, отсортированные по ID
func (s *ResearchService) Participants(ctx context.Context) ([]DatasetRow, error) {
	records, err := s.participants.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return datasetRows(records), nil
}

// Participant возвращает полную запись участника
func (s *ResearchService) Participant(ctx context.Context, id string) (*entity.ParticipantRecord, error) {
	return s.participants.Load(ctx, id)
}

// Summary считает парные t-тесты по тревожности и баллам теста.
// В расчёт входят только участники, у которых есть оба значения.
func (s *ResearchService) Summary(ctx context.Context) (*StudySummary, error) {
	rows, err := s.Participants(ctx)
	if err != nil {
		return nil, err
	}

	var anxPre, anxPost, testPre, testPost []float64
	for _, r := range rows {
		if r.AnxietyPre != nil && r.AnxietyPost != nil {
			anxPre = append(anxPre, *r.AnxietyPre)
			anxPost = append(anxPost, *r.AnxietyPost)
		}
		if r.TestPre != nil && r.TestPost != nil {
			testPre = append(testPre, float64(*r.TestPre))
			testPost = append(testPost, float64(*r.TestPost))
		}
	}

	summary := &StudySummary{
		Participants: len(rows),
		Anxiety:      metricSummary("anxiety", anxPre, anxPost),
		TestScore:    metricSummary("test_score", testPre, testPost),
	}
	s.logger.Debug("[ResearchService] Summary computed", "participants", len(rows), "anxiety_n", summary.Anxiety.N, "test_n", summary.TestScore.N)
	return summary, nil
}

func metricSummary(metric string, pre, post []float64) MetricSummary {
	m := MetricSummary{Metric: metric, N: len(pre)}
	res, err := stats.PairedTTest(pre, post)
	switch {
	case err == nil:
		m.Result = &res
	case errors.Is(err, stats.ErrZeroVariance):
		// t не определено, но средние остаются полезными
		m.Note = "all paired differences are equal; t-statistic is undefined"
		res.T, res.PValue = 0, 0
		if res.MeanDiff == 0 {
			res.PValue = 1
		}
		m.Result = &res
	default:
		m.Note = "at least 2 participants with both values are required"
	}
	return m
}

func datasetRows(records map[string]*entity.ParticipantRecord) []DatasetRow {
	rows := make([]DatasetRow, 0, len(records))
	for id, rec := range records {
		rows = append(rows, DatasetRow{
			ParticipantID:     id,
			Name:              rec.Demographics.Name,
			Grade:             rec.Demographics.Grade,
			Age:               rec.Demographics.Age,
			Experience:        rec.Demographics.Experience,
			AnxietyPre:        rec.AnxietySurvey.PreScore,
			AnxietyPost:       rec.AnxietySurvey.PostScore,
			TestPre:           rec.PreTest.Score,
			TestPost:          rec.PostTest.Score,
			ProblemsAttempted: rec.LearningProgress.ProblemsAttempted,
			ProblemsCorrect:   rec.LearningProgress.ProblemsCorrect,
			CompletedModules:  rec.CompletedModules(),
			Testimonial:       rec.SatisfactionSurvey.Testimonial,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if len(rows[i].ParticipantID) != len(rows[j].ParticipantID) {
			return len(rows[i].ParticipantID) < len(rows[j].ParticipantID)
		}
		return rows[i].ParticipantID < rows[j].ParticipantID
	})
	return rows
}
