package service

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/yourusername/easynatorics-api/internal/domain/entity"
)

// MockParticipantRepo реализует repository.ParticipantRepository
type MockParticipantRepo struct {
	mock.Mock
}

func (m *MockParticipantRepo) Create(ctx context.Context, demographics entity.Demographics) (string, error) {
	args := m.Called(ctx, demographics)
	return args.String(0), args.Error(1)
}

func (m *MockParticipantRepo) Load(ctx context.Context, id string) (*entity.ParticipantRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ParticipantRecord), args.Error(1)
}

func (m *MockParticipantRepo) Save(ctx context.Context, id string, record *entity.ParticipantRecord) error {
	args := m.Called(ctx, id, record)
	return args.Error(0)
}

func (m *MockParticipantRepo) ListAll(ctx context.Context) (map[string]*entity.ParticipantRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*entity.ParticipantRecord), args.Error(1)
}

// MockAttemptEventRepo реализует repository.AttemptEventRepository
type MockAttemptEventRepo struct {
	mock.Mock
}

func (m *MockAttemptEventRepo) Record(ctx context.Context, event *entity.AttemptEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAttemptEventRepo) ListByParticipant(ctx context.Context, participantID string) ([]entity.AttemptEvent, error) {
	args := m.Called(ctx, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.AttemptEvent), args.Error(1)
}

// MockSessionRepo реализует repository.SessionRepository
type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockSessionRepo) Get(ctx context.Context, token string) (*entity.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

func (m *MockSessionRepo) Update(ctx context.Context, session *entity.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockSessionRepo) Delete(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

// fakeSource - content.Source с предсказуемыми задачами
type fakeSource struct {
	questions []entity.PracticeQuestion
	asked     []string
}

func (f *fakeSource) Explanation(_ context.Context, concept entity.Concept, level entity.Level) string {
	return string(concept) + "/" + string(level)
}

func (f *fakeSource) PracticeQuestions(_ context.Context, _ entity.Concept, _ entity.Level, count int) []entity.PracticeQuestion {
	out := make([]entity.PracticeQuestion, 0, count)
	for i := 0; i < count && i < len(f.questions); i++ {
		out = append(out, f.questions[i])
	}
	return out
}

func (f *fakeSource) Ask(_ context.Context, _ entity.Concept, question string) string {
	f.asked = append(f.asked, question)
	return "answer: " + question
}
