package filestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/easynatorics-api/internal/domain/entity"
	apperrors "github.com/yourusername/easynatorics-api/internal/pkg/errors"
)

func newTestRepo(t *testing.T) (*ParticipantRepo, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := NewParticipantRepo(dir, nil)
	require.NoError(t, err)
	return repo, dir
}

func testDemographics() entity.Demographics {
	return entity.Demographics{Name: "Budi", Grade: "10", Age: 16, Experience: "Pemula"}
}

func TestFormatParticipantID(t *testing.T) {
	assert.Equal(t, "P001", FormatParticipantID(1))
	assert.Equal(t, "P042", FormatParticipantID(42))
	assert.Equal(t, "P1000", FormatParticipantID(1000))
}

func TestCreate_SequentialIDs(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, testDemographics())
	require.NoError(t, err)
	second, err := repo.Create(ctx, testDemographics())
	require.NoError(t, err)

	assert.Equal(t, "P001", first, "Первый участник в пустом хранилище получает P001")
	assert.Equal(t, "P002", second)
}

func TestCreate_StoresZeroValuedRecord(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, testDemographics())
	require.NoError(t, err)

	rec, err := repo.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, testDemographics(), rec.Demographics)
	assert.Zero(t, rec.LearningProgress.ProblemsAttempted)
	for _, c := range entity.AllConcepts() {
		assert.Equal(t, entity.LevelBeginner, rec.AdaptiveLearning.CurrentLevels[c])
	}
}

func TestCreate_SkipsTakenID(t *testing.T) {
	repo, dir := newTestRepo(t)
	ctx := context.Background()

	// Две записи (count=2), но P003 уже занят - например, другим процессом
	for _, id := range []string{"P001", "P003"} {
		rec := entity.NewParticipantRecord(id, testDemographics(), time.Now().UTC())
		data, err := encodeRecord(rec)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, id+".json"), data, 0o644))
	}

	id, err := repo.Create(ctx, testDemographics())
	require.NoError(t, err)
	assert.Equal(t, "P004", id, "Занятый номер должен быть пропущен, а не перезаписан")

	existing, err := repo.Load(ctx, "P003")
	require.NoError(t, err)
	assert.Equal(t, "P003", existing.ID)
}

func TestCreate_ConcurrentCallsGetUniqueIDs(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	const n = 20
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := repo.Create(ctx, testDemographics())
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "ID %s выдан дважды", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestCreate_StorageFailure(t *testing.T) {
	repo, dir := newTestRepo(t)
	require.NoError(t, os.RemoveAll(dir))

	id, err := repo.Create(context.Background(), testDemographics())

	assert.Empty(t, id, "При ошибке ID не выделяется")
	assert.ErrorIs(t, err, apperrors.ErrStorage)
}

func TestLoad_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	tests := []string{"P001", "P999", "../etc/passwd", "", "participant"}
	for _, id := range tests {
		t.Run(id, func(t *testing.T) {
			rec, err := repo.Load(context.Background(), id)
			assert.Nil(t, rec, "NotFound не должен подменяться записью по умолчанию")
			assert.ErrorIs(t, err, apperrors.ErrNotFound)
			assert.NotErrorIs(t, err, apperrors.ErrStorage)
		})
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	repo, dir := newTestRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "P001.json"), []byte("{not json"), 0o644))

	_, err := repo.Load(context.Background(), "P001")

	assert.ErrorIs(t, err, apperrors.ErrDeserialization)
}

func TestLoad_RejectsRecordFailingValidation(t *testing.T) {
	repo, dir := newTestRepo(t)
	// Запись без adaptive_learning: раньше такие поля тихо подставлялись по умолчанию
	raw := `{"schema_version":1,"participant_id":"P001","learning_progress":{"problems_attempted":0,"problems_correct":0}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "P001.json"), []byte(raw), 0o644))

	_, err := repo.Load(context.Background(), "P001")

	assert.ErrorIs(t, err, apperrors.ErrDeserialization)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, testDemographics())
	require.NoError(t, err)
	rec, err := repo.Load(ctx, id)
	require.NoError(t, err)

	score := 7
	anxiety := 2.67
	completed := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	rec.PreTest = entity.TestResult{
		Score:       &score,
		Answers:     []entity.TestAnswer{{QuestionID: 1, Answer: "24", Correct: true}},
		CompletedAt: &completed,
	}
	rec.AnxietySurvey.PreScore = &anxiety
	rec.LearningProgress.ProblemsAttempted = 4
	rec.LearningProgress.ProblemsCorrect = 3
	rec.AdaptiveLearning.PerformanceHistory[entity.ConceptPermutation] = entity.Performance{Attempts: 4, Correct: 3}
	rec.AdaptiveLearning.CurrentLevels[entity.ConceptPermutation] = entity.LevelIntermediate

	before := rec.LastUpdated
	require.NoError(t, repo.Save(ctx, id, rec))

	loaded, err := repo.Load(ctx, id)
	require.NoError(t, err)

	assert.False(t, loaded.LastUpdated.Before(before), "LastUpdated не должен уменьшаться")
	assert.Equal(t, rec, loaded, "Запись после Save/Load должна совпадать поле в поле")
}

func TestSave_LastUpdatedNeverMovesBackwards(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, testDemographics())
	require.NoError(t, err)
	rec, err := repo.Load(ctx, id)
	require.NoError(t, err)

	future := time.Now().UTC().Add(time.Hour)
	rec.LastUpdated = future
	require.NoError(t, repo.Save(ctx, id, rec))

	assert.Equal(t, future, rec.LastUpdated)
}

func TestSave_UnknownParticipant(t *testing.T) {
	repo, _ := newTestRepo(t)
	rec := entity.NewParticipantRecord("P005", testDemographics(), time.Now().UTC())

	err := repo.Save(context.Background(), "P005", rec)

	assert.ErrorIs(t, err, apperrors.ErrNotFound, "Save не создаёт записи в обход Create")
}

func TestSave_MismatchedID(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	id, err := repo.Create(ctx, testDemographics())
	require.NoError(t, err)

	rec := entity.NewParticipantRecord("P777", testDemographics(), time.Now().UTC())
	err = repo.Save(ctx, id, rec)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	repo, dir := newTestRepo(t)
	ctx := context.Background()
	id, err := repo.Create(ctx, testDemographics())
	require.NoError(t, err)
	rec, err := repo.Load(ctx, id)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		rec.LearningProgress.ProblemsAttempted++
		require.NoError(t, repo.Save(ctx, id, rec))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "P001.json", entries[0].Name())
}

func TestSave_StorageFailureKeepsLastUpdated(t *testing.T) {
	repo, dir := newTestRepo(t)
	ctx := context.Background()
	id, err := repo.Create(ctx, testDemographics())
	require.NoError(t, err)
	rec, err := repo.Load(ctx, id)
	require.NoError(t, err)
	before := rec.LastUpdated

	// Каталог подменяется так, что файл участника виден, а временный файл создать нельзя
	repo.dir = filepath.Join(dir, "P001.json")
	err = repo.Save(ctx, id, rec)

	assert.Error(t, err)
	assert.Equal(t, before, rec.LastUpdated)
}

func TestListAll_SkipsCorruptEntries(t *testing.T) {
	repo, dir := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := repo.Create(ctx, testDemographics())
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "P003.json"), []byte("garbage"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "backup.json"), []byte("{}"), 0o644))

	all, err := repo.ListAll(ctx)

	require.NoError(t, err, "Повреждённая запись не должна ломать листинг")
	assert.Len(t, all, 2)
	assert.Contains(t, all, "P001")
	assert.Contains(t, all, "P002")
}

func TestListAll_Empty(t *testing.T) {
	repo, _ := newTestRepo(t)

	all, err := repo.ListAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestEncodeRecord_KeepsNonASCII(t *testing.T) {
	rec := entity.NewParticipantRecord("P001", entity.Demographics{Name: "Dewi <Ayu>", Grade: "12", Age: 17, Experience: "Lanjutan"}, time.Now().UTC())

	data, err := encodeRecord(rec)

	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "Dewi <Ayu>"))
	assert.True(t, strings.Contains(string(data), `"module_progress"`))
}
