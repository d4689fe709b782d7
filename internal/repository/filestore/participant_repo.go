package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/yourusername/easynatorics-api/internal/domain/entity"
	apperrors "github.com/yourusername/easynatorics-api/internal/pkg/errors"
	"github.com/yourusername/easynatorics-api/internal/pkg/logger"
)

const (
	idPrefix       = "P"
	fileExt        = ".json"
	maxCreateTries = 100
)

var idPattern = regexp.MustCompile(`^P[0-9]{3,}$`)

// FormatParticipantID формирует ID вида P001 по порядковому номеру
func FormatParticipantID(seq int) string {
	return fmt.Sprintf("%s%03d", idPrefix, seq)
}

// ParticipantRepo реализует repository.ParticipantRepository поверх каталога
// с JSON-файлами: <dir>/<id>.json, один файл на участника.
type ParticipantRepo struct {
	dir    string
	logger *logger.Logger
	now    func() time.Time

	// createMu сериализует выделение ID внутри процесса. Между процессами
	// уникальность обеспечивает эксклюзивная публикация файла (os.Link).
	createMu sync.Mutex
}

// NewParticipantRepo создаёт хранилище, при необходимости создавая каталог
func NewParticipantRepo(dir string, log *logger.Logger) (*ParticipantRepo, error) {
	if dir == "" {
		return nil, fmt.Errorf("participant data directory is not configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir %s: %v", apperrors.ErrStorage, dir, err)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &ParticipantRepo{
		dir:    dir,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// Create выделяет ID = количество записей + 1 и атомарно публикует пустую запись.
// Если файл с таким ID уже существует (гонка с другим процессом), номер увеличивается.
func (r *ParticipantRepo) Create(ctx context.Context, demographics entity.Demographics) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.createMu.Lock()
	defer r.createMu.Unlock()

	count, err := r.countRecords()
	if err != nil {
		return "", err
	}

	seq := count + 1
	for i := 0; i < maxCreateTries; i++ {
		id := FormatParticipantID(seq)
		record := entity.NewParticipantRecord(id, demographics, r.now())

		data, err := encodeRecord(record)
		if err != nil {
			return "", fmt.Errorf("%w: encode participant %s: %v", apperrors.ErrStorage, id, err)
		}

		err = r.publishExclusive(id, data)
		if errors.Is(err, fs.ErrExist) {
			r.logger.Warn("[ParticipantRepo] ID collision, trying next sequence", "participant_id", id)
			seq++
			continue
		}
		if err != nil {
			return "", fmt.Errorf("%w: create participant %s: %v", apperrors.ErrStorage, id, err)
		}

		r.logger.Info("[ParticipantRepo] Participant created", "participant_id", id)
		return id, nil
	}

	return "", fmt.Errorf("%w: could not allocate participant id after %d attempts", apperrors.ErrStorage, maxCreateTries)
}

// Load читает запись участника
func (r *ParticipantRepo) Load(ctx context.Context, id string) (*entity.ParticipantRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !idPattern.MatchString(id) {
		return nil, fmt.Errorf("participant %q: %w", id, apperrors.ErrNotFound)
	}

	data, err := os.ReadFile(r.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("participant %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: read participant %s: %v", apperrors.ErrStorage, id, err)
	}

	record, err := decodeRecord(data)
	if err != nil {
		return nil, fmt.Errorf("%w: participant %s: %v", apperrors.ErrDeserialization, id, err)
	}
	if record.ID != id {
		return nil, fmt.Errorf("%w: file %s holds participant %q", apperrors.ErrDeserialization, id, record.ID)
	}
	return record, nil
}

// Save перезаписывает запись целиком через временный файл и rename,
// так что читатель никогда не увидит частично записанный файл.
// LastUpdated обновляется только при успешной записи.
func (r *ParticipantRepo) Save(ctx context.Context, id string, record *entity.ParticipantRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("%w: nil record for participant %s", apperrors.ErrValidation, id)
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("participant %q: %w", id, apperrors.ErrNotFound)
	}
	if record.ID != id {
		return fmt.Errorf("%w: record id %q does not match %q", apperrors.ErrValidation, record.ID, id)
	}

	if _, err := os.Stat(r.path(id)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("participant %s: %w", id, apperrors.ErrNotFound)
		}
		return fmt.Errorf("%w: stat participant %s: %v", apperrors.ErrStorage, id, err)
	}

	previous := record.LastUpdated
	updated := r.now()
	if updated.Before(previous) {
		updated = previous
	}
	record.LastUpdated = updated

	data, err := encodeRecord(record)
	if err != nil {
		record.LastUpdated = previous
		return fmt.Errorf("%w: encode participant %s: %v", apperrors.ErrStorage, id, err)
	}

	if err := r.replace(id, data); err != nil {
		record.LastUpdated = previous
		r.logger.Error("[ParticipantRepo] Failed to save participant", "participant_id", id, "error", err)
		return fmt.Errorf("%w: save participant %s: %v", apperrors.ErrStorage, id, err)
	}

	r.logger.Debug("[ParticipantRepo] Participant saved", "participant_id", id)
	return nil
}

// ListAll читает все записи. Повреждённые файлы логируются и пропускаются,
// ошибки ввода-вывода возвращаются вызывающему.
func (r *ParticipantRepo) ListAll(ctx context.Context) (map[string]*entity.ParticipantRecord, error) {
	ids, err := r.listIDs()
	if err != nil {
		return nil, err
	}

	participants := make(map[string]*entity.ParticipantRecord, len(ids))
	for _, id := range ids {
		record, err := r.Load(ctx, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrDeserialization) {
				r.logger.Warn("[ParticipantRepo] Skipping unreadable participant file", "participant_id", id, "error", err)
				continue
			}
			if errors.Is(err, apperrors.ErrNotFound) {
				// файл удалён между ReadDir и чтением
				continue
			}
			return nil, err
		}
		participants[id] = record
	}

	r.logger.Debug("[ParticipantRepo] Listed participants", "count", len(participants))
	return participants, nil
}

func (r *ParticipantRepo) path(id string) string {
	return filepath.Join(r.dir, id+fileExt)
}

func (r *ParticipantRepo) listIDs() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: list participants: %v", apperrors.ErrStorage, err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		id := strings.TrimSuffix(e.Name(), fileExt)
		if idPattern.MatchString(id) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *ParticipantRepo) countRecords() (int, error) {
	ids, err := r.listIDs()
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// writeTemp пишет данные во временный файл в том же каталоге и делает fsync
func (r *ParticipantRepo) writeTemp(id string, data []byte) (string, error) {
	f, err := os.CreateTemp(r.dir, "."+id+"-*.tmp")
	if err != nil {
		return "", err
	}
	tmpName := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	return tmpName, nil
}

// replace атомарно заменяет существующий файл участника
func (r *ParticipantRepo) replace(id string, data []byte) error {
	tmpName, err := r.writeTemp(id, data)
	if err != nil {
		return err
	}
	if err := os.Rename(tmpName, r.path(id)); err != nil {
		os.Remove(tmpName)
		return err
	}
	r.syncDir()
	return nil
}

// publishExclusive публикует файл, только если его ещё нет.
// Возвращает ошибку, удовлетворяющую errors.Is(err, fs.ErrExist), при коллизии.
func (r *ParticipantRepo) publishExclusive(id string, data []byte) error {
	tmpName, err := r.writeTemp(id, data)
	if err != nil {
		return err
	}
	defer os.Remove(tmpName)

	if err := os.Link(tmpName, r.path(id)); err != nil {
		return err
	}
	r.syncDir()
	return nil
}

func (r *ParticipantRepo) syncDir() {
	d, err := os.Open(r.dir)
	if err != nil {
		return
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		r.logger.Debug("[ParticipantRepo] Directory fsync failed", "error", err)
	}
}

func encodeRecord(record *entity.ParticipantRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeRecord(data []byte) (*entity.ParticipantRecord, error) {
	var record entity.ParticipantRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}
	return &record, nil
}
