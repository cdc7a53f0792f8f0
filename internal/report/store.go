package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
)

const (
	component = "report.store"

	latestFilename  = "latest.json"
	tempFilePattern = "report-*.tmp"
)

// ErrNoReport 저장된 실행 결과가 없을 때 반환됩니다.
var ErrNoReport = apperrors.New(apperrors.NotFound, "저장된 동기화 실행 결과가 없습니다")

// Store 실행 결과를 JSON 파일로 보관하는 저장소입니다.
//
// [파일 구조]
//   - {시작시각}_{run_id}.json: 실행별 결과
//   - latest.json: 마지막 실행 결과의 사본
type Store struct {
	dir string

	mu sync.Mutex
}

// NewStore 저장 디렉토리를 생성하고, 이전 실행에서 남은 임시 파일을 정리합니다.
func NewStore(dir string) (*Store, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.System, "리포트 디렉토리 경로를 변환할 수 없습니다: '%s'", dir)
	}

	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.System, "리포트 디렉토리를 생성할 수 없습니다: '%s'", absDir)
	}

	s := &Store{dir: absDir}
	s.cleanupStaleTempFiles()

	return s, nil
}

// Dir 저장 디렉토리의 절대 경로를 반환합니다.
func (s *Store) Dir() string {
	return s.dir
}

// Save 실행 결과를 실행별 파일과 latest.json에 원자적으로 기록합니다.
func (s *Store) Save(r *Report) error {
	data, err := json.MarshalIndent(r, "", "\t")
	if err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "리포트를 JSON으로 변환할 수 없습니다")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeAtomic(filepath.Join(s.dir, runFilename(r)), data); err != nil {
		return err
	}
	return s.writeAtomic(filepath.Join(s.dir, latestFilename), data)
}

// Latest 마지막으로 저장된 실행 결과를 읽습니다. 없으면 ErrNoReport를 반환합니다.
func (s *Store) Latest() (*Report, error) {
	s.mu.Lock()
	data, err := os.ReadFile(filepath.Join(s.dir, latestFilename))
	s.mu.Unlock()

	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoReport
		}
		return nil, apperrors.Wrap(err, apperrors.System, "리포트 파일을 읽을 수 없습니다")
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ParsingFailed, "리포트 파일 형식이 올바르지 않습니다")
	}

	return &r, nil
}

func runFilename(r *Report) string {
	return fmt.Sprintf("%s_%s.json", r.StartedAt.Format("20060102T150405"), r.RunID)
}

// writeAtomic 임시 파일에 쓰고 fsync한 뒤 rename하여 중간 상태의 파일이 남지 않도록 합니다.
func (s *Store) writeAtomic(filename string, data []byte) error {
	dir := filepath.Dir(filename)

	tmpFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return apperrors.Wrap(err, apperrors.System, "리포트 임시 파일을 생성할 수 없습니다")
	}
	tmpPath := tmpFile.Name()

	// Close가 Remove보다 먼저 실행되어야 합니다. (Windows)
	defer os.Remove(tmpPath)
	defer tmpFile.Close()

	if _, err := tmpFile.Write(data); err != nil {
		return apperrors.Wrap(err, apperrors.System, "리포트 파일 쓰기에 실패했습니다")
	}
	if err := tmpFile.Sync(); err != nil {
		return apperrors.Wrap(err, apperrors.System, "리포트 파일 동기화에 실패했습니다")
	}
	if err := tmpFile.Close(); err != nil {
		return apperrors.Wrap(err, apperrors.System, "리포트 임시 파일을 닫을 수 없습니다")
	}

	if err := os.Rename(tmpPath, filename); err != nil {
		return apperrors.Wrapf(err, apperrors.System, "리포트 파일 이름 변경에 실패했습니다: '%s'", filename)
	}

	return nil
}

// cleanupStaleTempFiles 비정상 종료로 남은 1시간 이상 된 임시 파일을 삭제합니다.
func (s *Store) cleanupStaleTempFiles() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"dir":   s.dir,
			"error": err,
		}).Warn("임시 파일 정리 중단: 디렉토리 조회 실패")
		return
	}

	threshold := time.Now().Add(-1 * time.Hour)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if matched, _ := filepath.Match(tempFilePattern, entry.Name()); !matched {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(threshold) {
			continue
		}

		fullPath := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(fullPath); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"file":  fullPath,
				"error": err,
			}).Warn("임시 파일 삭제 실패")
			continue
		}

		applog.WithComponentAndFields(component, applog.Fields{
			"file": fullPath,
		}).Info("이전 실행에서 남은 임시 파일을 삭제했습니다")
	}
}
