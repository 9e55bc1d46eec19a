package service

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"clinical-data-api/config"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AudioStore persists uploaded clinical audio blobs and returns the content
// path they were written to.
type AudioStore interface {
	Save(patientID uuid.UUID, filename string, content []byte) (string, error)
}

type localAudioStore struct {
	dir string
	log *logrus.Logger
}

func NewLocalAudioStore(cfg config.StorageConfig, log *logrus.Logger) AudioStore {
	return &localAudioStore{dir: cfg.UploadDir, log: log}
}

// Save writes the blob under {dir}/{patientID}_{timestamp}_{filename}.
func (s *localAudioStore) Save(patientID uuid.UUID, filename string, content []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("%s_%s_%s", patientID, timestamp, filepath.Base(filename))
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, content, 0o644); err != nil {
		s.log.Warnf("Failed to write audio file %s: %+v", path, err)
		return "", fmt.Errorf("write audio file: %w", err)
	}

	return path, nil
}
