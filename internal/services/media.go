package services

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/forkfeed/forkfeed-backend/internal/apierr"
	"github.com/forkfeed/forkfeed-backend/internal/logger"
	"github.com/forkfeed/forkfeed-backend/internal/utils"
)

// MediaStore persists uploaded images and yields the URL path they are
// served under.
type MediaStore interface {
	SaveBase64Image(data string) (string, error)
	Dir() string
}

type localMediaStore struct {
	dir string
	log *logger.Logger
}

func NewLocalMediaStore(baseLog *logger.Logger) (MediaStore, error) {
	storeLog := baseLog.With("service", "MediaStore")
	dir := utils.GetEnv("MEDIA_DIR", "media", baseLog)
	if err := os.MkdirAll(filepath.Join(dir, "recipes"), 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &localMediaStore{dir: dir, log: storeLog}, nil
}

func (ms *localMediaStore) Dir() string { return ms.dir }

// SaveBase64Image accepts a "data:image/<ext>;base64,<payload>" string,
// writes the decoded bytes under the media dir and returns the public path.
func (ms *localMediaStore) SaveBase64Image(data string) (string, error) {
	header, payload, found := strings.Cut(data, ";base64,")
	if !found {
		return "", apierr.Validation(apierr.CodeInvalidRequest, "image must be a base64 data URL")
	}
	ext := "png"
	if idx := strings.LastIndex(header, "/"); idx >= 0 && idx < len(header)-1 {
		ext = header[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", apierr.Validation(apierr.CodeInvalidRequest, "image payload is not valid base64")
	}

	name := fmt.Sprintf("recipe-%s.%s", uuid.New().String()[:8], ext)
	fullPath := filepath.Join(ms.dir, "recipes", name)
	if err := os.WriteFile(fullPath, raw, 0o644); err != nil {
		ms.log.Error("Failed to write image", "path", fullPath, "error", err)
		return "", fmt.Errorf("write image: %w", err)
	}

	return "/media/recipes/" + name, nil
}
