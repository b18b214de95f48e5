package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/quotemate/gateway/internal/core/domain"
	"github.com/quotemate/gateway/internal/core/ports"
)

// uploadTypes are the document types the extraction service understands.
var uploadTypes = []string{
	"application/pdf",
	"text/csv",
	"text/plain",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/msword",
	"application/vnd.ms-excel",
}

type uploadService struct {
	backend ports.FileBackend
	log     zerolog.Logger
}

func NewUploadService(backend ports.FileBackend, log zerolog.Logger) ports.UploadService {
	return &uploadService{backend: backend, log: log}
}

// Process sniffs every file, rejects the batch if any file is not a
// supported document, and forwards the rest to the extraction service.
func (s *uploadService) Process(ctx context.Context, userID string, files []domain.UploadFile) (*domain.ProcessResult, error) {
	if len(files) == 0 {
		return nil, domain.ErrNoFiles
	}
	checked := make([]domain.UploadFile, 0, len(files))
	for _, f := range files {
		mt, err := DetectUpload(f.Data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		f.ContentType = mt
		checked = append(checked, f)
	}

	res, err := s.backend.ProcessFiles(ctx, userID, checked)
	if err != nil {
		return nil, err
	}
	if _, ok := res.PersistedProject(); !ok {
		s.log.Warn().Str("user_id", userID).Int("files", len(files)).Msg("upload processed but project was not saved")
	}
	return res, nil
}

// DetectUpload returns the MIME type of data when it is an accepted document
// or image, and ErrUnsupportedFile otherwise. Detection looks at content
// only; the client's declared type and file extension are ignored.
func DetectUpload(data []byte) (string, error) {
	if len(data) == 0 {
		return "", domain.ErrUnsupportedFile
	}
	mt := mimetype.Detect(data)
	if strings.HasPrefix(mt.String(), "image/") || mimetype.EqualsAny(mt.String(), uploadTypes...) {
		return mt.String(), nil
	}
	return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFile, mt.String())
}
