// AngelaMos | 2026
// upload.go

package storage

import (
	"fmt"
	"math/rand/v2"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/config"
)

const (
	KindImage = "IMAGE"
	KindVideo = "VIDEO"
	KindPDF   = "PDF"
)

var allowedExtensions = map[string]struct{}{
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".webp": {},
	".mp4":  {},
	".webm": {},
	".mov":  {},
	".pdf":  {},
}

// File is an upload that passed the policy and knows its media kind.
type File struct {
	Header      *multipart.FileHeader
	ContentType string
	Kind        string
}

type Policy struct {
	MaxFileSize int64
	MaxFiles    int
}

func NewPolicy(cfg config.UploadConfig) Policy {
	return Policy{
		MaxFileSize: cfg.MaxFileSize,
		MaxFiles:    cfg.MaxFiles,
	}
}

// Check validates the whole batch before anything is written, so a bad
// file in position n never leaves files 0..n-1 behind.
func (p Policy) Check(headers []*multipart.FileHeader) ([]File, error) {
	if p.MaxFiles > 0 && len(headers) > p.MaxFiles {
		return nil, fmt.Errorf("%d files: %w", len(headers), ErrTooManyFiles)
	}

	files := make([]File, 0, len(headers))
	for _, fh := range headers {
		f, err := p.CheckOne(fh)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	return files, nil
}

func (p Policy) CheckOne(fh *multipart.FileHeader) (File, error) {
	if p.MaxFileSize > 0 && fh.Size > p.MaxFileSize {
		return File{}, fmt.Errorf("%s: %w", fh.Filename, ErrFileTooLarge)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return File{}, fmt.Errorf("%s: %w", fh.Filename, ErrInvalidFileType)
	}

	contentType, err := detectContentType(fh)
	if err != nil {
		return File{}, err
	}

	if !allowedContentType(contentType) {
		return File{}, fmt.Errorf("%s (%s): %w", fh.Filename, contentType, ErrInvalidFileType)
	}

	return File{
		Header:      fh,
		ContentType: contentType,
		Kind:        Classify(contentType),
	}, nil
}

// Classify maps a MIME type onto the stored media kind. Anything that is
// neither video nor PDF is treated as an image.
func Classify(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "video/"):
		return KindVideo
	case contentType == "application/pdf":
		return KindPDF
	default:
		return KindImage
	}
}

// GenerateName returns <unix-millis>-<random><ext> for an uploaded file.
func GenerateName(original string) string {
	//nolint:gosec // G404: collision avoidance only
	return fmt.Sprintf(
		"%d-%d%s",
		time.Now().UnixMilli(),
		rand.Int64N(1_000_000_000),
		filepath.Ext(filepath.Base(original)),
	)
}

func detectContentType(fh *multipart.FileHeader) (string, error) {
	declared := fh.Header.Get("Content-Type")
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil &&
			mt != "application/octet-stream" {
			return mt, nil
		}
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only

	detected, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("sniff upload: %w", err)
	}

	mt, _, err := mime.ParseMediaType(detected.String())
	if err != nil {
		return detected.String(), nil //nolint:nilerr // mimetype strings are well formed
	}
	return mt, nil
}

func allowedContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") ||
		strings.HasPrefix(contentType, "video/") ||
		contentType == "application/pdf"
}
