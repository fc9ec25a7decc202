// Package uploads stores attachment files for new reports and hands back
// the metadata array the core persists. File content is never inspected
// beyond the declared mime type.
package uploads

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"childguard/backend/internal/apperr"
	"childguard/backend/internal/config"
	"childguard/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Saver writes uploaded files under a base directory.
type Saver struct {
	Dir string
}

func NewSaver(dir string) *Saver {
	return &Saver{Dir: dir}
}

func (s *Saver) validate(files []*multipart.FileHeader) error {
	if len(files) > config.MaxAttachmentCount {
		return apperr.Validationf("at most %d attachments allowed", config.MaxAttachmentCount)
	}
	for _, f := range files {
		if f.Size > config.MaxAttachmentSize {
			return apperr.Validationf("attachment %s exceeds the size limit", f.Filename)
		}
		mime := f.Header.Get("Content-Type")
		if !config.AllowedAttachmentTypes[mime] {
			return apperr.Validationf("attachment type %q not allowed", mime)
		}
	}
	return nil
}

// SaveAll persists every file under the form field and returns their
// metadata. A request with no multipart form yields an empty slice.
func (s *Saver) SaveAll(c *gin.Context, field string) ([]models.Attachment, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// No multipart payload: the report simply has no attachments.
		return nil, nil
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	if err := s.validate(files); err != nil {
		return nil, err
	}

	attachments := make([]models.Attachment, 0, len(files))
	for _, f := range files {
		stored := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.New().String()[:8], filepath.Ext(f.Filename))
		dest := filepath.Join(s.Dir, stored)
		if err := c.SaveUploadedFile(f, dest); err != nil {
			return nil, err
		}
		attachments = append(attachments, models.Attachment{
			StoredName:   stored,
			OriginalName: f.Filename,
			MimeType:     f.Header.Get("Content-Type"),
			Size:         f.Size,
			Path:         dest,
			UploadedAt:   time.Now(),
		})
	}
	return attachments, nil
}
