package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTooLarge    = errors.New("file exceeds the upload size limit")
	ErrBadType     = errors.New("only image uploads are accepted")
	ErrNotFound    = errors.New("upload not found")
	ErrNotOwner    = errors.New("upload not owned by you")
	ErrEmptyUpload = errors.New("empty upload")
)

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Upload records a stored image so deletes can be owner-gated.
type Upload struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Path        string    `gorm:"size:255;not null;uniqueIndex" json:"path"`
	ContentType string    `gorm:"size:100;not null" json:"content_type"`
	Size        int64     `gorm:"not null" json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store keeps image files on disk and hands out public URLs by reference.
type Store struct {
	db       *gorm.DB
	dir      string
	maxBytes int64
	baseURL  string
}

func NewStore(db *gorm.DB, dir string, maxBytes int64, publicBaseURL string) *Store {
	return &Store{db: db, dir: dir, maxBytes: maxBytes, baseURL: publicBaseURL}
}

// Save validates size and content type before anything touches the disk,
// then writes the file under a fresh UUID name.
func (s *Store) Save(ctx context.Context, ownerID uuid.UUID, contentType string, size int64, r io.Reader) (*Upload, error) {
	if size <= 0 {
		return nil, ErrEmptyUpload
	}
	if size > s.maxBytes {
		return nil, ErrTooLarge
	}
	ext, ok := imageTypes[contentType]
	if !ok {
		return nil, ErrBadType
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload dir: %w", err)
	}

	id := uuid.New()
	name := id.String() + ext
	dst := filepath.Join(s.dir, name)

	f, err := os.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("create upload: %w", err)
	}
	// LimitReader guards against clients lying about Content-Length.
	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && written > s.maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		os.Remove(dst)
		return nil, err
	}

	upload := Upload{
		ID:          id,
		OwnerID:     ownerID,
		Path:        name,
		ContentType: contentType,
		Size:        written,
	}
	if err := s.db.WithContext(ctx).Create(&upload).Error; err != nil {
		os.Remove(dst)
		return nil, fmt.Errorf("record upload: %w", err)
	}
	return &upload, nil
}

// URL returns the public address a stored file is served from.
func (s *Store) URL(u *Upload) string {
	return s.baseURL + "/uploads/" + u.Path
}

// Delete removes a file and its record. Only the uploader may do it.
func (s *Store) Delete(ctx context.Context, ownerID uuid.UUID, path string) error {
	var upload Upload
	if err := s.db.WithContext(ctx).First(&upload, "path = ?", filepath.Base(path)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if upload.OwnerID != ownerID {
		return ErrNotOwner
	}

	if err := s.db.WithContext(ctx).Delete(&upload).Error; err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, upload.Path)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Dir exposes the storage root so the server can mount a static route on it.
func (s *Store) Dir() string { return s.dir }
