package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/costurapp/costurapp-backend/internal/phone"
	"github.com/costurapp/costurapp-backend/internal/profiles"
	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrNotAuthor       = errors.New("post not owned by you")
	ErrTooManyImages   = fmt.Errorf("a post can carry at most %d images", MaxImages)
	ErrContactLimit    = errors.New("weekly contact limit reached for this post")
	ErrInvalidState    = errors.New("invalid post state")
	ErrInvalidContact  = errors.New("invalid contact method")
	ErrProfileRequired = errors.New("a profile is required to publish")
)

// Service is the stateless feed service: pagination cursors live with the
// caller, never in here.
type Service struct {
	db           *gorm.DB
	profiles     *profiles.Service
	pageSize     int
	contactLimit int
}

func NewService(db *gorm.DB, profilesSvc *profiles.Service, pageSize, weeklyContactLimit int) *Service {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Service{db: db, profiles: profilesSvc, pageSize: pageSize, contactLimit: weeklyContactLimit}
}

type CreateInput struct {
	Description   string
	Images        []string
	City          string
	Neighborhood  string
	ContactPhone  string
	ContactMethod string
}

// Create publishes a post authored by the caller's profile.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in CreateInput) (*Post, error) {
	author, err := s.profiles.GetByUser(ctx, userID)
	if err != nil {
		return nil, ErrProfileRequired
	}

	if len(in.Description) < 10 {
		return nil, errors.New("description must be at least 10 characters")
	}
	if len(in.Images) > MaxImages {
		return nil, ErrTooManyImages
	}
	switch in.ContactMethod {
	case ContactWhatsApp, ContactCall, ContactBoth:
	default:
		return nil, ErrInvalidContact
	}

	contactPhone := in.ContactPhone
	if contactPhone == "" {
		contactPhone = author.Phone
	}
	formatted, err := phone.FormatNumber(contactPhone)
	if err != nil {
		return nil, fmt.Errorf("contact phone: %w", err)
	}

	post := Post{
		ID:             uuid.New(),
		AuthorID:       author.ID,
		AuthorCategory: author.Category,
		Description:    in.Description,
		Images:         toJSONSlice(in.Images),
		City:           in.City,
		Neighborhood:   in.Neighborhood,
		ContactPhone:   formatted,
		ContactMethod:  in.ContactMethod,
		State:          StateActive,
		ContactLimit:   s.contactLimit,
		ContactWeek:    weekKey(time.Now()),
	}

	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return &post, nil
}

// GetPage fetches one feed page ordered newest-first. The cursor is the
// opaque value from the previous page, empty for the first one. A short
// page means the scan is done.
func (s *Service) GetPage(ctx context.Context, cursorStr string, limit int) (*Page, error) {
	if limit <= 0 || limit > 50 {
		limit = s.pageSize
	}

	query := s.db.WithContext(ctx).
		Where("state = ?", StateActive).
		Order("created_at DESC, id DESC").
		Limit(limit)

	if cursorStr != "" {
		cur, err := decodeCursor(cursorStr)
		if err != nil {
			return nil, err
		}
		query = query.Where("created_at < ? OR (created_at = ? AND id < ?)", cur.CreatedAt, cur.CreatedAt, cur.ID)
	}

	var posts []Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("feed page query: %w", err)
	}

	enriched, err := s.joinAuthors(ctx, posts)
	if err != nil {
		return nil, err
	}

	page := &Page{
		Posts:   enriched,
		HasMore: len(posts) == limit,
	}
	if len(posts) > 0 && page.HasMore {
		last := posts[len(posts)-1]
		page.NextCursor = encodeCursor(cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return page, nil
}

// joinAuthors fans author lookups out through a per-page dataloader and
// waits for every snapshot before the page is returned. A missing author
// becomes a placeholder; a failed lookup fails the whole page.
func (s *Service) joinAuthors(ctx context.Context, posts []Post) ([]PostWithAuthor, error) {
	if len(posts) == 0 {
		return []PostWithAuthor{}, nil
	}

	loader := newAuthorLoader(s.profiles)

	thunks := make([]dataloader.Thunk, len(posts))
	for i, p := range posts {
		thunks[i] = loader.Load(ctx, dataloader.StringKey(p.AuthorID.String()))
	}

	out := make([]PostWithAuthor, len(posts))
	for i, p := range posts {
		data, err := thunks[i]()
		if err != nil {
			return nil, fmt.Errorf("author lookup: %w", err)
		}
		snap, ok := data.(profiles.AuthorSnapshot)
		if !ok {
			snap = placeholderAuthor(p.AuthorID)
		}
		out[i] = PostWithAuthor{Post: p, Author: snap}
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	var post Post
	if err := s.db.WithContext(ctx).First(&post, "id = ? AND state <> ?", id, StateDeleted).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]Post, error) {
	author, err := s.profiles.GetByUser(ctx, userID)
	if err != nil {
		return nil, ErrProfileRequired
	}

	var posts []Post
	err = s.db.WithContext(ctx).
		Where("author_id = ? AND state <> ?", author.ID, StateDeleted).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

// SetState transitions a post's lifecycle state. Only the author may do it;
// "eliminada" is how posts are deleted.
func (s *Service) SetState(ctx context.Context, userID, postID uuid.UUID, state string) error {
	switch state {
	case StateActive, StateInactive, StatePaused, StateDeleted:
	default:
		return ErrInvalidState
	}

	post, err := s.owned(ctx, userID, postID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(post).Update("state", state).Error
}

// RegisterContact counts one contact click against the post's weekly limit.
// The counter resets when the ISO week rolls over.
func (s *Service) RegisterContact(ctx context.Context, postID uuid.UUID) error {
	week := weekKey(time.Now())

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post Post
		if err := tx.First(&post, "id = ?", postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		if post.ContactWeek != week {
			if err := tx.Model(&post).Updates(map[string]interface{}{
				"contact_count": 0,
				"contact_week":  week,
			}).Error; err != nil {
				return err
			}
			post.ContactCount = 0
		}

		if post.ContactLimit > 0 && post.ContactCount >= post.ContactLimit {
			return ErrContactLimit
		}

		return tx.Model(&post).Update("contact_count", gorm.Expr("contact_count + 1")).Error
	})
}

func (s *Service) owned(ctx context.Context, userID, postID uuid.UUID) (*Post, error) {
	var post Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	author, err := s.profiles.GetByUser(ctx, userID)
	if err != nil || author.ID != post.AuthorID {
		return nil, ErrNotAuthor
	}
	return &post, nil
}

func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func toJSONSlice(v []string) datatypes.JSONSlice[string] {
	return datatypes.JSONSlice[string](v)
}
