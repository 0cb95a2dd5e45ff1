package profiles

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("user already has a profile")
	ErrNotOwner        = errors.New("profile not owned by you")
	ErrSelfRating      = errors.New("cannot rate your own profile")
	ErrAlreadyRated    = errors.New("you already rated this profile")
	ErrInvalidScore    = errors.New("score must be between 1 and 5")
	ErrNotWorkshop     = errors.New("only taller profiles can publish positions")
)

// AuthorSnapshot is the public subset of a profile attached to feed posts.
type AuthorSnapshot struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"nombre"`
	Category Category  `json:"categoria"`
	PhotoURL string    `json:"foto_url"`
	City     string    `json:"ciudad"`
}

// Service handles profile CRUD, positions, ratings and counters.
type Service struct {
	db  *gorm.DB
	dir *Directory
}

// NewService wires the service to its database and the directory cache it
// must invalidate on writes. dir may be nil when no search surface exists.
func NewService(db *gorm.DB, dir *Directory) *Service {
	return &Service{db: db, dir: dir}
}

func (s *Service) invalidateDirectory() {
	if s.dir != nil {
		s.dir.Invalidate()
	}
}

// CreateFromDraft persists a wizard draft. The switch is exhaustive over the
// draft union; adding a category without a case here will not compile.
func (s *Service) CreateFromDraft(ctx context.Context, userID uuid.UUID, draft ProfileDraft) (*Profile, error) {
	var existing Profile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&existing).Error; err == nil {
		return nil, ErrProfileExists
	}

	p := Profile{
		ID:     uuid.New(),
		UserID: userID,
	}

	switch d := draft.(type) {
	case WorkerDraft:
		p.Category = CategoryWorker
		d.Basic.apply(&p)
		p.Gender = d.Gender
		p.Specialties = toJSONSlice(d.Specialties)
		p.Machines = toJSONSlice(d.Machines)
	case WorkshopDraft:
		p.Category = CategoryWorkshop
		d.Basic.apply(&p)
		p.Responsible = d.Responsible
		p.EmployeeCount = d.EmployeeCount
		p.Specialties = toJSONSlice(d.Specialties)
		p.Machines = toJSONSlice(d.Machines)
	case CompanyDraft:
		p.Category = CategoryCompany
		d.Basic.apply(&p)
		p.BusinessName = d.BusinessName
		p.TaxID = d.TaxID
		p.Specialties = toJSONSlice(d.Specialties)
	case NaturalPersonDraft:
		p.Category = CategoryNaturalPerson
		d.Basic.apply(&p)
	default:
		return nil, fmt.Errorf("unknown draft type %T", draft)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		if d, ok := draft.(WorkshopDraft); ok {
			for _, pd := range d.Positions {
				pos := Position{
					ID:          uuid.New(),
					ProfileID:   p.ID,
					Title:       pd.Title,
					Specialties: toJSONSlice(pd.Specialties),
					PaymentType: pd.PaymentType,
					Status:      PositionActive,
				}
				if err := tx.Create(&pos).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.invalidateDirectory()
	return &p, nil
}

// GetByID returns a profile and registers the visit.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	var p Profile
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	s.db.WithContext(ctx).Model(&p).Update("visit_count", gorm.Expr("visit_count + 1"))
	return &p, nil
}

func (s *Service) GetByUser(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	var p Profile
	if err := s.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// UpdateInput carries optional basic-info changes. Nil pointers are left alone.
type UpdateInput struct {
	Name         *string
	Phone        *string
	PhotoURL     *string
	City         *string
	Country      *string
	Neighborhood *string
	Specialties  []string
	Machines     []string
}

func (s *Service) Update(ctx context.Context, userID, profileID uuid.UUID, in UpdateInput) (*Profile, error) {
	p, err := s.owned(ctx, userID, profileID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.PhotoURL != nil {
		updates["photo_url"] = *in.PhotoURL
	}
	if in.City != nil {
		updates["city"] = *in.City
	}
	if in.Country != nil {
		updates["country"] = *in.Country
	}
	if in.Neighborhood != nil {
		updates["neighborhood"] = *in.Neighborhood
	}
	if in.Specialties != nil {
		updates["specialties"] = toJSONSlice(in.Specialties)
	}
	if in.Machines != nil {
		updates["machines"] = toJSONSlice(in.Machines)
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(p).Updates(updates).Error; err != nil {
			return nil, err
		}
		s.invalidateDirectory()
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, userID, profileID uuid.UUID) error {
	p, err := s.owned(ctx, userID, profileID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(p).Error; err != nil {
		return err
	}
	s.invalidateDirectory()
	return nil
}

// AddRating inserts a rating and recomputes the stored average inside one
// transaction. The (profile_id, author_id) unique index makes duplicates
// impossible even when two clients race past the pre-check.
func (s *Service) AddRating(ctx context.Context, profileID, authorID uuid.UUID, authorName string, score int, text string) (*Profile, error) {
	if score < 1 || score > 5 {
		return nil, ErrInvalidScore
	}
	if profileID == authorID {
		return nil, ErrSelfRating
	}

	var p Profile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, "id = ?", profileID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProfileNotFound
			}
			return err
		}
		var dup Rating
		if err := tx.Where("profile_id = ? AND author_id = ?", profileID, authorID).First(&dup).Error; err == nil {
			return ErrAlreadyRated
		}

		rating := Rating{
			ID:         uuid.New(),
			ProfileID:  profileID,
			AuthorID:   authorID,
			AuthorName: authorName,
			Score:      score,
			Text:       text,
		}
		if err := tx.Create(&rating).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyRated
			}
			return err
		}

		var stats struct {
			Avg   float64
			Count int64
		}
		if err := tx.Model(&Rating{}).
			Select("avg(score) as avg, count(*) as count").
			Where("profile_id = ?", profileID).
			Scan(&stats).Error; err != nil {
			return err
		}

		avg := math.Round(stats.Avg*100) / 100
		if err := tx.Model(&Profile{}).Where("id = ?", profileID).
			Updates(map[string]interface{}{
				"average_score": avg,
				"rating_count":  stats.Count,
			}).Error; err != nil {
			return err
		}

		p.AverageScore = avg
		p.RatingCount = int(stats.Count)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateDirectory()
	return &p, nil
}

func (s *Service) ListRatings(ctx context.Context, profileID uuid.UUID) ([]Rating, error) {
	var ratings []Rating
	err := s.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at DESC").
		Find(&ratings).Error
	return ratings, err
}

// RegisterContactClick bumps the contact counter without reading the row.
func (s *Service) RegisterContactClick(ctx context.Context, profileID uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&Profile{}).
		Where("id = ?", profileID).
		Update("contact_count", gorm.Expr("contact_count + 1")).Error
}

// --- Positions ---

type PositionInput struct {
	Title       string
	Specialties []string
	PaymentType string
}

func (s *Service) AddPosition(ctx context.Context, userID, profileID uuid.UUID, in PositionInput) (*Position, error) {
	p, err := s.owned(ctx, userID, profileID)
	if err != nil {
		return nil, err
	}
	if p.Category != CategoryWorkshop {
		return nil, ErrNotWorkshop
	}
	if in.Title == "" {
		return nil, errors.New("position title is required")
	}
	switch in.PaymentType {
	case PaymentDaily, PaymentPerPiece, PaymentFixed:
	default:
		return nil, errors.New("invalid payment type")
	}

	pos := Position{
		ID:          uuid.New(),
		ProfileID:   profileID,
		Title:       in.Title,
		Specialties: toJSONSlice(in.Specialties),
		PaymentType: in.PaymentType,
		Status:      PositionActive,
	}
	if err := s.db.WithContext(ctx).Create(&pos).Error; err != nil {
		return nil, err
	}
	return &pos, nil
}

func (s *Service) ListPositions(ctx context.Context, profileID uuid.UUID) ([]Position, error) {
	var positions []Position
	err := s.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at DESC").
		Find(&positions).Error
	return positions, err
}

func (s *Service) SetPositionStatus(ctx context.Context, userID, positionID uuid.UUID, status string) error {
	if status != PositionActive && status != PositionInactive {
		return errors.New("invalid position status")
	}

	var pos Position
	if err := s.db.WithContext(ctx).Preload("Profile").First(&pos, "id = ?", positionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("position not found")
		}
		return err
	}
	if pos.Profile.UserID != userID {
		return ErrNotOwner
	}

	return s.db.WithContext(ctx).Model(&pos).Update("status", status).Error
}

func (s *Service) DeletePosition(ctx context.Context, userID, positionID uuid.UUID) error {
	var pos Position
	if err := s.db.WithContext(ctx).Preload("Profile").First(&pos, "id = ?", positionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("position not found")
		}
		return err
	}
	if pos.Profile.UserID != userID {
		return ErrNotOwner
	}
	return s.db.WithContext(ctx).Delete(&pos).Error
}

// Snapshots resolves author snapshots for a set of profile IDs in one query.
// Missing IDs are simply absent from the map; callers decide the fallback.
func (s *Service) Snapshots(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]AuthorSnapshot, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]AuthorSnapshot{}, nil
	}

	var rows []Profile
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]AuthorSnapshot, len(rows))
	for _, p := range rows {
		out[p.ID] = AuthorSnapshot{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			PhotoURL: p.PhotoURL,
			City:     p.City,
		}
	}
	return out, nil
}

func (s *Service) owned(ctx context.Context, userID, profileID uuid.UUID) (*Profile, error) {
	var p Profile
	if err := s.db.WithContext(ctx).First(&p, "id = ?", profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	if p.UserID != userID {
		return nil, ErrNotOwner
	}
	return &p, nil
}
