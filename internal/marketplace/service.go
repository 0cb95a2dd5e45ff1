package marketplace

import (
	"context"
	"errors"
	"fmt"

	"github.com/costurapp/costurapp-backend/internal/profiles"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrNotSeller       = errors.New("listing not owned by you")
	ErrTooManyImages   = fmt.Errorf("a listing can carry at most %d images", MaxImages)
	ErrProfileRequired = errors.New("a profile is required to sell")
)

type Service struct {
	db       *gorm.DB
	profiles *profiles.Service
}

func NewService(db *gorm.DB, profilesSvc *profiles.Service) *Service {
	return &Service{db: db, profiles: profilesSvc}
}

type CreateInput struct {
	Title       string
	Description string
	Brand       string
	PriceCOP    int64
	Condition   string
	Images      []string
	City        string
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, in CreateInput) (*Listing, error) {
	seller, err := s.profiles.GetByUser(ctx, userID)
	if err != nil {
		return nil, ErrProfileRequired
	}

	if in.Title == "" {
		return nil, errors.New("title is required")
	}
	if in.PriceCOP <= 0 {
		return nil, errors.New("price must be positive")
	}
	if len(in.Images) > MaxImages {
		return nil, ErrTooManyImages
	}
	switch in.Condition {
	case ConditionNew, ConditionUsed, ConditionForParts:
	default:
		return nil, errors.New("invalid condition")
	}

	city := in.City
	if city == "" {
		city = seller.City
	}

	listing := Listing{
		ID:          uuid.New(),
		SellerID:    seller.ID,
		Title:       in.Title,
		Description: in.Description,
		Brand:       in.Brand,
		PriceCOP:    in.PriceCOP,
		Condition:   in.Condition,
		Images:      datatypes.JSONSlice[string](in.Images),
		City:        city,
		State:       StateActive,
	}

	if err := s.db.WithContext(ctx).Create(&listing).Error; err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	return &listing, nil
}

func (s *Service) List(ctx context.Context, page, limit int) ([]Listing, int64, error) {
	var listings []Listing
	var total int64

	offset := (page - 1) * limit

	query := s.db.WithContext(ctx).Model(&Listing{}).Where("state = ?", StateActive)
	query.Count(&total)

	err := query.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&listings).Error

	return listings, total, err
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	var listing Listing
	if err := s.db.WithContext(ctx).First(&listing, "id = ? AND state <> ?", id, StateDeleted).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return &listing, nil
}

func (s *Service) ListBySeller(ctx context.Context, userID uuid.UUID) ([]Listing, error) {
	seller, err := s.profiles.GetByUser(ctx, userID)
	if err != nil {
		return nil, ErrProfileRequired
	}

	var listings []Listing
	err = s.db.WithContext(ctx).
		Where("seller_id = ? AND state <> ?", seller.ID, StateDeleted).
		Order("created_at DESC").
		Find(&listings).Error
	return listings, err
}

func (s *Service) SetState(ctx context.Context, userID, listingID uuid.UUID, state string) error {
	switch state {
	case StateActive, StateSold, StateDeleted:
	default:
		return errors.New("invalid listing state")
	}

	listing, err := s.owned(ctx, userID, listingID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(listing).Update("state", state).Error
}

func (s *Service) owned(ctx context.Context, userID, listingID uuid.UUID) (*Listing, error) {
	var listing Listing
	if err := s.db.WithContext(ctx).First(&listing, "id = ?", listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}

	seller, err := s.profiles.GetByUser(ctx, userID)
	if err != nil || seller.ID != listing.SellerID {
		return nil, ErrNotSeller
	}
	return &listing, nil
}
