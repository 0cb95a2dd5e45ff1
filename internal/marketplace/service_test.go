package marketplace

import (
	"context"
	"testing"

	"github.com/costurapp/costurapp-backend/internal/profiles"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testEnv(t *testing.T) (*Service, uuid.UUID) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&profiles.Profile{}, &profiles.Position{}, &profiles.Rating{}, &Listing{}))

	profileSvc := profiles.NewService(db, nil)
	userID := uuid.New()
	_, err = profileSvc.CreateFromDraft(context.Background(), userID, profiles.WorkerDraft{
		Basic: profiles.BasicInfo{
			Name:    "María",
			Phone:   "573001234567",
			City:    "Medellín",
			Country: "Colombia",
		},
		Gender:      "mujer",
		Specialties: []string{"confección"},
	})
	require.NoError(t, err)

	return NewService(db, profileSvc), userID
}

func TestCreateListing(t *testing.T) {
	svc, userID := testEnv(t)

	listing, err := svc.Create(context.Background(), userID, CreateInput{
		Title:     "Fileteadora industrial",
		Brand:     "Kansew",
		PriceCOP:  1800000,
		Condition: ConditionUsed,
	})
	require.NoError(t, err)
	assert.Equal(t, StateActive, listing.State)
	assert.Equal(t, "Medellín", listing.City, "city defaults to the seller's")
}

func TestCreateListingValidation(t *testing.T) {
	svc, userID := testEnv(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, userID, CreateInput{Title: "", PriceCOP: 1000, Condition: ConditionUsed})
	assert.Error(t, err, "title required")

	_, err = svc.Create(ctx, userID, CreateInput{Title: "Plana", PriceCOP: 0, Condition: ConditionUsed})
	assert.Error(t, err, "price must be positive")

	_, err = svc.Create(ctx, userID, CreateInput{Title: "Plana", PriceCOP: 1000, Condition: "oxidada"})
	assert.Error(t, err, "unknown condition")

	_, err = svc.Create(ctx, userID, CreateInput{
		Title: "Plana", PriceCOP: 1000, Condition: ConditionNew,
		Images: []string{"1", "2", "3", "4", "5", "6"},
	})
	assert.ErrorIs(t, err, ErrTooManyImages)

	_, err = svc.Create(ctx, uuid.New(), CreateInput{Title: "Plana", PriceCOP: 1000, Condition: ConditionNew})
	assert.ErrorIs(t, err, ErrProfileRequired)
}

func TestListExcludesSoldAndDeleted(t *testing.T) {
	svc, userID := testEnv(t)
	ctx := context.Background()

	active, err := svc.Create(ctx, userID, CreateInput{Title: "Plana", PriceCOP: 900000, Condition: ConditionUsed})
	require.NoError(t, err)
	sold, err := svc.Create(ctx, userID, CreateInput{Title: "Collarín", PriceCOP: 2100000, Condition: ConditionUsed})
	require.NoError(t, err)

	require.NoError(t, svc.SetState(ctx, userID, sold.ID, StateSold))

	listings, total, err := svc.List(ctx, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, listings, 1)
	assert.Equal(t, active.ID, listings[0].ID)

	// The seller still sees the sold machine in their own list.
	mine, err := svc.ListBySeller(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestSetStateSellerOnly(t *testing.T) {
	svc, userID := testEnv(t)
	ctx := context.Background()

	listing, err := svc.Create(ctx, userID, CreateInput{Title: "Plana", PriceCOP: 900000, Condition: ConditionUsed})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.SetState(ctx, uuid.New(), listing.ID, StateSold), ErrNotSeller)
	assert.Error(t, svc.SetState(ctx, userID, listing.ID, "regalada"))

	require.NoError(t, svc.SetState(ctx, userID, listing.ID, StateDeleted))
	_, err = svc.GetByID(ctx, listing.ID)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestFilterListings(t *testing.T) {
	listings := []Listing{
		{Title: "Fileteadora industrial", Brand: "Kansew", City: "Medellín"},
		{Title: "Máquina plana", Brand: "Singer", City: "Bogotá"},
	}

	got := filterListings(listings, "fileteadora medellin")
	require.Len(t, got, 1)
	assert.Equal(t, "Kansew", got[0].Brand)

	assert.Len(t, filterListings(listings, "singer"), 1)
	assert.Len(t, filterListings(listings, ""), 2)
	assert.Empty(t, filterListings(listings, "kansew bogota"))
}
