package profiles

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Profile{}, &Position{}, &Rating{}))
	return db
}

func workerDraft(name string) WorkerDraft {
	return WorkerDraft{
		Basic: BasicInfo{
			Name:    name,
			Phone:   "573001234567",
			City:    "Medellín",
			Country: "Colombia",
		},
		Gender:      "mujer",
		Specialties: []string{"confección"},
		Machines:    []string{"plana"},
	}
}

func TestCreateFromDraftWorker(t *testing.T) {
	svc := NewService(testDB(t), nil)
	ctx := context.Background()

	p, err := svc.CreateFromDraft(ctx, uuid.New(), workerDraft("María"))
	require.NoError(t, err)
	assert.Equal(t, CategoryWorker, p.Category)
	assert.Equal(t, "María", p.Name)
	assert.Equal(t, []string{"confección"}, []string(p.Specialties))
}

func TestCreateFromDraftOnePerUser(t *testing.T) {
	svc := NewService(testDB(t), nil)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.CreateFromDraft(ctx, userID, workerDraft("María"))
	require.NoError(t, err)

	_, err = svc.CreateFromDraft(ctx, userID, workerDraft("María otra vez"))
	assert.ErrorIs(t, err, ErrProfileExists)
}

func TestCreateFromDraftWorkshopPositions(t *testing.T) {
	svc := NewService(testDB(t), nil)
	ctx := context.Background()

	p, err := svc.CreateFromDraft(ctx, uuid.New(), WorkshopDraft{
		Basic:         BasicInfo{Name: "Taller La Aguja", Phone: "573001234567", City: "Bogotá", Country: "Colombia"},
		Responsible:   "Carlos Mejía",
		EmployeeCount: 8,
		Specialties:   []string{"confección"},
		Positions: []PositionDraft{
			{Title: "Operaria plana", Specialties: []string{"plana"}, PaymentType: PaymentDaily},
			{Title: "Cortador", PaymentType: PaymentFixed},
		},
	})
	require.NoError(t, err)

	positions, err := svc.ListPositions(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, positions, 2)
}

func TestUpdateTouchesOnlyGivenFields(t *testing.T) {
	svc := NewService(testDB(t), nil)
	ctx := context.Background()
	userID := uuid.New()

	p, err := svc.CreateFromDraft(ctx, userID, workerDraft("María"))
	require.NoError(t, err)

	city := "Cali"
	updated, err := svc.Update(ctx, userID, p.ID, UpdateInput{City: &city})
	require.NoError(t, err)

	fresh, err := svc.GetByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Cali", fresh.City)
	assert.Equal(t, "María", fresh.Name, "untouched fields keep their values")
	assert.Equal(t, "573001234567", fresh.Phone)
	_ = updated
}

func TestUpdateRejectsNonOwner(t *testing.T) {
	svc := NewService(testDB(t), nil)
	ctx := context.Background()

	p, err := svc.CreateFromDraft(ctx, uuid.New(), workerDraft("María"))
	require.NoError(t, err)

	name := "Intruso"
	_, err = svc.Update(ctx, uuid.New(), p.ID, UpdateInput{Name: &name})
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestAddRatingRecomputesAverage(t *testing.T) {
	svc := NewService(testDB(t), nil)
	ctx := context.Background()

	rated, err := svc.CreateFromDraft(ctx, uuid.New(), workerDraft("María"))
	require.NoError(t, err)

	_, err = svc.AddRating(ctx, rated.ID, uuid.New(), "Ana", 5, "Excelente trabajo")
	require.NoError(t, err)
	p, err := svc.AddRating(ctx, rated.ID, uuid.New(), "Luis", 4, "")
	require.NoError(t, err)

	assert.Equal(t, 4.5, p.AverageScore)
	assert.Equal(t, 2, p.RatingCount)

	// A third rating lands on a two-decimal average.
	p, err = svc.AddRating(ctx, rated.ID, uuid.New(), "Sofía", 4, "")
	require.NoError(t, err)
	assert.Equal(t, 4.33, p.AverageScore)
	assert.Equal(t, 3, p.RatingCount)
}

func TestAddRatingOncePerAuthor(t *testing.T) {
	svc := NewService(testDB(t), nil)
	ctx := context.Background()

	rated, err := svc.CreateFromDraft(ctx, uuid.New(), workerDraft("María"))
	require.NoError(t, err)

	author := uuid.New()
	_, err = svc.AddRating(ctx, rated.ID, author, "Ana", 5, "")
	require.NoError(t, err)

	_, err = svc.AddRating(ctx, rated.ID, author, "Ana", 1, "cambié de opinión")
	assert.ErrorIs(t, err, ErrAlreadyRated)

	// The stored stats did not move.
	fresh, err := svc.GetByID(ctx, rated.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, fresh.AverageScore)
	assert.Equal(t, 1, fresh.RatingCount)
}

func TestAddRatingRejectsSelfAndBadScore(t *testing.T) {
	svc := NewService(testDB(t), nil)
	ctx := context.Background()

	rated, err := svc.CreateFromDraft(ctx, uuid.New(), workerDraft("María"))
	require.NoError(t, err)

	_, err = svc.AddRating(ctx, rated.ID, rated.ID, "María", 5, "")
	assert.ErrorIs(t, err, ErrSelfRating)

	_, err = svc.AddRating(ctx, rated.ID, uuid.New(), "Ana", 0, "")
	assert.ErrorIs(t, err, ErrInvalidScore)
	_, err = svc.AddRating(ctx, rated.ID, uuid.New(), "Ana", 6, "")
	assert.ErrorIs(t, err, ErrInvalidScore)
}

func TestAddPositionOnlyForWorkshops(t *testing.T) {
	svc := NewService(testDB(t), nil)
	ctx := context.Background()
	userID := uuid.New()

	p, err := svc.CreateFromDraft(ctx, userID, workerDraft("María"))
	require.NoError(t, err)

	_, err = svc.AddPosition(ctx, userID, p.ID, PositionInput{Title: "Operaria", PaymentType: PaymentDaily})
	assert.ErrorIs(t, err, ErrNotWorkshop)
}

func TestGetByIDCountsVisit(t *testing.T) {
	svc := NewService(testDB(t), nil)
	ctx := context.Background()

	p, err := svc.CreateFromDraft(ctx, uuid.New(), workerDraft("María"))
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	again, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.VisitCount)
}

func TestSnapshotsSkipsMissing(t *testing.T) {
	svc := NewService(testDB(t), nil)
	ctx := context.Background()

	p, err := svc.CreateFromDraft(ctx, uuid.New(), workerDraft("María"))
	require.NoError(t, err)

	ghost := uuid.New()
	snaps, err := svc.Snapshots(ctx, []uuid.UUID{p.ID, ghost})
	require.NoError(t, err)
	assert.Contains(t, snaps, p.ID)
	assert.NotContains(t, snaps, ghost)
	assert.Equal(t, "María", snaps[p.ID].Name)
}

func TestDirectoryReloadAndInvalidate(t *testing.T) {
	db := testDB(t)
	dir := NewDirectory(db)
	svc := NewService(db, dir)
	ctx := context.Background()

	_, err := svc.CreateFromDraft(ctx, uuid.New(), workerDraft("María"))
	require.NoError(t, err)

	require.NoError(t, dir.EnsureLoaded(ctx))
	assert.Len(t, dir.Search("maria", CategoryWorker), 1)

	// A write through the service drops the snapshot.
	_, err = svc.CreateFromDraft(ctx, uuid.New(), workerDraft("Mariana"))
	require.NoError(t, err)
	assert.False(t, dir.Loaded())

	require.NoError(t, dir.EnsureLoaded(ctx))
	assert.Len(t, dir.Search("maria", CategoryWorker), 2)
}
