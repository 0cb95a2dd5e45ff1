package feed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/costurapp/costurapp-backend/internal/profiles"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testEnv(t *testing.T) (*Service, *profiles.Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&profiles.Profile{}, &profiles.Position{}, &profiles.Rating{}, &Post{}))

	profileSvc := profiles.NewService(db, nil)
	return NewService(db, profileSvc, 10, 3), profileSvc, db
}

func makeAuthor(t *testing.T, svc *profiles.Service, name string) (*profiles.Profile, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	p, err := svc.CreateFromDraft(context.Background(), userID, profiles.WorkerDraft{
		Basic: profiles.BasicInfo{
			Name:    name,
			Phone:   "573001234567",
			City:    "Medellín",
			Country: "Colombia",
		},
		Gender:      "mujer",
		Specialties: []string{"confección"},
	})
	require.NoError(t, err)
	return p, userID
}

// seedPost inserts a post directly so the test controls its timestamp.
func seedPost(t *testing.T, db *gorm.DB, authorID uuid.UUID, createdAt time.Time, desc string) Post {
	t.Helper()
	post := Post{
		ID:             uuid.New(),
		AuthorID:       authorID,
		AuthorCategory: profiles.CategoryWorker,
		Description:    desc,
		ContactPhone:   "573001234567",
		ContactMethod:  ContactWhatsApp,
		State:          StateActive,
		ContactLimit:   3,
		CreatedAt:      createdAt,
	}
	require.NoError(t, db.Create(&post).Error)
	return post
}

func TestCreateRequiresProfile(t *testing.T) {
	svc, _, _ := testEnv(t)

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		Description:   "Busco operaria de máquina plana",
		ContactMethod: ContactWhatsApp,
	})
	assert.ErrorIs(t, err, ErrProfileRequired)
}

func TestCreateValidatesInput(t *testing.T) {
	svc, profileSvc, _ := testEnv(t)
	_, userID := makeAuthor(t, profileSvc, "María")
	ctx := context.Background()

	_, err := svc.Create(ctx, userID, CreateInput{Description: "corto", ContactMethod: ContactWhatsApp})
	assert.Error(t, err, "short description")

	_, err = svc.Create(ctx, userID, CreateInput{
		Description:   "Descripción suficientemente larga",
		ContactMethod: "paloma mensajera",
	})
	assert.ErrorIs(t, err, ErrInvalidContact)

	_, err = svc.Create(ctx, userID, CreateInput{
		Description:   "Descripción suficientemente larga",
		ContactMethod: ContactWhatsApp,
		Images:        []string{"1", "2", "3", "4", "5", "6"},
	})
	assert.ErrorIs(t, err, ErrTooManyImages)
}

func TestCreateFallsBackToProfilePhone(t *testing.T) {
	svc, profileSvc, _ := testEnv(t)
	_, userID := makeAuthor(t, profileSvc, "María")

	post, err := svc.Create(context.Background(), userID, CreateInput{
		Description:   "Se hacen arreglos de ropa a domicilio",
		ContactMethod: ContactBoth,
	})
	require.NoError(t, err)
	assert.Equal(t, "573001234567", post.ContactPhone)
}

func TestGetPagePaginatesToExhaustion(t *testing.T) {
	svc, profileSvc, db := testEnv(t)
	author, _ := makeAuthor(t, profileSvc, "María")
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	total := 25
	for i := 0; i < total; i++ {
		seedPost(t, db, author.ID, base.Add(time.Duration(i)*time.Minute), fmt.Sprintf("Publicación número %d", i))
	}

	seen := map[uuid.UUID]bool{}
	cursor := ""
	pages := 0
	var prev time.Time
	for {
		page, err := svc.GetPage(ctx, cursor, 10)
		require.NoError(t, err)
		pages++

		for _, p := range page.Posts {
			assert.False(t, seen[p.ID], "post %s served twice", p.ID)
			seen[p.ID] = true
			if !prev.IsZero() {
				assert.False(t, p.CreatedAt.After(prev), "feed must be newest-first")
			}
			prev = p.CreatedAt
		}

		if !page.HasMore {
			assert.Empty(t, page.NextCursor)
			break
		}
		require.NotEmpty(t, page.NextCursor)
		cursor = page.NextCursor
	}

	assert.Len(t, seen, total, "every post served exactly once")
	assert.Equal(t, 3, pages)
}

func TestGetPageSkipsInactivePosts(t *testing.T) {
	svc, profileSvc, db := testEnv(t)
	author, _ := makeAuthor(t, profileSvc, "María")
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	active := seedPost(t, db, author.ID, base, "Publicación visible en el feed")
	hidden := seedPost(t, db, author.ID, base.Add(time.Minute), "Publicación pausada")
	require.NoError(t, db.Model(&hidden).Update("state", StatePaused).Error)

	page, err := svc.GetPage(context.Background(), "", 10)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, active.ID, page.Posts[0].ID)
	assert.False(t, page.HasMore)
}

func TestGetPageRejectsBadCursor(t *testing.T) {
	svc, _, _ := testEnv(t)
	_, err := svc.GetPage(context.Background(), "no-es-un-cursor", 10)
	assert.ErrorIs(t, err, ErrBadCursor)
}

func TestGetPageJoinsAuthors(t *testing.T) {
	svc, profileSvc, db := testEnv(t)
	author, _ := makeAuthor(t, profileSvc, "María")
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	seedPost(t, db, author.ID, base, "Publicación con autora conocida")
	orphanAuthor := uuid.New()
	seedPost(t, db, orphanAuthor, base.Add(time.Minute), "Publicación con autora borrada")

	page, err := svc.GetPage(context.Background(), "", 10)
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)

	// Newest first: the orphan comes first and gets the placeholder.
	assert.Equal(t, "Usuario desconocido", page.Posts[0].Author.Name)
	assert.Equal(t, profiles.CategoryNone, page.Posts[0].Author.Category)
	assert.Equal(t, orphanAuthor, page.Posts[0].Author.ID)

	assert.Equal(t, "María", page.Posts[1].Author.Name)
	assert.Equal(t, profiles.CategoryWorker, page.Posts[1].Author.Category)
}

func TestSetStateOwnerOnly(t *testing.T) {
	svc, profileSvc, db := testEnv(t)
	author, ownerID := makeAuthor(t, profileSvc, "María")
	_, strangerID := makeAuthor(t, profileSvc, "Intrusa")
	ctx := context.Background()

	post := seedPost(t, db, author.ID, time.Now().UTC(), "Publicación de María")

	assert.ErrorIs(t, svc.SetState(ctx, strangerID, post.ID, StatePaused), ErrNotAuthor)
	require.NoError(t, svc.SetState(ctx, ownerID, post.ID, StatePaused))

	assert.ErrorIs(t, svc.SetState(ctx, ownerID, post.ID, "volando"), ErrInvalidState)
}

func TestDeletedPostsDisappear(t *testing.T) {
	svc, profileSvc, db := testEnv(t)
	author, ownerID := makeAuthor(t, profileSvc, "María")
	ctx := context.Background()

	post := seedPost(t, db, author.ID, time.Now().UTC(), "Publicación por borrar")
	require.NoError(t, svc.SetState(ctx, ownerID, post.ID, StateDeleted))

	_, err := svc.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	mine, err := svc.ListMine(ctx, ownerID)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestRegisterContactWeeklyLimit(t *testing.T) {
	svc, profileSvc, db := testEnv(t)
	author, _ := makeAuthor(t, profileSvc, "María")
	ctx := context.Background()

	post := seedPost(t, db, author.ID, time.Now().UTC(), "Publicación con límite")
	require.NoError(t, db.Model(&post).Update("contact_week", weekKey(time.Now())).Error)

	// Limit is 3 in the test env.
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.RegisterContact(ctx, post.ID))
	}
	assert.ErrorIs(t, svc.RegisterContact(ctx, post.ID), ErrContactLimit)
}

func TestRegisterContactResetsOnNewWeek(t *testing.T) {
	svc, profileSvc, db := testEnv(t)
	author, _ := makeAuthor(t, profileSvc, "María")
	ctx := context.Background()

	post := seedPost(t, db, author.ID, time.Now().UTC(), "Publicación de la semana pasada")
	require.NoError(t, db.Model(&post).Updates(map[string]interface{}{
		"contact_count": 3,
		"contact_week":  "2026-W01",
	}).Error)

	// The stale week rolls the counter back before checking the limit.
	require.NoError(t, svc.RegisterContact(ctx, post.ID))

	var fresh Post
	require.NoError(t, db.First(&fresh, "id = ?", post.ID).Error)
	assert.Equal(t, 1, fresh.ContactCount)
	assert.Equal(t, weekKey(time.Now()), fresh.ContactWeek)
}
