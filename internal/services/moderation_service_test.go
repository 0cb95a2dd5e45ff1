package services

import (
	"testing"

	"github.com/costurapp/costurapp-backend/internal/dto"
	"github.com/costurapp/costurapp-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func moderationTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Report{}, &models.Block{}))
	return db
}

func TestFilterContent(t *testing.T) {
	ms := NewModerationService(moderationTestDB(t))

	tests := []struct {
		name   string
		text   string
		ok     bool
		reason string
	}{
		{"clean text", "Busco operaria de máquina plana con experiencia", true, ""},
		{"empty text", "", true, ""},
		{"banned word", "esto es una estafa total", false, "inappropriate_language"},
		{"banned word uppercase", "ESTAFADOR conocido", false, "inappropriate_language"},
		{"url", "escríbeme en https://ejemplo.com/chat", false, "url_not_allowed"},
		{"www url", "visita www.ejemplo.com ya", false, "url_not_allowed"},
		{"email", "contacto: maria@ejemplo.com", false, "contact_info_not_allowed"},
		{"word inside another", "estafeta de correos", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := ms.FilterContent(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestGetRejectionMessage(t *testing.T) {
	ms := NewModerationService(moderationTestDB(t))

	assert.Contains(t, ms.GetRejectionMessage("url_not_allowed"), "enlaces")
	assert.NotEmpty(t, ms.GetRejectionMessage("something_else"))
}

func TestCreateAndActionReport(t *testing.T) {
	ms := NewModerationService(moderationTestDB(t))
	reporter := uuid.New()

	report, err := ms.CreateReport(reporter, &dto.CreateReportRequest{
		ContentType: "publicacion",
		ContentID:   uuid.New().String(),
		Reason:      "contenido_enganoso",
	})
	require.NoError(t, err)
	assert.Equal(t, "pendiente", report.Status)

	_, err = ms.CreateReport(reporter, &dto.CreateReportRequest{ContentType: "meme", Reason: "x"})
	assert.Error(t, err, "unknown content type")

	require.NoError(t, ms.ActionReport(report.ID, &dto.ActionReportRequest{Status: "accionado", AdminNote: "publicación retirada"}))
	assert.Error(t, ms.ActionReport(report.ID, &dto.ActionReportRequest{Status: "archivado"}))
	assert.ErrorIs(t, ms.ActionReport(uuid.New(), &dto.ActionReportRequest{Status: "revisado"}), ErrReportNotFound)

	reports, total, err := ms.ListReports("accionado", 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, reports, 1)
	assert.Equal(t, "publicación retirada", reports[0].AdminNote)
}

func TestBlockLifecycle(t *testing.T) {
	ms := NewModerationService(moderationTestDB(t))
	blocker, blocked := uuid.New(), uuid.New()

	assert.ErrorIs(t, ms.BlockUser(blocker, blocker), ErrSelfBlock)

	require.NoError(t, ms.BlockUser(blocker, blocked))
	assert.ErrorIs(t, ms.BlockUser(blocker, blocked), ErrAlreadyBlocked)

	ids, err := ms.GetBlockedIDs(blocker)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{blocked}, ids)

	require.NoError(t, ms.UnblockUser(blocker, blocked))
	ids, err = ms.GetBlockedIDs(blocker)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
