package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Route{}, &models.RoutePoint{}, &models.Report{}))
	return db
}

func TestDaysBetween(t *testing.T) {
	first := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)
	now := time.Date(2024, 3, 4, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 3, DaysBetween(first, now))
	assert.Equal(t, 0, DaysBetween(now, now))
	assert.Equal(t, 0, DaysBetween(now, first))
}

func TestComputeEmpty(t *testing.T) {
	db := setupDB(t)
	s, err := Compute(context.Background(), db, time.Now())
	require.NoError(t, err)
	assert.Equal(t, Summary{}, s)
}

func TestComputeCounts(t *testing.T) {
	db := setupDB(t)
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	user := models.User{Username: "ana", Email: "ana@example.com", Password: "x", Role: models.RoleCitizen, IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	require.NoError(t, db.Create(&models.Route{Name: "Centro", Completed: true}).Error)
	require.NoError(t, db.Create(&models.Route{Name: "Norte"}).Error)
	require.NoError(t, db.Create(&models.Route{Name: "Sur"}).Error)

	reports := []models.Report{
		{Tipo: models.ReportIncident, Detalle: "a", Status: models.ReportPending, UserID: user.ID, Fecha: now.AddDate(0, 0, -5)},
		{Tipo: models.ReportIncident, Detalle: "b", Status: models.ReportResolved, UserID: user.ID, Fecha: now.AddDate(0, 0, -2)},
		{Tipo: models.ReportRoutes, Detalle: "c", Status: models.ReportUnresolved, UserID: user.ID, Fecha: now},
	}
	require.NoError(t, db.Create(&reports).Error)

	s, err := Compute(context.Background(), db, now)
	require.NoError(t, err)
	assert.Equal(t, Summary{
		CompletedRoutes:      1,
		PendingRoutes:        2,
		TotalReports:         3,
		ResolvedReports:      1,
		UnresolvedReports:    1,
		PendingReports:       1,
		DaysSinceFirstReport: 5,
	}, s)

	rows, err := Reports(context.Background(), db)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "a", rows[0].Detalle)
	require.NotNil(t, rows[0].User)
	assert.Equal(t, "ana", rows[0].User.Username)
}
