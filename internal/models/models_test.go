package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/apperrors"
)

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"ciudadano":  RoleCitizen,
		"Citizen":    RoleCitizen,
		"recolector": RoleCollector,
		"collector":  RoleCollector,
		" ADMIN ":    RoleAdmin,
	}
	for in, want := range cases {
		got, err := ParseRole(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseRole("driver")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.False(t, Role("driver").Valid())
}

func TestBuildPointsDefaultsOrderToIndex(t *testing.T) {
	points, err := BuildPoints(7, []PointInput{
		{Latitude: ptrF(14.88), Longitude: ptrF(-91.51)},
		{Latitude: ptrF(14.89), Longitude: ptrF(-91.52)},
		{Latitude: ptrF(14.90), Longitude: ptrF(-91.53)},
	})
	require.NoError(t, err)
	require.Len(t, points, 3)
	for i, p := range points {
		assert.Equal(t, i, p.Seq)
		assert.Equal(t, uint(7), p.RouteID)
	}
}

func TestBuildPointsRejectsBadInput(t *testing.T) {
	_, err := BuildPoints(1, []PointInput{{Latitude: ptrF(91), Longitude: ptrF(0)}})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = BuildPoints(1, []PointInput{{Latitude: ptrF(0), Longitude: ptrF(-181)}})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = BuildPoints(1, []PointInput{{Latitude: ptrF(0)}})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = BuildPoints(1, []PointInput{{Latitude: ptrF(0), Longitude: ptrF(0), Order: ptrI(-1)}})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestSortPointsBreaksTiesByID(t *testing.T) {
	points := []RoutePoint{
		{ID: 3, Seq: 1},
		{ID: 2, Seq: 0},
		{ID: 1, Seq: 1},
	}
	SortPoints(points)
	assert.Equal(t, []uint{2, 1, 3}, []uint{points[0].ID, points[1].ID, points[2].ID})
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("start_time", json.RawMessage(`"08:00"`))
	require.NoError(t, err)
	assert.Equal(t, datatypes.NewTime(8, 0, 0, 0), got)
	assert.Equal(t, "08:00:00", got.String())

	got, err = ParseTimeOfDay("start_time", json.RawMessage(`"10:15:30"`))
	require.NoError(t, err)
	assert.Equal(t, datatypes.NewTime(10, 15, 30, 0), got)

	got, err = ParseTimeOfDay("start_time", json.RawMessage(`{"hour": 6, "minute": 45}`))
	require.NoError(t, err)
	assert.Equal(t, datatypes.NewTime(6, 45, 0, 0), got)

	for _, bad := range []string{`"25:00"`, `"8"`, `"aa:bb"`, `null`, `12`, `{"hour": 6}`, `"08:60"`} {
		_, err := ParseTimeOfDay("start_time", json.RawMessage(bad))
		assert.True(t, errors.Is(err, apperrors.ErrValidation), bad)
	}
}

func TestParseClockRejectsSigns(t *testing.T) {
	for _, bad := range []string{"+8:00", "-0:00", "08:+5", "08:00:-1", "0x:00", "8 :00"} {
		_, err := ParseClock("start_time", bad)
		assert.ErrorIs(t, err, apperrors.ErrValidation, bad)
	}

	got, err := ParseClock("start_time", "8:05")
	require.NoError(t, err)
	assert.Equal(t, datatypes.NewTime(8, 5, 0, 0), got)
}

func TestParseCalendarDate(t *testing.T) {
	d, err := ParseCalendarDate("2024-05-06")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-06", FormatDate(d))

	for _, bad := range []string{"06/05/2024", "2024-13-01", ""} {
		_, err := ParseCalendarDate(bad)
		assert.True(t, errors.Is(err, apperrors.ErrValidation), bad)
	}
}

func TestNormalizeWeekday(t *testing.T) {
	day, ok := NormalizeWeekday("miercoles")
	assert.True(t, ok)
	assert.Equal(t, "Miércoles", day)

	day, ok = NormalizeWeekday("SÁBADO")
	assert.True(t, ok)
	assert.Equal(t, "Sábado", day)

	_, ok = NormalizeWeekday("Monday")
	assert.False(t, ok)
}

func TestDerivedDayOfWeek(t *testing.T) {
	route := Route{ID: 1}
	assert.Nil(t, DerivedDayOfWeek(route, nil))

	dates := []RouteDate{
		{RouteID: 1, Date: datatypes.Date(time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC))}, // Wednesday
		{RouteID: 1, Date: datatypes.Date(time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC))}, // Monday
		{RouteID: 2, Date: datatypes.Date(time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC))},
	}
	day := DerivedDayOfWeek(route, dates)
	require.NotNil(t, day)
	assert.Equal(t, "Lunes", *day)

	legacy := "Viernes"
	route.DayOfWeek = &legacy
	day = DerivedDayOfWeek(route, dates)
	require.NotNil(t, day)
	assert.Equal(t, "Viernes", *day)
}

func TestNotificationVisibility(t *testing.T) {
	sender := uint(1)
	n := NewNotification(2, &sender, "Recolección mañana")
	assert.Equal(t, NotificationPending, n.Estado)
	assert.True(t, n.VisibleToRecipient())

	now := time.Now()
	assert.True(t, n.HideForRecipient(now))
	assert.True(t, n.DeletedByUser())
	assert.False(t, n.DeletedGlobally())
	require.NotNil(t, n.UserDeletedAt)

	// second recipient delete is a no-op
	assert.False(t, n.HideForRecipient(now.Add(time.Hour)))
	assert.Equal(t, now, *n.UserDeletedAt)

	assert.True(t, n.HideGlobally())
	assert.True(t, n.DeletedGlobally())
	assert.False(t, n.VisibleToRecipient())

	// globally hidden is terminal
	assert.False(t, n.HideForRecipient(now))
	assert.False(t, n.HideGlobally())
	assert.Equal(t, VisibilityHiddenGlobally, n.Visibility)
}

func TestNotificationGlobalHideFromVisible(t *testing.T) {
	n := NewNotification(2, nil, "x")
	assert.True(t, n.HideGlobally())
	assert.False(t, n.DeletedByUser())
	assert.False(t, n.HideForRecipient(time.Now()))
	assert.Nil(t, n.UserDeletedAt)
}

func TestMarkRead(t *testing.T) {
	n := NewNotification(2, nil, "x")
	assert.True(t, n.MarkRead())
	assert.Equal(t, NotificationRead, n.Estado)
	assert.False(t, n.MarkRead())
}

func TestReportStatusAndType(t *testing.T) {
	for _, s := range []string{"pending", "resolved", "unresolved", " Resolved "} {
		_, err := ParseReportStatus(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseReportStatus("closed")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	tipo, err := ParseReportType("")
	require.NoError(t, err)
	assert.Equal(t, ReportIncident, tipo)
	_, err = ParseReportType("otros")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestReportCanBeDeletedBy(t *testing.T) {
	r := Report{UserID: 5}
	assert.True(t, r.CanBeDeletedBy(5, RoleCitizen))
	assert.False(t, r.CanBeDeletedBy(6, RoleCitizen))
	assert.False(t, r.CanBeDeletedBy(6, RoleCollector))
	assert.True(t, r.CanBeDeletedBy(6, RoleAdmin))
}

func TestCommunityKey(t *testing.T) {
	assert.Equal(t, "san juan", CommunityKey("  San   JUAN "))
}

func TestVehicleMoveTo(t *testing.T) {
	v := Vehicle{}
	at := time.Now()
	assert.Zero(t, v.MoveTo(14.886351, -91.514472, at))
	assert.Equal(t, at, v.LastUpdate)

	moved := v.MoveTo(14.887351, -91.514472, at)
	// 0.001 degrees of latitude is roughly 111 m
	assert.InDelta(t, 111.2, moved, 1.0)
}

func TestNextLocation(t *testing.T) {
	start := time.Date(2025, 3, 3, 7, 0, 0, 0, time.UTC)
	first := NextLocation(nil, 1, 14.886351, -91.514472, start)
	assert.Equal(t, LocationInitial, first.EventType)
	assert.Zero(t, first.DistanceFromLast)

	north := NextLocation(&first, 1, 14.887351, -91.514472, start.Add(10*time.Second))
	assert.Equal(t, LocationMove, north.EventType)
	assert.InDelta(t, 11.1, north.SpeedMPS, 0.2)
	assert.InDelta(t, 0, north.Bearing, 0.01)

	still := NextLocation(&north, 1, 14.887352, -91.514472, start.Add(20*time.Second))
	assert.Equal(t, LocationStopped, still.EventType)
	assert.Equal(t, north.Bearing, still.Bearing)

	east := NextLocation(&still, 1, 14.887352, -91.513472, start.Add(30*time.Second))
	assert.InDelta(t, 90, east.Bearing, 0.1)
}

func TestPasswordResetTokenUsable(t *testing.T) {
	now := time.Now()
	tok := NewPasswordResetToken(1, time.Hour, now)
	assert.Len(t, tok.Token, 36)
	assert.True(t, tok.Usable(now))
	assert.False(t, tok.Usable(now.Add(2*time.Hour)))

	tok.UsedAt = &now
	assert.False(t, tok.Usable(now))
}
