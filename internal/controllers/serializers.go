package controllers

import (
	"encoding/json"
	"time"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"gorm.io/datatypes"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/models"
)

// RouteSummary is the short form embedded in dates, schedules and links.
type RouteSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// RouteResponse mirrors models.Route with ordered points and a GeoJSON
// LineString built from them.
type RouteResponse struct {
	ID          uint                `json:"id"`
	Name        string              `json:"name"`
	Description *string             `json:"description"`
	DayOfWeek   *string             `json:"day_of_week"`
	StartTime   *datatypes.Time     `json:"start_time"`
	EndTime     *datatypes.Time     `json:"end_time"`
	Completed   bool                `json:"completed"`
	CreatedAt   time.Time           `json:"created_at"`
	Points      []models.RoutePoint `json:"points"`
	Geometry    json.RawMessage     `json:"geometry"`
}

type RouteDateResponse struct {
	ID        uint         `json:"id"`
	Route     RouteSummary `json:"route"`
	Date      string       `json:"date"`
	CreatedAt time.Time    `json:"created_at"`
}

type RouteScheduleResponse struct {
	ID        uint           `json:"id"`
	Route     RouteSummary   `json:"route"`
	StartTime datatypes.Time `json:"start_time"`
	EndTime   datatypes.Time `json:"end_time"`
	DayOfWeek *string        `json:"day_of_week"`
	CreatedAt time.Time      `json:"created_at"`
}

type CommunitySummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type RouteCommunityResponse struct {
	ID        uint             `json:"id"`
	Route     RouteSummary     `json:"route"`
	Community CommunitySummary `json:"community"`
	CreatedAt time.Time        `json:"created_at"`
}

type UserSummary struct {
	ID       uint        `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
}

type UserResponse struct {
	ID         uint        `json:"id"`
	Username   string      `json:"username"`
	Email      string      `json:"email"`
	Role       models.Role `json:"role"`
	IsActive   bool        `json:"is_active"`
	Photo      *string     `json:"photo"`
	DateJoined time.Time   `json:"date_joined"`
}

type NotificationResponse struct {
	ID              uint                     `json:"id"`
	Message         string                   `json:"message"`
	Usuario         *UserSummary             `json:"usuario"`
	Sender          *UserSummary             `json:"sender"`
	Estado          models.NotificationState `json:"estado"`
	DeletedByUser   bool                     `json:"deleted_by_user"`
	DeletedGlobally bool                     `json:"deleted_globally"`
	DeletedAt       *time.Time               `json:"deleted_at"`
	CreatedAt       time.Time                `json:"created_at"`
}

type ReportResponse struct {
	ID      uint                `json:"id"`
	Tipo    models.ReportType   `json:"tipo"`
	Fecha   time.Time           `json:"fecha"`
	Detalle string              `json:"detalle"`
	Status  models.ReportStatus `json:"status"`
	User    *UserSummary        `json:"user"`
	Admin   *UserSummary        `json:"admin"`
}

type VehicleResponse struct {
	ID         uint          `json:"id"`
	Name       string        `json:"name"`
	Latitude   float64       `json:"latitude"`
	Longitude  float64       `json:"longitude"`
	LastUpdate time.Time     `json:"last_update"`
	Route      *RouteSummary `json:"route"`
}

type VehicleLocationResponse struct {
	ID               uint      `json:"id"`
	VehicleID        uint      `json:"vehicle_id"`
	UserID           *uint     `json:"user_id"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	Bearing          float64   `json:"bearing"`
	SpeedMPS         float64   `json:"speed_mps"`
	DistanceFromLast float64   `json:"distance_from_last"`
	EventType        string    `json:"event_type"`
	Timestamp        time.Time `json:"timestamp"`
}

// CalendarEntry is one day in the citizen calendar.
type CalendarEntry struct {
	ID        uint               `json:"id"`
	Date      string             `json:"date"`
	Route     RouteSummary       `json:"route"`
	Schedules []CalendarSchedule `json:"schedules"`
}

type CalendarSchedule struct {
	ID        uint           `json:"id"`
	StartTime datatypes.Time `json:"start_time"`
	EndTime   datatypes.Time `json:"end_time"`
	DayOfWeek *string        `json:"day_of_week"`
}

func toRouteSummary(r models.Route) RouteSummary {
	return RouteSummary{ID: r.ID, Name: r.Name}
}

func toRouteResponse(route models.Route) RouteResponse {
	points := append([]models.RoutePoint(nil), route.Points...)
	models.SortPoints(points)
	if points == nil {
		points = []models.RoutePoint{}
	}
	return RouteResponse{
		ID:          route.ID,
		Name:        route.Name,
		Description: route.Description,
		DayOfWeek:   route.DayOfWeek,
		StartTime:   route.StartTime,
		EndTime:     route.EndTime,
		Completed:   route.Completed,
		CreatedAt:   route.CreatedAt,
		Points:      points,
		Geometry:    lineStringGeoJSON(points),
	}
}

// lineStringGeoJSON renders ordered points as a GeoJSON LineString, or null
// when there are fewer than two points.
func lineStringGeoJSON(points []models.RoutePoint) json.RawMessage {
	null := json.RawMessage("null")
	if len(points) < 2 {
		return null
	}
	coords := make([]geom.Coord, 0, len(points))
	for _, p := range points {
		coords = append(coords, geom.Coord{p.Longitude, p.Latitude})
	}
	ls, err := geom.NewLineString(geom.XY).SetCoords(coords)
	if err != nil {
		return null
	}
	b, err := gjson.Marshal(ls)
	if err != nil {
		return null
	}
	return b
}

func toRouteDateResponse(d models.RouteDate, route models.Route) RouteDateResponse {
	return RouteDateResponse{
		ID:        d.ID,
		Route:     toRouteSummary(route),
		Date:      models.FormatDate(d.Date),
		CreatedAt: d.CreatedAt,
	}
}

func toRouteScheduleResponse(s models.RouteSchedule, route models.Route, dates []models.RouteDate) RouteScheduleResponse {
	return RouteScheduleResponse{
		ID:        s.ID,
		Route:     toRouteSummary(route),
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		DayOfWeek: models.DerivedDayOfWeek(route, dates),
		CreatedAt: s.CreatedAt,
	}
}

func toCommunitySummary(c models.Community) CommunitySummary {
	return CommunitySummary{ID: c.ID, Name: c.Name}
}

func toRouteCommunityResponse(rc models.RouteCommunity) RouteCommunityResponse {
	resp := RouteCommunityResponse{ID: rc.ID, CreatedAt: rc.CreatedAt}
	if rc.Route != nil {
		resp.Route = toRouteSummary(*rc.Route)
	}
	if rc.Community != nil {
		resp.Community = toCommunitySummary(*rc.Community)
	}
	return resp
}

func toUserSummary(u *models.User) *UserSummary {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &UserSummary{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

func toUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		IsActive:   u.IsActive,
		Photo:      u.Photo,
		DateJoined: u.CreatedAt,
	}
}

func toNotificationResponse(n models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:              n.ID,
		Message:         n.Message,
		Usuario:         toUserSummary(n.Usuario),
		Sender:          toUserSummary(n.Sender),
		Estado:          n.Estado,
		DeletedByUser:   n.DeletedByUser(),
		DeletedGlobally: n.DeletedGlobally(),
		DeletedAt:       n.UserDeletedAt,
		CreatedAt:       n.CreatedAt,
	}
}

func toReportResponse(r models.Report) ReportResponse {
	return ReportResponse{
		ID:      r.ID,
		Tipo:    r.Tipo,
		Fecha:   r.Fecha,
		Detalle: r.Detalle,
		Status:  r.Status,
		User:    toUserSummary(r.User),
		Admin:   toUserSummary(r.Admin),
	}
}

func toVehicleResponse(v models.Vehicle) VehicleResponse {
	resp := VehicleResponse{
		ID:         v.ID,
		Name:       v.Name,
		Latitude:   v.Latitude,
		Longitude:  v.Longitude,
		LastUpdate: v.LastUpdate,
	}
	if v.Route != nil {
		s := toRouteSummary(*v.Route)
		resp.Route = &s
	}
	return resp
}

func toVehicleLocationResponse(l models.VehicleLocation) VehicleLocationResponse {
	return VehicleLocationResponse{
		ID:               l.ID,
		VehicleID:        l.VehicleID,
		UserID:           l.UserID,
		Latitude:         l.Latitude,
		Longitude:        l.Longitude,
		Bearing:          l.Bearing,
		SpeedMPS:         l.SpeedMPS,
		DistanceFromLast: l.DistanceFromLast,
		EventType:        l.EventType,
		Timestamp:        l.Timestamp,
	}
}
