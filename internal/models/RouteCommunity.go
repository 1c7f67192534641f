package models

import "time"

// RouteCommunity is the only link between routes and communities. It is
// always queried directly; Route and Community carry no reverse accessors.
type RouteCommunity struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	RouteID     uint       `gorm:"not null;uniqueIndex:idx_route_community" json:"route_id"`
	CommunityID uint       `gorm:"not null;uniqueIndex:idx_route_community;index" json:"community_id"`
	CreatedAt   time.Time  `json:"created_at"`
	Route       *Route     `gorm:"foreignKey:RouteID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Community   *Community `gorm:"foreignKey:CommunityID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
