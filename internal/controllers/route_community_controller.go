package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/apperrors"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/config"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/models"
)

const duplicateRouteCommunityMsg = "This community is already assigned to the route"

// linkQuery selects route-community rows joined to their community, ordered
// by community name.
func linkQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&models.RouteCommunity{}).
		Joins("JOIN communities ON communities.id = route_communities.community_id").
		Order("communities.name ASC").
		Order("route_communities.id ASC")
}

// ListRouteCommunities returns link rows, optionally for one route.
func ListRouteCommunities(c *gin.Context) {
	routeID, err := parseOptionalID(c, "route_id")
	if err != nil {
		respondError(c, err)
		return
	}

	q := linkQuery(config.DB).Preload("Route").Preload("Community")
	if routeID != nil {
		q = q.Where("route_communities.route_id = ?", *routeID)
	}

	var links []models.RouteCommunity
	if err := q.Find(&links).Error; err != nil {
		respondError(c, err)
		return
	}

	resp := make([]RouteCommunityResponse, 0, len(links))
	for _, l := range links {
		resp = append(resp, toRouteCommunityResponse(l))
	}
	c.JSON(http.StatusOK, resp)
}

// GetRouteCommunities lists the communities linked to one route as {id, name}.
func GetRouteCommunities(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := findRoute(config.DB, id); err != nil {
		respondError(c, err)
		return
	}

	var out []CommunitySummary
	err = linkQuery(config.DB).
		Select("communities.id AS id, communities.name AS name").
		Where("route_communities.route_id = ?", id).
		Scan(&out).Error
	if err != nil {
		respondError(c, err)
		return
	}
	if out == nil {
		out = []CommunitySummary{}
	}
	c.JSON(http.StatusOK, out)
}

// AssignCommunity links a community to a route.
func AssignCommunity(c *gin.Context) {
	var input struct {
		RouteID     *uint `json:"route_id" binding:"required"`
		CommunityID *uint `json:"community_id" binding:"required"`
	}
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}

	route, err := findRoute(config.DB, *input.RouteID)
	if err != nil {
		respondError(c, err)
		return
	}
	var community models.Community
	if err := config.DB.First(&community, *input.CommunityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = apperrors.NotFound("Community not found")
		}
		respondError(c, err)
		return
	}

	var existing int64
	if err := config.DB.Model(&models.RouteCommunity{}).
		Where("route_id = ? AND community_id = ?", route.ID, community.ID).
		Count(&existing).Error; err != nil {
		respondError(c, err)
		return
	}
	if existing > 0 {
		respondError(c, apperrors.Conflict(duplicateRouteCommunityMsg))
		return
	}

	link := models.RouteCommunity{RouteID: route.ID, CommunityID: community.ID}
	if err := config.DB.Omit("Route", "Community").Create(&link).Error; err != nil {
		respondError(c, conflictOr(err, duplicateRouteCommunityMsg))
		return
	}

	link.Route = &route
	link.Community = &community
	c.JSON(http.StatusCreated, toRouteCommunityResponse(link))
}

// UnassignCommunity deletes a link row by its own id.
func UnassignCommunity(c *gin.Context) {
	deleteByID(c, &models.RouteCommunity{}, "Assignment not found", "Community unassigned from route")
}
