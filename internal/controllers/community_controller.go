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

const duplicateCommunityMsg = "A community with this name already exists"

type communityInput struct {
	Name string `json:"name"`
}

func (in communityInput) cleanName() (string, error) {
	return cleanText("name", in.Name, 150)
}

// communityNameTaken reports whether another community already uses name.
func communityNameTaken(db *gorm.DB, name string, exceptID uint) (bool, error) {
	var count int64
	q := db.Model(&models.Community{}).Where("name_key = ?", models.CommunityKey(name))
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func ListCommunities(c *gin.Context) {
	var communities []models.Community
	if err := config.DB.Order("name ASC").Find(&communities).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, communities)
}

func CreateCommunity(c *gin.Context) {
	var input communityInput
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}
	name, err := input.cleanName()
	if err != nil {
		respondError(c, err)
		return
	}

	taken, err := communityNameTaken(config.DB, name, 0)
	if err != nil {
		respondError(c, err)
		return
	}
	if taken {
		respondError(c, apperrors.Conflict(duplicateCommunityMsg))
		return
	}

	community := models.Community{Name: name}
	if err := config.DB.Create(&community).Error; err != nil {
		respondError(c, conflictOr(err, duplicateCommunityMsg))
		return
	}
	c.JSON(http.StatusCreated, community)
}

// UpdateCommunity renames a community.
func UpdateCommunity(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var input communityInput
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}
	name, err := input.cleanName()
	if err != nil {
		respondError(c, err)
		return
	}

	var community models.Community
	if err := config.DB.First(&community, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = apperrors.NotFound("Community not found")
		}
		respondError(c, err)
		return
	}

	taken, err := communityNameTaken(config.DB, name, community.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if taken {
		respondError(c, apperrors.Conflict(duplicateCommunityMsg))
		return
	}

	community.Name = name
	if err := config.DB.Save(&community).Error; err != nil {
		respondError(c, conflictOr(err, duplicateCommunityMsg))
		return
	}
	c.JSON(http.StatusOK, community)
}

// DeleteCommunity removes a community and its route links; routes stay.
func DeleteCommunity(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		respondError(c, tx.Error)
		return
	}

	if err := tx.Where("community_id = ?", id).Delete(&models.RouteCommunity{}).Error; err != nil {
		tx.Rollback()
		respondError(c, err)
		return
	}

	res := tx.Delete(&models.Community{}, id)
	if res.Error != nil {
		tx.Rollback()
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		respondError(c, apperrors.NotFound("Community not found"))
		return
	}

	if err := tx.Commit().Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Community deleted"})
}
