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

// GetMe returns the caller's profile.
func GetMe(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateMyPhoto stores a photo reference; an empty value clears it.
func UpdateMyPhoto(c *gin.Context) {
	var input struct {
		Photo *string `json:"photo"`
	}
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}

	user, err := currentUser(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var photo *string
	if input.Photo != nil {
		if p := plainText(*input.Photo); p != "" {
			photo = &p
		}
	}
	if err := config.DB.Model(&user).Update("photo", photo).Error; err != nil {
		respondError(c, err)
		return
	}
	user.Photo = photo
	c.JSON(http.StatusOK, toUserResponse(user))
}

func ListUsers(c *gin.Context) {
	var users []models.User
	if err := config.DB.Order("id").Find(&users).Error; err != nil {
		respondError(c, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateUser changes a user's role and/or active flag.
func UpdateUser(c *gin.Context) {
	var input struct {
		ID       *uint   `json:"id" binding:"required"`
		Role     *string `json:"role"`
		IsActive *bool   `json:"is_active"`
	}
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}

	updates := map[string]interface{}{}
	if input.Role != nil {
		role, err := models.ParseRole(*input.Role)
		if err != nil {
			respondError(c, err)
			return
		}
		updates["role"] = role
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	var user models.User
	if err := config.DB.First(&user, *input.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = apperrors.NotFound("User not found")
		}
		respondError(c, err)
		return
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
			respondError(c, err)
			return
		}
		if err := config.DB.First(&user, user.ID).Error; err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}
