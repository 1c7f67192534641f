package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/apperrors"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/config"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/middleware"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/models"
)

// ListMyNotifications returns the caller's visible notifications, newest first.
func ListMyNotifications(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	var notifications []models.Notification
	err := config.DB.
		Preload("Usuario").Preload("Sender").
		Where("usuario_id = ? AND visibility = ?", userID, models.VisibilityVisible).
		Order("created_at DESC").Order("id DESC").
		Find(&notifications).Error
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toNotificationResponses(notifications))
}

func toNotificationResponses(ns []models.Notification) []NotificationResponse {
	resp := make([]NotificationResponse, 0, len(ns))
	for _, n := range ns {
		resp = append(resp, toNotificationResponse(n))
	}
	return resp
}

// ownNotification loads a notification addressed to the caller.
func ownNotification(c *gin.Context) (models.Notification, error) {
	var n models.Notification
	id, err := parseID(c, "id")
	if err != nil {
		return n, err
	}
	err = config.DB.Where("id = ? AND usuario_id = ?", id, middleware.CurrentUserID(c)).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return n, apperrors.NotFound("Notification not found")
	}
	return n, err
}

// DeleteMyNotification hides a notification for its recipient. Hidden ones
// are left as they are.
func DeleteMyNotification(c *gin.Context) {
	n, err := ownNotification(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if n.HideForRecipient(time.Now()) {
		err := config.DB.Model(&n).Updates(map[string]interface{}{
			"visibility":      n.Visibility,
			"user_deleted_at": n.UserDeletedAt,
		}).Error
		if err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

// MarkNotificationRead sets estado to leida.
func MarkNotificationRead(c *gin.Context) {
	n, err := ownNotification(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if !n.VisibleToRecipient() {
		respondError(c, apperrors.NotFound("Notification not found"))
		return
	}

	if n.MarkRead() {
		if err := config.DB.Model(&n).Update("estado", n.Estado).Error; err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// ListMessages is the admin view: everything not globally hidden unless
// include_deleted=true.
func ListMessages(c *gin.Context) {
	includeDeleted, _ := strconv.ParseBool(c.DefaultQuery("include_deleted", "false"))

	q := config.DB.Preload("Usuario").Preload("Sender").Order("created_at DESC").Order("id DESC")
	if !includeDeleted {
		q = q.Where("visibility <> ?", models.VisibilityHiddenGlobally)
	}

	var notifications []models.Notification
	if err := q.Find(&notifications).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toNotificationResponses(notifications))
}

// SendMessage creates one notification for user_id, or one per active user
// when no recipient is given.
func SendMessage(c *gin.Context) {
	var input struct {
		Message   string `json:"message"`
		UserID    *uint  `json:"user_id"`
		Broadcast bool   `json:"broadcast"`
	}
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}

	message, err := cleanText("message", input.Message, models.MaxMessageLength)
	if err != nil {
		respondError(c, err)
		return
	}

	senderID := middleware.CurrentUserID(c)
	var recipients []uint
	if input.UserID != nil && !input.Broadcast {
		var user models.User
		if err := config.DB.First(&user, *input.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				err = apperrors.NotFound("User not found")
			}
			respondError(c, err)
			return
		}
		recipients = []uint{user.ID}
	} else {
		if err := config.DB.Model(&models.User{}).
			Where("is_active = ?", true).
			Order("id").
			Pluck("id", &recipients).Error; err != nil {
			respondError(c, err)
			return
		}
	}

	notifications := make([]models.Notification, 0, len(recipients))
	for _, id := range recipients {
		notifications = append(notifications, models.NewNotification(id, &senderID, message))
	}
	if len(notifications) > 0 {
		if err := config.DB.Omit("Usuario", "Sender").CreateInBatches(&notifications, 200).Error; err != nil {
			respondError(c, err)
			return
		}
	}

	logrus.WithFields(logrus.Fields{
		"sender":     senderID,
		"recipients": len(notifications),
	}).Info("Notification sent")

	if input.UserID != nil && !input.Broadcast {
		sent := notifications[0]
		if err := config.DB.Preload("Usuario").Preload("Sender").First(&sent, sent.ID).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, toNotificationResponse(sent))
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Notification sent",
		"count":   len(notifications),
	})
}

// DeleteMessage hides a notification for everyone.
func DeleteMessage(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var n models.Notification
	if err := config.DB.First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = apperrors.NotFound("Notification not found")
		}
		respondError(c, err)
		return
	}

	if n.HideGlobally() {
		if err := config.DB.Model(&n).Update("visibility", n.Visibility).Error; err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted for all users"})
}
