package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/apperrors"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/config"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/mailer"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/middleware"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/models"
)

// Mail delivers password-reset links. main swaps in SendGrid when configured.
var Mail mailer.Mailer = mailer.NewLog()

const (
	minPasswordLength  = 8
	forgotPasswordResp = "If the email is registered, a reset link has been sent"
	duplicateUserMsg   = "A user with this username or email already exists"
)

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPasswordLength(field, password string) error {
	if len([]rune(password)) < minPasswordLength {
		return apperrors.Invalid(field, fmt.Sprintf("%s must be at least %d characters", field, minPasswordLength))
	}
	return nil
}

// currentUser loads the authenticated user from the store.
func currentUser(c *gin.Context) (models.User, error) {
	var user models.User
	err := config.DB.First(&user, middleware.CurrentUserID(c)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, apperrors.Unauthorized("User no longer exists")
	}
	return user, err
}

func issueTokens(user models.User) (gin.H, error) {
	access, err := middleware.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := middleware.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}
	return gin.H{
		"access":   access,
		"refresh":  refresh,
		"role":     user.Role,
		"username": user.Username,
		"user_id":  user.ID,
	}, nil
}

// LoginUser authenticates by email or username.
func LoginUser(c *gin.Context) {
	var body struct {
		Identifier string `json:"identifier"`
		Username   string `json:"username"`
		Email      string `json:"email"`
		Password   string `json:"password"`
	}
	if err := bindJSON(c, &body); err != nil {
		respondError(c, err)
		return
	}

	identifier := strings.TrimSpace(body.Identifier)
	if identifier == "" {
		identifier = strings.TrimSpace(body.Email)
	}
	if identifier == "" {
		identifier = strings.TrimSpace(body.Username)
	}
	if identifier == "" || body.Password == "" {
		respondError(c, &apperrors.ValidationError{
			Message: "identifier and password are required",
			Fields:  map[string]string{"identifier": "this field is required", "password": "this field is required"},
		})
		return
	}

	var user models.User
	key := strings.ToLower(identifier)
	err := config.DB.Where("LOWER(email) = ? OR LOWER(username) = ?", key, key).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		} else {
			respondError(c, err)
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is disabled"})
		return
	}

	tokens, err := issueTokens(user)
	if err != nil {
		respondError(c, err)
		return
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("User logged in")
	c.JSON(http.StatusOK, tokens)
}

// RefreshToken exchanges a refresh token for a new access token.
func RefreshToken(c *gin.Context) {
	var body struct {
		Refresh string `json:"refresh" binding:"required"`
	}
	if err := bindJSON(c, &body); err != nil {
		respondError(c, err)
		return
	}

	claims, err := middleware.ParseToken(body.Refresh, middleware.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, claims.UserID).Error; err != nil || !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		return
	}

	access, err := middleware.GenerateAccessToken(user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}

// RegisterUser creates an active citizen or collector account.
func RegisterUser(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required,max=150"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}

	role := models.RoleCitizen
	if strings.TrimSpace(input.Role) != "" {
		parsed, err := models.ParseRole(input.Role)
		if err != nil {
			respondError(c, err)
			return
		}
		role = parsed
	}
	if role == models.RoleAdmin {
		respondError(c, apperrors.Forbidden("Administrator accounts cannot be self-registered"))
		return
	}

	username := plainText(input.Username)
	if username == "" {
		respondError(c, apperrors.Invalid("username", "username is required"))
		return
	}
	if err := checkPasswordLength("password", input.Password); err != nil {
		respondError(c, err)
		return
	}

	email := models.NormalizeEmail(input.Email)
	var taken int64
	if err := config.DB.Model(&models.User{}).
		Where("LOWER(email) = ? OR LOWER(username) = ?", email, strings.ToLower(username)).
		Count(&taken).Error; err != nil {
		respondError(c, err)
		return
	}
	if taken > 0 {
		respondError(c, apperrors.Conflict(duplicateUserMsg))
		return
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: hashed,
		Role:     role,
		IsActive: true,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		respondError(c, conflictOr(err, duplicateUserMsg))
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

// ChangePassword requires the current password.
func ChangePassword(c *gin.Context) {
	var input struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}
	if err := checkPasswordLength("new_password", input.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	user, err := currentUser(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.OldPassword)); err != nil {
		respondError(c, apperrors.Invalid("old_password", "Current password is incorrect"))
		return
	}

	hashed, err := hashPassword(input.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := config.DB.Model(&user).Update("password", hashed).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// ForgotPassword always answers the same way so addresses cannot be probed.
func ForgotPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}

	var user models.User
	err := config.DB.Where("LOWER(email) = ? AND is_active = ?", models.NormalizeEmail(input.Email), true).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithError(err).Error("ForgotPassword: user lookup failed")
		}
		c.JSON(http.StatusOK, gin.H{"message": forgotPasswordResp})
		return
	}

	cfg := config.Current()
	token := models.NewPasswordResetToken(user.ID, cfg.Mail.ResetTokenTTL, time.Now())
	if err := config.DB.Omit("User").Create(&token).Error; err != nil {
		logrus.WithError(err).Error("ForgotPassword: could not store reset token")
		c.JSON(http.StatusOK, gin.H{"message": forgotPasswordResp})
		return
	}

	link := strings.TrimRight(cfg.Mail.ResetURLBase, "/") + "/" + token.Token
	msg := mailer.Message{
		To:          mail.Address{Name: user.Username, Address: user.Email},
		Subject:     "Restablecer contraseña",
		TextContent: "Para restablecer tu contraseña abre el siguiente enlace (válido por una hora): " + link,
	}
	if err := Mail.Send(c.Request.Context(), msg); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("ForgotPassword: could not send reset email")
	}

	c.JSON(http.StatusOK, gin.H{"message": forgotPasswordResp})
}

// ResetPassword consumes a reset token and sets the new password.
func ResetPassword(c *gin.Context) {
	var input struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}
	if err := checkPasswordLength("new_password", input.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	hashed, err := hashPassword(input.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}

	invalid := apperrors.Invalid("token", "Invalid or expired token")
	now := time.Now()

	tx := config.DB.Begin()
	if tx.Error != nil {
		respondError(c, tx.Error)
		return
	}

	var token models.PasswordResetToken
	if err := tx.Where("token = ?", strings.TrimSpace(input.Token)).First(&token).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = invalid
		}
		respondError(c, err)
		return
	}
	if !token.Usable(now) {
		tx.Rollback()
		respondError(c, invalid)
		return
	}

	if err := tx.Model(&models.User{}).Where("id = ?", token.UserID).Update("password", hashed).Error; err != nil {
		tx.Rollback()
		respondError(c, err)
		return
	}
	if err := tx.Model(&token).Update("used_at", now).Error; err != nil {
		tx.Rollback()
		respondError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}
