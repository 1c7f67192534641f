package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/apperrors"
)

const uniqueViolationCode = "23505"

// respondError maps the apperrors taxonomy onto HTTP responses. Anything
// unrecognised is logged and surfaced as a generic 500.
func respondError(c *gin.Context, err error) {
	var vErr *apperrors.ValidationError
	if errors.As(err, &vErr) {
		body := gin.H{"error": vErr.Message}
		if len(vErr.Fields) > 0 {
			body["fields"] = vErr.Fields
		}
		c.JSON(http.StatusBadRequest, body)
		return
	}

	var appErr *apperrors.Error
	msg := err.Error()
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}

	switch {
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msg})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": msg})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// isUniqueViolation recognises duplicate-key errors from GORM's translator,
// pgx, lib/pq and SQLite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolationCode {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// conflictOr turns a duplicate-key error into a conflict carrying msg.
func conflictOr(err error, msg string) error {
	if isUniqueViolation(err) {
		return apperrors.Conflict("%s", msg)
	}
	return err
}
