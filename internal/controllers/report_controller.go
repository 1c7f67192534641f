package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/apperrors"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/config"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/middleware"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/models"
)

func toReportResponses(reports []models.Report) []ReportResponse {
	resp := make([]ReportResponse, 0, len(reports))
	for _, r := range reports {
		resp = append(resp, toReportResponse(r))
	}
	return resp
}

// ListMyReports returns the caller's reports, newest first.
func ListMyReports(c *gin.Context) {
	var reports []models.Report
	err := config.DB.Preload("User").Preload("Admin").
		Where("user_id = ?", middleware.CurrentUserID(c)).
		Order("fecha DESC").Order("id DESC").
		Find(&reports).Error
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReportResponses(reports))
}

// CreateReport files a pending report for the caller.
func CreateReport(c *gin.Context) {
	var input struct {
		Tipo    string `json:"tipo"`
		Detalle string `json:"detalle"`
	}
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}

	tipo, err := models.ParseReportType(input.Tipo)
	if err != nil {
		respondError(c, err)
		return
	}
	detalle, err := cleanText("detalle", input.Detalle, models.MaxReportDetailLength)
	if err != nil {
		respondError(c, err)
		return
	}

	report := models.Report{
		Tipo:    tipo,
		Detalle: detalle,
		Status:  models.ReportPending,
		UserID:  middleware.CurrentUserID(c),
	}
	if err := config.DB.Omit("User", "Admin").Create(&report).Error; err != nil {
		respondError(c, err)
		return
	}

	if err := config.DB.Preload("User").First(&report, report.ID).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReportResponse(report))
}

// DeleteReport lets the filer remove their own report and an admin remove any.
func DeleteReport(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var report models.Report
	if err := config.DB.First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = apperrors.NotFound("Report not found")
		}
		respondError(c, err)
		return
	}

	if !report.CanBeDeletedBy(middleware.CurrentUserID(c), middleware.CurrentRole(c)) {
		respondError(c, apperrors.Forbidden("You do not have permission to delete this report"))
		return
	}

	if err := config.DB.Delete(&models.Report{}, report.ID).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report deleted"})
}

// ListReports is the admin view with an optional status filter.
func ListReports(c *gin.Context) {
	q := config.DB.Preload("User").Preload("Admin").Order("fecha DESC").Order("id DESC")
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, err := models.ParseReportStatus(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		q = q.Where("status = ?", status)
	}

	var reports []models.Report
	if err := q.Find(&reports).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReportResponses(reports))
}

// UpdateReportStatus moves a report between pending, resolved and unresolved
// and records the acting admin.
func UpdateReportStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}
	status, err := models.ParseReportStatus(input.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	var report models.Report
	if err := config.DB.First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = apperrors.NotFound("Report not found")
		}
		respondError(c, err)
		return
	}

	adminID := middleware.CurrentUserID(c)
	err = config.DB.Model(&report).Updates(map[string]interface{}{
		"status":   status,
		"admin_id": adminID,
	}).Error
	if err != nil {
		respondError(c, err)
		return
	}

	if err := config.DB.Preload("User").Preload("Admin").First(&report, report.ID).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReportResponse(report))
}
