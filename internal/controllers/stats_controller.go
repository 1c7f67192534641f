package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/config"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/pdf"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/stats"
)

// GenerateReport returns the summary counters as JSON.
func GenerateReport(c *gin.Context) {
	summary, err := stats.Compute(c.Request.Context(), config.DB, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GenerateReportPDF returns the summary and the report listing as a PDF.
func GenerateReportPDF(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now()

	summary, err := stats.Compute(ctx, config.DB, now)
	if err != nil {
		respondError(c, err)
		return
	}
	reports, err := stats.Reports(ctx, config.DB)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := pdf.RenderSummary(summary, reports, now)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+pdf.Filename)
	c.Data(http.StatusOK, "application/pdf", data)
}

// Health pings the database.
func Health(c *gin.Context) {
	sqlDB, err := config.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
