package controllers

import (
	"net/http"
	"time"

	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

type GlucoseController struct {
	Svc *services.GlucoseService
}

func NewGlucoseController(svc *services.GlucoseService) *GlucoseController {
	return &GlucoseController{Svc: svc}
}

// POST /glucose/readings: batch ingest from the device-sync collaborator
func (h *GlucoseController) SyncReadings(c *gin.Context) {
	uid := c.GetUint("userID")

	var body struct {
		Readings []services.ReadingInput `json:"readings" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	stored, err := h.Svc.SyncReadings(c.Request.Context(), uid, body.Readings)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, gin.H{"stored": len(stored), "skipped": len(body.Readings) - len(stored)})
}

// GET /glucose/readings?from=2025-01-01T00:00:00Z&to=...&units=mmol
func (h *GlucoseController) ListReadings(c *gin.Context) {
	uid := c.GetUint("userID")

	now := time.Now()
	from := now.AddDate(0, 0, -1)
	to := now
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(400, gin.H{"error": "invalid from timestamp"})
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(400, gin.H{"error": "invalid to timestamp"})
			return
		}
		to = t
	}
	if to.Before(from) {
		c.JSON(400, gin.H{"error": "`to` must be on/after `from`"})
		return
	}

	readings, err := h.Svc.ListReadings(c.Request.Context(), uid, from, to)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	if c.Query("units") == "mmol" {
		type mmolReading struct {
			Value      float64   `json:"value"` // mmol/L
			RecordedAt time.Time `json:"recorded_at"`
			Source     string    `json:"source"`
		}
		out := make([]mmolReading, 0, len(readings))
		for _, r := range readings {
			out = append(out, mmolReading{
				Value:      utils.MgDLToMmolL(r.Value),
				RecordedAt: r.RecordedAt,
				Source:     r.Source,
			})
		}
		c.JSON(200, gin.H{"readings": out, "units": "mmol/L"})
		return
	}
	c.JSON(200, gin.H{"readings": readings, "units": "mg/dL"})
}

// GET /glucose/alerts?limit=20
func (h *GlucoseController) ListAlerts(c *gin.Context) {
	uid := c.GetUint("userID")

	alerts, err := h.Svc.ListAlerts(c.Request.Context(), uid, intQuery(c, "limit", 20))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"alerts": alerts})
}
