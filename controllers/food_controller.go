package controllers

import (
	"net/http"
	"strconv"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type FoodController struct {
	Svc *services.FoodService
}

func NewFoodController(svc *services.FoodService) *FoodController {
	return &FoodController{Svc: svc}
}

// Standard serving measure used when the client does not send one.
const defaultMeasureURI = "http://www.edamam.com/ontologies/edamam.owl#Measure_serving"

// GET /food/search?q=apple
func (h *FoodController) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(400, gin.H{"error": "q is required"})
		return
	}

	out, err := h.Svc.Search(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, out)
}

// GET /food/nutrients?foodId=...&measureURI=...&qty=1.5
func (h *FoodController) Nutrients(c *gin.Context) {
	foodID := c.Query("foodId")
	if foodID == "" {
		c.JSON(400, gin.H{"error": "foodId is required"})
		return
	}
	measureURI := c.Query("measureURI")
	if measureURI == "" {
		measureURI = defaultMeasureURI
	}
	qty, err := strconv.ParseFloat(c.DefaultQuery("qty", "1"), 64)
	if err != nil || qty <= 0 {
		c.JSON(400, gin.H{"error": "invalid qty"})
		return
	}

	nutrients, err := h.Svc.Nutrients(c.Request.Context(), foodID, measureURI, qty)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"food_id": foodID, "qty": qty, "nutrients": nutrients})
}
