package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MealController struct {
	Svc *services.MealService
}

func NewMealController(svc *services.MealService) *MealController {
	return &MealController{Svc: svc}
}

// POST /meals
func (h *MealController) LogMeal(c *gin.Context) {
	uid := c.GetUint("userID")

	var req services.MealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	meal, err := h.Svc.AddMeal(c.Request.Context(), uid, req)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, meal)
}

// GET /meals
func (h *MealController) ListMeals(c *gin.Context) {
	uid := c.GetUint("userID")

	meals, err := h.Svc.ListMeals(c.Request.Context(), uid)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, meals)
}

// GET /meals/:id
func (h *MealController) GetMeal(c *gin.Context) {
	uid := c.GetUint("userID")
	mealID, ok := mealIDParam(c)
	if !ok {
		return
	}

	meal, err := h.Svc.GetMeal(c.Request.Context(), uid, mealID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, meal)
}

// PUT /meals/:id
func (h *MealController) UpdateMeal(c *gin.Context) {
	uid := c.GetUint("userID")
	mealID, ok := mealIDParam(c)
	if !ok {
		return
	}

	var req services.MealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	meal, err := h.Svc.UpdateMeal(c.Request.Context(), uid, mealID, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, meal)
}

// DELETE /meals/:id
func (h *MealController) DeleteMeal(c *gin.Context) {
	uid := c.GetUint("userID")
	mealID, ok := mealIDParam(c)
	if !ok {
		return
	}

	if err := h.Svc.DeleteMeal(c.Request.Context(), uid, mealID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"deleted": mealID})
}

func mealIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid meal id"})
		return 0, false
	}
	return uint(id), true
}
