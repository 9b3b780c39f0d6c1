package routes

import (
	"backend/controllers"
	"backend/middlewares"
	"backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, hub *services.RealtimeHub) *gin.Engine {
	r := gin.Default()

	nutrition := services.NewNutritionClient()
	foodSvc := services.NewFoodService(db, nutrition)
	mealSvc := services.NewMealService(db, foodSvc)
	glucoseSvc := services.NewGlucoseService(db, hub)
	analyticsSvc := services.NewAnalyticsService(mealSvc, glucoseSvc, foodSvc, services.DefaultAnalysisConfig())

	mealCtl := controllers.NewMealController(mealSvc)
	foodCtl := controllers.NewFoodController(foodSvc)
	glucoseCtl := controllers.NewGlucoseController(glucoseSvc)
	analyticsCtl := controllers.NewAnalyticsController(analyticsSvc)
	realtimeCtl := controllers.NewRealtimeController(hub)

	// Dev-only token mint (guarded by DEV_ENDPOINTS)
	dev := r.Group("/dev")
	{
		dev.POST("/token", controllers.MintDevToken)
	}

	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware())
	{
		glucose := api.Group("/glucose")
		{
			glucose.POST("/readings", glucoseCtl.SyncReadings)
			glucose.GET("/readings", glucoseCtl.ListReadings)
			glucose.GET("/alerts", glucoseCtl.ListAlerts)
		}

		meals := api.Group("/meals")
		{
			meals.POST("", mealCtl.LogMeal)
			meals.GET("", mealCtl.ListMeals)
			meals.GET("/:id", mealCtl.GetMeal)
			meals.PUT("/:id", mealCtl.UpdateMeal)
			meals.DELETE("/:id", mealCtl.DeleteMeal)
		}

		food := api.Group("/food")
		{
			food.GET("/search", foodCtl.Search)
			food.GET("/nutrients", foodCtl.Nutrients)
		}

		analytics := api.Group("/analytics")
		{
			analytics.GET("/responses", analyticsCtl.GetMealResponses)
			analytics.GET("/food-impact", analyticsCtl.GetFoodImpactScores)
			analytics.GET("/meals/ranked", analyticsCtl.GetBestAndWorstMeals)
			analytics.GET("/timing", analyticsCtl.GetOptimalMealTiming)
			analytics.GET("/insights", analyticsCtl.GetMealPatternInsights)
		}

		api.GET("/realtime/ws", realtimeCtl.StreamWS)
	}

	return r
}
