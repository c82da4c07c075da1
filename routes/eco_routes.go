package routes

import (
	"ecotrip/internal/handlers"

	"github.com/gin-gonic/gin"
)

func SetupEcoRoutes(group *gin.RouterGroup, h *handlers.EcoHandler) {
	eco := group.Group("/eco")
	{
		eco.GET("/stats", h.GetStats)
		eco.GET("/stats/current", h.GetStat)
		eco.GET("/summary", h.GetSummary)
		eco.GET("/goals", h.GetGoals)
		eco.PUT("/goals", h.UpdateGoals)
	}
}
