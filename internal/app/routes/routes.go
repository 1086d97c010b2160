package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/qpidash/internal/app/controllers"
	"github.com/yigit/qpidash/internal/middleware"
	"github.com/yigit/qpidash/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	curriculumController *controllers.CurriculumController,
	sessionController *controllers.SessionController,
	componentController *controllers.ComponentController,
	liveHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	v1.GET("/curriculum", curriculumController.GetCurriculum)
	v1.POST("/sessions", sessionController.CreateSession)

	// --- Session routes ---
	me := v1.Group("/sessions/me")
	me.Use(authMiddleware.SessionAuth())
	{
		me.GET("", sessionController.GetSession)
		me.DELETE("", sessionController.DeleteSession)

		me.PUT("/grades/:subjectId", sessionController.SetGrade)
		me.PATCH("/grades", sessionController.SetGrades)
		me.GET("/dashboard", sessionController.GetDashboard)
		me.GET("/projection", sessionController.GetProjection)

		components := me.Group("/components")
		{
			components.GET("", componentController.GetComponents)
			components.PUT("", componentController.ReplaceComponents)
			components.DELETE("", componentController.ResetComponents)
			components.GET("/projection", componentController.GetComponentProjection)
		}

		me.GET("/live", liveHandler.HandleConnection)
	}
}
