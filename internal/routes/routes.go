package routes

import (
	"github.com/gin-gonic/gin"

	"careintake/internal/handlers"
)

func SetupRoutes(
	r *gin.Engine,
	verifyHandler *handlers.VerifyHandler,
	applicationHandler *handlers.ApplicationHandler,
) *gin.Engine {

	// ---- public, the whole intake flow is unauthenticated
	verification := r.Group("/verification")
	{
		verification.POST("/send", verifyHandler.SendCode)
		verification.POST("/confirm", verifyHandler.ConfirmCode)
	}

	r.POST("/applications", applicationHandler.Submit)

	return r
}
