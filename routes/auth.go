package routes

import (
	"github.com/gin-gonic/gin"
)

func AuthRoutes(r *gin.Engine, h Handlers) {
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", h.Auth.Register)
		authRoutes.POST("/login", h.Auth.Login)
	}
}
