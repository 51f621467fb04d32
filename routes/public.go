package routes

import (
	"github.com/gin-gonic/gin"
)

func PublicRoutes(r *gin.Engine, h Handlers) {
	menuRoutes := r.Group("/menu")
	{
		menuRoutes.GET("/:slug", h.Public.GetMenu)
		menuRoutes.GET("/:slug/qrcode", h.Public.GetQRCode)
	}
}
