package routes

import (
	"github.com/manaujo/Chef-Cardapio-sub000/middleware"

	"github.com/gin-gonic/gin"
)

func MenuRoutes(r *gin.Engine, h Handlers) {
	auth := middleware.JWTAuth(h.JWTSecret)

	restaurantRoutes := r.Group("/restaurant")
	restaurantRoutes.Use(auth)
	{
		restaurantRoutes.GET("", h.Menus.GetRestaurant)
		restaurantRoutes.PUT("", h.Menus.UpdateRestaurant)
	}

	categoryRoutes := r.Group("/categories")
	categoryRoutes.Use(auth)
	{
		categoryRoutes.GET("", h.Menus.GetCategories)
		categoryRoutes.POST("", h.Menus.CreateCategory)
		categoryRoutes.PUT("/:id", h.Menus.UpdateCategory)
		categoryRoutes.DELETE("/:id", h.Menus.DeleteCategory)
	}

	itemRoutes := r.Group("/items")
	itemRoutes.Use(auth)
	{
		itemRoutes.GET("", h.Menus.GetItems)
		itemRoutes.POST("", h.Menus.CreateItem)
		itemRoutes.PUT("/:id", h.Menus.UpdateItem)
		itemRoutes.DELETE("/:id", h.Menus.DeleteItem)
	}
}
