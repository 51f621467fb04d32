package menus

import (
	"net/http"

	"github.com/manaujo/Chef-Cardapio-sub000/models"
	"github.com/manaujo/Chef-Cardapio-sub000/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// restaurantForOwner loads the caller's restaurant; every dashboard
// route is scoped through it.
func (h *Handler) restaurantForOwner(c *gin.Context) (*models.Restaurant, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	var restaurant models.Restaurant
	if err := h.db.First(&restaurant, "owner_id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return nil, false
	}
	return &restaurant, true
}

// GetRestaurant returns the caller's restaurant profile
// @Summary Get the restaurant profile
// @Tags restaurant
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Restaurant
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Restaurant not found"
// @Router /restaurant [get]
func (h *Handler) GetRestaurant(c *gin.Context) {
	restaurant, ok := h.restaurantForOwner(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

// UpdateRestaurant updates the profile used on the public menu page
// @Summary Update the restaurant profile
// @Tags restaurant
// @Accept json
// @Produce json
// @Param restaurant body models.RestaurantUpdate true "Profile fields"
// @Security BearerAuth
// @Success 200 {object} models.Restaurant
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /restaurant [put]
func (h *Handler) UpdateRestaurant(c *gin.Context) {
	restaurant, ok := h.restaurantForOwner(c)
	if !ok {
		return
	}

	var input models.RestaurantUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	updates := map[string]interface{}{
		"name": input.Name,
	}
	if input.ThemeColor != "" {
		updates["theme_color"] = input.ThemeColor
	}
	if input.LogoURL != "" {
		updates["logo_url"] = input.LogoURL
	}
	if input.Currency != "" {
		updates["currency"] = input.Currency
	}

	if err := h.db.Model(restaurant).Updates(updates).Error; err != nil {
		utils.LogError(err, "updating restaurant failed")
		utils.SendError(c, http.StatusInternalServerError, "Error updating restaurant")
		return
	}

	utils.SendSuccess(c, http.StatusOK, "Restaurant updated", restaurant)
}
