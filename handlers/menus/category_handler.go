package menus

import (
	"net/http"

	"github.com/manaujo/Chef-Cardapio-sub000/models"
	"github.com/manaujo/Chef-Cardapio-sub000/utils"

	"github.com/gin-gonic/gin"
)

// CreateCategory adds a menu category
// @Summary Create a menu category
// @Tags menu
// @Accept json
// @Produce json
// @Param category body models.MenuCategoryInput true "Category information"
// @Security BearerAuth
// @Success 201 {object} models.MenuCategory
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /categories [post]
func (h *Handler) CreateCategory(c *gin.Context) {
	restaurant, ok := h.restaurantForOwner(c)
	if !ok {
		return
	}

	var input models.MenuCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	category := models.MenuCategory{
		RestaurantID: restaurant.ID,
		Name:         input.Name,
		DisplayOrder: input.DisplayOrder,
	}
	if err := h.db.Create(&category).Error; err != nil {
		utils.LogError(err, "creating category failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating category"})
		return
	}

	c.JSON(http.StatusCreated, category)
}

// GetCategories lists the restaurant's categories with their items
// @Summary List menu categories
// @Tags menu
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.MenuCategory
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /categories [get]
func (h *Handler) GetCategories(c *gin.Context) {
	restaurant, ok := h.restaurantForOwner(c)
	if !ok {
		return
	}

	var categories []models.MenuCategory
	err := h.db.
		Where("restaurant_id = ?", restaurant.ID).
		Order("display_order ASC, name ASC").
		Preload("Items").
		Find(&categories).Error
	if err != nil {
		utils.LogError(err, "listing categories failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching categories"})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// UpdateCategory renames or reorders a category
// @Summary Update a menu category
// @Tags menu
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param category body models.MenuCategoryInput true "Category information"
// @Security BearerAuth
// @Success 200 {object} models.MenuCategory
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 404 {object} map[string]string "error: Category not found"
// @Router /categories/{id} [put]
func (h *Handler) UpdateCategory(c *gin.Context) {
	restaurant, ok := h.restaurantForOwner(c)
	if !ok {
		return
	}

	var category models.MenuCategory
	if err := h.db.First(&category, "id = ? AND restaurant_id = ?", c.Param("id"), restaurant.ID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var input models.MenuCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	err := h.db.Model(&category).Updates(map[string]interface{}{
		"name":          input.Name,
		"display_order": input.DisplayOrder,
	}).Error
	if err != nil {
		utils.LogError(err, "updating category failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating category"})
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a category and its items
// @Summary Delete a menu category
// @Tags menu
// @Produce json
// @Param id path string true "Category ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Category deleted"
// @Failure 404 {object} map[string]string "error: Category not found"
// @Router /categories/{id} [delete]
func (h *Handler) DeleteCategory(c *gin.Context) {
	restaurant, ok := h.restaurantForOwner(c)
	if !ok {
		return
	}

	var category models.MenuCategory
	if err := h.db.First(&category, "id = ? AND restaurant_id = ?", c.Param("id"), restaurant.ID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	if err := h.db.Where("category_id = ?", category.ID).Delete(&models.MenuItem{}).Error; err != nil {
		utils.LogError(err, "deleting category items failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting category"})
		return
	}
	if err := h.db.Delete(&category).Error; err != nil {
		utils.LogError(err, "deleting category failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
