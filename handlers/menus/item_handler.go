package menus

import (
	"net/http"

	"github.com/manaujo/Chef-Cardapio-sub000/models"
	"github.com/manaujo/Chef-Cardapio-sub000/utils"

	"github.com/gin-gonic/gin"
)

// CreateItem adds a dish to the menu
// @Summary Create a menu item
// @Tags menu
// @Accept json
// @Produce json
// @Param item body models.MenuItemInput true "Item information"
// @Security BearerAuth
// @Success 201 {object} models.MenuItem
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 404 {object} map[string]string "error: Category not found"
// @Router /items [post]
func (h *Handler) CreateItem(c *gin.Context) {
	restaurant, ok := h.restaurantForOwner(c)
	if !ok {
		return
	}

	var input models.MenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var category models.MenuCategory
	if err := h.db.First(&category, "id = ? AND restaurant_id = ?", input.CategoryID, restaurant.ID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	item := models.MenuItem{
		RestaurantID: restaurant.ID,
		CategoryID:   category.ID,
		Name:         input.Name,
		Description:  input.Description,
		PriceCents:   input.PriceCents,
		ImageURL:     input.ImageURL,
		Available:    true,
		DisplayOrder: input.DisplayOrder,
	}
	if input.Available != nil {
		item.Available = *input.Available
	}

	if err := h.db.Create(&item).Error; err != nil {
		utils.LogError(err, "creating menu item failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

// GetItems lists every item on the restaurant's menu
// @Summary List menu items
// @Tags menu
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.MenuItem
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /items [get]
func (h *Handler) GetItems(c *gin.Context) {
	restaurant, ok := h.restaurantForOwner(c)
	if !ok {
		return
	}

	var items []models.MenuItem
	err := h.db.
		Where("restaurant_id = ?", restaurant.ID).
		Order("display_order ASC, name ASC").
		Find(&items).Error
	if err != nil {
		utils.LogError(err, "listing menu items failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching items"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// UpdateItem edits a dish
// @Summary Update a menu item
// @Tags menu
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param item body models.MenuItemInput true "Item information"
// @Security BearerAuth
// @Success 200 {object} models.MenuItem
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 404 {object} map[string]string "error: Item not found"
// @Router /items/{id} [put]
func (h *Handler) UpdateItem(c *gin.Context) {
	restaurant, ok := h.restaurantForOwner(c)
	if !ok {
		return
	}

	var item models.MenuItem
	if err := h.db.First(&item, "id = ? AND restaurant_id = ?", c.Param("id"), restaurant.ID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	var input models.MenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	updates := map[string]interface{}{
		"category_id":   input.CategoryID,
		"name":          input.Name,
		"description":   input.Description,
		"price_cents":   input.PriceCents,
		"image_url":     input.ImageURL,
		"display_order": input.DisplayOrder,
	}
	if input.Available != nil {
		updates["available"] = *input.Available
	}

	if err := h.db.Model(&item).Updates(updates).Error; err != nil {
		utils.LogError(err, "updating menu item failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating item"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteItem removes a dish
// @Summary Delete a menu item
// @Tags menu
// @Produce json
// @Param id path string true "Item ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Item deleted"
// @Failure 404 {object} map[string]string "error: Item not found"
// @Router /items/{id} [delete]
func (h *Handler) DeleteItem(c *gin.Context) {
	restaurant, ok := h.restaurantForOwner(c)
	if !ok {
		return
	}

	var item models.MenuItem
	if err := h.db.First(&item, "id = ? AND restaurant_id = ?", c.Param("id"), restaurant.ID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	if err := h.db.Delete(&item).Error; err != nil {
		utils.LogError(err, "deleting menu item failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}
