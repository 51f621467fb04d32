package public

import (
	"net/http"
	"strconv"

	"github.com/manaujo/Chef-Cardapio-sub000/models"
	"github.com/manaujo/Chef-Cardapio-sub000/utils"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

// Handler serves the customer-facing menu pages. No authentication; the
// slug is the only key.
type Handler struct {
	db            *gorm.DB
	publicBaseURL string
}

func NewHandler(db *gorm.DB, publicBaseURL string) *Handler {
	return &Handler{db: db, publicBaseURL: publicBaseURL}
}

// GetMenu returns the published menu for a restaurant
// @Summary Public menu
// @Description Return the restaurant profile with its categories and available items. This is what the QR code points customers at.
// @Tags public
// @Produce json
// @Param slug path string true "Restaurant slug"
// @Success 200 {object} map[string]interface{} "restaurant, categories"
// @Failure 404 {object} map[string]string "error: Menu not found"
// @Router /menu/{slug} [get]
func (h *Handler) GetMenu(c *gin.Context) {
	var restaurant models.Restaurant
	if err := h.db.First(&restaurant, "slug = ?", c.Param("slug")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu not found"})
		return
	}

	var categories []models.MenuCategory
	err := h.db.
		Where("restaurant_id = ?", restaurant.ID).
		Order("display_order ASC, name ASC").
		Preload("Items", "available = ?", true).
		Find(&categories).Error
	if err != nil {
		utils.LogError(err, "loading public menu failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading menu"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurant": restaurant,
		"categories": categories,
	})
}

// GetQRCode renders a QR code pointing at the public menu
// @Summary Menu QR code
// @Description Return a PNG QR code encoding the public menu URL, for printing on tables and flyers.
// @Tags public
// @Produce png
// @Param slug path string true "Restaurant slug"
// @Param size query int false "Image size in pixels (128-1024, default 256)"
// @Success 200 {string} binary "PNG image"
// @Failure 400 {object} map[string]string "error: Invalid size"
// @Failure 404 {object} map[string]string "error: Menu not found"
// @Router /menu/{slug}/qrcode [get]
func (h *Handler) GetQRCode(c *gin.Context) {
	slug := c.Param("slug")

	var restaurant models.Restaurant
	if err := h.db.First(&restaurant, "slug = ?", slug).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu not found"})
		return
	}

	size := 256
	if raw := c.Query("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 128 || parsed > 1024 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size must be between 128 and 1024"})
			return
		}
		size = parsed
	}

	png, err := qrcode.Encode(h.publicBaseURL+"/menu/"+slug, qrcode.Medium, size)
	if err != nil {
		utils.LogError(err, "encoding QR code failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating QR code"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
