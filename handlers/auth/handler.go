package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/manaujo/Chef-Cardapio-sub000/models"
	"github.com/manaujo/Chef-Cardapio-sub000/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Handler struct {
	db        *gorm.DB
	jwtSecret string
}

func NewHandler(db *gorm.DB, jwtSecret string) *Handler {
	return &Handler{db: db, jwtSecret: jwtSecret}
}

// Register creates an account plus its restaurant profile
// @Summary Register a new restaurant owner
// @Description Create a user account and an empty restaurant profile with a unique slug.
// @Tags auth
// @Accept json
// @Produce json
// @Param user body models.UserRegister true "Account information"
// @Success 201 {object} map[string]string "message, email"
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 409 {object} map[string]string "error: Email already registered"
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var input models.UserRegister
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var existing models.User
	if err := h.db.First(&existing, "email = ?", input.Email).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.LogError(err, "hashing password failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user"})
		return
	}

	user := models.User{
		Email:        input.Email,
		PasswordHash: string(hash),
		Name:         input.Name,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		name := input.Name
		if name == "" {
			name = "My Restaurant"
		}
		restaurant := models.Restaurant{
			OwnerID: user.ID,
			Name:    name,
			Slug:    makeSlug(name),
		}
		return tx.Create(&restaurant).Error
	})
	if err != nil {
		utils.LogError(err, "creating user failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user"})
		return
	}

	utils.LogSuccess("user registered: " + user.Email)
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "email": user.Email})
}

// Login authenticates a user and issues a JWT
// @Summary Log in
// @Description Verify credentials and return a bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body models.UserLogin true "Credentials"
// @Success 200 {object} map[string]string "token"
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Invalid credentials"
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var input models.UserLogin
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var user models.User
	err := h.db.First(&user, "email = ?", input.Email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		utils.LogError(err, "looking up user failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error logging in"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateJWT(h.jwtSecret, user.ID, user.Email, 72)
	if err != nil {
		utils.LogError(err, "signing token failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error logging in"})
		return
	}

	utils.LogSuccessWithUser(user.ID, "user logged in")
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// makeSlug derives a URL-safe slug from the restaurant name with a short
// random suffix so two restaurants with the same name never collide.
func makeSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "menu"
	}
	return slug + "-" + uuid.NewString()[:8]
}
