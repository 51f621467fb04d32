package routes

import (
	"net/http"
	"time"

	authhandlers "github.com/manaujo/Chef-Cardapio-sub000/handlers/auth"
	billinghandlers "github.com/manaujo/Chef-Cardapio-sub000/handlers/billing"
	"github.com/manaujo/Chef-Cardapio-sub000/handlers/menus"
	"github.com/manaujo/Chef-Cardapio-sub000/handlers/public"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers bundles the constructed handler sets so SetupRouter receives
// everything it wires explicitly.
type Handlers struct {
	Auth      *authhandlers.Handler
	Billing   *billinghandlers.Handler
	Menus     *menus.Handler
	Public    *public.Handler
	JWTSecret string
}

func SetupRouter(h Handlers) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	AuthRoutes(r, h)
	BillingRoutes(r, h)
	MenuRoutes(r, h)
	PublicRoutes(r, h)

	return r
}
