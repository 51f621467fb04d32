package main

import (
	"log"

	"github.com/manaujo/Chef-Cardapio-sub000/billing"
	"github.com/manaujo/Chef-Cardapio-sub000/config"
	"github.com/manaujo/Chef-Cardapio-sub000/db"
	authhandlers "github.com/manaujo/Chef-Cardapio-sub000/handlers/auth"
	billinghandlers "github.com/manaujo/Chef-Cardapio-sub000/handlers/billing"
	"github.com/manaujo/Chef-Cardapio-sub000/handlers/menus"
	"github.com/manaujo/Chef-Cardapio-sub000/handlers/public"
	"github.com/manaujo/Chef-Cardapio-sub000/payments"
	"github.com/manaujo/Chef-Cardapio-sub000/routes"

	"github.com/gin-gonic/gin"
)

// @title Chef Cardapio API
// @version 1.0
// @description Backend for the Chef Cardapio digital menu platform: menu management, public menu pages with QR sharing, and Stripe subscription billing.
// @host localhost:8080
// @BasePath /
// @SecurityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the JWT with the Bearer prefix: Bearer <JWT>
func main() {
	gin.SetMode(gin.ReleaseMode)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}

	conn, err := db.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("initializing database: %v", err)
	}

	stripeClient := payments.NewStripeClient(cfg.Stripe.SecretKey, cfg.Stripe.Timeout)
	billingService := billing.NewService(conn, stripeClient)

	r := routes.SetupRouter(routes.Handlers{
		Auth:      authhandlers.NewHandler(conn, cfg.JWTSecret),
		Billing:   billinghandlers.NewHandler(billingService, cfg.Stripe.WebhookSecret),
		Menus:     menus.NewHandler(conn),
		Public:    public.NewHandler(conn, cfg.PublicBaseURL),
		JWTSecret: cfg.JWTSecret,
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("starting server:", err)
	}
}
