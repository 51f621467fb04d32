package db

import (
	"fmt"

	"github.com/manaujo/Chef-Cardapio-sub000/models"
	"github.com/manaujo/Chef-Cardapio-sub000/utils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Init opens the Postgres connection and runs migrations. The handle is
// returned to the caller instead of stored in a package variable so every
// consumer receives it explicitly.
func Init(dsn string) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: utils.GetGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	err = conn.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.CustomerMapping{},
		&models.SubscriptionRecord{},
		&models.OrderRecord{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	utils.LogSuccess("Database connection successful")
	return conn, nil
}
