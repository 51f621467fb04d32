package models

import (
	"time"
)

type MenuCategory struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	RestaurantID string    `json:"restaurantId" gorm:"type:uuid;index;not null"`
	Name         string    `json:"name" gorm:"not null"`
	DisplayOrder int       `json:"displayOrder" gorm:"default:0"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Items []MenuItem `json:"items,omitempty" gorm:"foreignKey:CategoryID"`
}

type MenuItem struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	RestaurantID string    `json:"restaurantId" gorm:"type:uuid;index;not null"`
	CategoryID   string    `json:"categoryId" gorm:"type:uuid;index;not null"`
	Name         string    `json:"name" gorm:"not null"`
	Description  string    `json:"description"`
	// Prices are stored in minor units to avoid float rounding.
	PriceCents   int64     `json:"priceCents" gorm:"not null"`
	ImageURL     string    `json:"imageUrl"`
	Available    bool      `json:"available" gorm:"default:true"`
	DisplayOrder int       `json:"displayOrder" gorm:"default:0"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type MenuCategoryInput struct {
	Name         string `json:"name" binding:"required"`
	DisplayOrder int    `json:"displayOrder"`
}

type MenuItemInput struct {
	CategoryID   string `json:"categoryId" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	PriceCents   int64  `json:"priceCents" binding:"required,gt=0"`
	ImageURL     string `json:"imageUrl"`
	Available    *bool  `json:"available"`
	DisplayOrder int    `json:"displayOrder"`
}
