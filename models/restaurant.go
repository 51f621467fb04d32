package models

import (
	"time"
)

// Restaurant is the public-facing profile a menu is published under.
// Each owner account has exactly one.
type Restaurant struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OwnerID    string    `json:"ownerId" gorm:"type:uuid;uniqueIndex;not null"`
	Name       string    `json:"name" gorm:"not null"`
	Slug       string    `json:"slug" gorm:"uniqueIndex;not null"`
	ThemeColor string    `json:"themeColor" gorm:"default:'#e11d48'"`
	LogoURL    string    `json:"logoUrl"`
	Currency   string    `json:"currency" gorm:"type:varchar(3);default:'BRL'"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type RestaurantUpdate struct {
	Name       string `json:"name" binding:"required"`
	ThemeColor string `json:"themeColor"`
	LogoURL    string `json:"logoUrl"`
	Currency   string `json:"currency"`
}
