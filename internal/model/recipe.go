package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

type Recipe struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`
	Title          string           `gorm:"size:255;not null" json:"title"`
	Description    string           `gorm:"type:text;not null" json:"description"`
	Ingredients    JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Steps          JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"steps"`
	ImageURL       *string          `gorm:"size:512" json:"image_url"`
	ImageSourceURL *string          `gorm:"size:512" json:"image_source_url"`
	MealType       string           `gorm:"size:50" json:"meal_type"`
	Cuisine        string           `gorm:"size:50" json:"cuisine"`
	IsFavorite     bool             `gorm:"not null;default:false" json:"is_favorite"`
	UserID         uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
}
