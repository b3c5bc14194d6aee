package domain

import "time"

type Property struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	OwnerID   int64     `json:"owner_id" gorm:"index;not null"`
	Name      string    `json:"name" gorm:"not null" validate:"required"`
	Address   string    `json:"address" gorm:"type:text"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Owner *User `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}

func (Property) TableName() string { return "properties" }
