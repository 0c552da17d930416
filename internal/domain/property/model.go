package property

import "time"

type Property struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	OwnerID   string    `gorm:"type:uuid;not null;index"`
	Size      *int
	Location  *string
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
