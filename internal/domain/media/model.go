package media

import (
	"fmt"
	"io"
	"time"
)

const (
	KindImage = "image"
	KindVideo = "video"
)

type MediaAsset struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	PropertyID string    `gorm:"type:uuid;not null;index"`
	Kind       string    `gorm:"type:varchar(16);not null"`
	Filename   string    `gorm:"not null"`
	MimeType   string    `gorm:"not null"`
	SizeBytes  int64
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// URL is the public path the static file server exposes the asset under.
func (a MediaAsset) URL() string {
	return fmt.Sprintf("/media/%s/%s", PropertyDir(a.PropertyID), a.Filename)
}

// PropertyDir is the per-property directory name inside the upload root.
func PropertyDir(propertyID string) string {
	return "property_" + propertyID
}

// Upload is one incoming file of an upload request.
type Upload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}
