package catalog

import (
	"time"

	"github.com/mariiahub/booking-api/internal/domain/scheduling"
)

// Category groups the studio's offering.
type Category string

const (
	CategoryBeauty    Category = "beauty"
	CategoryFitness   Category = "fitness"
	CategoryLifestyle Category = "lifestyle"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryBeauty, CategoryFitness, CategoryLifestyle:
		return true
	}
	return false
}

// ServiceItem is one bookable treatment or class in the catalog.
type ServiceItem struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Category        Category  `json:"category"`
	Description     string    `json:"description,omitempty"`
	DurationMinutes int       `json:"durationMinutes"`
	Price           float64   `json:"price"`
	Active          bool      `json:"active"`
	Position        int       `json:"position"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (s ServiceItem) offer() scheduling.Offer {
	return scheduling.Offer{Price: s.Price, DurationMinutes: s.DurationMinutes}
}

// ServiceInput carries the editable fields of a ServiceItem.
type ServiceInput struct {
	Name            string   `json:"name"`
	Category        Category `json:"category"`
	Description     string   `json:"description"`
	DurationMinutes int      `json:"durationMinutes"`
	Price           float64  `json:"price"`
	Active          *bool    `json:"active"`
}

// ServiceFilter narrows ListServices.
type ServiceFilter struct {
	Category   Category
	ActiveOnly bool
}

// GalleryItem is an uploaded portfolio image.
type GalleryItem struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	StorageKey string    `json:"storageKey"`
	MimeType   string    `json:"mimeType"`
	SizeBytes  int64     `json:"sizeBytes"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"createdAt"`
}

// UploadRequest captures a multipart image submission.
type UploadRequest struct {
	Filename string
	Title    string
	MimeType string
	Content  []byte
}

// Config bounds gallery uploads.
type Config struct {
	MaxImageBytes int64
}
