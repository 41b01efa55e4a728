package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Asset store folders.
const (
	FolderProducts = "products"
	FolderBlogs    = "blogs"
)

// Categories offered by the admin forms. The server does not enforce them.
var Categories = []string{"Enchanted Dew", "Ethereal Petals", "Mystic Horizon"}

type Role string

const (
	RoleVisitor Role = "visitor"
	RoleAdmin   Role = "admin"
)

// ParseRole accepts only the closed set of roles.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleVisitor, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Role         Role      `json:"role" db:"role"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Images      []string  `json:"images"`
	ProductLink LinkSet   `json:"productLink"`
	IsFeatured  bool      `json:"isFeatured"`
	ComingSoon  bool      `json:"comingSoon"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Normalize replaces nil collections with empty ones so they encode as [].
func (p *Product) Normalize() {
	if p.Images == nil {
		p.Images = []string{}
	}
	p.ProductLink = NewLinkSet(p.ProductLink...)
}

// ProductPreview is the reduced projection returned by the random sample.
type ProductPreview struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

// ProductInput is the create payload. Images holds inline payloads (data: URIs) or existing URLs.
type ProductInput struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Images      []string `json:"images"`
	ProductLink LinkSet  `json:"productLink"`
	IsFeatured  bool     `json:"isFeatured"`
	ComingSoon  bool     `json:"comingSoon"`
}

// ProductUpdate is a partial update.
//
// Empty Name/Description/Category keep the stored value. An empty Images keeps the stored
// images; ClearImages is the only way to empty them. Nil ProductLink/ComingSoon keep the stored
// value, any non-nil value overwrites.
type ProductUpdate struct {
	Name          string   `json:"name,omitempty"`
	Description   string   `json:"description,omitempty"`
	Category      string   `json:"category,omitempty"`
	Images        []string `json:"images,omitempty"`
	ClearImages   bool     `json:"clearImages,omitempty"`
	RemovedImages []string `json:"removedImages,omitempty"`
	ProductLink   *LinkSet `json:"productLink,omitempty"`
	ComingSoon    *bool    `json:"comingSoon,omitempty"`
}

type Blog struct {
	ID              string    `json:"id" db:"id"`
	BlogTitle       string    `json:"blogTitle" db:"blog_title"`
	BlogDescription string    `json:"blogDescription" db:"blog_description"`
	BlogImage       string    `json:"blogImage" db:"blog_image"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// BlogInput is used for both create and update; update overwrites every field.
type BlogInput struct {
	BlogTitle       string `json:"blogTitle" validate:"required"`
	BlogDescription string `json:"blogDescription" validate:"required"`
	BlogImage       string `json:"blogImage" validate:"required"`
}

type UploadStatus string

const (
	// UploadPending is an uploaded asset whose owning entity has not been written yet.
	UploadPending UploadStatus = "pending"
	// UploadCommitted is an asset referenced by a persisted entity.
	UploadCommitted UploadStatus = "committed"
	// UploadOrphaned is an asset that should be gone but whose destroy failed.
	UploadOrphaned UploadStatus = "orphaned"
)

// Upload is an entry of the asset upload log.
type Upload struct {
	URL       string       `json:"url" db:"url"`
	PublicID  string       `json:"publicId" db:"public_id"`
	Folder    string       `json:"folder" db:"folder"`
	Status    UploadStatus `json:"status" db:"status"`
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time    `json:"updatedAt" db:"updated_at"`
}

type Analytics struct {
	Users            int64 `json:"users" db:"users"`
	Products         int64 `json:"products" db:"products"`
	Blogs            int64 `json:"blogs" db:"blogs"`
	FeaturedProducts int64 `json:"featuredProducts" db:"featured_products"`
}

// LinkSet is an ordered set of external links. It decodes from a JSON string or array.
type LinkSet []string

// NewLinkSet trims, drops empty entries and removes duplicates keeping first occurrence.
func NewLinkSet(links ...string) LinkSet {
	seen := make(map[string]struct{}, len(links))
	out := make(LinkSet, 0, len(links))
	for _, link := range links {
		link = strings.TrimSpace(link)
		if link == "" {
			continue
		}
		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}
		out = append(out, link)
	}
	return out
}

func (l *LinkSet) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = NewLinkSet(single)
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("productLink must be a string or an array of strings")
	}
	if many == nil {
		*l = nil
		return nil
	}
	*l = NewLinkSet(many...)
	return nil
}

func (l LinkSet) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}
