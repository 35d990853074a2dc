package domain

import "time"

// Product is a catalog document. Price is integer UGX; the shilling has
// no fractional unit in circulation.
type Product struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Description   string    `bson:"description,omitempty" json:"description,omitempty"`
	Price         int64     `bson:"price" json:"price"`
	CoverImageURL string    `bson:"cover_image_url,omitempty" json:"coverImageUrl,omitempty"`
	GalleryURLs   []string  `bson:"gallery_urls,omitempty" json:"galleryUrls,omitempty"`
	CategoryID    string    `bson:"category_id" json:"categoryId"`
	Stock         int       `bson:"stock" json:"stock"`
	Published     bool      `bson:"published" json:"published"`
	Featured      bool      `bson:"featured" json:"featured"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updatedAt"`
}

type Category struct {
	ID   string `bson:"_id,omitempty" json:"id"`
	Name string `bson:"name" json:"name"`
	Slug string `bson:"slug" json:"slug"`
}
