package models

import (
	"time"
)

// MediaVariant describes one derived rendition of an uploaded image.
// The resizing itself happens in the external media pipeline; the core
// only records which renditions exist.
type MediaVariant struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Crop   string `json:"crop,omitempty"`
	URL    string `json:"url,omitempty"`
}

// StandardMediaVariants are the renditions the media pipeline derives for
// every upload consumed as a featured image.
var StandardMediaVariants = []MediaVariant{
	{Name: "thumbnail", Width: 400, Height: 300},
	{Name: "card", Width: 768, Height: 432},
	{Name: "feature", Width: 1200, Height: 630},
	{Name: "square", Width: 600, Height: 600, Crop: "center"},
}

// Media is the metadata record for an uploaded image
type Media struct {
	ID        string         `json:"id" db:"id"`
	Filename  string         `json:"filename" db:"filename"`
	Alt       string         `json:"alt" db:"alt"`
	MimeType  string         `json:"mime_type" db:"mime_type"`
	Width     int            `json:"width" db:"width"`
	Height    int            `json:"height" db:"height"`
	Variants  []MediaVariant `json:"variants,omitempty" db:"-"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}
