package domain

import "time"

// Asset is a stored image referencable by id, used as a source image for edits.
type Asset struct {
	ID        string    `json:"assetId"`
	DeviceID  string    `json:"deviceId"`
	URL       string    `json:"url"`
	ThumbURL  string    `json:"thumbUrl,omitempty"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	MimeType  string    `json:"mimeType"`
	CreatedAt time.Time `json:"createdAt"`
}

// InlineImage is an image embedded directly in a provider request body.
// Data holds the base64 (std) encoding of the bytes.
type InlineImage struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}
