package models

import "time"

// UserSettings holds per-user provider credentials. Secret columns are stored encrypted.
type UserSettings struct {
	UserID              int64     `db:"user_id" json:"user_id"`
	GeminiAPIKey        string    `db:"gemini_api_key" json:"-"`
	CloudinaryCloudName string    `db:"cloudinary_cloud_name" json:"cloudinary_cloud_name"`
	CloudinaryAPIKey    string    `db:"cloudinary_api_key" json:"-"`
	CloudinaryAPISecret string    `db:"cloudinary_api_secret" json:"-"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}
