package models

import "time"

type MediaAsset struct {
	PublicID     string    `db:"public_id" json:"public_id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	SecureURL    string    `db:"secure_url" json:"secure_url"`
	ResourceType string    `db:"resource_type" json:"resource_type"`
	Storage      string    `db:"storage" json:"storage"`
	FileType     string    `db:"file_type" json:"file_type"`
	FileSize     int64     `db:"file_size" json:"file_size"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

const (
	StorageCloudinary = "cloudinary"
	StorageR2         = "r2"
)
