package models

import "time"

type FacebookPage struct {
	PageID         string    `db:"page_id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	Name           string    `db:"name" json:"name"`
	AccessToken    string    `db:"access_token" json:"-"`
	PictureURL     string    `db:"picture_url" json:"picture_url,omitempty"`
	FollowersCount int64     `db:"followers_count" json:"followers_count"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
