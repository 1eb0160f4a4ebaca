package models

import "time"

type ScheduledPost struct {
	ID               string     `db:"id" json:"id"`
	UserID           int64      `db:"user_id" json:"user_id"`
	Title            string     `db:"title" json:"title"`
	Content          string     `db:"content" json:"content"`
	PostType         string     `db:"post_type" json:"post_type"`
	MediaURLs        []string   `db:"media_urls" json:"media_urls"`
	CarouselImages   []string   `db:"carousel_images" json:"carousel_images"`
	PageID           string     `db:"page_id" json:"page_id"`
	PageName         string     `db:"page_name" json:"page_name"`
	ScheduledFor     time.Time  `db:"scheduled_for" json:"scheduled_for"`
	IntervalMinutes  int        `db:"interval_minutes" json:"interval_minutes"`
	IsRecurring      bool       `db:"is_recurring" json:"is_recurring"`
	FirstComment     string     `db:"first_comment" json:"first_comment"`
	PostFirstComment bool       `db:"post_first_comment" json:"post_first_comment"`
	Status           string     `db:"status" json:"status"` // scheduled, processing, posted, failed, cancelled
	FacebookPostID   string     `db:"facebook_post_id" json:"facebook_post_id,omitempty"`
	PostedAt         *time.Time `db:"posted_at" json:"posted_at,omitempty"`
	ErrorMessage     string     `db:"error_message" json:"error_message,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	PostStatusScheduled  = "scheduled"
	PostStatusProcessing = "processing"
	PostStatusPosted     = "posted"
	PostStatusFailed     = "failed"
	PostStatusCancelled  = "cancelled"
)

const (
	PostTypeText     = "text"
	PostTypeImage    = "image"
	PostTypeVideo    = "video"
	PostTypeReel     = "reel"
	PostTypeCarousel = "carousel"
)

// ValidPostType reports whether t is one of the publishable post types.
func ValidPostType(t string) bool {
	switch t {
	case PostTypeText, PostTypeImage, PostTypeVideo, PostTypeReel, PostTypeCarousel:
		return true
	}
	return false
}

// MaxIntervalMinutes caps the recurrence interval at one year.
const MaxIntervalMinutes = 525600

// NextOccurrence returns the first recurrence of the post strictly after now.
// Intervals above MaxIntervalMinutes are clamped.
func (p *ScheduledPost) NextOccurrence(now time.Time) time.Time {
	minutes := p.IntervalMinutes
	if minutes <= 0 {
		return p.ScheduledFor
	}
	if minutes > MaxIntervalMinutes {
		minutes = MaxIntervalMinutes
	}
	step := time.Duration(minutes) * time.Minute
	next := p.ScheduledFor.Add(step)
	if !next.After(now) {
		missed := now.Sub(next)/step + 1
		next = next.Add(missed * step)
	}
	return next
}
