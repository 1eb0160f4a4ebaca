package transfer

import "time"

type PostCreation struct {
	Title            string    `json:"title"`
	Content          string    `json:"content"`
	PostType         string    `json:"post_type"`
	MediaURLs        []string  `json:"media_urls"`
	CarouselImages   []string  `json:"carousel_images"`
	PageID           string    `json:"page_id"`
	PageName         string    `json:"page_name"`
	ScheduledFor     time.Time `json:"scheduled_for"`
	IntervalMinutes  int       `json:"interval_minutes"`
	IsRecurring      bool      `json:"is_recurring"`
	FirstComment     string    `json:"first_comment"`
	PostFirstComment bool      `json:"post_first_comment"`
}

// PostUpdate carries the fields a user may change while a post is still scheduled.
// Nil fields are left untouched.
type PostUpdate struct {
	ID               string     `json:"id"`
	Title            *string    `json:"title"`
	Content          *string    `json:"content"`
	ScheduledFor     *time.Time `json:"scheduled_for"`
	IntervalMinutes  *int       `json:"interval_minutes"`
	IsRecurring      *bool      `json:"is_recurring"`
	FirstComment     *string    `json:"first_comment"`
	PostFirstComment *bool      `json:"post_first_comment"`
}

const (
	BulkStopAutomation = "stop_automation"
	BulkDeleteAll      = "delete_all"
)

type BulkAction struct {
	Action string `json:"action"`
	PageID string `json:"page_id"`
}

type BulkResult struct {
	Action   string `json:"action"`
	Affected int64  `json:"affected"`
}

const (
	DispatchPosted  = "posted"
	DispatchFailed  = "failed"
	DispatchSkipped = "skipped"
)

type DispatchResult struct {
	PostID         string `json:"post_id"`
	Status         string `json:"status"`
	FacebookPostID string `json:"facebook_post_id,omitempty"`
	Error          string `json:"error,omitempty"`
}

type DispatchSummary struct {
	Due     int              `json:"due"`
	Results []DispatchResult `json:"results"`
}

type DispatchPreview struct {
	Due              int      `json:"due"`
	PostIDs          []string `json:"post_ids"`
	SchedulerRunning bool     `json:"scheduler_running"`
}
