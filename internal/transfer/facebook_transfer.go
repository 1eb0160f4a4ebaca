package transfer

type PublishRequest struct {
	PageID         string   `json:"page_id"`
	AccessToken    string   `json:"-"`
	PostType       string   `json:"post_type"`
	Content        string   `json:"content"`
	MediaURLs      []string `json:"media_urls"`
	CarouselImages []string `json:"carousel_images"`
}

type PublishResult struct {
	PostID string `json:"post_id"`
}

// FacebookPostRequest is the body of the one-shot publish routes. The page token
// is looked up from the stored page unless the caller supplies one.
type FacebookPostRequest struct {
	PageID         string   `json:"page_id"`
	AccessToken    string   `json:"access_token"`
	PostType       string   `json:"post_type"`
	Message        string   `json:"message"`
	MediaURLs      []string `json:"media_urls"`
	CarouselImages []string `json:"carousel_images"`
}

type FacebookReelRequest struct {
	PageID      string `json:"page_id"`
	AccessToken string `json:"access_token"`
	VideoURL    string `json:"video_url"`
	Description string `json:"description"`
}

type FacebookCommentRequest struct {
	PageID      string `json:"page_id"`
	AccessToken string `json:"access_token"`
	ObjectID    string `json:"object_id"`
	Message     string `json:"message"`
}

type GraphErrorResponse struct {
	Error struct {
		Message      string `json:"message"`
		Type         string `json:"type"`
		Code         int    `json:"code"`
		ErrorSubcode int    `json:"error_subcode"`
		IsTransient  bool   `json:"is_transient"`
		FbtraceID    string `json:"fbtrace_id"`
	} `json:"error"`
}

type GraphIDResponse struct {
	ID     string `json:"id"`
	PostID string `json:"post_id"`
}

type ReelStartResponse struct {
	VideoID   string `json:"video_id"`
	UploadURL string `json:"upload_url"`
}

type ReelUploadResponse struct {
	Success bool `json:"success"`
}

type ReelFinishResponse struct {
	Success bool   `json:"success"`
	PostID  string `json:"post_id"`
}
