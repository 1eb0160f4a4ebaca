package transfer

type PageSync struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	AccessToken    string `json:"access_token"`
	PictureURL     string `json:"picture_url"`
	FollowersCount int64  `json:"followers_count"`
}

type PageSyncRequest struct {
	Pages []PageSync `json:"pages"`
}
