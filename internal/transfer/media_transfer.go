package transfer

type UploadResult struct {
	SecureURL    string `json:"secure_url"`
	PublicID     string `json:"public_id"`
	ResourceType string `json:"resource_type"`
}

type MediaDelete struct {
	PublicID     string `json:"public_id"`
	ResourceType string `json:"resource_type"`
}

type DeleteResult struct {
	Result string `json:"result"`
}
