package transfer

// SettingsUpdate replaces only the fields that are non-nil.
type SettingsUpdate struct {
	GeminiAPIKey        *string `json:"gemini_api_key"`
	CloudinaryCloudName *string `json:"cloudinary_cloud_name"`
	CloudinaryAPIKey    *string `json:"cloudinary_api_key"`
	CloudinaryAPISecret *string `json:"cloudinary_api_secret"`
}

type SettingsView struct {
	HasGeminiAPIKey     bool   `json:"has_gemini_api_key"`
	GeminiAPIKeyHint    string `json:"gemini_api_key_hint,omitempty"`
	HasCloudinary       bool   `json:"has_cloudinary"`
	CloudinaryCloudName string `json:"cloudinary_cloud_name"`
}

type CloudinaryCredentials struct {
	CloudName string
	APIKey    string
	APISecret string
}
