package transfer

type CaptionRequest struct {
	Topic            string `json:"topic"`
	Style            string `json:"style"`
	Platform         string `json:"platform"`
	Count            int    `json:"count"`
	GenerateComments bool   `json:"generate_comments"`
	Context          string `json:"context"`
	ImageBase64      string `json:"image_base64"`
	ImageMimeType    string `json:"image_mime_type"`
}

type CaptionResult struct {
	Captions []string `json:"captions"`
	Comments []string `json:"comments,omitempty"`
}

type PromptRequest struct {
	Kind    string `json:"kind"`
	Topic   string `json:"topic"`
	Style   string `json:"style"`
	Count   int    `json:"count"`
	Context string `json:"context"`
}

type PromptResult struct {
	Prompts []string `json:"prompts"`
}
