package dto

type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

type GenerateResponse struct {
	AssetID     string `json:"asset_id"`
	Kind        string `json:"kind"`
	URL         string `json:"url"`
	CreditsLeft int    `json:"credits_left"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply       string `json:"reply"`
	CreditsLeft int    `json:"credits_left"`
}
