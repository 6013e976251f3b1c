package model

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Metadata wraps collection counts on list endpoints.
type Metadata struct {
	Count int `json:"count"`
}
