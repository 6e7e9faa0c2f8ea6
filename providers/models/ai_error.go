package models

// AIError is the error envelope returned by chat completion endpoints.
type AIError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
