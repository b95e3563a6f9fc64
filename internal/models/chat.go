package models

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Message  string         `json:"message"`
	Role     string         `json:"role"`      // defaults to "student"
	UserData map[string]any `json:"user_data"` // recognized key: "name"
}

// ChatResponse is the assistant's answer.
type ChatResponse struct {
	Success   bool   `json:"success"`
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Timestamp string `json:"timestamp"`
}

type ProviderResponse struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}
