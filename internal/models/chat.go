package models

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Question string `json:"question"`
}

// ChatResponse is the tutor's answer.
type ChatResponse struct {
	Response string `json:"response"`
}
