package models

type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Code    int      `json:"code"`
	Fields  []string `json:"fields,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Response string `json:"response"`
}
