package types

// APIResponse is the uniform envelope returned by every API endpoint.
// Exactly one of Data or Error is populated, keyed off Success.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func OK(data interface{}) APIResponse {
	return APIResponse{Success: true, Data: data}
}

func Fail(message string) APIResponse {
	return APIResponse{Success: false, Error: message}
}
