package dto

// Result is the envelope every write and lookup endpoint responds with.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func OK(data any, message string) Result {
	return Result{Success: true, Data: data, Message: message}
}

func Fail(message string) Result {
	return Result{Success: false, Message: message}
}
