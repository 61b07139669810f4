package tool

import "fmt"

// Result is the uniform envelope every tool invocation produces. A failed
// result never carries data; callers branch on Success before reading Data.
type Result struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func OK(message string, data interface{}) Result {
	return Result{Success: true, Message: message, Data: data}
}

func Fail(format string, args ...interface{}) Result {
	return Result{Success: false, Message: fmt.Sprintf(format, args...)}
}
