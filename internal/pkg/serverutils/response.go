package serverutils

import "time"

type BaseResponse[T any] struct {
	Status    string    `json:"status"`
	Code      int       `json:"code,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Data      T         `json:"data,omitempty"`
}

func ErrorResponse(code int, message string) BaseResponse[any] {
	return BaseResponse[any]{
		Status:    "error",
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}
