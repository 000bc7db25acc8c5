package domain

import "net/http"

// Status is one entry of the fixed result taxonomy. Codes mirror HTTP
// semantics so the API layer can use them directly.
type Status struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var (
	StatusSuccess            = Status{Code: http.StatusOK, Message: "Success"}
	StatusNotFound           = Status{Code: http.StatusNotFound, Message: "Not Found"}
	StatusInvalidData        = Status{Code: http.StatusBadRequest, Message: "Invalid Data"}
	StatusTooManyConnections = Status{Code: http.StatusTooManyRequests, Message: "Too Many Connections"}
	StatusSizeLimitExceeded  = Status{Code: http.StatusRequestEntityTooLarge, Message: "Size Limit Exceeded"}
	StatusSyncFailed         = Status{Code: http.StatusBadGateway, Message: "Sync Failed"}
)

// Result is the envelope returned by every public collection and sync
// operation. Data is only meaningful when Status is StatusSuccess.
type Result[T any] struct {
	Status Status `json:"status"`
	Data   T      `json:"data"`
}

// OK reports whether the result carries StatusSuccess
func (r Result[T]) OK() bool {
	return r.Status == StatusSuccess
}

// Success wraps data in a successful envelope
func Success[T any](data T) Result[T] {
	return Result[T]{Status: StatusSuccess, Data: data}
}

// Failure returns an envelope with the given status and a zero payload
func Failure[T any](status Status) Result[T] {
	return Result[T]{Status: status}
}
