package error

import "net/http"

// MalformedResultError means the model returned text that does not match the
// requested schema.
type MalformedResultError string

func (err MalformedResultError) Error() string {
	return string(err)
}

func (err MalformedResultError) ErrCode() string {
	return "MALFORMED_RESULT"
}

func (err MalformedResultError) StatusCode() int {
	return http.StatusBadGateway
}
