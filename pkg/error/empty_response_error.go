package error

import "net/http"

// EmptyResponseError means a generation call came back with no text at all.
type EmptyResponseError string

func (err EmptyResponseError) Error() string {
	return string(err)
}

func (err EmptyResponseError) ErrCode() string {
	return "EMPTY_RESPONSE"
}

func (err EmptyResponseError) StatusCode() int {
	return http.StatusBadGateway
}
