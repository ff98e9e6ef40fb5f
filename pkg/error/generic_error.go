package error

// GenericError is implemented by every coded error in this package so the
// REST recovery middleware can map panics and returned errors to HTTP.
type GenericError interface {
	Error() string
	ErrCode() string
	StatusCode() int
}
