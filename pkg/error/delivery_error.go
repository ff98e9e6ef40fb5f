package error

import "net/http"

// DeliveryError carries the destination's error description verbatim.
type DeliveryError string

func (err DeliveryError) Error() string {
	return string(err)
}

func (err DeliveryError) ErrCode() string {
	return "DELIVERY_ERROR"
}

func (err DeliveryError) StatusCode() int {
	return http.StatusBadGateway
}
