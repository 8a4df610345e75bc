package service

import "errors"

var (
	ErrOrderNotFound            = errors.New("order not found")
	ErrMissingPaymentInstrument = errors.New("no payment instrument was provided")
	ErrMissingToken             = errors.New("card token is required")
	ErrNoChargeReference        = errors.New("order has no charge reference")
	ErrUnreadableStatus         = errors.New("cannot read the payment status")
)
