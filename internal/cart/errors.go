package cart

import "errors"

// Lookup failures deliberately conflate "absent" and "not owned by the
// caller" so the API never leaks the existence of other customers' data.
var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrNoOpenOrder      = errors.New("no open order")
	ErrOrderCompleted   = errors.New("order is completed and cannot be modified")
	ErrProductNotFound  = errors.New("product not found")
	ErrPaymentNotFound  = errors.New("payment type not found")
	ErrLineItemNotFound = errors.New("line item not found")
)
