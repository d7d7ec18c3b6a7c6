package core

import (
	"errors"
	"strconv"
)

// Errors
var (
	ErrInvalidSide      = errors.New("invalid side")
	ErrUnknownEventType = errors.New("unknown event type")
)

// Cancellation reasons attached to removed orders
const (
	ReasonOrderID        = "order_id"
	ReasonUser           = "user"
	ReasonSecurityMinQty = "security_min_qty"
)

func uitoa(v uint64) string {
	return strconv.FormatUint(v, 10)
}
