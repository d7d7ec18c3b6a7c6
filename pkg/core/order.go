package core

import (
	"encoding/json"
	"strings"
)

// Side represents buy or sell side of the order
type Side int

// Order sides
const (
	Sell Side = iota
	Buy
)

// String returns side as string
func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// ParseSide converts "buy"/"sell" (any case) into a Side
func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return Buy, nil
	case "SELL":
		return Sell, nil
	default:
		return Sell, ErrInvalidSide
	}
}

// MarshalText implements encoding.TextMarshaler
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Side) UnmarshalText(text []byte) error {
	side, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = side
	return nil
}

// Order stores information about order. It is never modified after NewOrder.
type Order struct {
	id         string
	securityID string
	side       Side
	quantity   uint64
	user       string
	company    string
}

// NewOrder creates new constant object Order. No validation is performed.
func NewOrder(orderID, securityID string, side Side, quantity uint64, user, company string) *Order {
	return &Order{
		id:         orderID,
		securityID: securityID,
		side:       side,
		quantity:   quantity,
		user:       user,
		company:    company,
	}
}

// ID returns OrderID field copy
func (o *Order) ID() string {
	return o.id
}

// SecurityID returns the security identifier
func (o *Order) SecurityID() string {
	return o.securityID
}

// Side returns side of the Order
func (o *Order) Side() Side {
	return o.side
}

// Quantity returns Quantity field copy
func (o *Order) Quantity() uint64 {
	return o.quantity
}

// User returns the name of the user who owns the order
func (o *Order) User() string {
	return o.user
}

// Company returns the company of the order's user
func (o *Order) Company() string {
	return o.company
}

// MarshalJSON implements custom JSON marshaling for Order
func (o *Order) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         string `json:"id"`
		SecurityID string `json:"securityId"`
		Side       Side   `json:"side"`
		Quantity   uint64 `json:"quantity"`
		User       string `json:"user"`
		Company    string `json:"company"`
	}{
		ID:         o.id,
		SecurityID: o.securityID,
		Side:       o.side,
		Quantity:   o.quantity,
		User:       o.user,
		Company:    o.company,
	})
}

// String implements fmt.Stringer interface
func (o *Order) String() string {
	var sb strings.Builder
	sb.WriteString(o.id)
	sb.WriteString(" ")
	sb.WriteString(o.side.String())
	sb.WriteString(" ")
	sb.WriteString(o.securityID)
	sb.WriteString(" qty=")
	sb.WriteString(uitoa(o.quantity))
	sb.WriteString(" user=")
	sb.WriteString(o.user)
	sb.WriteString(" company=")
	sb.WriteString(o.company)
	return sb.String()
}
