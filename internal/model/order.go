package model

import (
	"regexp"
	"strconv"
	"time"

	"github.com/sakif/sportsforum/internal/apperror"
)

// OrderTTL is how long an order stays valid. Older orders are purged the next
// time an order is created.
const OrderTTL = 7 * 24 * time.Hour

// Order is a user's sign-up for a sport.
//
// ID is the external form ("order-12"). Nickname is empty once the owning
// user has been deleted.
type Order struct {
	ID        string    `json:"orderId"`
	Nickname  string    `json:"nickname"`
	SportName string    `json:"sportName"`
	Timestamp time.Time `json:"timestamp"`
}

const orderIDPrefix = "order-"

var orderIDPattern = regexp.MustCompile(`^order-(\d{1,3})$`)

// FormatOrderID renders an internal order key in its external form.
func FormatOrderID(id int64) string {
	return orderIDPrefix + strconv.FormatInt(id, 10)
}

// ParseOrderID extracts the internal key from an external order id.
// Anything other than "order-" followed by one to three digits is rejected
// with an apperror.ErrValidation error.
func ParseOrderID(orderID string) (int64, error) {
	m := orderIDPattern.FindStringSubmatch(orderID)
	if m == nil {
		return 0, apperror.ValidationFailed("order_id", "order id is malformed: "+strconv.Quote(orderID))
	}
	// At most three digits, so this cannot overflow.
	id, _ := strconv.ParseInt(m[1], 10, 64)
	return id, nil
}
