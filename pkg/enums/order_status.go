package enums

// OrderStatus tracks an order through the dispatch lifecycle.
// Values match the persisted integer column.
type OrderStatus int

const (
	OrderStatusPending    OrderStatus = 0
	OrderStatusGrabbed    OrderStatus = 1
	OrderStatusInDelivery OrderStatus = 2
	OrderStatusCompleted  OrderStatus = 3
	OrderStatusCancelled  OrderStatus = 4
)

// IsValid reports whether the value is a known status.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusGrabbed, OrderStatusInDelivery, OrderStatusCompleted, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// RequiresRider reports whether the status implies an assigned rider.
func (s OrderStatus) RequiresRider() bool {
	switch s {
	case OrderStatusGrabbed, OrderStatusInDelivery, OrderStatusCompleted:
		return true
	default:
		return false
	}
}

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusPending:
		return "pending"
	case OrderStatusGrabbed:
		return "grabbed"
	case OrderStatusInDelivery:
		return "in_delivery"
	case OrderStatusCompleted:
		return "completed"
	case OrderStatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}
