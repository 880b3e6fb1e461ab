package enums

// RiderWorkStatus reflects whether a rider currently carries an order.
type RiderWorkStatus int

const (
	RiderIdle RiderWorkStatus = 0
	RiderBusy RiderWorkStatus = 1
)
