package enums

// ActorRole identifies which kind of principal issued a request.
type ActorRole string

const (
	RoleCustomer ActorRole = "customer"
	RoleRider    ActorRole = "rider"
	RoleMerchant ActorRole = "merchant"
)

func (r ActorRole) IsValid() bool {
	switch r {
	case RoleCustomer, RoleRider, RoleMerchant:
		return true
	default:
		return false
	}
}
