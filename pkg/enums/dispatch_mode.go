package enums

// DispatchMode is the per-rider setting choosing between manual grabbing
// and automatic assignment.
type DispatchMode int

const (
	DispatchModeManual DispatchMode = 0
	DispatchModeAuto   DispatchMode = 1
)

func (m DispatchMode) IsValid() bool {
	return m == DispatchModeManual || m == DispatchModeAuto
}
