package device

// ControlMode selects who drives the relay.
type ControlMode string

// Control modes as stored in the warehouse.
const (
	ControlModeAutomatic ControlMode = "AUTOMATICO"
	ControlModeManual    ControlMode = "MANUAL"
)

// AllControlModes returns every valid control mode.
func AllControlModes() []ControlMode {
	return []ControlMode{ControlModeAutomatic, ControlModeManual}
}

// DefaultName replaces a null device name.
const DefaultName = "Unnamed device"

// Summary is the get_device_crops projection. State stays null when the
// relay state was never recorded.
type Summary struct {
	ID     string `json:"device_id"`
	CropID string `json:"crop_id"`
	Name   string `json:"device_name"`
	State  *bool  `json:"state"`
}

// State is the get_device_state projection with null defaults applied.
type State struct {
	RelayState  bool        `json:"relay_state"`
	ControlMode ControlMode `json:"control_mode"`
}

// SetControlModeRequest is the set_control_mode JSON body.
type SetControlModeRequest struct {
	DeviceID    string `json:"device_id"`
	ControlMode string `json:"control_mode"`
}
