package device

import (
	"fmt"
	"strings"
)

var validControlModes map[ControlMode]struct{}

func init() {
	validControlModes = make(map[ControlMode]struct{}, len(AllControlModes()))
	for _, m := range AllControlModes() {
		validControlModes[m] = struct{}{}
	}
}

// ParseControlMode validates a mode string. Matching is exact: the app
// always sends upper case.
func ParseControlMode(s string) (ControlMode, error) {
	m := ControlMode(s)
	if _, ok := validControlModes[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidControlMode, s)
	}
	return m, nil
}

// Validate checks a set_control_mode request.
func (r SetControlModeRequest) Validate() (ControlMode, error) {
	if strings.TrimSpace(r.DeviceID) == "" {
		return "", fmt.Errorf("device_id is required")
	}
	if r.ControlMode == "" {
		return "", fmt.Errorf("control_mode is required")
	}
	return ParseControlMode(r.ControlMode)
}

// stateWithDefaults applies the read defaults for nullable columns.
func stateWithDefaults(relay *bool, mode *string) *State {
	s := &State{RelayState: false, ControlMode: ControlModeManual}
	if relay != nil {
		s.RelayState = *relay
	}
	if mode != nil && *mode != "" {
		s.ControlMode = ControlMode(*mode)
	}
	return s
}
