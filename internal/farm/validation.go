package farm

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewFarm validates a create request and builds the farm to store.
// Every call assigns a fresh random id, so identical requests create
// distinct farms.
//
// Returns:
//   - *Farm: The farm to insert
//   - bool: false when status was present but unrecognised (defaulted to true)
//   - error: ErrMissingOwner or ErrInvalidName, wrapped in ErrInvalidFarm
func NewFarm(userUID string, req CreateRequest) (*Farm, bool, error) {
	if strings.TrimSpace(userUID) == "" {
		return nil, true, fmt.Errorf("%w: %w", ErrInvalidFarm, ErrMissingOwner)
	}

	name, err := ValidateName(req.Name)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %w", ErrInvalidFarm, err)
	}

	status, recognised := ParseStatus(req.Status)

	return &Farm{
		ID:          uuid.NewString(),
		UserUID:     userUID,
		Name:        name,
		ImageURL:    req.ImageURL,
		Location:    req.Location,
		Description: req.Description,
		Status:      status,
	}, recognised, nil
}

// ValidateName checks farm_name is a non-blank string and returns it trimmed.
func ValidateName(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", ErrInvalidName
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidName
	}
	return s, nil
}

// ParseStatus coerces the optional status field.
//
// Booleans are taken as-is. The strings true/active/1 and false/inactive/0
// (any case) map to true and false. nil means "not supplied" and yields
// true. Anything else also yields true with recognised=false.
func ParseStatus(v any) (status bool, recognised bool) {
	switch s := v.(type) {
	case nil:
		return true, true
	case bool:
		return s, true
	case string:
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "active", "1":
			return true, true
		case "false", "inactive", "0":
			return false, true
		}
	}
	return true, false
}
