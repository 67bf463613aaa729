package enums

import "fmt"

// PermissionStatus mirrors the device permission states for notifications
// and location access.
type PermissionStatus string

const (
	PermissionStatusUndetermined PermissionStatus = "undetermined"
	PermissionStatusGranted      PermissionStatus = "granted"
	PermissionStatusDenied       PermissionStatus = "denied"
)

var validPermissionStatuses = []PermissionStatus{
	PermissionStatusUndetermined,
	PermissionStatusGranted,
	PermissionStatusDenied,
}

// String implements fmt.Stringer.
func (p PermissionStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PermissionStatus.
func (p PermissionStatus) IsValid() bool {
	for _, candidate := range validPermissionStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePermissionStatus converts raw input into a PermissionStatus.
func ParsePermissionStatus(value string) (PermissionStatus, error) {
	for _, candidate := range validPermissionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid permission status %q", value)
}
