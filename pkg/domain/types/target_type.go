package types

// TargetType distinguishes whether a permission change applies to a role or a user
type TargetType string

const (
	TargetTypeRole TargetType = "role"
	TargetTypeUser TargetType = "user"
)

// IsValid checks if the target type is valid
func (t TargetType) IsValid() bool {
	switch t {
	case TargetTypeRole, TargetTypeUser:
		return true
	default:
		return false
	}
}

// String returns the string representation of the target type
func (t TargetType) String() string {
	return string(t)
}
