package types

import "fmt"

// ChannelType represents the type of a channel to create
type ChannelType string

const (
	ChannelTypeText  ChannelType = "text"
	ChannelTypeVoice ChannelType = "voice"
)

// AllChannelTypes returns all valid channel types
func AllChannelTypes() []ChannelType {
	return []ChannelType{ChannelTypeText, ChannelTypeVoice}
}

// IsValid checks if the channel type is valid
func (t ChannelType) IsValid() bool {
	switch t {
	case ChannelTypeText, ChannelTypeVoice:
		return true
	default:
		return false
	}
}

// String returns the string representation of the channel type
func (t ChannelType) String() string {
	return string(t)
}

// ParseChannelType parses a string into a ChannelType
func ParseChannelType(s string) (ChannelType, error) {
	t := ChannelType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid channel type: %s", s)
	}
	return t, nil
}
