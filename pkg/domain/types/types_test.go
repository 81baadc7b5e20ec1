package types_test

import (
	"testing"

	"github.com/Business010101/aimodbot/pkg/domain/types"
)

func TestParseActionKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"create channel", "create_channel", false},
		{"delete channel", "delete_channel", false},
		{"create role", "create_role", false},
		{"delete role", "delete_role", false},
		{"assign role", "assign_role", false},
		{"remove role", "remove_role", false},
		{"lock channel", "lock_channel", false},
		{"unlock channel", "unlock_channel", false},
		{"create category", "create_category", false},
		{"set channel permissions", "set_channel_permissions", false},
		{"empty", "", true},
		{"unknown kind", "nuke_server", true},
		{"uppercase", "CREATE_CHANNEL", true},
		{"hyphenated", "create-channel", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, err := types.ParseActionKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseActionKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && kind.String() != tt.input {
				t.Errorf("ParseActionKind(%q) = %q", tt.input, kind)
			}
		})
	}
}

func TestActionKind_IsDestructive(t *testing.T) {
	destructive := map[types.ActionKind]bool{
		types.ActionDeleteChannel: true,
		types.ActionDeleteRole:    true,
	}

	for _, kind := range types.AllActionKinds() {
		if got := kind.IsDestructive(); got != destructive[kind] {
			t.Errorf("%s.IsDestructive() = %v, want %v", kind, got, destructive[kind])
		}
	}
}

func TestAllActionKinds_Valid(t *testing.T) {
	for _, kind := range types.AllActionKinds() {
		if !kind.IsValid() {
			t.Errorf("%s should be valid", kind)
		}
	}
}

func TestParseChannelType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"text", "text", false},
		{"voice", "voice", false},
		{"empty", "", true},
		{"unknown", "stage", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := types.ParseChannelType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseChannelType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestConfirmToken_Validate(t *testing.T) {
	if err := types.ConfirmToken("1234567890123456789").Validate(); err != nil {
		t.Errorf("valid token rejected: %v", err)
	}
	if err := types.ConfirmToken("").Validate(); err == nil {
		t.Error("empty token accepted")
	}
}
