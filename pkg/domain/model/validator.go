package model

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/Business010101/aimodbot/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Field names used by the per-kind schema
const (
	fieldTarget      = "target"
	fieldType        = "params.type"
	fieldCategory    = "params.category"
	fieldColor       = "params.color"
	fieldRole        = "params.role"
	fieldSubject     = "params.subject"
	fieldTargetType  = "params.target_type"
	fieldPermissions = "params.permissions"
)

// kindSchema declares which fields a kind requires and which it accepts
type kindSchema struct {
	required []string
	optional []string
}

var actionSchemas = map[types.ActionKind]kindSchema{
	types.ActionCreateChannel: {
		required: []string{fieldTarget},
		optional: []string{fieldType, fieldCategory},
	},
	types.ActionDeleteChannel:  {required: []string{fieldTarget}},
	types.ActionCreateRole:     {required: []string{fieldTarget}, optional: []string{fieldColor}},
	types.ActionDeleteRole:     {required: []string{fieldTarget}},
	types.ActionAssignRole:     {required: []string{fieldTarget, fieldRole}},
	types.ActionRemoveRole:     {required: []string{fieldTarget, fieldRole}},
	types.ActionLockChannel:    {required: []string{fieldTarget}},
	types.ActionUnlockChannel:  {required: []string{fieldTarget}},
	types.ActionCreateCategory: {required: []string{fieldTarget}},
	types.ActionSetChannelPermissions: {
		required: []string{fieldTarget, fieldSubject, fieldPermissions},
		optional: []string{fieldTargetType},
	},
}

var colorPattern = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// PermissionNames returns the closed set of permission names accepted in a
// permission map. Platform-specific bit mapping lives in the platform service.
func PermissionNames() []string {
	return []string{
		"send_messages",
		"view_channel",
		"manage_messages",
		"connect",
		"speak",
	}
}

func isKnownPermission(name string) bool {
	for _, p := range PermissionNames() {
		if p == name {
			return true
		}
	}
	return false
}

// fieldValue extracts the value of a schema field from an action, and whether
// the field is set
func fieldValue(a *Action, field string) (any, bool) {
	switch field {
	case fieldTarget:
		return a.Target, a.Target != ""
	case fieldType:
		return a.Params.Type, a.Params.Type != ""
	case fieldCategory:
		return a.Params.Category, a.Params.Category != ""
	case fieldColor:
		return a.Params.Color, a.Params.Color != ""
	case fieldRole:
		return a.Params.Role, a.Params.Role != ""
	case fieldSubject:
		return a.Params.Subject, a.Params.Subject != ""
	case fieldTargetType:
		return a.Params.TargetType, a.Params.TargetType != ""
	case fieldPermissions:
		return a.Params.Permissions, len(a.Params.Permissions) > 0
	default:
		return nil, false
	}
}

// ValidateAction checks an action against its kind's schema: the kind must be
// known, all required fields must be present, and field-level constraints must
// hold. Returns nil when the action satisfies its schema.
func ValidateAction(a *Action) error {
	schema, ok := actionSchemas[a.Kind]
	if !ok {
		return goerr.Wrap(ErrUnknownActionKind, "action kind is not in the vocabulary",
			goerr.V(KindKey, string(a.Kind)))
	}

	for _, field := range schema.required {
		if _, set := fieldValue(a, field); !set {
			return goerr.Wrap(ErrMissingField, "action is missing a required field",
				goerr.V(KindKey, a.Kind), goerr.V(FieldKey, field))
		}
	}

	return validateConstraints(a)
}

// validateConstraints checks field-level type constraints for fields that are set
func validateConstraints(a *Action) error {
	if a.Params.Type != "" && !a.Params.Type.IsValid() {
		return goerr.Wrap(ErrInvalidField, "channel type must be text or voice",
			goerr.V(FieldKey, fieldType), goerr.V(ValueKey, a.Params.Type))
	}

	if a.Params.Color != "" && !colorPattern.MatchString(a.Params.Color) {
		return goerr.Wrap(ErrInvalidField, "color must be a 6-hex-digit string",
			goerr.V(FieldKey, fieldColor), goerr.V(ValueKey, a.Params.Color))
	}

	if a.Params.TargetType != "" && !a.Params.TargetType.IsValid() {
		return goerr.Wrap(ErrInvalidField, "target type must be role or user",
			goerr.V(FieldKey, fieldTargetType), goerr.V(ValueKey, a.Params.TargetType))
	}

	for name := range a.Params.Permissions {
		if !isKnownPermission(name) {
			return goerr.Wrap(ErrInvalidField, "unknown permission name",
				goerr.V(FieldKey, fieldPermissions), goerr.V(PermissionKey, name))
		}
	}

	return nil
}

// rawAction is the untrusted wire shape of one model-produced action element
type rawAction struct {
	Kind   string         `json:"kind"`
	Target string         `json:"target"`
	Params map[string]any `json:"params"`
}

// ParseAction projects one untrusted JSON element into a typed Action. The
// projection is strict about types: string fields must be JSON strings and
// permission values must be booleans. Unknown param keys are ignored for
// forward compatibility, but known keys with wrong types fail the projection.
// The returned Action always satisfies ValidateAction.
func ParseAction(raw json.RawMessage) (*Action, error) {
	var ra rawAction
	if err := json.Unmarshal(raw, &ra); err != nil {
		return nil, goerr.Wrap(err, "action element is not a JSON object")
	}

	kind, err := types.ParseActionKind(ra.Kind)
	if err != nil {
		return nil, goerr.Wrap(ErrUnknownActionKind, "action kind is not in the vocabulary",
			goerr.V(KindKey, ra.Kind))
	}

	action := &Action{
		Kind:   kind,
		Target: strings.TrimSpace(ra.Target),
	}

	if err := projectParams(action, ra.Params); err != nil {
		return nil, err
	}

	// Defaults
	if kind == types.ActionCreateChannel && action.Params.Type == "" {
		action.Params.Type = types.ChannelTypeText
	}

	if err := ValidateAction(action); err != nil {
		return nil, err
	}

	return action, nil
}

func projectParams(a *Action, params map[string]any) error {
	for key, value := range params {
		switch key {
		case "type":
			s, err := paramString(key, value)
			if err != nil {
				return err
			}
			a.Params.Type = types.ChannelType(s)
		case "category":
			s, err := paramString(key, value)
			if err != nil {
				return err
			}
			a.Params.Category = s
		case "color":
			s, err := paramString(key, value)
			if err != nil {
				return err
			}
			a.Params.Color = strings.TrimPrefix(s, "#")
		case "role":
			s, err := paramString(key, value)
			if err != nil {
				return err
			}
			a.Params.Role = s
		case "subject":
			s, err := paramString(key, value)
			if err != nil {
				return err
			}
			a.Params.Subject = s
		case "target_type":
			s, err := paramString(key, value)
			if err != nil {
				return err
			}
			a.Params.TargetType = types.TargetType(s)
		case "permissions":
			perms, err := paramPermissions(value)
			if err != nil {
				return err
			}
			a.Params.Permissions = perms
		}
	}
	return nil
}

func paramString(key string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", goerr.Wrap(ErrInvalidField, "param must be a string",
			goerr.V(FieldKey, "params."+key), goerr.V(ValueKey, value))
	}
	return strings.TrimSpace(s), nil
}

func paramPermissions(value any) (map[string]bool, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, goerr.Wrap(ErrInvalidField, "permissions must be an object",
			goerr.V(FieldKey, fieldPermissions), goerr.V(ValueKey, value))
	}

	perms := make(map[string]bool, len(obj))
	for name, v := range obj {
		b, ok := v.(bool)
		if !ok {
			return nil, goerr.Wrap(ErrInvalidField, "permission value must be boolean",
				goerr.V(FieldKey, fieldPermissions), goerr.V(PermissionKey, name), goerr.V(ValueKey, v))
		}
		perms[name] = b
	}
	return perms, nil
}

// ExtractActionArray finds the action array in raw model output. The model is
// asked for {"actions": [...]} but may wrap the JSON in prose or code fences,
// so this falls back to scanning for the first syntactically valid JSON array
// substring. Returns ErrNotJSONArray when none is found.
func ExtractActionArray(text string) ([]json.RawMessage, error) {
	// Preferred shape: an object with an "actions" key
	var wrapped struct {
		Actions []json.RawMessage `json:"actions"`
	}
	trimmed := strings.TrimSpace(text)
	if err := json.Unmarshal([]byte(trimmed), &wrapped); err == nil && wrapped.Actions != nil {
		return wrapped.Actions, nil
	}

	// Fall back to the first valid JSON array substring
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '[':
			var elements []json.RawMessage
			decoder := json.NewDecoder(strings.NewReader(text[i:]))
			if err := decoder.Decode(&elements); err == nil {
				return elements, nil
			}
		case '{':
			// An embedded {"actions": [...]} object inside prose
			var obj struct {
				Actions []json.RawMessage `json:"actions"`
			}
			decoder := json.NewDecoder(strings.NewReader(text[i:]))
			if err := decoder.Decode(&obj); err == nil && obj.Actions != nil {
				return obj.Actions, nil
			}
		}
	}

	return nil, goerr.Wrap(ErrNotJSONArray, "model output contains no JSON action array")
}
