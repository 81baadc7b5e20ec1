package discord

// Accessors for tests
var (
	DirectAction          = directAction
	CapabilitiesFrom      = capabilitiesFrom
	TranslateErrorMessage = translateErrorMessage
)
