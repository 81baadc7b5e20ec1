package config

// Accessors for tests
var ParseLogLevel = parseLogLevel

// SetPath sets the policy file path directly, bypassing flag parsing
func (x *Policy) SetPath(path string) {
	x.path = path
}

// SetToken sets the Discord token directly, bypassing flag parsing
func (x *Discord) SetToken(token string) {
	x.token = token
}
