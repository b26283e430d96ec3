package model

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleUnknown   = "unknown"
)

// Content block types
const (
	BlockText = "text"
)

// Project label used when neither git nor the path yields a name
const UnknownProject = "unknown"
