package core

// OpenAI object type constants
const (
	ChatCompletionChunkObjectType = "chat.completion.chunk"
	ModelListObjectType           = "list"
)

// ID prefix constants
const (
	ResponseIDPrefix = "chatcmpl-"
)

// Content part type constants
const (
	ContentPartTypeText = "text"
)

// Request error message constants
const (
	ErrMsgInvalidJSONBody = "Invalid JSON body"
	ErrMsgMissingMessages = "Missing 'messages' or 'contents'"
)
