// Package proto implements the wire-protocol framer, command parser,
// and response formatter for the cache server's text protocol
// (spec §4.3, §4.4, §4.6).
package proto

// ErrorKind classifies a parse/validation failure, used both to choose
// a wire response prefix (§7) and for diagnostic logging.
type ErrorKind int

const (
	UnknownCommand ErrorKind = iota
	InvalidKey
	InvalidParameter
	MissingParameter
	InvalidData
	ProtocolViolation
	ServerErrorKind
)

// CommandKind distinguishes the Command sum type's variants.
type CommandKind int

const (
	CmdGet CommandKind = iota
	CmdSet
	CmdDelete
	CmdInvalid
)

// Command is the sum type produced by the parser. Only the fields
// relevant to Kind are populated.
type Command struct {
	Kind CommandKind

	// Get
	Keys []string

	// Set
	Key        string
	Flags      uint32
	Expiration uint32
	Data       []byte
	NoReply    bool

	// Delete reuses Key and NoReply above.

	// Invalid
	ErrKind ErrorKind
	Message string
}

// ResponseKind distinguishes the Response sum type's variants.
type ResponseKind int

const (
	RespValues ResponseKind = iota
	RespStored
	RespNotStored
	RespDeleted
	RespNotFound
	RespClientError
	RespServerError
	RespError
)

// ValueItem is one hit in a Values response.
type ValueItem struct {
	Key   string
	Flags uint32
	Bytes []byte
}

// Response is the sum type produced by the executor and consumed by
// the formatter.
type Response struct {
	Kind  ResponseKind
	Items []ValueItem // RespValues
	Msg   string      // RespClientError / RespServerError
}
