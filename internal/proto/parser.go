package proto

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser converts a whole command record's bytes (as produced by
// Framer) into a Command value, per spec §4.4.
type Parser struct {
	MaxKeyBytes   int
	MaxValueBytes int
}

// NewParser returns a Parser enforcing the given key/value size limits.
func NewParser(maxKeyBytes, maxValueBytes int) *Parser {
	return &Parser{MaxKeyBytes: maxKeyBytes, MaxValueBytes: maxValueBytes}
}

func invalid(kind ErrorKind, msg string) Command {
	return Command{Kind: CmdInvalid, ErrKind: kind, Message: msg}
}

// Parse classifies record and produces a Command.
func (p *Parser) Parse(record []byte) Command {
	idx := indexCRLF(record)
	if idx < 0 {
		return invalid(ProtocolViolation, "command must end with \\r\\n")
	}
	headerLine := string(record[:idx])
	rest := record[idx+2:]

	fields := strings.Fields(headerLine)
	if len(fields) == 0 {
		return invalid(UnknownCommand, "unknown command: ")
	}
	verb := fields[0]

	switch strings.ToLower(verb) {
	case "get":
		return p.parseGet(fields[1:])
	case "set":
		return p.parseSet(fields[1:], rest)
	case "delete":
		return p.parseDelete(fields[1:])
	default:
		return invalid(UnknownCommand, "unknown command: "+verb)
	}
}

// indexCRLF returns the index of the first "\r\n" in b, or -1.
func indexCRLF(b []byte) int {
	for i := 0; i+1 < len(b); i++ {
		if b[i] == '\r' && b[i+1] == '\n' {
			return i
		}
	}
	return -1
}

func (p *Parser) validateKey(key string) (ErrorKind, string, bool) {
	if len(key) == 0 {
		return InvalidKey, "key cannot be empty", false
	}
	if len(key) > p.MaxKeyBytes {
		return InvalidKey, fmt.Sprintf("key too long (max %d bytes)", p.MaxKeyBytes), false
	}
	if isAllWhitespace(key) {
		return InvalidKey, "key cannot be whitespace only", false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c == ' ' {
			return InvalidKey, "key contains spaces", false
		}
		if c < 0x20 || c == 0x7F {
			return InvalidKey, "key contains control characters", false
		}
	}
	return 0, "", true
}

func isAllWhitespace(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\v', '\f', '\r':
		default:
			return false
		}
	}
	return true
}

func (p *Parser) parseGet(keyTokens []string) Command {
	if len(keyTokens) == 0 {
		return invalid(MissingParameter, "no keys provided")
	}
	keys := make([]string, 0, len(keyTokens))
	for _, k := range keyTokens {
		if kind, msg, ok := p.validateKey(k); !ok {
			return invalid(kind, msg)
		}
		keys = append(keys, k)
	}
	return Command{Kind: CmdGet, Keys: keys}
}

func (p *Parser) parseDelete(tokens []string) Command {
	if len(tokens) == 0 {
		return invalid(MissingParameter, "no keys provided")
	}
	key := tokens[0]
	if kind, msg, ok := p.validateKey(key); !ok {
		return invalid(kind, msg)
	}
	noReply := false
	rest := tokens[1:]
	if len(rest) > 0 {
		if rest[0] != "noreply" {
			return invalid(InvalidParameter, "unknown parameter: "+rest[0])
		}
		noReply = true
		rest = rest[1:]
	}
	if len(rest) > 0 {
		return invalid(InvalidParameter, "unknown parameter: "+rest[0])
	}
	return Command{Kind: CmdDelete, Key: key, NoReply: noReply}
}

func (p *Parser) parseSet(tokens []string, rest []byte) Command {
	// tokens: key flags expiration length [noreply]
	if len(tokens) < 4 || len(tokens) > 5 {
		return invalid(MissingParameter, "set requires key flags expiration length [noreply]")
	}
	key := tokens[0]
	if kind, msg, ok := p.validateKey(key); !ok {
		return invalid(kind, msg)
	}

	flags64, err := strconv.ParseUint(tokens[1], 10, 32)
	if err != nil {
		return invalid(InvalidParameter, "invalid flags format")
	}

	if _, err := strconv.ParseUint(tokens[2], 10, 32); err != nil {
		return invalid(InvalidParameter, "invalid expiration format")
	}
	expiration64, _ := strconv.ParseUint(tokens[2], 10, 32)

	length, err := strconv.ParseInt(tokens[3], 10, 32)
	if err != nil {
		return invalid(InvalidParameter, "invalid length format")
	}
	if length < 0 {
		return invalid(InvalidParameter, "invalid length format")
	}
	if int(length) > p.MaxValueBytes {
		return invalid(ServerErrorKind, "object too large for cache")
	}

	noReply := false
	if len(tokens) == 5 {
		if tokens[4] != "noreply" {
			return invalid(InvalidParameter, "invalid noreply parameter")
		}
		noReply = true
	}

	if int64(len(rest)) < length+2 {
		return invalid(InvalidData, "insufficient data available")
	}

	data := rest[:length]
	trailer := rest[length : length+2]
	if trailer[0] != '\r' || trailer[1] != '\n' {
		return invalid(ProtocolViolation, "data block must end with \\r\\n")
	}

	return Command{
		Kind:       CmdSet,
		Key:        key,
		Flags:      uint32(flags64),
		Expiration: uint32(expiration64),
		Data:       data,
		NoReply:    noReply,
	}
}
