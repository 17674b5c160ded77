package cache

import (
	"fmt"

	"github.com/armandparker/cachesrv/internal/proto"
)

// Execute maps a parsed Command to a Response by consulting engine.
// It is a pure function of (command, engine): no state machine is
// kept across calls (spec §4.5).
func Execute(engine *Engine, cmd proto.Command) proto.Response {
	switch cmd.Kind {
	case proto.CmdGet:
		return executeGet(engine, cmd)
	case proto.CmdSet:
		return executeSet(engine, cmd)
	case proto.CmdDelete:
		return executeDelete(engine, cmd)
	case proto.CmdInvalid:
		return executeInvalid(cmd)
	default:
		return proto.Response{Kind: proto.RespError}
	}
}

func executeGet(engine *Engine, cmd proto.Command) proto.Response {
	seen := make(map[string]bool, len(cmd.Keys))
	items := make([]proto.ValueItem, 0, len(cmd.Keys))
	for _, key := range cmd.Keys {
		if seen[key] {
			continue
		}
		seen[key] = true
		rec, ok := engine.Get(key)
		if !ok {
			continue
		}
		items = append(items, proto.ValueItem{Key: key, Flags: rec.Flags, Bytes: rec.Bytes})
	}
	return proto.Response{Kind: proto.RespValues, Items: items}
}

func executeSet(engine *Engine, cmd proto.Command) proto.Response {
	outcome := engine.Set(cmd.Key, cmd.Data, cmd.Flags, cmd.Expiration)
	switch outcome {
	case Stored:
		return proto.Response{Kind: proto.RespStored}
	case ErrValueTooLarge:
		return proto.Response{Kind: proto.RespServerError, Msg: "object too large for cache"}
	case ErrCacheFull:
		return proto.Response{Kind: proto.RespServerError, Msg: "max cache size reached"}
	default:
		return proto.Response{Kind: proto.RespServerError, Msg: "internal error"}
	}
}

func executeDelete(engine *Engine, cmd proto.Command) proto.Response {
	if engine.Delete(cmd.Key) {
		return proto.Response{Kind: proto.RespDeleted}
	}
	return proto.Response{Kind: proto.RespNotFound}
}

func executeInvalid(cmd proto.Command) proto.Response {
	switch cmd.ErrKind {
	case proto.UnknownCommand:
		return proto.Response{Kind: proto.RespError}
	case proto.ServerErrorKind:
		return proto.Response{Kind: proto.RespServerError, Msg: cmd.Message}
	case proto.InvalidKey, proto.InvalidParameter, proto.MissingParameter,
		proto.InvalidData, proto.ProtocolViolation:
		return proto.Response{Kind: proto.RespClientError, Msg: cmd.Message}
	default:
		return proto.Response{Kind: proto.RespClientError, Msg: fmt.Sprintf("unrecognized error: %s", cmd.Message)}
	}
}
