package proto

import (
	"bytes"
	"fmt"
)

// FormatInto serializes resp to its wire byte form into buf, per spec
// §4.6. noReply suppresses success responses (Stored/Deleted/NotFound)
// but never suppresses error responses; it has no effect on
// RespValues, which is always emitted (the retrieval command has no
// noreply flag on the wire). The caller supplies buf so it can be
// reused across requests (see internal/netutil's pooled buffers).
func FormatInto(buf *bytes.Buffer, resp Response, noReply bool) {
	switch resp.Kind {
	case RespValues:
		for _, item := range resp.Items {
			fmt.Fprintf(buf, "VALUE %s %d %d\r\n", item.Key, item.Flags, len(item.Bytes))
			buf.Write(item.Bytes)
			buf.WriteString("\r\n")
		}
		buf.WriteString("END\r\n")
	case RespStored:
		if !noReply {
			buf.WriteString("STORED\r\n")
		}
	case RespNotStored:
		if !noReply {
			buf.WriteString("NOT_STORED\r\n")
		}
	case RespDeleted:
		if !noReply {
			buf.WriteString("DELETED\r\n")
		}
	case RespNotFound:
		if !noReply {
			buf.WriteString("NOT_FOUND\r\n")
		}
	case RespClientError:
		buf.WriteString("CLIENT_ERROR ")
		buf.WriteString(resp.Msg)
		buf.WriteString("\r\n")
	case RespServerError:
		buf.WriteString("SERVER_ERROR ")
		buf.WriteString(resp.Msg)
		buf.WriteString("\r\n")
	case RespError:
		buf.WriteString("ERROR\r\n")
	default:
		buf.WriteString("ERROR\r\n")
	}
}
