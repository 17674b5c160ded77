package proto

import (
	"bytes"
	"testing"
)

func format(t *testing.T, resp Response, noReply bool) string {
	t.Helper()
	var buf bytes.Buffer
	FormatInto(&buf, resp, noReply)
	return buf.String()
}

func TestFormatValuesWithHits(t *testing.T) {
	resp := Response{Kind: RespValues, Items: []ValueItem{
		{Key: "a", Flags: 0, Bytes: []byte("1")},
		{Key: "b", Flags: 0, Bytes: []byte("2")},
	}}
	got := format(t, resp, false)
	want := "VALUE a 0 1\r\n1\r\nVALUE b 0 1\r\n2\r\nEND\r\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatValuesEmpty(t *testing.T) {
	got := format(t, Response{Kind: RespValues}, false)
	if got != "END\r\n" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatStoredSuppressedByNoReply(t *testing.T) {
	got := format(t, Response{Kind: RespStored}, true)
	if got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestFormatErrorsNeverSuppressed(t *testing.T) {
	got := format(t, Response{Kind: RespServerError, Msg: "max cache size reached"}, true)
	want := "SERVER_ERROR max cache size reached\r\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatClientError(t *testing.T) {
	got := format(t, Response{Kind: RespClientError, Msg: "bad data chunk"}, false)
	if got != "CLIENT_ERROR bad data chunk\r\n" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatDeletedAndNotFound(t *testing.T) {
	if got := format(t, Response{Kind: RespDeleted}, false); got != "DELETED\r\n" {
		t.Fatalf("got %q", got)
	}
	if got := format(t, Response{Kind: RespNotFound}, false); got != "NOT_FOUND\r\n" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatErrorTag(t *testing.T) {
	if got := format(t, Response{Kind: RespError}, false); got != "ERROR\r\n" {
		t.Fatalf("got %q", got)
	}
}
