package cache

import (
	"bufio"
	"bytes"
	"testing"
	"time"

	"github.com/armandparker/cachesrv/internal/proto"
)

func run(t *testing.T, engine *Engine, parser *proto.Parser, input string) string {
	t.Helper()
	var out bytes.Buffer

	records := splitRecords(t, parser, []byte(input))
	for _, rec := range records {
		cmd := parser.Parse(rec)
		resp := Execute(engine, cmd)
		noReply := (cmd.Kind == proto.CmdSet || cmd.Kind == proto.CmdDelete) && cmd.NoReply
		proto.FormatInto(&out, resp, noReply)
	}
	return out.String()
}

// splitRecords frames input using the real Framer so executor tests
// exercise the same pipeline the connection handler drives.
func splitRecords(t *testing.T, parser *proto.Parser, input []byte) [][]byte {
	t.Helper()
	framer := proto.NewFramer(parser.MaxValueBytes + 4096)
	r := bufio.NewReader(bytes.NewReader(input))
	var out [][]byte
	for {
		rec, err := framer.NextRecord(r)
		if err != nil {
			break
		}
		out = append(out, rec)
	}
	return out
}

func TestScenarioSetThenGetRoundTrip(t *testing.T) {
	engine := New(Limits{MaxKeys: 100, MaxKeyBytes: 250, MaxValueBytes: 1024, MaxTotalBytes: 1 << 20}, time.Hour)
	parser := proto.NewParser(250, 1024)

	got := run(t, engine, parser, "set k 0 0 5\r\nhello\r\nget k\r\n")
	want := "STORED\r\nVALUE k 0 5\r\nhello\r\nEND\r\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestScenarioMiss(t *testing.T) {
	engine := New(Limits{MaxKeys: 100, MaxKeyBytes: 250, MaxValueBytes: 1024, MaxTotalBytes: 1 << 20}, time.Hour)
	parser := proto.NewParser(250, 1024)

	got := run(t, engine, parser, "get missing\r\n")
	if got != "END\r\n" {
		t.Fatalf("got %q", got)
	}
}

func TestScenarioDeleteExistingThenMissing(t *testing.T) {
	engine := New(Limits{MaxKeys: 100, MaxKeyBytes: 250, MaxValueBytes: 1024, MaxTotalBytes: 1 << 20}, time.Hour)
	parser := proto.NewParser(250, 1024)

	got := run(t, engine, parser, "set k 0 0 1\r\nx\r\ndelete k\r\ndelete k\r\n")
	want := "STORED\r\nDELETED\r\nNOT_FOUND\r\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestScenarioMultiGetDeduplicatesKeys(t *testing.T) {
	engine := New(Limits{MaxKeys: 100, MaxKeyBytes: 250, MaxValueBytes: 1024, MaxTotalBytes: 1 << 20}, time.Hour)
	parser := proto.NewParser(250, 1024)

	got := run(t, engine, parser, "set a 0 0 1\r\n1\r\nset b 0 0 1\r\n2\r\nget a b a\r\n")
	want := "STORED\r\nSTORED\r\nVALUE a 0 1\r\n1\r\nVALUE b 0 1\r\n2\r\nEND\r\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestScenarioLRUEvictionOverWire(t *testing.T) {
	engine := New(Limits{MaxKeys: 2, MaxKeyBytes: 250, MaxValueBytes: 1024, MaxTotalBytes: 1 << 20}, time.Hour)
	parser := proto.NewParser(250, 1024)

	input := "set a 0 0 1\r\n1\r\n" +
		"set b 0 0 1\r\n2\r\n" +
		"get a\r\n" +
		"set c 0 0 1\r\n3\r\n" +
		"get b\r\n" +
		"get a\r\n" +
		"get c\r\n"
	got := run(t, engine, parser, input)
	want := "STORED\r\n" +
		"STORED\r\n" +
		"VALUE a 0 1\r\n1\r\nEND\r\n" +
		"STORED\r\n" +
		"END\r\n" +
		"VALUE a 0 1\r\n1\r\nEND\r\n" +
		"VALUE c 0 1\r\n3\r\nEND\r\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestScenarioParseErrorRecoverableOnSameConnection(t *testing.T) {
	engine := New(Limits{MaxKeys: 100, MaxKeyBytes: 250, MaxValueBytes: 1024, MaxTotalBytes: 1 << 20}, time.Hour)
	parser := proto.NewParser(250, 1024)

	got := run(t, engine, parser, "set k 0 0 -1\r\nget x\r\n")
	want := "CLIENT_ERROR invalid length format\r\nEND\r\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestScenarioStoreBinarySafePayload(t *testing.T) {
	engine := New(Limits{MaxKeys: 100, MaxKeyBytes: 250, MaxValueBytes: 1024, MaxTotalBytes: 1 << 20}, time.Hour)
	parser := proto.NewParser(250, 1024)

	got := run(t, engine, parser, "set k 0 0 6\r\nab\r\ncd\r\nget k\r\n")
	want := "STORED\r\nVALUE k 0 6\r\nab\r\ncd\r\nEND\r\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
