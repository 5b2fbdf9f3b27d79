package lz4_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stbrumme/lz4"
)

func roundTrip(t *testing.T, src []byte, options ...lz4.Option) []byte {
	t.Helper()
	var compressed bytes.Buffer
	zw, err := lz4.NewWriter(&compressed, options...)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if _, err := zw.Write(src); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	zr, err := lz4.NewReader(&compressed)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	got, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, src) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(got), len(src))
	}
	return compressed.Bytes()
}

func TestWriterReaderRoundTripLevels(t *testing.T) {
	src := []byte(strings.Repeat("some text that repeats itself over and over. ", 2000))
	for _, level := range []lz4.Level{lz4.LevelStore, lz4.LevelFastest, lz4.LevelDefault, lz4.LevelOptimal} {
		level := level
		t.Run("", func(t *testing.T) {
			roundTrip(t, src, lz4.LevelOption(level))
		})
	}
}

func TestWriterReaderRoundTripLegacy(t *testing.T) {
	// A single legacy block: the decoder treats any compressed block
	// smaller than 8 MiB as the last one, so compressible multi-block
	// legacy streams do not round trip by design.
	src := bytes.Repeat([]byte("legacy frame payload "), 300000)
	roundTrip(t, src, lz4.LegacyOption(true), lz4.LevelOption(lz4.LevelOptimal))
}

func TestWriterReaderRoundTripLegacyMultiBlock(t *testing.T) {
	// Incompressible input: every non-final block's compressed form is
	// larger than 8 MiB, which is the only legacy layout where a second
	// block is reachable by the decoder. Exercises the per-block chain
	// reset.
	src := make([]byte, 9<<20)
	state := uint32(0x2545f491)
	for i := range src {
		state ^= state << 13
		state ^= state >> 17
		state ^= state << 5
		src[i] = byte(state)
	}
	roundTrip(t, src, lz4.LegacyOption(true), lz4.LevelOption(lz4.LevelFastest))
}

func TestWriterReaderRoundTripEmpty(t *testing.T) {
	roundTrip(t, nil)
}

func TestModernFrameLayout(t *testing.T) {
	out := roundTrip(t, []byte("frame layout probe"))
	prefix := []byte{0x04, 0x22, 0x4D, 0x18, 0x40, 0x70, 0xDF}
	if !bytes.HasPrefix(out, prefix) {
		t.Fatalf("frame starts with % X, want % X", out[:7], prefix)
	}
	if !bytes.HasSuffix(out, []byte{0, 0, 0, 0}) {
		t.Fatal("frame does not end with the zero terminator")
	}
}

func TestEmptyFrameIsHeaderAndTerminator(t *testing.T) {
	var buf bytes.Buffer
	zw, err := lz4.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 11 {
		t.Fatalf("empty frame is %d bytes, want 11", buf.Len())
	}
}

func TestZeroRunCompressesTightly(t *testing.T) {
	// One long match over a zero run needs ~length/255 extension bytes, so
	// the floor for 64 KiB is ~280 bytes of frame.
	src := make([]byte, 65536)
	out := roundTrip(t, src, lz4.LevelOption(lz4.LevelOptimal))
	if len(out) >= 400 {
		t.Fatalf("64 KiB of zeros compressed to %d bytes, want < 400", len(out))
	}
}

func TestWriterReaderRoundTripDictionary(t *testing.T) {
	dict := bytes.Repeat([]byte("preamble-"), 200)
	src := append(append([]byte{}, dict...), []byte(" unique suffix")...)

	var compressed bytes.Buffer
	zw, err := lz4.NewWriter(&compressed, lz4.DictionaryOption(dict))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := zw.Write(src); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	zr, err := lz4.NewReader(&compressed, lz4.DictionaryOption(dict))
	if err != nil {
		t.Fatal(err)
	}
	got, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, src) {
		t.Fatal("dictionary-primed round trip mismatch")
	}
}

func TestWriterMultipleWriteCalls(t *testing.T) {
	var compressed bytes.Buffer
	zw, err := lz4.NewWriter(&compressed)
	if err != nil {
		t.Fatal(err)
	}
	parts := []string{"first chunk ", "second chunk ", "third chunk"}
	var want bytes.Buffer
	for _, p := range parts {
		if _, err := zw.Write([]byte(p)); err != nil {
			t.Fatal(err)
		}
		want.WriteString(p)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	zr, err := lz4.NewReader(&compressed)
	if err != nil {
		t.Fatal(err)
	}
	got, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want.Bytes()) {
		t.Fatal("multi-write round trip mismatch")
	}
}

func TestWriterResetAcrossFiles(t *testing.T) {
	zw, err := lz4.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}

	var outs [2]bytes.Buffer
	srcs := [2][]byte{[]byte("first file content"), []byte("second file content, different")}
	for i := range srcs {
		if err := zw.Reset(&outs[i]); err != nil {
			t.Fatalf("Reset %d: %v", i, err)
		}
		if _, err := zw.Write(srcs[i]); err != nil {
			t.Fatalf("Write %d: %v", i, err)
		}
		if err := zw.Close(); err != nil {
			t.Fatalf("Close %d: %v", i, err)
		}
	}

	for i := range srcs {
		zr, err := lz4.NewReader(&outs[i])
		if err != nil {
			t.Fatal(err)
		}
		got, err := io.ReadAll(zr)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, srcs[i]) {
			t.Fatalf("file %d mismatch", i)
		}
	}
}

func TestOnBlockDoneCallback(t *testing.T) {
	var total int
	var compressed bytes.Buffer
	zw, err := lz4.NewWriter(&compressed, lz4.OnBlockDoneOption(func(n int) { total += n }))
	if err != nil {
		t.Fatal(err)
	}
	src := bytes.Repeat([]byte("x"), 1000)
	if _, err := zw.Write(src); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if total != len(src) {
		t.Fatalf("handler reported %d bytes, want %d", total, len(src))
	}
}
