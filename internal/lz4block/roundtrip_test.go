package lz4block

import (
	"bytes"
	"strings"
	"testing"
)

// encodeAll drives one Encoder across the whole of src, splitting it into
// blocks no larger than maxBlockSize, and returns the concatenated raw
// (block, isCompressed) pairs needed to decode it back.
type encodedBlock struct {
	data       []byte
	compressed bool
}

func encodeAll(t *testing.T, src []byte, maxBlockSize, maxChainLength int) []encodedBlock {
	t.Helper()
	enc := NewEncoder(nil)
	enc.Write(src)

	var blocks []encodedBlock
	for enc.Buffered() > 0 {
		tokens, raw := enc.Block(maxBlockSize, maxChainLength)
		if len(tokens) < len(raw) {
			blocks = append(blocks, encodedBlock{tokens, true})
		} else {
			blocks = append(blocks, encodedBlock{raw, false})
		}
	}
	return blocks
}

func decodeAll(t *testing.T, blocks []encodedBlock) []byte {
	t.Helper()
	dec := NewDecoder(nil)
	var out bytes.Buffer
	for _, b := range blocks {
		var err error
		if b.compressed {
			err = dec.DecodeBlock(bytes.NewReader(b.data), uint32(len(b.data)), &out)
		} else {
			err = dec.DecodeStoredBlock(b.data, &out)
		}
		if err != nil {
			t.Fatalf("decode block: %v", err)
		}
	}
	if err := dec.Flush(&out); err != nil {
		t.Fatalf("flush: %v", err)
	}
	return out.Bytes()
}

func roundTrip(t *testing.T, src []byte, maxChainLength int) {
	t.Helper()
	blocks := encodeAll(t, src, 4<<20, maxChainLength)
	got := decodeAll(t, blocks)
	if !bytes.Equal(got, src) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d bytes", len(got), len(src))
	}
}

func TestRoundTripLevels(t *testing.T) {
	inputs := map[string][]byte{
		"empty":          {},
		"one byte":       {'x'},
		"short literal":  []byte("hello, world"),
		"repeated":       bytes.Repeat([]byte("ab"), 1000),
		"long same byte": bytes.Repeat([]byte{0}, 20),
		"very long same": bytes.Repeat([]byte{7}, 19+255*256+10),
		"text":           []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 500)),
	}

	for name, src := range inputs {
		for _, maxChainLength := range []int{0, 1, 3, 6, 8, 9, MaxOptimalChainLength} {
			src := src
			maxChainLength := maxChainLength
			t.Run(name, func(t *testing.T) {
				roundTrip(t, src, maxChainLength)
			})
		}
	}
}

func TestRoundTripMultiBlock(t *testing.T) {
	// Force several small blocks so cross-block references (lookback) and
	// the buffer trim get exercised.
	src := bytes.Repeat([]byte("0123456789abcdef"), 5000)
	blocks := encodeAll(t, src, 4096, MaxOptimalChainLength)
	if len(blocks) < 2 {
		t.Fatalf("expected multiple blocks, got %d", len(blocks))
	}
	got := decodeAll(t, blocks)
	if !bytes.Equal(got, src) {
		t.Fatal("multi-block round trip mismatch")
	}
}

func TestDecodeInvalidOffset(t *testing.T) {
	// Token: 0 literals, match length 4 (nibble 0), distance 0 -- invalid.
	tokens := []byte{0x00, 0x00, 0x00}
	dec := NewDecoder(nil)
	var out bytes.Buffer
	err := dec.DecodeBlock(bytes.NewReader(tokens), uint32(len(tokens)), &out)
	if err == nil {
		t.Fatal("expected an error for zero match distance")
	}
}

func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte(nil), 9)
	f.Add([]byte("fuzz seed with some repetition, repetition, repetition"), 9)
	f.Add(bytes.Repeat([]byte{0xAA}, 300), 1)
	f.Add([]byte{0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3}, 6)

	f.Fuzz(func(t *testing.T, src []byte, level int) {
		maxChainLength := level % 10
		if maxChainLength < 0 {
			maxChainLength = -maxChainLength
		}
		if maxChainLength == 9 {
			maxChainLength = MaxOptimalChainLength
		}
		roundTrip(t, src, maxChainLength)
	})
}

func TestDictionaryPriming(t *testing.T) {
	dict := bytes.Repeat([]byte("shared-context-"), 100)
	src := append(append([]byte{}, dict...), []byte("trailer unique to this message")...)

	enc := NewEncoder(dict)
	enc.Write(src)
	tokens, raw := enc.Block(4<<20, MaxOptimalChainLength)
	if tokens == nil || len(tokens) >= len(raw) {
		t.Fatal("expected the dictionary to make the block compressible")
	}

	dec := NewDecoder(dict)
	var out bytes.Buffer
	if err := dec.DecodeBlock(bytes.NewReader(tokens), uint32(len(tokens)), &out); err != nil {
		t.Fatal(err)
	}
	if err := dec.Flush(&out); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.Bytes(), src) {
		t.Fatal("dictionary-primed round trip mismatch")
	}
}
