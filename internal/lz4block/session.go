package lz4block

import "io"

// Encoder drives one frame's worth of block compression: it owns the
// growing byte buffer and the persistent hash-chain tables across the whole
// frame, handing back one block's token stream at a time. lastHash,
// previousHash and previousExact outlive every individual block.
type Encoder struct {
	buf buffer
	mf  *matchFinder
	pos uint64

	dictLookback uint64 // lookback for the first block only
}

// NewEncoder returns an Encoder primed with dictionary: it is padded with
// leading zeros up to 64 KiB if shorter, or trimmed to its trailing 64 KiB
// if longer, and only counts as lookback material, never as part of the
// first emitted block.
func NewEncoder(dictionary []byte) *Encoder {
	e := &Encoder{mf: newMatchFinder()}
	if len(dictionary) == 0 {
		return e
	}

	d := dictionary
	if len(d) > WindowSize {
		d = d[len(d)-WindowSize:]
	}
	if len(d) < WindowSize {
		e.buf.append(make([]byte, WindowSize-len(d)))
	}
	e.buf.append(d)
	e.pos = e.buf.end()
	e.dictLookback = uint64(len(d))

	return e
}

// Write appends raw input bytes to the pending, not yet blocked, buffer.
func (e *Encoder) Write(p []byte) {
	e.buf.append(p)
}

// Buffered reports how many bytes are held but not yet handed out by Block.
func (e *Encoder) Buffered() uint64 {
	return e.buf.end() - e.pos
}

// Block compresses up to maxBlockSize buffered bytes into one block's LZ4
// token stream. It also returns the same span of raw bytes, so the caller
// can fall back to storing them uncompressed when tokens grew the data;
// that decision is left to the caller since it also depends on the
// legacy-format override.
func (e *Encoder) Block(maxBlockSize int, maxChainLength int) (tokens, raw []byte) {
	// Trim bytes that fell out of the window before starting this block,
	// not after: the raw slice handed back below aliases the buffer, and
	// shrinking memmoves the backing array underneath it. A dictionary-
	// primed first block keeps its full 64 KiB of priming material.
	if e.dictLookback == 0 && e.pos-e.buf.dataZero > MaxDistance {
		e.buf.shrinkHead(int(e.buf.end()-e.pos) + MaxDistance)
	}

	lastBlock := e.pos
	available := e.buf.end() - lastBlock
	size := uint64(maxBlockSize)
	if available < size {
		size = available
	}
	nextBlock := lastBlock + size

	lookback := e.lookback(lastBlock)
	tokens = CompressBlock(e.mf, &e.buf, lastBlock, nextBlock, lookback, maxChainLength)
	raw = e.buf.slice(lastBlock, int(size))

	e.pos = nextBlock
	e.dictLookback = 0

	return tokens, raw
}

func (e *Encoder) lookback(lastBlock uint64) uint64 {
	if e.dictLookback > 0 {
		return e.dictLookback
	}
	lb := lastBlock - e.buf.dataZero
	if lb > BlockEndNoMatch {
		lb = BlockEndNoMatch
	}
	return lb
}

// ResetChains discards all hash-chain state and buffered history, used
// between independent legacy blocks: legacy frames never reference earlier
// blocks. Input that is buffered but not yet handed out by Block is kept.
func (e *Encoder) ResetChains() {
	e.mf.reset()
	e.buf.shrinkHead(int(e.buf.end() - e.pos))
}

// Decoder owns the 64 KiB circular history window used to decode every
// block of a frame.
type Decoder struct {
	hist *history
}

// NewDecoder returns a Decoder primed with dictionary: trimmed to its
// trailing 64 KiB if longer, placed at the tail of the history ring so it
// ends exactly at index 0 (mirroring NewEncoder's zero-pad-then-append),
// leaving pos at 0 so Flush and the wrap-triggered bulk writes only ever
// emit genuinely decoded bytes, never the dictionary's own content.
func NewDecoder(dictionary []byte) *Decoder {
	d := &Decoder{hist: &history{}}
	if len(dictionary) == 0 {
		return d
	}
	dict := dictionary
	if len(dict) > WindowSize {
		dict = dict[len(dict)-WindowSize:]
	}
	copy(d.hist.buf[WindowSize-len(dict):], dict)
	return d
}

// DecodeBlock decodes one block's compressed token stream, reading bytes
// from br up to blockSize and writing reconstructed output to out.
func (d *Decoder) DecodeBlock(br io.ByteReader, blockSize uint32, out io.Writer) error {
	return DecodeBlock(br, blockSize, d.hist, out)
}

// DecodeStoredBlock copies an uncompressed block straight through, still
// feeding it into the history window so later blocks can reference it.
func (d *Decoder) DecodeStoredBlock(data []byte, out io.Writer) error {
	return DecodeUncompressedBlock(data, d.hist, out)
}

// Flush writes out any bytes accumulated since the history window's last
// wraparound. Call once at end of stream.
func (d *Decoder) Flush(out io.Writer) error {
	return d.hist.flush(out)
}
