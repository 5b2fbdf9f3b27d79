package lz4

import (
	"io"

	"github.com/stbrumme/lz4/internal/lz4block"
	"github.com/stbrumme/lz4/internal/lz4errors"
	"github.com/stbrumme/lz4/internal/lz4stream"
)

var writerStates = []aState{
	noState:     newState,
	newState:    writeState,
	writeState:  closedState,
	closedState: noState,
	errorState:  noState,
}

// NewWriter returns a Writer that compresses to dst as an LZ4 frame.
func NewWriter(dst io.Writer, options ...Option) (*Writer, error) {
	zw := &Writer{}
	zw.state.init(writerStates)
	_ = defaultLevel(zw)
	_ = defaultChecksum(zw)
	_ = defaultOnBlockDone(zw)
	if err := zw.Reset(dst, options...); err != nil {
		return nil, err
	}
	return zw, nil
}

// Writer streams an LZ4 frame: each Write call feeds the block compressor,
// which emits a block every time MaxBlockSize (or MaxBlockSizeLegacy) bytes
// have accumulated. Close flushes whatever remains and writes the frame
// terminator.
type Writer struct {
	state _State
	dst   io.Writer

	level      Level
	legacy     bool
	dictionary []byte
	handler    func(int)

	enc *lz4block.Encoder
}

func (*Writer) private() {}

// Apply sets options on a Writer that has not yet been written to.
func (w *Writer) Apply(options ...Option) (err error) {
	defer w.state.check(&err)
	switch w.state.state {
	case noState, newState:
	case errorState:
		return w.state.err
	default:
		return lz4errors.ErrOptionClosedOrError
	}
	for _, o := range options {
		if err = o(w); err != nil {
			return
		}
	}
	return
}

func (w *Writer) maxBlockSize() int {
	if w.legacy {
		return lz4stream.MaxBlockSizeLegacy
	}
	return lz4stream.MaxBlockSize
}

func (w *Writer) Write(buf []byte) (n int, err error) {
	defer w.state.check(&err)
	switch w.state.state {
	case writeState:
	case errorState:
		return 0, w.state.err
	case closedState:
		return 0, lz4errors.ErrClosed
	case newState:
		if err = lz4stream.WriteHeader(w.dst, w.legacy); w.state.next(err) {
			return
		}
	default:
		return 0, w.state.fail()
	}

	w.enc.Write(buf)
	n = len(buf)

	maxBlockSize := uint64(w.maxBlockSize())
	for w.enc.Buffered() >= maxBlockSize {
		if err = w.flushBlock(); err != nil {
			return
		}
	}
	return
}

// flushBlock compresses and emits exactly one block's worth (or whatever
// remains, if less) of pending data.
func (w *Writer) flushBlock() error {
	tokens, raw := w.enc.Block(w.maxBlockSize(), w.level.maxChainLength())

	// Legacy format is always written compressed; modern format falls back
	// to storing raw bytes when compression did not shrink them.
	useCompression := w.legacy || len(tokens) < len(raw)
	data := raw
	if useCompression {
		data = tokens
	}

	if err := lz4stream.WriteBlockSize(w.dst, len(data), !useCompression); err != nil {
		return err
	}
	if _, err := w.dst.Write(data); err != nil {
		return err
	}
	w.handler(len(raw))

	if w.legacy {
		// Legacy blocks never reference one another, unlike modern blocks
		// which may reach back across the block boundary.
		w.enc.ResetChains()
	}
	return nil
}

// Close flushes any buffered data and writes the frame terminator (modern
// mode only). It does not close the underlying io.Writer.
func (w *Writer) Close() error {
	switch w.state.state {
	case writeState:
	case newState:
		// Nothing was ever written: an empty frame still carries its
		// header and terminator.
		if err := lz4stream.WriteHeader(w.dst, w.legacy); w.state.next(err) {
			return err
		}
	case errorState:
		return w.state.err
	default:
		return nil
	}
	var err error
	defer func() { w.state.next(err) }()

	for w.enc.Buffered() > 0 {
		if err = w.flushBlock(); err != nil {
			return err
		}
	}
	if !w.legacy {
		err = lz4stream.WriteTerminator(w.dst)
	}
	return err
}

// Reset clears the state of w such that it is equivalent to its initial
// state from NewWriter, but writing to dst instead. Reset keeps previously
// applied options unless overridden by the supplied ones. w.Close must be
// called before Reset on a Writer that has started writing.
func (w *Writer) Reset(dst io.Writer, options ...Option) (err error) {
	if w.state.state == writeState {
		return lz4errors.ErrWriterNotClosed
	}
	for _, o := range options {
		if err = o(w); err != nil {
			break
		}
	}
	w.state.state = noState
	if w.state.next(err) {
		return
	}
	w.dst = dst
	dict := w.dictionary
	if w.legacy {
		// Legacy blocks are fully independent and never reference priming
		// material.
		dict = nil
	}
	w.enc = lz4block.NewEncoder(dict)
	return nil
}
