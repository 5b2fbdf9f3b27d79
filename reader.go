package lz4

import (
	"bufio"
	"bytes"
	"io"

	"github.com/stbrumme/lz4/internal/lz4block"
	"github.com/stbrumme/lz4/internal/lz4errors"
	"github.com/stbrumme/lz4/internal/lz4stream"
)

var readerStates = []aState{
	noState:     newState,
	newState:    readState,
	readState:   readState,
	closedState: noState,
	errorState:  noState,
}

// NewReader returns a Reader that decompresses an LZ4 frame (modern or
// legacy, detected automatically) read from src.
func NewReader(src io.Reader, options ...Option) (*Reader, error) {
	zr := &Reader{}
	zr.state.init(readerStates)
	_ = defaultOnBlockDone(zr)
	if err := zr.Reset(src, options...); err != nil {
		return nil, err
	}
	return zr, nil
}

// Reader streams the decompressed content of an LZ4 frame.
type Reader struct {
	state _State
	br    *bufio.Reader

	dictionary []byte
	handler    func(int)

	legacy  bool
	desc    lz4stream.Descriptor
	dec     *lz4block.Decoder
	pending bytes.Buffer
	done    bool
}

func (*Reader) private() {}

// Apply sets options on a Reader that has not yet read anything.
func (r *Reader) Apply(options ...Option) (err error) {
	defer r.state.check(&err)
	switch r.state.state {
	case noState, newState:
	case errorState:
		return r.state.err
	default:
		return lz4errors.ErrOptionClosedOrError
	}
	for _, o := range options {
		if err = o(r); err != nil {
			return
		}
	}
	return
}

func (r *Reader) Read(p []byte) (n int, err error) {
	defer r.state.check(&err)
	switch r.state.state {
	case readState:
	case closedState, errorState:
		return 0, r.state.err
	case newState:
		var legacy bool
		var desc lz4stream.Descriptor
		legacy, desc, err = lz4stream.ReadHeader(r.br)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			err = lz4errors.ErrOutOfData
		}
		if r.state.next(err) {
			return
		}
		r.legacy = legacy
		r.desc = desc
		r.dec = lz4block.NewDecoder(r.dictionary)
	default:
		return 0, r.state.fail()
	}

	if len(p) == 0 {
		return 0, nil
	}

	for r.pending.Len() == 0 && !r.done {
		if err = r.fillNextBlock(); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				// The input ran dry before the frame's end marker.
				err = lz4errors.ErrOutOfData
			}
			return 0, err
		}
	}
	if r.pending.Len() == 0 {
		return 0, io.EOF
	}
	n, _ = r.pending.Read(p)
	return n, nil
}

// fillNextBlock advances the frame by one data block, appending its
// decoded bytes to r.pending, or recognizes end-of-frame and flushes the
// decoder's history window.
func (r *Reader) fillNextBlock() error {
	size, uncompressed, end, err := lz4stream.ReadBlockSize(r.br)
	if err != nil {
		if r.legacy && err == io.EOF {
			// Legacy frames have no terminator: running out of input at a
			// block boundary is a clean end of stream.
			return r.finish()
		}
		return err
	}
	if !r.legacy && end {
		if r.desc.HasContentChecksum {
			if err := lz4stream.SkipContentChecksum(r.br); err != nil {
				return err
			}
		}
		return r.finish()
	}

	pre := r.pending.Len()
	if uncompressed {
		data := make([]byte, size)
		if _, err := io.ReadFull(r.br, data); err != nil {
			return err
		}
		if err := r.dec.DecodeStoredBlock(data, &r.pending); err != nil {
			return err
		}
	} else {
		if err := r.dec.DecodeBlock(r.br, size, &r.pending); err != nil {
			return err
		}
	}
	r.handler(r.pending.Len() - pre)

	if !r.legacy && r.desc.HasBlockChecksum {
		if err := lz4stream.SkipBlockChecksum(r.br); err != nil {
			return err
		}
	}

	if r.legacy && size < lz4stream.MaxBlockSizeLegacy {
		// A short block is the only end-of-stream signal in legacy mode;
		// there is no terminator word to look for.
		return r.finish()
	}
	return nil
}

func (r *Reader) finish() error {
	r.done = true
	return r.dec.Flush(&r.pending)
}

// Reset clears the state of r such that it is equivalent to its initial
// state from NewReader, but reading from src instead. Reset keeps
// previously applied options unless overridden by the supplied ones.
func (r *Reader) Reset(src io.Reader, options ...Option) (err error) {
	r.br = bufio.NewReader(src)
	r.pending.Reset()
	r.done = false
	r.dec = nil

	for _, o := range options {
		if err = o(r); err != nil {
			break
		}
	}
	r.state.state = noState
	r.state.next(err)
	return err
}
