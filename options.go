package lz4

import (
	"fmt"
	"reflect"

	"github.com/stbrumme/lz4/internal/lz4errors"
)

type (
	applier interface {
		Apply(...Option) error
		private()
	}
	// Option configures a Writer or a Reader.
	Option func(applier) error
)

func (o Option) String() string {
	return o(nil).Error()
}

// Default options, applied by NewWriter/NewReader before any caller-supplied
// ones.
var (
	defaultLevel       = LevelOption(LevelFastest)
	defaultChecksum    = ChecksumOption(false)
	defaultOnBlockDone = OnBlockDoneOption(nil)
)

// LevelOption sets the match-finding effort (default=LevelFastest).
func LevelOption(level Level) Option {
	return func(a applier) error {
		switch w := a.(type) {
		case nil:
			return lz4errors.Error(fmt.Sprintf("LevelOption(%d)", level))
		case *Writer:
			if !level.isValid() {
				return fmt.Errorf("%w: %d", lz4errors.ErrOptionInvalidCompressionLevel, level)
			}
			w.level = level
			return nil
		}
		return lz4errors.ErrOptionNotApplicable
	}
}

// LegacyOption switches between the modern frame format (default=false) and
// the older legacy format: bare magic number, 8 MiB independent blocks, no
// descriptor, no checksums.
func LegacyOption(flag bool) Option {
	return func(a applier) error {
		switch w := a.(type) {
		case nil:
			return lz4errors.Error(fmt.Sprintf("LegacyOption(%v)", flag))
		case *Writer:
			w.legacy = flag
			return nil
		}
		return lz4errors.ErrOptionNotApplicable
	}
}

// DictionaryOption primes the encoder or decoder with up to 64 KiB of
// predefined history (default=nil): shorter dictionaries are zero-padded,
// longer ones are trimmed to their trailing 64 KiB.
func DictionaryOption(dictionary []byte) Option {
	return func(a applier) error {
		switch rw := a.(type) {
		case nil:
			return lz4errors.Error(fmt.Sprintf("DictionaryOption(%d bytes)", len(dictionary)))
		case *Writer:
			rw.dictionary = dictionary
			return nil
		case *Reader:
			rw.dictionary = dictionary
			return nil
		}
		return lz4errors.ErrOptionNotApplicable
	}
}

// ChecksumOption is always a no-op: this encoder never computes block or
// content checksums, and this decoder never verifies them. Passing true
// returns ErrOptionNotApplicable so callers do not silently believe
// checksums are being produced.
func ChecksumOption(flag bool) Option {
	return func(a applier) error {
		switch a.(type) {
		case nil:
			return lz4errors.Error(fmt.Sprintf("ChecksumOption(%v)", flag))
		case *Writer:
			if flag {
				return lz4errors.ErrOptionNotApplicable
			}
			return nil
		}
		return lz4errors.ErrOptionNotApplicable
	}
}

// BlockChecksumOption, like ChecksumOption, is always a no-op: per-block
// checksums are never computed on encode. Passing true returns
// ErrOptionNotApplicable.
func BlockChecksumOption(flag bool) Option {
	return func(a applier) error {
		switch a.(type) {
		case nil:
			return lz4errors.Error(fmt.Sprintf("BlockChecksumOption(%v)", flag))
		case *Writer:
			if flag {
				return lz4errors.ErrOptionNotApplicable
			}
			return nil
		}
		return lz4errors.ErrOptionNotApplicable
	}
}

// ConcurrencyOption is retained for API shape compatibility with libraries
// that size a worker-goroutine pool from it. This encoder's core is
// intentionally single-threaded, so any n other than 0 or 1 is rejected
// rather than silently ignored.
func ConcurrencyOption(n int) Option {
	return func(a applier) error {
		switch a.(type) {
		case nil:
			return lz4errors.Error(fmt.Sprintf("ConcurrencyOption(%d)", n))
		case *Writer:
			if n != 0 && n != 1 {
				return lz4errors.ErrOptionNotApplicable
			}
			return nil
		}
		return lz4errors.ErrOptionNotApplicable
	}
}

func onBlockDone(int) {}

// OnBlockDoneOption registers a callback invoked as each block finishes,
// used by the CLI's progress bar. A Writer passes the block's uncompressed
// size. A Reader passes the number of decoded bytes released to Read while
// that block was decoded: bytes still held in the 64 KiB history window are
// not counted then, and the final flush at end of stream is not reported.
func OnBlockDoneOption(handler func(size int)) Option {
	if handler == nil {
		handler = onBlockDone
	}
	return func(a applier) error {
		switch rw := a.(type) {
		case nil:
			return lz4errors.Error(fmt.Sprintf("OnBlockDoneOption(%s)", reflect.TypeOf(handler).String()))
		case *Writer:
			rw.handler = handler
		case *Reader:
			rw.handler = handler
		}
		return nil
	}
}
