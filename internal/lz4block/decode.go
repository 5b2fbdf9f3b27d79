package lz4block

import (
	"io"

	"github.com/stbrumme/lz4/internal/lz4errors"
)

// DecodeBlock decodes one compressed block of exactly blockSize encoded
// bytes, read one byte at a time from br, reconstructing output into hist
// and flushing to out as hist's 64 KiB window wraps.
//
// Every read is checked against blockSize before it happens: a token whose
// literal run or match tail would read past the declared block end fails
// with lz4errors.ErrInvalidOffset instead of silently reading into
// whatever follows in the stream.
func DecodeBlock(br io.ByteReader, blockSize uint32, hist *history, out io.Writer) error {
	var consumed uint32
	readByte := func() (byte, error) {
		if consumed >= blockSize {
			return 0, lz4errors.ErrInvalidOffset
		}
		b, err := br.ReadByte()
		if err != nil {
			return 0, lz4errors.ErrOutOfData
		}
		consumed++
		return b, nil
	}

	for consumed < blockSize {
		token, err := readByte()
		if err != nil {
			return err
		}

		numLiterals := int(token >> 4)
		if numLiterals == 15 {
			for {
				b, err := readByte()
				if err != nil {
					return err
				}
				numLiterals += int(b)
				if b != 0xFF {
					break
				}
			}
		}

		for i := 0; i < numLiterals; i++ {
			b, err := readByte()
			if err != nil {
				return err
			}
			if err := hist.writeByte(b, out); err != nil {
				return err
			}
		}

		if consumed == blockSize {
			// Every block ends with a literals-only token.
			return nil
		}

		lo, err := readByte()
		if err != nil {
			return err
		}
		hi, err := readByte()
		if err != nil {
			return err
		}
		delta := int(lo) | int(hi)<<8
		if delta == 0 {
			return lz4errors.ErrInvalidOffset
		}

		matchLength := int(token & 0x0F)
		if matchLength == 15 {
			for {
				b, err := readByte()
				if err != nil {
					return err
				}
				matchLength += int(b)
				if b != 0xFF {
					break
				}
			}
		}
		matchLength += MinMatch

		if err := hist.copyMatch(delta, matchLength, out); err != nil {
			return err
		}
	}
	return nil
}

// DecodeUncompressedBlock copies an uncompressed block straight into the
// history window, so later compressed blocks can still reference it.
func DecodeUncompressedBlock(data []byte, hist *history, out io.Writer) error {
	return hist.write(data, out)
}

// NewHistory returns a fresh, empty 64 KiB decode history buffer.
func NewHistory() *history {
	return &history{}
}
