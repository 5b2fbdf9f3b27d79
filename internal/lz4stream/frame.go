// Package lz4stream reads and writes the LZ4 frame container: the modern
// magic/descriptor/blocks/terminator layout and the older legacy format.
package lz4stream

import (
	"encoding/binary"
	"io"

	"github.com/pierrec/xxHash/xxHash32"

	"github.com/stbrumme/lz4/internal/lz4errors"
)

const (
	magicModern uint32 = 0x184D2204
	magicLegacy uint32 = 0x184C2102

	// descriptorFlag and blockSizeIDByte are the only values this encoder
	// ever emits: version 1, block-independence bit clear (blocks may
	// reference earlier blocks), every checksum off, no content size, no
	// dictionary, block-size ID 7.
	descriptorFlag  byte = 0x40
	blockSizeIDByte byte = 0x70

	// MaxBlockSize is the uncompressed size of one modern-frame block.
	MaxBlockSize = 4 << 20
	// MaxBlockSizeLegacy is the uncompressed size of one legacy-frame block.
	MaxBlockSizeLegacy = 8 << 20
)

// headerChecksum is the frame descriptor's trailing byte: the second byte
// of the XXH32 hash of the flag and block-size-ID bytes. It never changes
// because the descriptor this encoder writes never changes.
var headerChecksum = byte(xxHash32.Checksum([]byte{descriptorFlag, blockSizeIDByte}, 0) >> 8)

// WriteHeader emits a frame header: the fixed modern descriptor, or a bare
// magic number in legacy mode.
func WriteHeader(w io.Writer, legacy bool) error {
	var buf [7]byte
	if legacy {
		binary.LittleEndian.PutUint32(buf[:4], magicLegacy)
		_, err := w.Write(buf[:4])
		return err
	}
	binary.LittleEndian.PutUint32(buf[:4], magicModern)
	buf[4] = descriptorFlag
	buf[5] = blockSizeIDByte
	buf[6] = headerChecksum
	_, err := w.Write(buf[:])
	return err
}

// Descriptor holds the modern frame flags relevant to decoding.
type Descriptor struct {
	HasBlockChecksum   bool
	HasContentSize     bool
	HasContentChecksum bool
}

// ReadHeader reads and validates a frame header, reporting whether the
// stream is legacy and, for modern frames, the decoded flags.
func ReadHeader(r io.Reader) (legacy bool, desc Descriptor, err error) {
	var magic [4]byte
	if _, err = io.ReadFull(r, magic[:]); err != nil {
		return
	}
	switch binary.LittleEndian.Uint32(magic[:]) {
	case magicLegacy:
		return true, Descriptor{}, nil
	case magicModern:
	default:
		return false, Descriptor{}, lz4errors.ErrInvalidSignature
	}

	var b [1]byte
	if _, err = io.ReadFull(r, b[:]); err != nil {
		return
	}
	flags := b[0]
	desc.HasBlockChecksum = flags&(1<<4) != 0
	desc.HasContentSize = flags&(1<<3) != 0
	desc.HasContentChecksum = flags&(1<<2) != 0
	if flags&1 != 0 {
		return false, desc, lz4errors.ErrUnsupportedFeature
	}

	// Block-size-ID byte: skipped, this decoder accepts any of the four
	// valid maximum block sizes without needing to know which one up
	// front, since every block carries its own size tag.
	if _, err = io.ReadFull(r, b[:]); err != nil {
		return
	}

	if desc.HasContentSize {
		var size [8]byte
		if _, err = io.ReadFull(r, size[:]); err != nil {
			return
		}
	}

	// Header checksum byte: read and discarded, not re-verified.
	if _, err = io.ReadFull(r, b[:]); err != nil {
		return
	}

	return false, desc, nil
}

// WriteBlockSize emits the 4-byte little-endian block-size tag; bit 31
// marks the block as stored uncompressed.
func WriteBlockSize(w io.Writer, size int, uncompressed bool) error {
	tag := uint32(size)
	if uncompressed {
		tag |= 1 << 31
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], tag)
	_, err := w.Write(buf[:])
	return err
}

// ReadBlockSize reads one block-size tag. end is true when the modern
// frame's zero-size terminator was read instead of a real block.
func ReadBlockSize(r io.Reader) (size uint32, uncompressed, end bool, err error) {
	var buf [4]byte
	if _, err = io.ReadFull(r, buf[:]); err != nil {
		return
	}
	tag := binary.LittleEndian.Uint32(buf[:])
	if tag == 0 {
		return 0, false, true, nil
	}
	uncompressed = tag&(1<<31) != 0
	size = tag &^ (1 << 31)
	return
}

// WriteTerminator emits the modern frame's 4-byte end-of-stream marker.
// Legacy frames have no terminator.
func WriteTerminator(w io.Writer) error {
	var buf [4]byte
	_, err := w.Write(buf[:])
	return err
}

// SkipBlockChecksum discards one block's trailing checksum word.
func SkipBlockChecksum(r io.Reader) error {
	var buf [4]byte
	_, err := io.ReadFull(r, buf[:])
	return err
}

// SkipContentChecksum discards the frame's trailing content checksum word.
func SkipContentChecksum(r io.Reader) error {
	var buf [4]byte
	_, err := io.ReadFull(r, buf[:])
	return err
}
