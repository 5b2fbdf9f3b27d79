package lz4block

import "io"

// history is the decoder's 64 KiB circular buffer of recently reconstructed
// bytes. pos is the next free index modulo WindowSize.
type history struct {
	buf [WindowSize]byte
	pos int
}

// writeByte stores b at the write cursor, flushing the whole buffer to out
// whenever the cursor wraps back to zero.
func (h *history) writeByte(b byte, out io.Writer) error {
	h.buf[h.pos] = b
	h.pos++
	if h.pos == WindowSize {
		h.pos = 0
		if _, err := out.Write(h.buf[:]); err != nil {
			return err
		}
	}
	return nil
}

// write stores p at the write cursor, flushing on every 65536-byte wrap.
func (h *history) write(p []byte, out io.Writer) error {
	for len(p) > 0 {
		n := copy(h.buf[h.pos:], p)
		h.pos += n
		p = p[n:]
		if h.pos == WindowSize {
			h.pos = 0
			if _, err := out.Write(h.buf[:]); err != nil {
				return err
			}
		}
	}
	return nil
}

// flush writes out the bytes accumulated since the last wrap, without
// resetting the cursor. Called once at end of stream.
func (h *history) flush(out io.Writer) error {
	if h.pos == 0 {
		return nil
	}
	_, err := out.Write(h.buf[:h.pos])
	return err
}

// copyMatch copies length bytes from delta bytes behind the write cursor to
// the write cursor: byte-by-byte when the source and destination ranges
// overlap (distance < length), a bulk copy otherwise.
func (h *history) copyMatch(delta, length int, out io.Writer) error {
	reference := h.pos - delta
	if reference < 0 {
		reference += WindowSize
	}

	if delta >= length && reference+length <= WindowSize && h.pos+length <= WindowSize {
		// Fast path: non-overlapping, no wraparound in either range.
		n := copy(h.buf[h.pos:h.pos+length], h.buf[reference:reference+length])
		h.pos += n
		if h.pos == WindowSize {
			h.pos = 0
			if _, err := out.Write(h.buf[:]); err != nil {
				return err
			}
		}
		return nil
	}

	for i := 0; i < length; i++ {
		b := h.buf[reference]
		reference++
		if reference == WindowSize {
			reference = 0
		}
		if err := h.writeByte(b, out); err != nil {
			return err
		}
	}
	return nil
}
