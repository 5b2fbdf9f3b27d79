package lz4block

// buffer is a growable byte sequence paired with dataZero, the absolute
// file offset of data[0]. All positions referenced by the match finder's
// hash chains must fall within [dataZero, dataZero+len(data)).
type buffer struct {
	data     []byte
	dataZero uint64
}

// append grows the buffer with p.
func (b *buffer) append(p []byte) {
	b.data = append(b.data, p...)
}

// end returns the absolute file offset just past the last byte held.
func (b *buffer) end() uint64 {
	return b.dataZero + uint64(len(b.data))
}

// at returns the byte stored at the given absolute file offset.
func (b *buffer) at(offset uint64) byte {
	return b.data[offset-b.dataZero]
}

// slice returns the n bytes starting at the given absolute file offset.
func (b *buffer) slice(offset uint64, n int) []byte {
	i := offset - b.dataZero
	return b.data[i : i+uint64(n)]
}

// tail returns the bytes from the given absolute file offset to the end of
// the buffer.
func (b *buffer) tail(offset uint64) []byte {
	return b.data[offset-b.dataZero:]
}

// shrinkHead drops bytes older than end()-keep, advancing dataZero. It is
// a no-op if fewer than keep bytes are currently held.
func (b *buffer) shrinkHead(keep int) {
	if len(b.data) <= keep {
		return
	}
	drop := len(b.data) - keep
	b.dataZero += uint64(drop)
	b.data = append(b.data[:0], b.data[drop:]...)
}

// reset empties the buffer, advancing dataZero past every byte held.
func (b *buffer) reset() {
	b.dataZero += uint64(len(b.data))
	b.data = b.data[:0]
}
