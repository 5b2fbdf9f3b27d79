package lz4block

// Match is a single back-reference produced by the match finder or
// rewritten by the cost estimator: the Length bytes starting at the
// current position duplicate the Length bytes starting Distance bytes
// earlier.
type Match struct {
	Length   uint32
	Distance uint32
}

// IsMatch reports whether m is long enough to be encoded as a match rather
// than folded into the surrounding literal run.
func (m Match) IsMatch() bool {
	return m.Length >= MinMatch
}

const (
	// MinMatch is the minimum length of a usable match.
	MinMatch = 4

	// BlockEndNoMatch is how close to the end of a block a match may not
	// start: the last match must not begin within this many bytes of the
	// block's end.
	BlockEndNoMatch = 12

	// BlockEndLiterals is how many trailing bytes of a block are always
	// emitted as literals, never matched.
	BlockEndLiterals = 5

	// hashBits sizes the lastHash table: 2^hashBits entries.
	hashBits = 20
	hashSize = 1 << hashBits

	// hashMultiplier is a Knuth/LCG multiplicative hash constant; the
	// multiply is always taken modulo 2^32.
	hashMultiplier = 22695477
	hashShift      = 32 - hashBits

	// previousSize sizes the two match-chain rings: 2^16 entries, indexed
	// by position modulo previousSize.
	previousSize = 1 << 16
	previousMask = previousSize - 1

	// noPrevious marks the end of a hash or exact-match chain.
	noPrevious = 0

	// noLastHash marks a hash bucket that has never been written.
	noLastHash = ^uint64(0) >> 1 // a sentinel outside any real file offset

	// MaxDistance is the largest distance a match may reference.
	MaxDistance = 65535

	// maxSameLetter gates the pathological-input shortcut for long runs of
	// a single repeated byte: once a self-referencing (distance == 1) match
	// grows past this length, both the match finder and the cost estimator
	// take an O(1) shortcut instead of re-deriving the optimal split.
	maxSameLetter = 19 + 255*256

	// WindowSize is the 64 KiB sliding window matches may reference.
	WindowSize = 1 << 16
)
