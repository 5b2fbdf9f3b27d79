// Package lz4 implements reading and writing of LZ4 frames, built around an
// optimal-parsing block compressor: a dual hash-chain match finder paired
// with a backward dynamic-program cost estimator that picks, at every
// position, the match length minimizing the number of compressed bytes from
// there to the end of the block.
package lz4

import (
	"github.com/stbrumme/lz4/internal/lz4block"
	"github.com/stbrumme/lz4/internal/lz4errors"
)

// Extension is the file name suffix conventionally used for LZ4-compressed
// files, appended by cmd/lz4c's compress subcommand.
const Extension = ".lz4"

// Errors a Reader or Writer can return, re-exported so callers can match
// them with errors.Is.
const (
	ErrInvalidSignature   = lz4errors.ErrInvalidSignature
	ErrUnsupportedFeature = lz4errors.ErrUnsupportedFeature
	ErrOutOfData          = lz4errors.ErrOutOfData
	ErrInvalidOffset      = lz4errors.ErrInvalidOffset
)

// Level selects how hard the encoder looks for matches. Level 0 disables
// matching entirely (blocks are stored). 1-3 is greedy (keep the longest of
// the first few chain candidates and skip the positions it covers), 4-6 is
// lazy (also check the next position before committing), 7-8 search every
// position with a short chain, 9 is optimal parsing: every candidate
// position is considered and the cost estimator picks the globally cheapest
// tokenization.
type Level uint32

const (
	LevelStore   Level = 0
	LevelFastest Level = 1
	LevelDefault Level = 6
	LevelOptimal Level = 9
)

// maxChainLength maps a Level to the match finder's search-depth budget.
func (l Level) maxChainLength() int {
	if l >= 9 {
		return lz4block.MaxOptimalChainLength
	}
	return int(l)
}

func (l Level) isValid() bool {
	return l <= 9
}
