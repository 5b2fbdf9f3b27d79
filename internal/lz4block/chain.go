package lz4block

import "encoding/binary"

// matchFinder maintains the two hash-chain rings and the coarse hash table:
// lastHash maps a 20-bit hash of the next four bytes to the most recent
// absolute offset it was seen at; previousHash and previousExact are 64Ki
// circular rings of *relative* back-distances, so that following a chain
// is well-defined modulo the ring and entries age out naturally once 65536
// more bytes have been produced.
type matchFinder struct {
	lastHash      [hashSize]uint64
	previousHash  [previousSize]uint32
	previousExact [previousSize]uint32
}

func newMatchFinder() *matchFinder {
	mf := &matchFinder{}
	mf.reset()
	return mf
}

// reset clears all tables. Used between independent legacy blocks; modern
// blocks keep the tables live across the whole stream.
func (mf *matchFinder) reset() {
	for i := range mf.lastHash {
		mf.lastHash[i] = noLastHash
	}
	for i := range mf.previousHash {
		mf.previousHash[i] = noPrevious
		mf.previousExact[i] = noPrevious
	}
}

func readU32(buf *buffer, pos uint64) uint32 {
	return binary.LittleEndian.Uint32(buf.slice(pos, 4))
}

func hash4(four uint32) uint32 {
	return ((four * hashMultiplier) >> hashShift) & (hashSize - 1)
}

// findMatches populates one Match per position in [lastBlock, nextBlock),
// walking forward from lastBlock-lookback (inclusive) so that chains
// spanning the block boundary are rebuilt. maxChainLength selects greedy
// (<=3), lazy (<=6 or <=8) or optimal (>=9, typically 65536) search depth;
// 0 disables matching entirely (store-uncompressed mode).
func (mf *matchFinder) findMatches(buf *buffer, lastBlock, nextBlock, lookback uint64, maxChainLength int) []Match {
	blockSize := nextBlock - lastBlock
	matches := make([]Match, blockSize)

	disabled := maxChainLength == 0
	isGreedy := maxChainLength > 0 && maxChainLength <= greedyThreshold
	isLazy := maxChainLength > greedyThreshold && maxChainLength <= lazyThreshold

	var skipMatches uint64
	lazyEvaluation := false

	start := lastBlock - lookback
	for pos := start; pos < nextBlock; pos++ {
		if pos+BlockEndNoMatch > nextBlock || disabled {
			continue
		}

		// Self-run shortcut: long runs of one repeated byte would
		// otherwise force an O(chain) search at every position.
		if pos > lastBlock && buf.at(pos) == buf.at(pos-1) {
			prev := matches[pos-lastBlock-1]
			if prev.Distance == 1 && prev.Length > maxSameLetter {
				prev.Length--
				matches[pos-lastBlock] = prev
				continue
			}
		}

		four := readU32(buf, pos)
		hash := hash4(four)

		last := mf.lastHash[hash]
		mf.lastHash[hash] = pos

		idx := uint32(pos & previousMask)

		if last == noLastHash || pos-last > MaxDistance {
			mf.previousHash[idx] = noPrevious
			mf.previousExact[idx] = noPrevious
			continue
		}
		distance := pos - last
		mf.previousHash[idx] = uint32(distance)

		// Walk the hash chain until the first four bytes actually match,
		// or the chain is proven stale/out of range.
		for distance != noPrevious {
			at := pos - distance
			if at < buf.dataZero {
				distance = noPrevious
				break
			}
			curFour := readU32(buf, at)
			if curFour == four {
				break
			}
			curHash := hash4(curFour)
			if curHash != hash {
				distance = noPrevious
				break
			}
			next := uint64(mf.previousHash[at&previousMask])
			if next == noPrevious {
				distance = noPrevious
				break
			}
			distance += next
			if distance > MaxDistance {
				mf.previousHash[at&previousMask] = noPrevious
				distance = noPrevious
				break
			}
		}

		if distance == noPrevious {
			mf.previousExact[idx] = noPrevious
			continue
		}
		mf.previousExact[idx] = uint32(distance)

		// Positions before lastBlock only exist to rebuild the chains;
		// they are not part of this block's output.
		if pos < lastBlock {
			continue
		}

		if skipMatches > 0 {
			skipMatches--
			if !lazyEvaluation {
				continue
			}
			lazyEvaluation = false
		}

		longest := mf.findLongestMatch(buf, pos, nextBlock-BlockEndLiterals, maxChainLength)
		matches[pos-lastBlock] = longest

		if longest.IsMatch() && (isGreedy || isLazy) {
			lazyEvaluation = skipMatches == 0
			skipMatches = uint64(longest.Length)
		}
	}

	return matches
}

// findLongestMatch walks the previousExact chain from pos, extending each
// candidate and keeping the longest. It stops after maxChainLength steps
// or once the accumulated distance exceeds MaxDistance, whichever comes
// first.
func (mf *matchFinder) findLongestMatch(buf *buffer, pos, end uint64, maxChainLength int) Match {
	result := Match{Length: 1}
	stepsLeft := maxChainLength

	distance := uint64(mf.previousExact[pos&previousMask])
	totalDistance := uint64(0)
	for distance != noPrevious {
		totalDistance += distance
		if totalDistance > MaxDistance {
			break
		}

		at := pos - totalDistance
		// Fetch the next hop before possibly stopping, matching the
		// reference walk order.
		next := uint64(mf.previousExact[at&previousMask])

		if stepsLeft <= 0 {
			break
		}
		stepsLeft--

		atLeast := pos + uint64(result.Length) + 1
		if atLeast > end {
			break
		}

		// Phase 1: confirm all bytes between pos and atLeast already
		// match, comparing four at a time, backwards. The compare < atLeast
		// condition catches the unsigned wrap when atLeast sits within the
		// first 4 bytes of the stream.
		compare := atLeast - 4
		ok := true
		for compare > pos && compare < atLeast {
			if readU32(buf, compare) != readU32(buf, compare-totalDistance) {
				ok = false
				break
			}
			compare -= 4
		}
		if ok {
			// Phase 2: scan forward from atLeast for the true end of the
			// match.
			compare = atLeast
			for compare+4 <= end && readU32(buf, compare) == readU32(buf, compare-totalDistance) {
				compare += 4
			}
			for compare < end && buf.at(compare) == buf.at(compare-totalDistance) {
				compare++
			}
			result.Distance = uint32(totalDistance)
			result.Length = uint32(compare - pos)
		}

		distance = next
	}

	return result
}
