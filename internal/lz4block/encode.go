package lz4block

// MaxOptimalChainLength is the maxChainLength value compression level 9
// ("optimal parsing, check every candidate") is set to.
const MaxOptimalChainLength = 65536

// greedyThreshold and lazyThreshold are the maxChainLength boundaries
// separating the greedy, lazy and optimal match-finding regimes.
const (
	greedyThreshold = 3
	lazyThreshold   = 6
)

// CompressBlock runs the full encoder pipeline for one block: match
// finding, cost estimation (skipped for greedy levels and trivially small
// blocks, where the cheapest choice is always to take the first match
// found), and emission. lookback is how many bytes before the block start
// the match finder should also index (dictionary priming or the previous
// block's tail), and maxChainLength selects the parsing regime; at 0 no
// matches are found and the whole block becomes one literal run, which
// legacy frames need since they cannot store raw blocks.
func CompressBlock(mf *matchFinder, buf *buffer, lastBlock, nextBlock, lookback uint64, maxChainLength int) []byte {
	data := buf.slice(lastBlock, int(nextBlock-lastBlock))

	matches := mf.findMatches(buf, lastBlock, nextBlock, lookback, maxChainLength)

	if len(matches) > BlockEndNoMatch && maxChainLength > greedyThreshold {
		estimateCosts(matches)
	}

	return emit(matches, data)
}

// emit walks the chosen matches left to right and produces the LZ4 token
// stream for one block.
func emit(matches []Match, data []byte) []byte {
	dst := make([]byte, 0, len(data))

	literalsFrom, literalsTo := 0, 0

	offset := 0
	for offset < len(matches) {
		match := matches[offset]
		if !match.IsMatch() {
			if literalsFrom == literalsTo {
				literalsFrom, literalsTo = offset, offset
			}
			literalsTo++
			match.Length = 1
		}

		offset += int(match.Length)
		lastToken := offset == len(matches)
		if !match.IsMatch() && !lastToken {
			continue
		}

		numLiterals := literalsTo - literalsFrom

		token := byte(numLiterals)
		if numLiterals >= 15 {
			token = 15
		}
		token <<= 4

		matchLength := int(match.Length) - MinMatch
		if !lastToken {
			if matchLength >= 15 {
				token |= 15
			} else {
				token |= byte(matchLength)
			}
		}
		dst = append(dst, token)

		if numLiterals >= 15 {
			dst = appendExtension(dst, numLiterals-15)
		}
		if literalsFrom != literalsTo {
			dst = append(dst, data[literalsFrom:literalsTo]...)
			literalsFrom, literalsTo = 0, 0
		}

		if lastToken {
			break
		}

		dst = append(dst, byte(match.Distance), byte(match.Distance>>8))

		if matchLength >= 15 {
			dst = appendExtension(dst, matchLength-15)
		}
	}

	return dst
}

// appendExtension appends n in LZ4's variable-length extension encoding:
// a run of 0xFF bytes followed by one byte in [0,255) that terminates it.
func appendExtension(dst []byte, n int) []byte {
	for n >= 255 {
		dst = append(dst, 255)
		n -= 255
	}
	return append(dst, byte(n))
}
