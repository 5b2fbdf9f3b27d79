package lz4block

// estimateCosts rewrites matches in place with the optimal choice at each
// position: a backward dynamic program over the number of compressed bytes
// needed from i to the end of the block.
//
// matches[i].Length may be shortened (never lengthened) by this pass, and
// matches[i].Distance is cleared whenever the chosen length collapses to a
// single literal.
func estimateCosts(matches []Match) {
	blockEnd := uint32(len(matches))
	cost := make([]uint32, len(matches))

	posLastMatch := blockEnd
	for i := int64(blockEnd) - (1 + BlockEndLiterals); i >= 0; i-- {
		i := uint32(i)

		numLiterals := posLastMatch - i
		minCost := cost[i+1] + 1
		if numLiterals >= 15 && (numLiterals-15)%255 == 0 {
			minCost++
		}

		bestLength := uint32(1)

		match := matches[i]
		if match.IsMatch() && i+match.Length+BlockEndLiterals > blockEnd {
			match.Length = blockEnd - (i + BlockEndLiterals)
		}

		for length := uint32(MinMatch); length <= match.Length; length++ {
			currentCost := cost[i+length] + 1 + 2
			if length >= 19 {
				currentCost += 1 + (length-19)/255
			}

			if currentCost <= minCost {
				// "<=", not "<": a same-cost match breaks a literal run
				// that would otherwise need an extra length-extension
				// byte earlier in the block.
				minCost = currentCost
				bestLength = length
			}

			if match.Distance == 1 && match.Length >= maxSameLetter {
				// Pathological long self-run: assume the full match is
				// optimal rather than re-deriving it length by length.
				bestLength = match.Length
				minCost = cost[i+match.Length] + 1 + 2 + 1 + (match.Length-19)/255
				break
			}
		}

		if bestLength >= MinMatch {
			posLastMatch = i
		}

		cost[i] = minCost
		matches[i].Length = bestLength
		if bestLength == 1 {
			matches[i].Distance = 0
		}
	}
}
