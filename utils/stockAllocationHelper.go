package utils

// AllocateBags splits destinationBags across line items in proportion to
// itemBags, preserving order. Every item but the last gets
// floor(itemBags[i] / total * destinationBags) capped by what is left; the last
// item takes the rest, so the result always sums to destinationBags.
//
// When the items carry no bag counts the bags are split evenly and the first
// destinationBags % n items get one extra bag.
func AllocateBags(destinationBags int, itemBags []int) []int {
	n := len(itemBags)
	if n == 0 {
		return []int{}
	}
	if destinationBags < 0 {
		destinationBags = 0
	}

	total := 0
	for _, bags := range itemBags {
		if bags > 0 {
			total += bags
		}
	}

	allocations := make([]int, n)
	if total == 0 {
		base := destinationBags / n
		remainder := destinationBags % n
		for i := range allocations {
			allocations[i] = base
			if i < remainder {
				allocations[i]++
			}
		}
		return allocations
	}

	remaining := destinationBags
	for i, bags := range itemBags {
		if i == n-1 {
			allocations[i] = remaining
			break
		}
		if bags <= 0 {
			continue
		}
		share := bags * destinationBags / total
		if share > remaining {
			share = remaining
		}
		allocations[i] = share
		remaining -= share
	}
	return allocations
}
