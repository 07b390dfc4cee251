package pathfind

// enumerationCap bounds how many simple paths a top-K query may enumerate
// while hunting for k filter-compliant ones, so heavy filters on dense
// graphs cannot run away.
const enumerationCap = 512

// kShortestSimple enumerates simple paths shortest-first (Yen's algorithm
// with BFS spur searches, edge count as length) and collects the first k the
// accept predicate keeps. Ties among equal-length paths stay in enumeration
// order; that order is stable for a fixed snapshot but not otherwise
// canonicalized.
func (e *Engine) kShortestSimple(source, target string, k int, accept func([]string) bool) [][]string {
	first := e.bfsConstrained(source, target, Filters{}, nil, nil)
	if first == nil {
		return nil
	}

	enumerated := [][]string{first}
	var kept [][]string
	if accept(first) {
		kept = append(kept, first)
	}
	var candidates [][]string

	for len(kept) < k && len(enumerated) < enumerationCap {
		prev := enumerated[len(enumerated)-1]

		for i := 0; i < len(prev)-1; i++ {
			spurNode := prev[i]
			rootPath := prev[:i+1]

			// Ban the hops that previously-enumerated paths with the
			// same root take out of the spur node, and the root nodes
			// themselves, so the spur search yields a new simple path.
			bannedHops := make(map[[2]string]bool)
			for _, p := range enumerated {
				if len(p) > i+1 && samePrefix(p, rootPath) {
					bannedHops[hopKey(p[i], p[i+1])] = true
				}
			}
			bannedNodes := make(map[string]bool)
			for _, id := range rootPath[:len(rootPath)-1] {
				bannedNodes[id] = true
			}

			spur := e.bfsConstrained(spurNode, target, Filters{}, bannedNodes, bannedHops)
			if spur == nil {
				continue
			}
			total := make([]string, 0, len(rootPath)-1+len(spur))
			total = append(total, rootPath[:len(rootPath)-1]...)
			total = append(total, spur...)
			if !containsPath(candidates, total) && !containsPath(enumerated, total) {
				candidates = append(candidates, total)
			}
		}

		if len(candidates) == 0 {
			break
		}
		best := 0
		for i, c := range candidates {
			if len(c) < len(candidates[best]) {
				best = i
			}
		}
		next := candidates[best]
		candidates = append(candidates[:best], candidates[best+1:]...)
		enumerated = append(enumerated, next)
		if accept(next) {
			kept = append(kept, next)
		}
	}
	return kept
}

func samePrefix(p, prefix []string) bool {
	if len(p) < len(prefix) {
		return false
	}
	for i := range prefix {
		if p[i] != prefix[i] {
			return false
		}
	}
	return true
}

func containsPath(paths [][]string, path []string) bool {
	for _, p := range paths {
		if len(p) != len(path) {
			continue
		}
		same := true
		for i := range p {
			if p[i] != path[i] {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}
