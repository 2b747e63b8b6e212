package repo

import (
	"math"

	"golang.org/x/exp/slices"
)

// ancestorChains enumerates every linear ancestry chain starting at start.
// A chain follows first parents back to the root; each merge commit met on
// the way forks an extra chain that shares the prefix and continues through
// the second parent instead. Chains are returned in the order they complete,
// the fork before the chain it branched from, matching a depth-first walk
// that explores second parents first.
//
// The number of chains grows with the number of merges in the history.
func (r *Repository) ancestorChains(start string) ([][]string, error) {
	type frame struct {
		id    string
		chain []string
	}

	var chains [][]string
	stack := []frame{{id: start}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		id, chain := f.id, f.chain
		for id != "" {
			chain = append(chain, id)
			c, err := r.commit(id)
			if err != nil {
				return nil, err
			}
			if c.SecondParent != "" {
				// Resume the first-parent walk once the fork is done
				stack = append(stack, frame{id: c.Parent, chain: chain})
				id, chain = c.SecondParent, slices.Clone(chain)
				continue
			}
			id = c.Parent
		}
		chains = append(chains, chain)
	}
	return chains, nil
}

// commonInChain walks the ancestry of start, second parents first, and
// returns each id where a walk first meets an id in chain.
func (r *Repository) commonInChain(start string, chain map[string]int) ([]string, error) {
	var found []string
	stack := []string{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for {
			if _, ok := chain[id]; ok {
				found = append(found, id)
				break
			}
			if id == "" {
				// Walked past the root without meeting the chain
				break
			}
			c, err := r.commit(id)
			if err != nil {
				return nil, err
			}
			if c.SecondParent != "" {
				stack = append(stack, c.Parent)
				id = c.SecondParent
				continue
			}
			id = c.Parent
		}
	}
	return found, nil
}

// LowestCommonAncestor returns the merge base of two commits.
//
// Every ancestry chain of id1 is matched against the ancestry of id2; the
// candidate sitting closest to id1 in its chain wins. Among candidates at the
// same distance the one evaluated last is kept. An empty id is returned only
// if no common ancestor exists.
func (r *Repository) LowestCommonAncestor(id1, id2 string) (string, error) {
	chains, err := r.ancestorChains(id1)
	if err != nil {
		return "", err
	}

	best, bestIndex := "", math.MaxInt
	for _, chain := range chains {
		index := make(map[string]int, len(chain))
		for i, id := range chain {
			if _, ok := index[id]; !ok {
				index[id] = i
			}
		}
		candidates, err := r.commonInChain(id2, index)
		if err != nil {
			return "", err
		}
		for _, cand := range candidates {
			if i := index[cand]; i <= bestIndex {
				best, bestIndex = cand, i
			}
		}
	}
	r.log.Debug("lowest common ancestor", "a", id1, "b", id2, "lca", best, "chains", len(chains))
	return best, nil
}
