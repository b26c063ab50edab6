package kambites

import (
	"bytes"
	"sync"
)

// nfCache memoizes shortlex normal forms. Every member of an explored
// congruence class is mapped to the class minimum, so repeated queries for
// related words are answered without re-exploring. The memo is reset
// rather than grown past its limit, keeping memory bounded over long
// query streams.
//
// Thread safety: guarded by an RWMutex; concurrent fills are idempotent
// because a class has exactly one minimum.
type nfCache struct {
	mu    sync.RWMutex
	limit int
	forms map[string][]byte
}

// maxNormalForms bounds the number of memoized words.
const maxNormalForms = 1 << 18

func newNFCache() *nfCache {
	return &nfCache{limit: maxNormalForms, forms: make(map[string][]byte)}
}

func (c *nfCache) get(w []byte) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	nf, ok := c.forms[string(w)]
	return nf, ok
}

func (c *nfCache) insert(members map[string]bool, nf []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.forms) > 0 && len(c.forms)+len(members) > c.limit {
		c.forms = make(map[string][]byte, len(members))
	}
	for m := range members {
		c.forms[m] = nf
	}
}

// rewriteOnce calls emit for every word obtained from w by replacing a
// single occurrence of a relation word with an interchangeable one.
// Candidate positions are located with the overlap prefix automaton when
// one was built (a relation word can only occur where its overlap prefix
// occurs); otherwise every position of w is a candidate, which is slower
// but finds the same occurrences.
func (s *Solver) rewriteOnce(w []byte, emit func([]byte)) {
	at := 0
	for at <= len(w) {
		pos := at
		if s.prefilter != nil {
			m := s.prefilter.Find(w, at)
			if m == nil {
				return
			}
			pos = m.Start
		}
		for i, r := range s.relWords {
			if len(r) == 0 || !bytes.HasPrefix(w[pos:], r) {
				continue
			}
			for _, j := range s.complement.of(i) {
				if j == i || bytes.Equal(s.relWords[j], r) {
					continue
				}
				v := make([]byte, 0, pos+len(s.relWords[j])+len(w)-pos-len(r))
				v = append(v, w[:pos]...)
				v = append(v, s.relWords[j]...)
				v = append(v, w[pos+len(r):]...)
				emit(v)
			}
		}
		at = pos + 1
	}
}

// classMinimum explores the congruence class of w, which is finite for a
// C(4) presentation, and returns its shortlex least member. Every member
// found along the way is memoized.
func (s *Solver) classMinimum(w []byte) []byte {
	if nf, ok := s.nf.get(w); ok {
		return nf
	}
	best := append([]byte(nil), w...)
	visited := map[string]bool{string(w): true}
	queue := [][]byte{best}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		s.rewriteOnce(u, func(v []byte) {
			if visited[string(v)] {
				return
			}
			visited[string(v)] = true
			queue = append(queue, v)
			if shortlexLess(v, best) {
				best = v
			}
		})
	}
	s.nf.insert(visited, best)
	return best
}

func shortlexLess(a, b []byte) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return bytes.Compare(a, b) < 0
}
