package kambites

import "bytes"

// xyzCache holds the decomposition r = X Y Z of one relation word, where
// X is the longest prefix of r that is a piece, Z is the longest suffix
// of r that is a piece, and Y is the remainder. For a C(4) presentation Y
// is never empty and X and Z never overlap. Entries are filled when the
// solver's query machinery is built.
type xyzCache struct {
	x, y, z     []byte
	xy, yz, xyz []byte
}

func (s *Solver) initXYZ(i int) *xyzCache {
	s.ensureMachinery()
	return &s.xyz[i]
}

func (s *Solver) reallyInitXYZ(i int) {
	c := &s.xyz[i]
	w := s.relWords[i]
	xLen := 0
	zLen := 0
	if ndx := s.relIndex[i]; ndx >= 0 {
		xLen = s.analyzer.MaximalPiecePrefixOfWord(ndx)
		zLen = s.analyzer.MaximalPieceSuffixOfWord(ndx)
	}
	// Below C(4) the maximal piece prefix and suffix can overlap; the
	// suffix is truncated so the slices stay well formed.
	if xLen+zLen > len(w) {
		zLen = len(w) - xLen
	}
	c.x = w[:xLen]
	c.y = w[xLen : len(w)-zLen]
	c.z = w[len(w)-zLen:]
	c.xy = w[:len(w)-zLen]
	c.yz = w[xLen:]
	c.xyz = w
}

// X returns the maximal piece prefix of the i-th relation word.
func (s *Solver) X(i int) []byte { return s.initXYZ(i).x }

// Y returns the middle part of the i-th relation word.
func (s *Solver) Y(i int) []byte { return s.initXYZ(i).y }

// Z returns the maximal piece suffix of the i-th relation word.
func (s *Solver) Z(i int) []byte { return s.initXYZ(i).z }

// XY returns the overlap prefix of the i-th relation word, the part whose
// occurrence in a word witnesses a possible application of the relation.
func (s *Solver) XY(i int) []byte { return s.initXYZ(i).xy }

// YZ returns the i-th relation word without its maximal piece prefix.
func (s *Solver) YZ(i int) []byte { return s.initXYZ(i).yz }

// XYZ returns the whole i-th relation word.
func (s *Solver) XYZ(i int) []byte { return s.initXYZ(i).xyz }

// complements groups relation word indices into interchangeability
// classes: the symmetric transitive closure of "is the other side of some
// rule", together with indices whose relation words are letter for letter
// equal.
type complements struct {
	parent  []int
	members [][]int
	lookup  []int
}

func newComplements(relWords [][]byte) *complements {
	n := len(relWords)
	c := &complements{parent: make([]int, n)}
	for i := range c.parent {
		c.parent[i] = i
	}
	for i := 0; i+1 < n; i += 2 {
		c.unite(i, i+1)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if bytes.Equal(relWords[i], relWords[j]) {
				c.unite(i, j)
			}
		}
	}
	c.lookup = make([]int, n)
	for i := 0; i < n; i++ {
		r := c.find(i)
		if i == r {
			c.lookup[i] = len(c.members)
			c.members = append(c.members, nil)
		}
	}
	for i := 0; i < n; i++ {
		b := c.lookup[c.find(i)]
		c.members[b] = append(c.members[b], i)
	}
	return c
}

func (c *complements) find(i int) int {
	for c.parent[i] != i {
		c.parent[i] = c.parent[c.parent[i]]
		i = c.parent[i]
	}
	return i
}

func (c *complements) unite(i, j int) {
	ri, rj := c.find(i), c.find(j)
	if ri != rj {
		c.parent[rj] = ri
	}
}

// of returns the indices interchangeable with i, in increasing order,
// including i itself.
func (c *complements) of(i int) []int {
	return c.members[c.lookup[c.find(i)]]
}

// complementaryRelationWord returns the index of the other side of the
// rule that the i-th relation word belongs to.
func complementaryRelationWord(i int) int {
	if i%2 == 0 {
		return i + 1
	}
	return i - 1
}
