package kambites

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/semigroups/pieces"
	"github.com/coregx/semigroups/presentation"
)

func mustSolver(t *testing.T, p *presentation.Presentation) *Solver {
	t.Helper()
	s, err := New(p)
	require.NoError(t, err)
	return s
}

func TestSmallOverlapClassFamily(t *testing.T) {
	// One rule of class exactly i: the left side is a product of i pieces,
	// the right side of i+1.
	for i := 4; i < 20; i++ {
		var lhs, rhs strings.Builder
		for b := 1; b <= i; b++ {
			lhs.WriteString("a" + strings.Repeat("b", b))
		}
		for b := i + 1; b <= 2*i; b++ {
			rhs.WriteString("a" + strings.Repeat("b", b))
		}

		p := presentation.New("ab").AddRule(lhs.String(), rhs.String())
		k := mustSolver(t, p)

		a := pieces.NewAnalyzer(k.Tree())
		assert.Equal(t, i, a.NumberOfPiecesNoChecks(toWord([]byte(lhs.String()))))
		assert.Equal(t, i+1, a.NumberOfPiecesNoChecks(toWord([]byte(rhs.String()))))
		assert.Equal(t, i, k.SmallOverlapClass())
	}
}

func TestSmallOverlapClassTwo(t *testing.T) {
	p := presentation.New("aAbBcCe").
		AddRule("aaa", "e").
		AddRule("bbb", "e").
		AddRule("ccc", "e").
		AddRule("ABa", "BaB").
		AddRule("bcB", "cBc").
		AddRule("caC", "aCa").
		AddRule("abcABCabcABCabcABC", "e").
		AddRule("BcabCABcabCABcabCA", "e").
		AddRule("cbACBacbACBacbACBa", "e")
	k := mustSolver(t, p)

	a := pieces.NewAnalyzer(k.Tree())
	want := []int{
		2, pieces.Infinity,
		2, pieces.Infinity,
		2, pieces.Infinity,
		2, 2,
		2, 2,
		2, 2,
		2, pieces.Infinity,
		2, pieces.Infinity,
		2, pieces.Infinity,
	}
	for i, n := range want {
		assert.Equal(t, n, a.NumberOfPiecesNoChecks(toWord(p.Rules[i])), "rule %d", i)
	}
	assert.Equal(t, 2, k.SmallOverlapClass())
	assert.True(t, k.Finished())
	assert.False(t, k.Success())

	_, err := k.Contains([]byte("aaa"), []byte("e"))
	var pre *PreconditionError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, 2, pre.Class)
	assert.ErrorIs(t, err, ErrNotSmallOverlap)

	_, err = k.NumberOfClasses()
	assert.ErrorIs(t, err, ErrNotSmallOverlap)
}

func TestSmallOverlapClassComplex(t *testing.T) {
	tests := []struct {
		name        string
		rules       [][2]string
		class       int
		numSubwords int
	}{
		{
			"class four a",
			[][2]string{
				{"eiehiegiggfaigcdfdfdgiidcebacgfaf",
					"cgfaeiehiegiggfaigcdfdfdgigcccbddchbbhgaaedfiiahhehihcba"},
				{"hihcbaeiehiegiggfaigcdfdfdgiefhbidhbdgb", "chhfgafiiddg"},
				{"gcccbddchbbhgaaedfiiahheidcebacbdefegcehgffedacddiaiih",
					"eddfcfhbedecacheahcdeeeda"},
				{"dfbiccfeagaiffcfifg", "dceibahghaedhefh"},
			},
			4, 3996,
		},
		{
			"class four b",
			[][2]string{
				{"feffgccdgcfbeagiifheabecdfbgebfcibeifibccahaafabeihfgfieadebciheddeigbaf",
					"ifibccahaafabeihfgfiefeffgccdgcfbeagiifheabecfeibghddfgbaiaacghhdhggagaide"},
				{"ghhdhggagaidefeffgccdgcfbeagiifheabeccbeiddgdcbcf", "ahccccffdeb"},
				{"feibghddfgbaiaacdfbgebfcibeieaacdbdb", "gahdfgbghhhbcci"},
				{"dgibafaahiabfgeiiibadebciheddeigbaficfbfdbfbbiddgdcifbe",
					"iahcfgdbggaciih"},
			},
			4, 7482,
		},
		{
			"class three",
			[][2]string{
				{"adichhbhibfchbfbbibaidfibifgagcgdedfeeibhggdbchfdaefbefcbaahcbhbidgaahbahhahhb",
					"edfeeibhggdbchfdaefbeadichhbhibfchbfbbibaiihebabeabahcgdbicbgiciffhfggbfadf"},
				{"bgiciffhfggbfadfadichhbhibfchbfbbibaaggfdcfcebehhbdegiaeaf",
					"hebceeicbhidcgahhcfbb"},
				{"iihebabeabahcgdbicidfibifgagcgdedehed", "ecbcgaieieicdcdfdbgagdbf"},
				{"iagaadbfcbaahcbhbidgaahbahhahhbd", "ddddh"},
			},
			3, 7685,
		},
		{
			"class four c",
			[][2]string{
				{"ibddgdgddiabcahbidbedffeddciiabahbbiacbfehdfccacbhgafbgcdg",
					"iabahibddgdgddbdfacbafhcgfhdheieihd"},
				{"hdheieihdibddgdgddebhaeaicciidebegg", "giaeehdeeec"},
				{"bdfacbafhcgfiabcahbidbedffeddcifdfcdcdadhhcbcbebhei", "icaebehdff"},
				{"aggiiacdbbiacbfehdfccacbhgafbgcdghiahfccdchaiagaha",
					"hhafbagbhghhihg"},
			},
			4, 4779,
		},
		{
			"class four d",
			[][2]string{
				{"fibehffegdeggaddgfdaeaiacbhbgbbccceaibfcabbiedhecggbbdgihddd",
					"ceafibehffegdeggafidbaefcebegahcbhciheceaehaaehih"},
				{"haaehihfibehffegdeggaecbedccaeabifeafi", "bfcccibgefiidgaih"},
				{"fidbaefcebegahcbhciheceaeddgfdaeaiacbhbgbbcccgiahbibehgbgabefdieiggc",
					"abigdadaecdfdeeciggbdfdf"},
				{"eeaaiicigieiabibfcabbiedhecggbbdgihdddifadgbgidbfeg",
					"daheebdgdiaeceeiicddg"},
			},
			4, 6681,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := presentation.New("abcdefghi")
			for _, r := range tc.rules {
				p.AddRule(r[0], r[1])
			}
			k := mustSolver(t, p)
			assert.Equal(t, tc.class, k.SmallOverlapClass())
			a := pieces.NewAnalyzer(k.Tree())
			assert.Equal(t, tc.numSubwords, a.NumberOfDistinctSubwords())
		})
	}
}

func TestFreeSemigroup(t *testing.T) {
	k := mustSolver(t, presentation.New("cab"))
	assert.Equal(t, pieces.Infinity, k.SmallOverlapClass())
	assert.True(t, k.Success())

	eq, err := k.Contains([]byte("a"), []byte("b"))
	require.NoError(t, err)
	assert.False(t, eq)
	eq, err = k.Contains([]byte("abc"), []byte("abc"))
	require.NoError(t, err)
	assert.True(t, eq)

	nf, err := k.NormalForm([]byte("cab"))
	require.NoError(t, err)
	assert.Equal(t, []byte("cab"), nf)

	n, err := k.NumberOfClasses()
	require.NoError(t, err)
	assert.Equal(t, pieces.Infinity, n)
}

func TestMT4(t *testing.T) {
	p := presentation.New("abcdefg").
		AddRule("abcd", "aaaeaa").
		AddRule("ef", "dg")
	k := mustSolver(t, p)
	assert.Equal(t, 4, k.SmallOverlapClass())

	for _, pair := range [][2]string{
		{"abcd", "aaaeaa"},
		{"ef", "dg"},
		{"aaaaaef", "aaaaadg"},
		{"efababa", "dgababa"},
	} {
		eq, err := k.Contains([]byte(pair[0]), []byte(pair[1]))
		require.NoError(t, err)
		assert.True(t, eq, "%q = %q", pair[0], pair[1])
	}
}

func TestKnuthBendix055(t *testing.T) {
	p := presentation.New("abcdefg").
		AddRule("abcd", "ce").
		AddRule("df", "dg")
	k := mustSolver(t, p)

	assert.Equal(t, pieces.Infinity, k.SmallOverlapClass())
	a := pieces.NewAnalyzer(k.Tree())
	assert.Equal(t, 17, a.NumberOfDistinctSubwords())

	for _, pair := range [][2]string{
		{"dfabcdf", "dfabcdg"},
		{"abcdf", "ceg"},
		{"abcdf", "cef"},
	} {
		eq, err := k.Contains([]byte(pair[0]), []byte(pair[1]))
		require.NoError(t, err)
		assert.True(t, eq, "%q = %q", pair[0], pair[1])
	}

	nf, err := k.NormalForm([]byte("dfabcdg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("dfcef"), nf)

	nf, err = k.NormalForm([]byte("abcdfceg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("cefcef"), nf)

	eq, err := k.Contains([]byte("abcdfceg"), nf)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestGapSmallOverlap49(t *testing.T) {
	p := presentation.New("abcdefgh").
		AddRule("abcd", "ce").
		AddRule("df", "hd")
	k := mustSolver(t, p)
	assert.GreaterOrEqual(t, k.SmallOverlapClass(), 4)

	type pair struct {
		u, v string
		want bool
	}
	for _, tc := range []pair{
		{"abchd", "abcdf", true},
		{"abchf", "abcdf", false},
		{"abchd", "abchd", true},
		{"abchdf", "abchhd", true},
		{"abchd", "cef", true},
		{"cef", "abchd", true},
	} {
		eq, err := k.Contains([]byte(tc.u), []byte(tc.v))
		require.NoError(t, err)
		assert.Equal(t, tc.want, eq, "%q = %q", tc.u, tc.v)
	}

	nf, err := k.NormalForm([]byte("hdfabce"))
	require.NoError(t, err)
	assert.Equal(t, []byte("dffabce"), nf)

	eq, err := k.Contains([]byte("hdfabce"), nf)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestGapSmallOverlap63(t *testing.T) {
	p := presentation.New("abcdefgh").
		AddRule("afh", "bgh").
		AddRule("hc", "d")
	k := mustSolver(t, p)
	assert.GreaterOrEqual(t, k.SmallOverlapClass(), 4)

	eq, err := k.Contains([]byte("afd"), []byte("bgd"))
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = k.Contains([]byte("bghcafhbgd"), []byte("afdafhafd"))
	require.NoError(t, err)
	assert.True(t, eq)

	nf, err := k.NormalForm([]byte("bghcafhbgd"))
	require.NoError(t, err)
	assert.Equal(t, []byte("afdafhafd"), nf)
}

func TestGapSmallOverlap70(t *testing.T) {
	p := presentation.New("abcdefghij").
		AddRule("afh", "bgh").
		AddRule("hc", "de").
		AddRule("ei", "j")
	k := mustSolver(t, p)
	assert.GreaterOrEqual(t, k.SmallOverlapClass(), 4)

	eq, err := k.Contains([]byte("afdj"), []byte("bgdj"))
	require.NoError(t, err)
	assert.True(t, eq)

	_, err = k.Contains([]byte("xxx"), []byte("b"))
	var le *LetterError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, byte('x'), le.Letter)
	assert.ErrorIs(t, err, ErrUnknownLetter)
}

func TestGapSmallOverlap77(t *testing.T) {
	p := presentation.New("abcdefghijkl").
		AddRule("afh", "bgh").
		AddRule("hc", "de").
		AddRule("ei", "j").
		AddRule("fhk", "ghl")
	k := mustSolver(t, p)
	assert.GreaterOrEqual(t, k.SmallOverlapClass(), 4)

	for _, pair := range [][2]string{
		{"afdj", "bgdj"},
		{"afdj", "afdj"},
		{"bfhk", "afhl"},
	} {
		eq, err := k.Contains([]byte(pair[0]), []byte(pair[1]))
		require.NoError(t, err)
		assert.True(t, eq, "%q = %q", pair[0], pair[1])
	}

	nf, err := k.NormalForm([]byte("bfhk"))
	require.NoError(t, err)
	assert.Equal(t, []byte("afhl"), nf)
}

func TestGapSmallOverlap85(t *testing.T) {
	p := presentation.New("cab").AddRule("aabc", "acba")
	k := mustSolver(t, p)
	assert.Equal(t, 4, k.SmallOverlapClass())

	eq, err := k.Contains([]byte("a"), []byte("b"))
	require.NoError(t, err)
	assert.False(t, eq)

	eq, err = k.Contains([]byte("aabcabc"), []byte("aabccba"))
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestSmallOverlapClassFactorRelationWord(t *testing.T) {
	// "ba" is a factor of "aaba" and a single piece, so the class is 1.
	p := presentation.New("ab").AddRule("aaba", "ba")
	k := mustSolver(t, p)

	a := pieces.NewAnalyzer(k.Tree())
	assert.Equal(t, 3, a.NumberOfPiecesOfWord(0))
	assert.Equal(t, 1, a.NumberOfPiecesOfWord(1))

	assert.Equal(t, 1, k.SmallOverlapClass())
	assert.True(t, k.Finished())
	assert.False(t, k.Success())
}

func TestXYZAccessorsBeforeRun(t *testing.T) {
	p := presentation.New("cab").AddRule("aabc", "acba")
	k := mustSolver(t, p)

	// The accessors build the query machinery on their own.
	assert.Equal(t, []byte("a"), k.X(0))
	assert.Equal(t, []byte("ab"), k.Y(0))
	assert.Equal(t, []byte("c"), k.Z(0))
	assert.True(t, k.Started())
}

func TestRewriteWithoutPrefilter(t *testing.T) {
	p := presentation.New("abcdefgh").
		AddRule("abcd", "ce").
		AddRule("df", "hd")
	k := mustSolver(t, p)
	k.ensureMachinery()
	k.prefilter = nil

	// Rewriting falls back to scanning every position and stays correct.
	assert.True(t, k.ContainsNoChecks([]byte("abchd"), []byte("abcdf")))
	assert.False(t, k.ContainsNoChecks([]byte("ce"), []byte("df")))
	assert.Equal(t, []byte("dffabce"), k.NormalFormNoChecks([]byte("hdfabce")))
}

func TestNormalFormCacheBound(t *testing.T) {
	c := &nfCache{limit: 4, forms: make(map[string][]byte)}
	c.insert(map[string]bool{"aa": true, "ab": true}, []byte("aa"))
	c.insert(map[string]bool{"ba": true, "bb": true}, []byte("ba"))

	nf, ok := c.get([]byte("ab"))
	require.True(t, ok)
	assert.Equal(t, []byte("aa"), nf)

	// Growing past the limit resets the memo before inserting.
	c.insert(map[string]bool{"ca": true}, []byte("ca"))
	_, ok = c.get([]byte("aa"))
	assert.False(t, ok)
	nf, ok = c.get([]byte("ca"))
	require.True(t, ok)
	assert.Equal(t, []byte("ca"), nf)
}

func TestXYZDecomposition(t *testing.T) {
	p := presentation.New("abcd").AddRule("aabc", "acba")
	k := mustSolver(t, p)
	k.ensureMachinery()

	assert.Equal(t, []byte("a"), k.X(0))
	assert.Equal(t, []byte("ab"), k.Y(0))
	assert.Equal(t, []byte("c"), k.Z(0))
	assert.Equal(t, []byte("aab"), k.XY(0))
	assert.Equal(t, []byte("abc"), k.YZ(0))
	assert.Equal(t, []byte("aabc"), k.XYZ(0))

	assert.Equal(t, []byte("a"), k.X(1))
	assert.Equal(t, []byte("cb"), k.Y(1))
	assert.Equal(t, []byte("a"), k.Z(1))

	assert.Equal(t, []int{0, 1}, k.complement.of(0))
	assert.Equal(t, []int{0, 1}, k.complement.of(1))
	assert.Equal(t, 1, complementaryRelationWord(0))
	assert.Equal(t, 0, complementaryRelationWord(1))
}

func TestNormalFormProperties(t *testing.T) {
	p := presentation.New("abcd").AddRule("abcd", "acca")
	k := mustSolver(t, p)
	assert.GreaterOrEqual(t, k.SmallOverlapClass(), 4)

	original := []byte("bbcabcdaccaccabcddd")
	expected := []byte("bbcabcdabcdbcdbcddd")

	eq, err := k.Contains(original, expected)
	require.NoError(t, err)
	assert.True(t, eq)
	eq, err = k.Contains(expected, original)
	require.NoError(t, err)
	assert.True(t, eq)

	nf, err := k.NormalForm(original)
	require.NoError(t, err)

	// The normal form is a fixed point and stays in the class.
	nf2, err := k.NormalForm(nf)
	require.NoError(t, err)
	assert.Equal(t, nf, nf2)
	eq, err = k.Contains(nf, original)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestExample315(t *testing.T) {
	p := presentation.New("abcd").AddRule("aabc", "acba")
	k := mustSolver(t, p)

	original := "cbacbaabcaabcacbacba"
	expected := "cbaabcabcaabcaabcabc"
	variant := "cbaabcabcaabcaabccba"

	for _, pair := range [][2]string{
		{variant, original},
		{original, expected},
		{expected, original},
		{variant, expected},
	} {
		eq, err := k.Contains([]byte(pair[0]), []byte(pair[1]))
		require.NoError(t, err)
		assert.True(t, eq, "%q = %q", pair[0], pair[1])
	}

	nf, err := k.NormalForm([]byte(original))
	require.NoError(t, err)
	eq, err := k.Contains(nf, []byte(original))
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestNotEqual(t *testing.T) {
	p := presentation.New("abcde").AddRule("cadeca", "baedba")
	k := mustSolver(t, p)

	eq, err := k.Contains([]byte("cadece"), []byte("baedce"))
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestCurrentlyContains(t *testing.T) {
	p := presentation.New("abcdefgh").
		AddRule("abcd", "ce").
		AddRule("df", "hd")
	k := mustSolver(t, p)

	assert.Equal(t, TrilTrue, k.CurrentlyContains([]byte("abc"), []byte("abc")))
	assert.Equal(t, TrilUnknown, k.CurrentlyContains([]byte("abchd"), []byte("abcdf")))

	k.Run()
	assert.True(t, k.Finished())
	assert.True(t, k.Success())
	assert.Equal(t, TrilTrue, k.CurrentlyContains([]byte("abchd"), []byte("abcdf")))
	assert.Equal(t, TrilFalse, k.CurrentlyContains([]byte("abchf"), []byte("abcdf")))
}

func TestRunUntil(t *testing.T) {
	p := presentation.New("abcdefgh").
		AddRule("abcd", "ce").
		AddRule("df", "hd")
	k := mustSolver(t, p)

	assert.False(t, k.Started())
	k.RunUntil(func() bool { return true })
	assert.True(t, k.Started())
	assert.False(t, k.Finished())

	k.Run()
	assert.True(t, k.Finished())
	assert.NoError(t, k.ValidateC4())
}

func TestAddGeneratingPair(t *testing.T) {
	p := presentation.New("ab")
	k := mustSolver(t, p)

	require.NoError(t, k.AddGeneratingPair([]byte("ab"), []byte("ba")))
	assert.Len(t, k.GeneratingPairs(), 2)

	err := k.AddGeneratingPair([]byte("a"), []byte("xyz"))
	assert.ErrorIs(t, err, ErrUnknownLetter)

	assert.Equal(t, 2, k.SmallOverlapClass())
	assert.ErrorIs(t, k.ValidateC4(), ErrNotSmallOverlap)

	err = k.AddGeneratingPair([]byte("a"), []byte("b"))
	assert.ErrorIs(t, err, ErrStarted)
}

func TestInitReuse(t *testing.T) {
	p := presentation.New("ab").AddRule("ab", "ba")
	k := mustSolver(t, p)
	assert.Equal(t, 2, k.SmallOverlapClass())

	q := presentation.New("cab").AddRule("aabc", "acba")
	require.NoError(t, k.Init(q))
	assert.False(t, k.Started())
	assert.Equal(t, 4, k.SmallOverlapClass())

	eq, err := k.Contains([]byte("aabcabc"), []byte("aabccba"))
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestNewValidates(t *testing.T) {
	p := presentation.New("ab").AddRule("ab", "ba").AddRule("ac", "b")
	_, err := New(p)
	var ae *presentation.AlphabetError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, byte('c'), ae.Letter)
	assert.ErrorIs(t, err, presentation.ErrLetterNotInAlphabet)
}

func TestTrilString(t *testing.T) {
	assert.Equal(t, "false", TrilFalse.String())
	assert.Equal(t, "true", TrilTrue.String())
	assert.Equal(t, "unknown", TrilUnknown.String())
}
