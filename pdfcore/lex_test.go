package pdfcore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBooleanAndNull(t *testing.T) {
	o, pos, ok, err := parseBoolean([]byte("true "), 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, KindBoolean, o.Kind)
	require.True(t, o.Bool)
	require.Equal(t, 4, pos)

	o, _, ok, err = parseBoolean([]byte("truex"), 0)
	require.NoError(t, err)
	require.False(t, ok, "truex must not match the true keyword")

	o, pos, ok, err = parseNull([]byte("null"), 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, o.IsNull())
	require.Equal(t, 4, pos)
}

// TestReferenceVsIntegerDisambiguation is spec scenario: "1 0 obj" style
// input where no trailing R is present must fall back to Integer(1),
// leaving " 0" as unconsumed remainder for the caller.
func TestReferenceVsIntegerDisambiguation(t *testing.T) {
	src := []byte("1 0 obj")
	_, _, ok, err := parseReference(src, 0)
	require.NoError(t, err)
	require.False(t, ok, "no trailing R means this is not a reference")

	o, pos, ok, err := parseNumber(src, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, KindInteger, o.Kind)
	require.EqualValues(t, 1, o.Int)
	require.Equal(t, " 0 obj", string(src[pos:]))
}

func TestReferenceRecognized(t *testing.T) {
	o, pos, ok, err := parseReference([]byte("12 0 R rest"), 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, KindReference, o.Kind)
	require.Equal(t, Key{Num: 12, Gen: 0}, o.Ref)
	require.Equal(t, " rest", string([]byte("12 0 R rest")[pos:]))
}

func TestParseNumberIntegerAndReal(t *testing.T) {
	o, pos, ok, err := parseNumber([]byte("-17 "), 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, KindInteger, o.Kind)
	require.EqualValues(t, -17, o.Int)
	require.Equal(t, 3, pos)

	o, pos, ok, err = parseNumber([]byte("3.14159]"), 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, KindReal, o.Kind)
	require.InDelta(t, 3.14159, o.Real, 1e-9)
	require.Equal(t, 7, pos)

	_, _, ok, err = parseNumber([]byte("abc"), 0)
	require.NoError(t, err)
	require.False(t, ok)
}

// TestLiteralStringBalancedParens is spec scenario: nested balanced
// parentheses inside a literal string are content, not terminators.
func TestLiteralStringBalancedParens(t *testing.T) {
	o, pos, ok, err := parseLiteralString([]byte("(a (nested) string) tail"), 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, KindByteString, o.Kind)
	require.Equal(t, "a (nested) string", string(o.Str))
	require.Equal(t, " tail", string([]byte("(a (nested) string) tail")[pos:]))
}

func TestLiteralStringEscapes(t *testing.T) {
	o, _, ok, err := parseLiteralString([]byte(`(line1\nline2\051\\end)`), 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "line1\nline2)\\end", string(o.Str))
}

func TestLiteralStringUnbalancedIsError(t *testing.T) {
	_, _, ok, err := parseLiteralString([]byte("(unterminated"), 0)
	require.False(t, ok)
	require.Error(t, err)
	require.True(t, err.(*Error).Is(ErrUnbalancedString))
}

func TestHexStringOddNibblePadding(t *testing.T) {
	o, pos, ok, err := parseHexString([]byte("<41 42 5>rest"), 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte{0x41, 0x42, 0x50}, o.Str)
	require.Equal(t, "rest", string([]byte("<41 42 5>rest")[pos:]))
}

func TestHexStringNotConfusedWithDictOpen(t *testing.T) {
	_, _, ok, err := parseHexString([]byte("<< /Type /Catalog >>"), 0)
	require.NoError(t, err)
	require.False(t, ok, "<< must not be mistaken for a hex string opener")
}

func TestNameWithHashEscapes(t *testing.T) {
	p := &Parser{intern: newInterner()}
	src := []byte("/A#42#20name rest")
	o, pos, ok, err := p.parseName(src, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, KindName, o.Kind)
	require.Equal(t, "AB name", o.Name)
	require.Equal(t, " rest", string(src[pos:]))
}

func TestSkipWSSkipsComments(t *testing.T) {
	src := []byte("  % a comment\n  /Name")
	pos := skipWS(src, 0)
	require.Equal(t, "/Name", string(src[pos:]))
}
