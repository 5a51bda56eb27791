package pdfcore

import (
	"bytes"
	gzflate "compress/zlib"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyFiltersFlateDecode(t *testing.T) {
	var compressed bytes.Buffer
	w := gzflate.NewWriter(&compressed)
	_, err := w.Write([]byte("the quick brown fox jumps over the lazy dog"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	s := &Stream{Data: compressed.Bytes(), Filters: []string{"FlateDecode"}}
	require.NoError(t, ApplyFilters(s))
	require.Equal(t, "the quick brown fox jumps over the lazy dog", string(s.Data))
	require.True(t, s.Applied)

	// Applying again is a no-op and must not re-decode already-decoded bytes.
	before := s.Data
	require.NoError(t, ApplyFilters(s))
	require.Equal(t, before, s.Data)
}

func TestApplyFiltersUnsupportedFilter(t *testing.T) {
	s := &Stream{Data: []byte{1, 2, 3}, Filters: []string{"CCITTFaxDecode"}}
	err := ApplyFilters(s)
	require.Error(t, err)
	pe := err.(*Error)
	require.Equal(t, KindUnsupportedFilter, pe.Kind)
	require.Equal(t, "CCITTFaxDecode", pe.Filter)
}

func TestDecodeASCIIHex(t *testing.T) {
	out, err := decodeASCIIHex([]byte("48656C6C6F>"))
	require.NoError(t, err)
	require.Equal(t, "Hello", string(out))
}

func TestDecodeASCII85RoundTrip(t *testing.T) {
	// "Man " encodes to a well-known fixed ASCII85 sequence.
	out, err := decodeASCII85([]byte("9jqo^"))
	require.NoError(t, err)
	require.Equal(t, "Man ", string(out))
}

func TestDecodeASCII85ZShortcut(t *testing.T) {
	out, err := decodeASCII85([]byte("z"))
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 0}, out)
}

func TestFilterNamesFromArray(t *testing.T) {
	d := map[string]Obj{
		"Filter": Array([]Obj{Name("ASCII85Decode"), Name("FlateDecode")}),
	}
	require.Equal(t, []string{"ASCII85Decode", "FlateDecode"}, filterNames(d))
}
