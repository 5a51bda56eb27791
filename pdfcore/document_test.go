package pdfcore

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildMinimalPDF assembles a tiny but structurally complete PDF byte
// stream with one free and two in-use objects, computing every offset
// from the bytes actually written rather than hand-counting them.
func buildMinimalPDF(t *testing.T) []byte {
	t.Helper()
	var buf []byte
	write := func(s string) { buf = append(buf, s...) }

	write("%PDF-1.7\n")

	obj1Offset := len(buf)
	write("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	obj2Offset := len(buf)
	write("2 0 obj\n<< /Type /Pages /Kids [] /Count 0 >>\nendobj\n")

	xrefOffset := len(buf)
	write("xref\n")
	write("0 3\n")
	write("0000000000 65535 f \n")
	write(fmt.Sprintf("%010d 00000 n \n", obj1Offset))
	write(fmt.Sprintf("%010d 00000 n \n", obj2Offset))
	write("trailer\n")
	write("<< /Size 3 /Root 1 0 R >>\n")
	write(fmt.Sprintf("startxref\n%d\n%%%%EOF\n", xrefOffset))

	return buf
}

func TestLoadMinimalDocument(t *testing.T) {
	data := buildMinimalPDF(t)
	doc, err := Load(data)
	require.NoError(t, err)
	require.Equal(t, Version{Major: 1, Minor: 7}, doc.Version)

	root, err := doc.Root()
	require.NoError(t, err)
	require.Equal(t, KindDictionary, root.Kind)
	name, ok, err := doc.AsName(root.Dict["Type"])
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Catalog", name)

	pages, ok, err := doc.AsDictionary(root.Dict["Pages"])
	require.NoError(t, err)
	require.True(t, ok)
	count, ok, err := doc.AsInteger(pages["Count"])
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 0, count)
}

func TestFreeEntryResolvesToNull(t *testing.T) {
	data := buildMinimalPDF(t)
	doc, err := Load(data)
	require.NoError(t, err)
	o, err := doc.Deref(Key{Num: 0, Gen: 65535})
	require.NoError(t, err)
	require.True(t, o.IsNull())
}

func TestMissingObjectNumberResolvesToNull(t *testing.T) {
	data := buildMinimalPDF(t)
	doc, err := Load(data)
	require.NoError(t, err)
	o, err := doc.Deref(Key{Num: 999, Gen: 0})
	require.NoError(t, err)
	require.True(t, o.IsNull())
}

func TestResolveCachesAcrossCalls(t *testing.T) {
	data := buildMinimalPDF(t)
	doc, err := Load(data)
	require.NoError(t, err)
	k := Key{Num: 2, Gen: 0}
	first, err := doc.Deref(k)
	require.NoError(t, err)
	second, err := doc.Deref(k)
	require.NoError(t, err)
	require.Equal(t, first, second)
	cached, ok := doc.cache[k]
	require.True(t, ok)
	require.Equal(t, first, cached)
}

func TestXrefMismatchWhenOffsetPointsAtWrongObject(t *testing.T) {
	data := buildMinimalPDF(t)
	doc, err := Load(data)
	require.NoError(t, err)
	// Point object 2's xref entry at object 1's offset.
	bad := doc.xref[1]
	doc.xref[2] = bad
	_, err = doc.Deref(Key{Num: 2, Gen: 0})
	require.Error(t, err)
	require.True(t, err.(*Error).Is(ErrXrefMismatch))
}

func TestLoadRejectsNonPDF(t *testing.T) {
	_, err := Load([]byte("not a pdf at all"))
	require.Error(t, err)
	require.True(t, err.(*Error).Is(ErrNotAPdf))
}

func TestLoadRejectsMissingStartxref(t *testing.T) {
	_, err := Load([]byte("%PDF-1.4\nno xref pointer here"))
	require.Error(t, err)
}
