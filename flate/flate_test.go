package flate

import (
	"bytes"
	gzflate "compress/flate"
	"compress/zlib"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/nodalcore/pdfcore/bitio"
)

// TestFixedHuffmanRoundTrip is spec §8 concrete scenario 1.
func TestFixedHuffmanRoundTrip(t *testing.T) {
	data := []byte{0x0B, 0x49, 0x2D, 0x2E, 0xC9, 0xCC, 0x4B, 0x0F, 0x81, 0x50, 0x00}
	out, err := Inflate(bitio.NewReader(bytes.NewReader(data)))
	require.NoError(t, err)
	require.Equal(t, "TestingTesting", string(out))
}

// TestZlibHeaderAcceptance is spec §8 concrete scenario 2: a zlib stream of
// the empty string must be accepted and produce zero bytes.
func TestZlibHeaderAcceptance(t *testing.T) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	require.NoError(t, zw.Close())

	require.Equal(t, byte(0x78), buf.Bytes()[0]) // CM=8, CINFO=7 (32K window)

	out, err := ZlibInflate(bitio.NewReader(bytes.NewReader(buf.Bytes())))
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestStoredBlockEmptyFinal(t *testing.T) {
	// BFINAL=1, BTYPE=00 (stored), aligned, LEN=0, NLEN=0xFFFF.
	var buf bytes.Buffer
	buf.WriteByte(0x01) // bit0 = BFINAL(1), bits1-2 = BTYPE(00), rest padding zero
	buf.WriteByte(0x00) // LEN lo
	buf.WriteByte(0x00) // LEN hi
	buf.WriteByte(0xFF) // NLEN lo
	buf.WriteByte(0xFF) // NLEN hi

	out, err := Inflate(bitio.NewReader(bytes.NewReader(buf.Bytes())))
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestFixedHuffmanEndOfBlockOnly(t *testing.T) {
	// Fixed Huffman, BFINAL=1. Symbol 256 has a 7-bit code; per RFC 1951
	// fixed table, code for 256 is 0000000 (7 zero bits).
	// Bits on the wire, LSB first: BFINAL(1)=1, BTYPE(2)=01, then the
	// 7-bit code for 256 read via ReadCode (MSB-first assembly) as
	// 0000000. All zero bits after the 3 header bits satisfies this.
	var buf bytes.Buffer
	buf.WriteByte(0x03) // 0b00000011: bit0=1(BFINAL), bits1-2=01(BTYPE fixed), rest 0
	buf.WriteByte(0x00)

	out, err := Inflate(bitio.NewReader(bytes.NewReader(buf.Bytes())))
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestBackReferenceDistanceOne(t *testing.T) {
	// Round-trip a run that forces a distance=1 (single preceding byte)
	// back-reference: stdlib's encoder reliably emits one for long runs
	// of a repeated byte.
	input := bytes.Repeat([]byte{'z'}, 300)
	compressed := stdlibDeflate(t, input)

	out, err := Inflate(bitio.NewReader(bytes.NewReader(compressed)))
	require.NoError(t, err)
	require.True(t, cmp.Equal(input, out))
}

func TestInvalidBlockType(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(0x07) // BFINAL=1, BTYPE=11 (reserved)
	_, err := Inflate(bitio.NewReader(bytes.NewReader(buf.Bytes())))
	require.ErrorIs(t, err, ErrInvalidBlock)
}

func TestStoredBlockLengthMismatch(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(0x01)
	buf.WriteByte(0x05)
	buf.WriteByte(0x00)
	buf.WriteByte(0x00) // NLEN should be ^LEN; wrong on purpose
	buf.WriteByte(0x00)
	_, err := Inflate(bitio.NewReader(bytes.NewReader(buf.Bytes())))
	require.ErrorIs(t, err, ErrLengthMismatch)
}

func TestRoundTripVariousSizes(t *testing.T) {
	for _, n := range []int{0, 1, 17, 1000, 70000} {
		input := make([]byte, n)
		for i := range input {
			input[i] = byte(i * 7 % 251)
		}
		compressed := stdlibDeflate(t, input)
		out, err := Inflate(bitio.NewReader(bytes.NewReader(compressed)))
		require.NoErrorf(t, err, "size %d", n)
		require.Equalf(t, input, out, "size %d", n)
	}
}

func TestOutputTooLarge(t *testing.T) {
	input := bytes.Repeat([]byte("abc"), 1000)
	compressed := stdlibDeflate(t, input)
	_, err := InflateLimit(bitio.NewReader(bytes.NewReader(compressed)), 10)
	require.ErrorIs(t, err, ErrOutputTooLarge)
}

func stdlibDeflate(t *testing.T, input []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := gzflate.NewWriter(&buf, gzflate.BestCompression)
	require.NoError(t, err)
	_, err = w.Write(input)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

