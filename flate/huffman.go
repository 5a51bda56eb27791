package flate

import "github.com/nodalcore/pdfcore/bitio"

const maxCodeLen = 15 // RFC 1951 §3.2.2: no DEFLATE code exceeds 15 bits.

// table is a canonical Huffman decoding table built from a vector of code
// lengths, one per symbol (0 meaning "symbol unused"). lookup[length][code]
// holds the symbol assigned to that (length, code) pair, or -1. Decoding
// probes the shortest possible code first and extends one bit at a time,
// exactly as spec'd.
type table struct {
	minLen, maxLen uint
	lookup         [][]int32
}

// newTable builds a canonical Huffman table from code lengths, per RFC 1951
// §3.2.2: count lengths, derive the starting code for each length, then
// assign consecutive codes to symbols in symbol order (skipping length-0
// symbols).
func newTable(lengths []int) (*table, error) {
	var blCount [maxCodeLen + 1]int
	maxLen := 0
	for _, l := range lengths {
		if l < 0 || l > maxCodeLen {
			return nil, ErrInvalidCode
		}
		if l > 0 {
			blCount[l]++
			if l > maxLen {
				maxLen = l
			}
		}
	}
	if maxLen == 0 {
		return &table{}, nil
	}

	var nextCode [maxCodeLen + 2]int
	code := 0
	for bits := 1; bits <= maxLen; bits++ {
		code = (code + blCount[bits-1]) << 1
		nextCode[bits] = code
	}

	lookup := make([][]int32, maxLen+1)
	minLen := maxLen
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		if l < minLen {
			minLen = l
		}
		c := nextCode[l]
		nextCode[l]++
		if lookup[l] == nil {
			lookup[l] = make([]int32, 1<<uint(l))
			for i := range lookup[l] {
				lookup[l][i] = -1
			}
		}
		if c >= len(lookup[l]) {
			return nil, ErrInvalidCode
		}
		lookup[l][c] = int32(sym)
	}
	return &table{minLen: uint(minLen), maxLen: uint(maxLen), lookup: lookup}, nil
}

// decode reads one symbol: read minLen bits with ReadCode (DEFLATE's
// Huffman bit ordering), then while no code of the current length
// matches, extend one more bit at a time until maxLen is reached.
// Extending a ReadCode(n) value by one more ReadCode(1) bit and
// recombining as code<<1|bit yields the same value ReadCode(n+1) would
// have produced, since both assemble the same physical bits
// most-significant-bit-first in read order.
func (t *table) decode(br *bitio.Reader) (int32, error) {
	if t.maxLen == 0 {
		return 0, ErrInvalidCode
	}
	code, err := br.ReadCode(t.minLen)
	if err != nil {
		return 0, err
	}
	for length := t.minLen; ; length++ {
		if int(length) < len(t.lookup) {
			if tbl := t.lookup[length]; tbl != nil && int(code) < len(tbl) {
				if sym := tbl[code]; sym >= 0 {
					return sym, nil
				}
			}
		}
		if length >= t.maxLen {
			return 0, ErrInvalidCode
		}
		bit, err := br.ReadCode(1)
		if err != nil {
			return 0, err
		}
		code = code<<1 | bit
	}
}

// fixedLiteralLengths returns the RFC-specified fixed Huffman code lengths
// for the literal/length alphabet: 0-143:8, 144-255:9, 256-279:7, 280-287:8.
func fixedLiteralLengths() []int {
	l := make([]int, 288)
	for i := 0; i <= 143; i++ {
		l[i] = 8
	}
	for i := 144; i <= 255; i++ {
		l[i] = 9
	}
	for i := 256; i <= 279; i++ {
		l[i] = 7
	}
	for i := 280; i <= 287; i++ {
		l[i] = 8
	}
	return l
}

// fixedDistanceLengths returns the RFC-specified fixed distance code
// lengths: 5 bits each, for all 32 codes (only 0-29 are ever used).
func fixedDistanceLengths() []int {
	l := make([]int, 32)
	for i := range l {
		l[i] = 5
	}
	return l
}

// codeLengthOrder is the order in which HCLEN code-length-of-code-lengths
// are transmitted, per RFC 1951 §3.2.7.
var codeLengthOrder = [19]int{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

// lengthBase and lengthExtra are indexed by (symbol - 257) for symbols
// 257-285, per RFC 1951 §3.2.5.
var lengthBase = [29]int{3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31, 35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227, 258}
var lengthExtra = [29]uint{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0}

// distBase and distExtra are indexed by the distance symbol 0-29.
var distBase = [30]int{1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193, 257, 385, 513, 769, 1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577}
var distExtra = [30]uint{0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13}
