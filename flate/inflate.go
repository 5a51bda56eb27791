// Package flate implements a from-scratch RFC 1951 DEFLATE decoder and the
// RFC 1950 zlib wrapper around it, the embedded decompressor used to decode
// FlateDecode-filtered PDF streams.
package flate

import "github.com/nodalcore/pdfcore/bitio"

const (
	btypeStored = 0
	btypeFixed  = 1
	btypeDyn    = 2
	btypeRsvd   = 3

	endBlockSym = 256

	maxLitSyms  = 288
	maxDistSyms = 32
	maxCLenSyms = 19
)

// Inflate decodes a raw DEFLATE stream (no zlib wrapper) read from br,
// returning the decompressed bytes. No partial output is returned on
// failure.
func Inflate(br *bitio.Reader) (out []byte, err error) {
	return InflateLimit(br, 0)
}

// InflateLimit behaves like Inflate but fails with ErrOutputTooLarge once
// the decompressed size would exceed maxOutput bytes (0 means unlimited).
func InflateLimit(br *bitio.Reader, maxOutput int) (out []byte, err error) {
	defer errRecover(&err)
	d := &decoder{br: br, maxOutput: maxOutput}
	d.run()
	return d.out, nil
}

type decoder struct {
	br        *bitio.Reader
	out       []byte
	maxOutput int
}

func (d *decoder) emit(b byte) {
	if d.maxOutput > 0 && len(d.out) >= d.maxOutput {
		panic(ErrOutputTooLarge)
	}
	d.out = append(d.out, b)
}

func (d *decoder) run() {
	for {
		final := d.readBits(1)
		btype := d.readBits(2)
		switch btype {
		case btypeStored:
			d.storedBlock()
		case btypeFixed:
			lit, _ := newTable(fixedLiteralLengths())
			dist, _ := newTable(fixedDistanceLengths())
			d.huffmanBlock(lit, dist)
		case btypeDyn:
			lit, dist := d.readDynamicTables()
			d.huffmanBlock(lit, dist)
		default:
			panic(ErrInvalidBlock)
		}
		if final == 1 {
			return
		}
	}
}

func (d *decoder) readBits(n uint) uint64 {
	v, err := d.br.ReadInteger(n)
	if err != nil {
		panic(err)
	}
	return v
}

// storedBlock implements spec §4.2's stored block: align to byte, read LEN
// and NLEN as 16-bit little-endian integers, verify LEN == ^NLEN, then copy
// exactly LEN raw bytes to output.
func (d *decoder) storedBlock() {
	d.br.AlignToByte()
	lenLo := d.readBits(8)
	lenHi := d.readBits(8)
	nlenLo := d.readBits(8)
	nlenHi := d.readBits(8)
	length := uint16(lenLo | lenHi<<8)
	nlength := uint16(nlenLo | nlenHi<<8)
	if length != ^nlength {
		panic(ErrLengthMismatch)
	}
	for i := uint16(0); i < length; i++ {
		d.emit(byte(d.readBits(8)))
	}
}

// huffmanBlock decodes symbols using lit/dist tables until the end-of-block
// symbol (256) is seen.
func (d *decoder) huffmanBlock(lit, dist *table) {
	for {
		sym, err := lit.decode(d.br)
		if err != nil {
			panic(err)
		}
		switch {
		case sym < endBlockSym:
			d.emit(byte(sym))
		case sym == endBlockSym:
			return
		default:
			d.copyMatch(sym, dist)
		}
	}
}

func (d *decoder) copyMatch(sym int32, dist *table) {
	idx := int(sym) - 257
	if idx < 0 || idx >= len(lengthBase) {
		panic(ErrInvalidCode)
	}
	length := lengthBase[idx] + int(d.readBits(lengthExtra[idx]))

	distSym, err := dist.decode(d.br)
	if err != nil {
		panic(err)
	}
	if int(distSym) < 0 || int(distSym) >= len(distBase) {
		panic(ErrBadDistance)
	}
	distance := distBase[distSym] + int(d.readBits(distExtra[distSym]))

	if distance == 0 || distance > len(d.out) {
		panic(ErrBadDistance)
	}
	start := len(d.out) - distance
	// The copy may overlap its own source, so it must proceed byte by
	// byte rather than via a single slice copy.
	for i := 0; i < length; i++ {
		d.emit(d.out[start+i])
	}
}

// readDynamicTables implements spec §4.2's dynamic block header: HLIT (5
// bits + 257), HDIST (5 bits + 1), HCLEN (4 bits + 4); then HCLEN 3-bit
// code lengths in the fixed codeLengthOrder permutation, from which the
// code-length Huffman code is built and used to decode HLIT+HDIST lengths,
// with run-length expansions for symbols 16, 17, 18.
func (d *decoder) readDynamicTables() (lit, dist *table) {
	hlit := int(d.readBits(5)) + 257
	hdist := int(d.readBits(5)) + 1
	hclen := int(d.readBits(4)) + 4
	if hlit > maxLitSyms || hdist > maxDistSyms {
		panic(ErrInvalidBlock)
	}

	clenLengths := make([]int, maxCLenSyms)
	for i := 0; i < hclen; i++ {
		clenLengths[codeLengthOrder[i]] = int(d.readBits(3))
	}
	clenTable, err := newTable(clenLengths)
	if err != nil {
		panic(err)
	}

	total := hlit + hdist
	lengths := make([]int, total)
	var prev int
	for sym := 0; sym < total; {
		code, err := clenTable.decode(d.br)
		if err != nil {
			panic(err)
		}
		switch {
		case code < 16:
			lengths[sym] = int(code)
			prev = int(code)
			sym++
		case code == 16:
			if sym == 0 {
				panic(ErrInvalidBlock)
			}
			repeat := 3 + int(d.readBits(2))
			for i := 0; i < repeat && sym < total; i++ {
				lengths[sym] = prev
				sym++
			}
		case code == 17:
			repeat := 3 + int(d.readBits(3))
			sym += repeat
		case code == 18:
			repeat := 11 + int(d.readBits(7))
			sym += repeat
		default:
			panic(ErrInvalidBlock)
		}
		if sym > total {
			panic(ErrInvalidBlock)
		}
	}

	litTable, err := newTable(lengths[:hlit])
	if err != nil {
		panic(err)
	}
	distTable, err := newTable(lengths[hlit:])
	if err != nil {
		panic(err)
	}
	return litTable, distTable
}
