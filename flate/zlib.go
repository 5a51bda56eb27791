package flate

import "github.com/nodalcore/pdfcore/bitio"

const zlibMethodDeflate = 8

// ZlibInflate reads the two-byte zlib header (CMF, FLG) per RFC 1950,
// validates CM==8 and the header checksum, skips the optional
// preset-dictionary id when FDICT is set, decodes the wrapped DEFLATE
// stream, then reads (but does not validate) the trailing Adler-32.
func ZlibInflate(br *bitio.Reader) (out []byte, err error) {
	return ZlibInflateLimit(br, 0)
}

// ZlibInflateLimit behaves like ZlibInflate but caps decompressed size, see
// InflateLimit.
func ZlibInflateLimit(br *bitio.Reader, maxOutput int) (out []byte, err error) {
	defer errRecover(&err)

	cmf := readByte(br)
	flg := readByte(br)
	if cmf&0x0F != zlibMethodDeflate {
		panic(ErrHeaderMismatch)
	}
	if (uint(cmf)<<8|uint(flg))%31 != 0 {
		panic(ErrHeaderMismatch)
	}
	fdict := (flg>>5)&1 == 1
	if fdict {
		// Discard the 4-byte preset-dictionary id; this decoder does
		// not support preset dictionaries.
		for i := 0; i < 4; i++ {
			readByte(br)
		}
	}

	d := &decoder{br: br, maxOutput: maxOutput}
	d.run()

	// Trailing Adler-32, stored most-significant byte first. Reading it
	// keeps the bit reader correctly positioned for any caller that
	// continues reading past this stream; validation is optional per
	// spec and is not performed here since many producers emit it
	// incorrectly in practice. The checksum starts on a byte boundary, so
	// the padding bits after the final block are discarded first.
	br.AlignToByte()
	var adler uint32
	for i := 0; i < 4; i++ {
		adler = adler<<8 | uint32(readByte(br))
	}
	_ = adler

	return d.out, nil
}

func readByte(br *bitio.Reader) byte {
	v, err := br.ReadInteger(8)
	if err != nil {
		panic(err)
	}
	return byte(v)
}
