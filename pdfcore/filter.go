package pdfcore

import (
	"bytes"

	"github.com/nodalcore/pdfcore/bitio"
	"github.com/nodalcore/pdfcore/flate"
)

func newBitReader(b []byte) *bitio.Reader {
	return bitio.NewReader(bytes.NewReader(b))
}

// filterNames extracts a stream dictionary's /Filter entry, which may be a
// single Name or an Array of Names; filters apply left to right (spec §3).
func filterNames(d map[string]Obj) []string {
	f, ok := d["Filter"]
	if !ok {
		return nil
	}
	switch f.Kind {
	case KindName:
		return []string{f.Name}
	case KindArray:
		names := make([]string, 0, len(f.Arr))
		for _, item := range f.Arr {
			if item.Kind == KindName {
				names = append(names, item.Name)
			}
		}
		return names
	default:
		return nil
	}
}

// maxStreamOutput caps a single filter's decompressed output. A PDF stream
// can declare a tiny compressed payload that expands to gigabytes; this
// bound turns that into a reported error instead of unbounded allocation.
const maxStreamOutput = 256 << 20 // 256 MiB

// ApplyFilters decodes s.Data through its declared filter pipeline,
// in place, memoizing the result (spec §3: decoded stream data, once
// computed, is cached for the Document's lifetime). FlateDecode is
// implemented by this module's from-scratch flate package, and
// ASCIIHexDecode and ASCII85Decode are decoded directly; every other PDF
// filter name is reported as unsupported rather than silently passed
// through, per spec §7's UnsupportedFilter(name).
func ApplyFilters(s *Stream) error {
	if s.Applied {
		return nil
	}
	data := s.Data
	for _, name := range s.Filters {
		switch name {
		case "FlateDecode", "Fl":
			decoded, err := flate.ZlibInflateLimit(newBitReader(data), maxStreamOutput)
			if err != nil {
				return wrapErr(KindUnsupportedFilter, err, "FlateDecode failed")
			}
			data = decoded
		case "ASCIIHexDecode", "AHx":
			decoded, err := decodeASCIIHex(data)
			if err != nil {
				return err
			}
			data = decoded
		case "ASCII85Decode", "A85":
			decoded, err := decodeASCII85(data)
			if err != nil {
				return err
			}
			data = decoded
		default:
			return unsupportedFilterErr(name)
		}
	}
	s.Data = data
	s.Applied = true
	return nil
}

// decodeASCIIHex implements the ASCIIHexDecode filter: pairs of hex digits,
// whitespace ignored, terminated by '>' with an optional trailing odd
// nibble padded with 0 (same rule as the hex-string production).
func decodeASCIIHex(data []byte) ([]byte, error) {
	var nibbles []byte
	for _, c := range data {
		if c == '>' {
			break
		}
		if isWSByte(c) {
			continue
		}
		v, ok := hexVal(c)
		if !ok {
			return nil, newErr(KindInvalidNumber, "ASCIIHexDecode: invalid character %q", c)
		}
		nibbles = append(nibbles, v)
	}
	if len(nibbles)%2 == 1 {
		nibbles = append(nibbles, 0)
	}
	out := make([]byte, len(nibbles)/2)
	for i := range out {
		out[i] = nibbles[2*i]<<4 | nibbles[2*i+1]
	}
	return out, nil
}

// decodeASCII85 implements the 5-for-4 base-85 PDF variant over the 85
// printable characters '!'-'u', including the 'z' shortcut for an all-zero
// group and the trailing-group padding rule.
func decodeASCII85(data []byte) ([]byte, error) {
	data = bytes.TrimSpace(data)
	data = bytes.TrimPrefix(data, []byte("<~"))
	if i := bytes.Index(data, []byte("~>")); i >= 0 {
		data = data[:i]
	}
	var out []byte
	var group [5]byte
	n := 0
	flush := func(count int) error {
		for i := count; i < 5; i++ {
			group[i] = 'u'
		}
		var val uint32
		for _, c := range group {
			if c < '!' || c > 'u' {
				return newErr(KindInvalidNumber, "ASCII85Decode: invalid character %q", c)
			}
			val = val*85 + uint32(c-'!')
		}
		b := [4]byte{byte(val >> 24), byte(val >> 16), byte(val >> 8), byte(val)}
		out = append(out, b[:count-1]...)
		return nil
	}
	for _, c := range data {
		if isWSByte(c) {
			continue
		}
		if c == 'z' && n == 0 {
			out = append(out, 0, 0, 0, 0)
			continue
		}
		group[n] = c
		n++
		if n == 5 {
			if err := flush(5); err != nil {
				return nil, err
			}
			n = 0
		}
	}
	if n > 0 {
		if n == 1 {
			return nil, newErr(KindInvalidNumber, "ASCII85Decode: final group has a single character")
		}
		if err := flush(n); err != nil {
			return nil, err
		}
	}
	return out, nil
}
