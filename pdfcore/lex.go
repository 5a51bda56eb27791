package pdfcore

import (
	"bytes"
	"strconv"
)

// Parsing uses an explicit byte-offset cursor into the document's source
// buffer (rather than sub-slicing) because Stream payloads must record an
// absolute offset+length span into that same buffer (spec §3), and xref
// and indirect-object locations are themselves byte offsets.
//
// Every atomic production below follows the same three-outcome contract
// (spec §4.3, §9): it returns (value, newPos, true, nil) on a match,
// (zero, pos, false, nil) if the production simply does not apply here
// ("NotFound" — an internal control signal used for alternation among
// productions, never user-visible), or (zero, pos, false, err) if the
// production recognized its own opening syntax but then found the input
// malformed ("Error" — fatal, aborts the enclosing production).

func isWSByte(b byte) bool {
	switch b {
	case 0x00, 0x09, 0x0A, 0x0C, 0x0D, 0x20:
		return true
	}
	return false
}

// isDelimiter reports whether b is one of the PDF delimiter characters
// spec §4.3 calls out for the Name production: / ( ) [ ] < >.
func isDelimiter(b byte) bool {
	switch b {
	case '/', '(', ')', '[', ']', '<', '>':
		return true
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isRegularChar(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || isDigit(b)
}

func hexVal(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	}
	return 0, false
}

// skipWS advances past whitespace and %-comments, both of which are
// permitted to appear anywhere whitespace is allowed (spec §4.3).
func skipWS(src []byte, pos int) int {
	for pos < len(src) {
		if isWSByte(src[pos]) {
			pos++
			continue
		}
		if src[pos] == '%' {
			for pos < len(src) && src[pos] != '\n' && src[pos] != '\r' {
				pos++
			}
			continue
		}
		break
	}
	return pos
}

// eolLen reports the length of an EOL sequence (LF, or CR LF) starting at
// pos, or 0 if none is present. A bare CR is not a line terminator in
// productions that require EOL, per spec §4.3.
func eolLen(src []byte, pos int) int {
	if pos >= len(src) {
		return 0
	}
	if src[pos] == '\n' {
		return 1
	}
	if src[pos] == '\r' && pos+1 < len(src) && src[pos+1] == '\n' {
		return 2
	}
	return 0
}

func boundaryAfter(src []byte, pos int) bool {
	return pos >= len(src) || !isRegularChar(src[pos])
}

func scanDigits(src []byte, pos int) (string, int, bool) {
	start := pos
	for pos < len(src) && isDigit(src[pos]) {
		pos++
	}
	if pos == start {
		return "", pos, false
	}
	return string(src[start:pos]), pos, true
}

// parseBoolean recognizes the literal keywords true | false.
func parseBoolean(src []byte, pos int) (Obj, int, bool, error) {
	if bytes.HasPrefix(src[pos:], []byte("true")) && boundaryAfter(src, pos+4) {
		return Boolean(true), pos + 4, true, nil
	}
	if bytes.HasPrefix(src[pos:], []byte("false")) && boundaryAfter(src, pos+5) {
		return Boolean(false), pos + 5, true, nil
	}
	return Obj{}, pos, false, nil
}

// parseNull recognizes the literal keyword null.
func parseNull(src []byte, pos int) (Obj, int, bool, error) {
	if bytes.HasPrefix(src[pos:], []byte("null")) && boundaryAfter(src, pos+4) {
		return Null(), pos + 4, true, nil
	}
	return Obj{}, pos, false, nil
}

// parseReference recognizes "N G R". It is tried before parseNumber (spec
// §4.3's disambiguation rule) and is fully speculative: any failure to
// match the complete pattern returns NotFound without consuming input, so
// "1 0" (no R) falls through to parseNumber and yields Integer(1) with the
// " 0" remainder intact.
func parseReference(src []byte, pos int) (Obj, int, bool, error) {
	numStr, p1, ok := scanDigits(src, pos)
	if !ok {
		return Obj{}, pos, false, nil
	}
	p2 := skipWS(src, p1)
	if p2 == p1 {
		return Obj{}, pos, false, nil
	}
	genStr, p3, ok := scanDigits(src, p2)
	if !ok {
		return Obj{}, pos, false, nil
	}
	p4 := skipWS(src, p3)
	if p4 == p3 {
		return Obj{}, pos, false, nil
	}
	if p4 >= len(src) || src[p4] != 'R' || !boundaryAfter(src, p4+1) {
		return Obj{}, pos, false, nil
	}
	num, err := strconv.ParseUint(numStr, 10, 64)
	if err != nil || num < 1 {
		return Obj{}, pos, false, nil
	}
	gen, err := strconv.ParseUint(genStr, 10, 64)
	if err != nil {
		return Obj{}, pos, false, nil
	}
	return Reference(Key{Num: num, Gen: gen}), p4 + 1, true, nil
}

// parseNumber recognizes an optional sign, digits, an optional '.', and
// more digits; a '.' anywhere makes it a Real, otherwise an Integer.
func parseNumber(src []byte, pos int) (Obj, int, bool, error) {
	p := pos
	if p < len(src) && (src[p] == '+' || src[p] == '-') {
		p++
	}
	start := p
	for p < len(src) && isDigit(src[p]) {
		p++
	}
	intDigits := p - start
	isReal := false
	if p < len(src) && src[p] == '.' {
		isReal = true
		p++
		for p < len(src) && isDigit(src[p]) {
			p++
		}
	}
	if intDigits == 0 && !isReal {
		return Obj{}, pos, false, nil
	}
	text := string(src[pos:p])
	if isReal {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Obj{}, pos, false, newErr(KindInvalidNumber, "invalid real literal %q", text)
		}
		return Real(f), p, true, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Obj{}, pos, false, newErr(KindInvalidNumber, "invalid integer literal %q", text)
	}
	return Integer(n), p, true, nil
}

// parseLiteralString recognizes a "(...)" string with balanced parens and
// the standard escapes.
func parseLiteralString(src []byte, pos int) (Obj, int, bool, error) {
	if pos >= len(src) || src[pos] != '(' {
		return Obj{}, pos, false, nil
	}
	p := pos + 1
	depth := 1
	var out []byte
	for p < len(src) {
		c := src[p]
		switch c {
		case '\\':
			p++
			if p >= len(src) {
				return Obj{}, pos, false, newErr(KindUnbalancedString, "literal string: escape at end of input")
			}
			e := src[p]
			switch e {
			case 'n':
				out = append(out, '\n')
				p++
			case 'r':
				out = append(out, '\r')
				p++
			case 't':
				out = append(out, '\t')
				p++
			case 'b':
				out = append(out, '\b')
				p++
			case 'f':
				out = append(out, '\f')
				p++
			case '(':
				out = append(out, '(')
				p++
			case ')':
				out = append(out, ')')
				p++
			case '\\':
				out = append(out, '\\')
				p++
			case '\r':
				p++
				if p < len(src) && src[p] == '\n' {
					p++
				}
				out = append(out, ' ')
			case '\n':
				p++
				out = append(out, ' ')
			default:
				if e >= '0' && e <= '7' {
					val := 0
					cnt := 0
					for cnt < 3 && p < len(src) && src[p] >= '0' && src[p] <= '7' {
						val = val*8 + int(src[p]-'0')
						p++
						cnt++
					}
					out = append(out, byte(val))
				} else {
					out = append(out, e)
					p++
				}
			}
		case '(':
			depth++
			out = append(out, c)
			p++
		case ')':
			depth--
			p++
			if depth == 0 {
				return ByteString(out), p, true, nil
			}
			out = append(out, c)
		default:
			out = append(out, c)
			p++
		}
	}
	return Obj{}, pos, false, newErr(KindUnbalancedString, "literal string: unterminated, unbalanced parentheses")
}

// parseHexString recognizes a "<...>" string of hex digits; whitespace is
// permitted throughout and an odd trailing digit implies a trailing 0
// nibble. It must not be confused with the "<<" dictionary opener.
func parseHexString(src []byte, pos int) (Obj, int, bool, error) {
	if pos >= len(src) || src[pos] != '<' {
		return Obj{}, pos, false, nil
	}
	if pos+1 < len(src) && src[pos+1] == '<' {
		return Obj{}, pos, false, nil
	}
	p := pos + 1
	var nibbles []byte
	for p < len(src) && src[p] != '>' {
		c := src[p]
		if isWSByte(c) {
			p++
			continue
		}
		v, ok := hexVal(c)
		if !ok {
			return Obj{}, pos, false, newErr(KindUnbalancedString, "hex string: invalid character %q", c)
		}
		nibbles = append(nibbles, v)
		p++
	}
	if p >= len(src) {
		return Obj{}, pos, false, newErr(KindUnbalancedString, "hex string: unterminated")
	}
	if len(nibbles)%2 == 1 {
		nibbles = append(nibbles, 0)
	}
	out := make([]byte, len(nibbles)/2)
	for i := range out {
		out[i] = nibbles[2*i]<<4 | nibbles[2*i+1]
	}
	return ByteString(out), p + 1, true, nil
}

// parseName recognizes "/name" with #NN hex-escape resolution. The
// returned string owns its bytes via the document's name interner, since
// escape decoding may synthesize content that does not alias the source
// buffer.
func (p *Parser) parseName(src []byte, pos int) (Obj, int, bool, error) {
	if pos >= len(src) || src[pos] != '/' {
		return Obj{}, pos, false, nil
	}
	i := pos + 1
	var out []byte
	for i < len(src) {
		c := src[i]
		if isWSByte(c) || isDelimiter(c) {
			break
		}
		if c == '#' && i+2 < len(src) {
			hi, ok1 := hexVal(src[i+1])
			lo, ok2 := hexVal(src[i+2])
			if ok1 && ok2 {
				out = append(out, hi<<4|lo)
				i += 3
				continue
			}
		}
		out = append(out, c)
		i++
	}
	name := p.intern.intern(out)
	return Name(name), i, true, nil
}
