package pdfcore

import "bytes"

// maxNestingDepth bounds recursive descent into arrays and dictionaries.
// Supplemented from original_source/pdf/src/parser.rs, which guards the
// same recursion with a depth counter; a hostile or corrupt file can
// otherwise exhaust the goroutine stack with deeply nested brackets before
// any byte limit is hit. See SPEC_FULL.md.
const maxNestingDepth = 100

// Parser recognizes the PDF object grammar (spec §4.3) over a single
// document's source buffer. It holds no mutable state beyond the name
// interner, and resolveLen, the callback used to resolve a stream's
// /Length when the dictionary value is an indirect reference: resolving
// that reference means looking up another object through the owning
// Document, which is exactly the mutual recursion spec §9 calls out in
// "ownership of parsed bytes" and "cyclic references".
type Parser struct {
	src        []byte
	intern     *interner
	resolveLen func(Key) (int64, bool, error)
}

// NewParser builds a Parser over src. resolveLen may be nil if the caller
// never expects to encounter an indirect /Length (e.g. trailer-only
// parsing); any attempt to use it in that case is a programmer error.
func NewParser(src []byte, intern *interner, resolveLen func(Key) (int64, bool, error)) *Parser {
	return &Parser{src: src, intern: intern, resolveLen: resolveLen}
}

// parseObject is the "object" production: the strict-order alternation of
// boolean, null, reference, integer, real, string, name, array, dictionary
// (spec §4.3). Integer and real share one scanner (parseNumber) since they
// differ only in whether a '.' appeared; literal and hex string share the
// "string" slot similarly.
func (p *Parser) parseObject(pos int, depth int) (Obj, int, bool, error) {
	if depth > maxNestingDepth {
		return Obj{}, pos, false, ErrNestingTooDeep
	}
	pos = skipWS(p.src, pos)

	type production func(int) (Obj, int, bool, error)
	productions := []production{
		func(pos int) (Obj, int, bool, error) { return parseBoolean(p.src, pos) },
		func(pos int) (Obj, int, bool, error) { return parseNull(p.src, pos) },
		func(pos int) (Obj, int, bool, error) { return parseReference(p.src, pos) },
		func(pos int) (Obj, int, bool, error) { return parseNumber(p.src, pos) },
		func(pos int) (Obj, int, bool, error) { return parseLiteralString(p.src, pos) },
		func(pos int) (Obj, int, bool, error) { return parseHexString(p.src, pos) },
		func(pos int) (Obj, int, bool, error) { return p.parseName(p.src, pos) },
		func(pos int) (Obj, int, bool, error) { return p.parseArray(pos, depth) },
		func(pos int) (Obj, int, bool, error) { return p.parseDictOrStream(pos, depth) },
	}
	for _, prod := range productions {
		o, newPos, ok, err := prod(pos)
		if err != nil {
			return Obj{}, pos, false, err
		}
		if ok {
			return o, newPos, true, nil
		}
	}
	return Obj{}, pos, false, nil
}

// parseArray recognizes "[ object* ]".
func (p *Parser) parseArray(pos int, depth int) (Obj, int, bool, error) {
	if pos >= len(p.src) || p.src[pos] != '[' {
		return Obj{}, pos, false, nil
	}
	cur := pos + 1
	var items []Obj
	for {
		cur = skipWS(p.src, cur)
		if cur < len(p.src) && p.src[cur] == ']' {
			return Array(items), cur + 1, true, nil
		}
		if cur >= len(p.src) {
			return Obj{}, pos, false, newErr(KindUnexpectedEOF, "unterminated array")
		}
		o, next, ok, err := p.parseObject(cur, depth+1)
		if err != nil {
			return Obj{}, pos, false, err
		}
		if !ok {
			return Obj{}, pos, false, newErr(KindUnexpectedEOF, "invalid array element at offset %d", cur)
		}
		items = append(items, o)
		cur = next
	}
}

// parseDict recognizes "<< (name object)* >>".
func (p *Parser) parseDict(pos int, depth int) (map[string]Obj, int, bool, error) {
	if pos+1 >= len(p.src) || p.src[pos] != '<' || p.src[pos+1] != '<' {
		return nil, pos, false, nil
	}
	cur := pos + 2
	d := make(map[string]Obj)
	for {
		cur = skipWS(p.src, cur)
		if cur+1 < len(p.src) && p.src[cur] == '>' && p.src[cur+1] == '>' {
			return d, cur + 2, true, nil
		}
		if cur >= len(p.src) {
			return nil, pos, false, newErr(KindUnexpectedEOF, "unterminated dictionary")
		}
		keyObj, next, ok, err := p.parseName(p.src, cur)
		if err != nil {
			return nil, pos, false, err
		}
		if !ok {
			return nil, pos, false, newErr(KindUnexpectedEOF, "expected name key at offset %d", cur)
		}
		valObj, next2, ok2, err2 := p.parseObject(next, depth+1)
		if err2 != nil {
			return nil, pos, false, err2
		}
		if !ok2 {
			return nil, pos, false, newErr(KindUnexpectedEOF, "expected dictionary value at offset %d", next)
		}
		d[keyObj.Name] = valObj
		cur = next2
	}
}

// parseDictOrStream recognizes a dictionary, then looks ahead for the
// "stream" keyword that turns it into a Stream object (spec §4.3: a
// dictionary immediately followed by whitespace, "stream", a single EOL,
// Length raw bytes, EOL, "endstream").
func (p *Parser) parseDictOrStream(pos int, depth int) (Obj, int, bool, error) {
	d, next, ok, err := p.parseDict(pos, depth)
	if err != nil || !ok {
		return Obj{}, pos, false, err
	}
	afterWS := skipWS(p.src, next)
	if !bytes.HasPrefix(p.src[afterWS:], []byte("stream")) || isRegularChar(byteAt(p.src, afterWS+len("stream"))) {
		return Dictionary(d), next, true, nil
	}
	cur := afterWS + len("stream")
	n := eolLen(p.src, cur)
	if n == 0 {
		return Obj{}, pos, false, newErr(KindMalformedTrailer, "stream keyword not followed by EOL at offset %d", cur)
	}
	dataStart := cur + n

	length, err := p.streamLength(d)
	if err != nil {
		return Obj{}, pos, false, err
	}
	if length < 0 || dataStart+length > len(p.src) {
		return Obj{}, pos, false, newErr(KindMissingLength, "stream length %d out of bounds at offset %d", length, dataStart)
	}
	dataEnd := dataStart + length

	cur = skipWS(p.src, dataEnd)
	if !bytes.HasPrefix(p.src[cur:], []byte("endstream")) {
		return Obj{}, pos, false, newErr(KindMissingLength, "endstream not found after declared length at offset %d", dataEnd)
	}
	cur += len("endstream")

	filters := filterNames(d)
	s := &Stream{
		Dict:    d,
		Offset:  dataStart,
		Length:  length,
		Data:    p.src[dataStart:dataEnd],
		Filters: filters,
	}
	return StreamObj(s), cur, true, nil
}

// streamLength resolves the dictionary's /Length entry to a byte count.
// /Length may be a direct Integer or an indirect Reference; the latter
// requires the Parser's resolveLen callback into the owning Document.
func (p *Parser) streamLength(d map[string]Obj) (int, error) {
	lenObj, present := d["Length"]
	if !present {
		return 0, ErrMissingLength
	}
	switch lenObj.Kind {
	case KindInteger:
		return int(lenObj.Int), nil
	case KindReference:
		if p.resolveLen == nil {
			return 0, ErrMissingLength
		}
		n, ok, err := p.resolveLen(lenObj.Ref)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, ErrMissingLength
		}
		return int(n), nil
	default:
		return 0, ErrMissingLength
	}
}

// ParseIndirectObject recognizes "N G obj <object> endobj" starting at
// pos, returning the parsed object and the key declared in the header so
// callers (Document.resolve) can verify it against the xref entry's
// expected key (spec §4.3's resolution rule, XrefMismatch).
func (p *Parser) ParseIndirectObject(pos int) (Key, Obj, error) {
	cur := skipWS(p.src, pos)
	numStr, cur2, ok := scanDigits(p.src, cur)
	if !ok {
		return Key{}, Obj{}, newErr(KindMalformedXref, "expected object number at offset %d", cur)
	}
	cur3 := skipWS(p.src, cur2)
	genStr, cur4, ok := scanDigits(p.src, cur3)
	if !ok {
		return Key{}, Obj{}, newErr(KindMalformedXref, "expected generation number at offset %d", cur3)
	}
	cur5 := skipWS(p.src, cur4)
	if !bytes.HasPrefix(p.src[cur5:], []byte("obj")) {
		return Key{}, Obj{}, newErr(KindMalformedXref, "expected 'obj' keyword at offset %d", cur5)
	}
	cur6 := cur5 + len("obj")

	num, err := parseUintDecimal(numStr)
	if err != nil {
		return Key{}, Obj{}, newErr(KindMalformedXref, "invalid object number %q", numStr)
	}
	gen, err := parseUintDecimal(genStr)
	if err != nil {
		return Key{}, Obj{}, newErr(KindMalformedXref, "invalid generation number %q", genStr)
	}
	key := Key{Num: num, Gen: gen}

	obj, cur7, ok, perr := p.parseObject(cur6, 0)
	if perr != nil {
		return key, Obj{}, perr
	}
	if !ok {
		return key, Obj{}, newErr(KindUnexpectedEOF, "expected object body at offset %d", cur6)
	}
	cur8 := skipWS(p.src, cur7)
	if !bytes.HasPrefix(p.src[cur8:], []byte("endobj")) {
		return key, obj, nil // tolerate a missing endobj; the body already parsed cleanly
	}
	return key, obj, nil
}

func byteAt(src []byte, pos int) byte {
	if pos < 0 || pos >= len(src) {
		return 0
	}
	return src[pos]
}

func parseUintDecimal(s string) (uint64, error) {
	var n uint64
	for _, c := range []byte(s) {
		n = n*10 + uint64(c-'0')
	}
	return n, nil
}
