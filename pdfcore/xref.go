package pdfcore

import "bytes"

// XrefMap is the document-wide cross-reference table: one entry per
// object number seen across every xref section visited
// (spec §3). Incremental updates mean an object number can appear in more
// than one section; the first one encountered while walking backward from
// the final trailer's startxref wins, so callers must populate it via
// addIfAbsent rather than plain assignment.
type XrefMap map[uint64]XrefEntry

func (m XrefMap) addIfAbsent(num uint64, e XrefEntry) {
	if _, present := m[num]; !present {
		m[num] = e
	}
}

// parseXrefTable recognizes the classical ASCII "xref" table: the keyword,
// one or more subsections (a "first count" header line followed by "count"
// 20-byte entries), and the following "trailer" dictionary. It returns the
// trailer dictionary and the byte offset just past it. The starting offset
// is not re-validated; the caller is expected to have located it via
// startxref or a Prev pointer.
func (p *Parser) parseXrefTable(pos int, into XrefMap) (map[string]Obj, int, bool, error) {
	cur := skipWS(p.src, pos)
	if !bytes.HasPrefix(p.src[cur:], []byte("xref")) {
		return nil, pos, false, nil
	}
	cur += len("xref")

	for {
		cur = skipWS(p.src, cur)
		if bytes.HasPrefix(p.src[cur:], []byte("trailer")) {
			break
		}
		firstStr, cur2, ok := scanDigits(p.src, cur)
		if !ok {
			return nil, pos, false, newErr(KindMalformedXref, "expected subsection header at offset %d", cur)
		}
		cur3 := skipWS(p.src, cur2)
		countStr, cur4, ok := scanDigits(p.src, cur3)
		if !ok {
			return nil, pos, false, newErr(KindMalformedXref, "expected subsection count at offset %d", cur3)
		}
		first, _ := parseUintDecimal(firstStr)
		count, _ := parseUintDecimal(countStr)
		cur = skipToNextLine(p.src, cur4)

		for i := uint64(0); i < count; i++ {
			entry, next, err := parseXrefEntryLine(p.src, cur)
			if err != nil {
				return nil, pos, false, err
			}
			into.addIfAbsent(first+i, entry)
			cur = next
		}
	}

	cur += len("trailer")
	trailer, next, ok, err := p.parseDict(skipWS(p.src, cur), 0)
	if err != nil {
		return nil, pos, false, err
	}
	if !ok {
		return nil, pos, false, newErr(KindMalformedTrailer, "expected trailer dictionary at offset %d", cur)
	}
	return trailer, next, true, nil
}

// parseXrefEntryLine recognizes one fixed-width xref entry: a 10-digit
// offset, a 5-digit generation, a type flag ('n' in-use or 'f' free), and
// a 2-byte line terminator, 20 bytes total (ISO 32000-1 §7.5.4). This
// parser accepts any of the three standard terminator forms (SP CR, SP
// LF, or CR LF) rather than enforcing exactly one, since real-world files
// are inconsistent here and the spec's concern is the 18 meaningful bytes.
func parseXrefEntryLine(src []byte, pos int) (XrefEntry, int, error) {
	cur := skipWS(src, pos)
	offStr, cur2, ok := scanDigits(src, cur)
	if !ok || len(offStr) == 0 {
		return XrefEntry{}, pos, newErr(KindMalformedXref, "expected xref entry offset at offset %d", cur)
	}
	cur3 := skipWS(src, cur2)
	genStr, cur4, ok := scanDigits(src, cur3)
	if !ok {
		return XrefEntry{}, pos, newErr(KindMalformedXref, "expected xref entry generation at offset %d", cur3)
	}
	cur5 := skipWS(src, cur4)
	if cur5 >= len(src) {
		return XrefEntry{}, pos, newErr(KindMalformedXref, "truncated xref entry at offset %d", cur5)
	}
	flag := src[cur5]
	if flag != 'n' && flag != 'f' {
		return XrefEntry{}, pos, newErr(KindMalformedXref, "invalid xref entry type %q at offset %d", flag, cur5)
	}
	offset, _ := parseUintDecimal(offStr)
	gen, _ := parseUintDecimal(genStr)
	kind := XrefInUse
	if flag == 'f' {
		kind = XrefFree
	}
	next := skipToNextLine(src, cur5+1)
	return XrefEntry{Offset: offset, Generation: gen, Kind: kind}, next, nil
}

func skipToNextLine(src []byte, pos int) int {
	for pos < len(src) && src[pos] != '\n' && src[pos] != '\r' {
		pos++
	}
	if pos < len(src) && src[pos] == '\r' {
		pos++
		if pos < len(src) && src[pos] == '\n' {
			pos++
		}
		return pos
	}
	if pos < len(src) && src[pos] == '\n' {
		pos++
	}
	return pos
}
