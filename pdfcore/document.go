package pdfcore

import "bytes"

// startxrefScanWindow bounds how far from the end of the file Load looks
// for the startxref keyword: only the last 100 bytes are searched, so a
// short run of trailing whitespace after the final %%EOF is tolerated.
// Supplemented from original_source/pdf/src's trailer-scan routine, which
// looks within a small fixed window of EOF rather than the whole file.
const startxrefScanWindow = 100

// maxXrefChain bounds how many Prev-linked xref sections Load will walk,
// guarding against a cyclic Prev chain in a corrupt or adversarial file.
const maxXrefChain = 4096

// Document is a parsed, lazily-resolving PDF file: the cross-reference map
// and trailer are read eagerly at Load time, but indirect object bodies
// are parsed only on first Get/Deref and then memoized for the document's
// lifetime (spec §3, §9 "ownership of parsed bytes").
type Document struct {
	src     []byte
	Version Version
	xref    XrefMap
	trailer map[string]Obj

	intern   *interner
	parser   *Parser
	cache    map[Key]Obj
	resolved map[Key]bool // keys currently being resolved, for cycle detection
	Warnings []Warning
}

// Load parses a PDF file's header, cross-reference structure, and trailer
// chain from data, without touching any indirect object body. data is kept
// for the Document's lifetime; callers must not mutate it afterward.
func Load(data []byte) (*Document, error) {
	version, err := parseHeaderVersion(data)
	if err != nil {
		return nil, err
	}

	startOffset, err := findStartXref(data)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		src:      data,
		Version:  version,
		xref:     make(XrefMap),
		cache:    make(map[Key]Obj),
		resolved: make(map[Key]bool),
	}
	doc.intern = newInterner()
	doc.parser = NewParser(data, doc.intern, doc.resolveLength)

	trailer, err := doc.loadXrefChain(startOffset)
	if err != nil {
		return nil, err
	}
	doc.trailer = trailer
	return doc, nil
}

// parseHeaderVersion locates the "%PDF-M.N" comment. Real files
// occasionally carry a few bytes of junk before it (truncated downloads,
// prepended bytes from a lossy transfer), so the search covers the first
// 1024 bytes rather than requiring byte 0, but the version digits
// themselves must immediately follow "%PDF-".
func parseHeaderVersion(data []byte) (Version, error) {
	window := data
	if len(window) > 1024 {
		window = window[:1024]
	}
	idx := bytes.Index(window, []byte("%PDF-"))
	if idx < 0 {
		return Version{}, ErrNotAPdf
	}
	pos := idx + len("%PDF-")
	majStr, pos2, ok := scanDigits(data, pos)
	if !ok || pos2 >= len(data) || data[pos2] != '.' {
		return Version{}, ErrNotAPdf
	}
	minStr, _, ok := scanDigits(data, pos2+1)
	if !ok {
		return Version{}, ErrNotAPdf
	}
	maj, _ := parseUintDecimal(majStr)
	min, _ := parseUintDecimal(minStr)
	return Version{Major: int(maj), Minor: int(min)}, nil
}

// findStartXref locates the last "startxref" keyword near the end of the
// file and returns the byte offset it names.
func findStartXref(data []byte) (int, error) {
	window := data
	base := 0
	if len(window) > startxrefScanWindow {
		base = len(window) - startxrefScanWindow
		window = window[base:]
	}
	idx := bytes.LastIndex(window, []byte("startxref"))
	if idx < 0 {
		return 0, newErr(KindMalformedTrailer, "startxref keyword not found")
	}
	pos := base + idx + len("startxref")
	pos = skipWS(data, pos)
	numStr, _, ok := scanDigits(data, pos)
	if !ok {
		return 0, newErr(KindMalformedTrailer, "startxref not followed by an offset")
	}
	offset, err := parseUintDecimal(numStr)
	if err != nil || int(offset) >= len(data) {
		return 0, newErr(KindMalformedTrailer, "startxref offset %q out of range", numStr)
	}
	return int(offset), nil
}

// loadXrefChain walks the Prev-linked sequence of xref sections starting
// at startOffset, merging entries with addIfAbsent so the newest section
// (visited first) wins on any object-number collision (spec §3: xref maps
// accumulate across incremental updates, earliest-seen entry authoritative
// since it belongs to the most recent revision).
func (doc *Document) loadXrefChain(startOffset int) (map[string]Obj, error) {
	var finalTrailer map[string]Obj
	visited := make(map[int]bool)
	offset := startOffset

	for i := 0; i < maxXrefChain; i++ {
		if visited[offset] {
			return nil, newErr(KindMalformedXref, "cyclic xref Prev chain at offset %d", offset)
		}
		visited[offset] = true

		trailer, next, ok, err := doc.parser.parseXrefTable(offset, doc.xref)
		if err != nil {
			return nil, err
		}
		if !ok {
			trailer, err = doc.parser.parseXrefStreamAt(offset, doc.xref)
			if err != nil {
				return nil, err
			}
		} else {
			_ = next
		}

		if finalTrailer == nil {
			finalTrailer = trailer
		}

		if hybrid, ok := trailer["XRefStm"]; ok && hybrid.Kind == KindInteger {
			if _, err := doc.parser.parseXrefStreamAt(int(hybrid.Int), doc.xref); err != nil {
				return nil, err
			}
		}

		prev, ok := trailer["Prev"]
		if !ok || prev.Kind != KindInteger {
			return finalTrailer, nil
		}
		offset = int(prev.Int)
	}
	return nil, newErr(KindMalformedXref, "xref Prev chain exceeded %d sections", maxXrefChain)
}

// resolve implements spec §4.3's object-resolution rule: a cache hit
// returns immediately; an InUse entry is parsed at its offset and its
// header key checked against k (mismatch is XrefMismatch, not an error the
// caller must special-case — it is simply surfaced); a Free or absent
// entry resolves to Null; a Compressed entry (object-stream member)
// resolves to Null with a recorded Warning, since decoding object streams
// is out of scope (spec's UnsupportedObjectStream).
func (doc *Document) resolve(k Key) (Obj, error) {
	if o, ok := doc.cache[k]; ok {
		return o, nil
	}
	if doc.resolved[k] {
		return Obj{}, wrapErr(KindCycleInMetadata, nil, "cyclic reference while resolving object %d %d", k.Num, k.Gen)
	}

	entry, ok := doc.xref[k.Num]
	if !ok || entry.Kind == XrefFree {
		doc.cache[k] = Null()
		return Null(), nil
	}
	if entry.Kind == XrefCompressed {
		doc.Warnings = append(doc.Warnings, Warning{Key: k, Message: "object stream member not decoded"})
		doc.cache[k] = Null()
		return Null(), nil
	}

	doc.resolved[k] = true
	defer delete(doc.resolved, k)

	foundKey, obj, err := doc.parser.ParseIndirectObject(int(entry.Offset))
	if err != nil {
		return Obj{}, err
	}
	if foundKey != k {
		return Obj{}, wrapErr(KindXrefMismatch, nil, "xref entry for %d %d points at object %d %d", k.Num, k.Gen, foundKey.Num, foundKey.Gen)
	}
	doc.cache[k] = obj
	return obj, nil
}

// resolveLength backs Parser.resolveLen: resolving a stream's indirect
// /Length means dereferencing another object through this same Document,
// the mutual recursion between syntactic parsing and object resolution
// spec §9 calls out.
func (doc *Document) resolveLength(k Key) (int64, bool, error) {
	o, err := doc.resolve(k)
	if err != nil {
		return 0, false, err
	}
	if o.Kind != KindInteger {
		return 0, false, nil
	}
	return o.Int, true, nil
}
