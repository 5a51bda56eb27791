package pdfcore

// Get resolves an indirect reference to its target object. If o is not a
// Reference, it is returned unchanged — Get is idempotent over direct
// objects, matching how PDF dictionary/array values are used throughout
// the format without the caller needing to know in advance whether a
// given slot was direct or indirect.
func (doc *Document) Get(o Obj) (Obj, error) {
	if o.Kind != KindReference {
		return o, nil
	}
	return doc.resolve(o.Ref)
}

// Deref is Get by Key directly, for callers already holding a Key (e.g.
// walking the xref map itself, or the Root/trailer entries).
func (doc *Document) Deref(k Key) (Obj, error) {
	return doc.resolve(k)
}

// Trailer returns the document's merged trailer dictionary.
func (doc *Document) Trailer() map[string]Obj { return doc.trailer }

// Root resolves the trailer's /Root entry to the document catalog
// dictionary.
func (doc *Document) Root() (Obj, error) {
	root, ok := doc.trailer["Root"]
	if !ok {
		return Null(), wrapErr(KindMalformedTrailer, nil, "trailer missing /Root")
	}
	return doc.Get(root)
}

// AsDictionary resolves o (following one Reference if present) and
// returns its Dict, or ok=false if the resolved object is not a
// Dictionary or Stream (a Stream's metadata dictionary counts, since PDF
// routinely uses streams where a plain dictionary would otherwise appear,
// e.g. /Contents).
func (doc *Document) AsDictionary(o Obj) (map[string]Obj, bool, error) {
	r, err := doc.Get(o)
	if err != nil {
		return nil, false, err
	}
	switch r.Kind {
	case KindDictionary:
		return r.Dict, true, nil
	case KindStream:
		return r.Stream.Dict, true, nil
	default:
		return nil, false, nil
	}
}

// AsArray resolves o and returns its Arr, or ok=false if not an Array.
func (doc *Document) AsArray(o Obj) ([]Obj, bool, error) {
	r, err := doc.Get(o)
	if err != nil {
		return nil, false, err
	}
	if r.Kind != KindArray {
		return nil, false, nil
	}
	return r.Arr, true, nil
}

// AsInteger resolves o and returns its Int, or ok=false if not an Integer.
func (doc *Document) AsInteger(o Obj) (int64, bool, error) {
	r, err := doc.Get(o)
	if err != nil {
		return 0, false, err
	}
	if r.Kind != KindInteger {
		return 0, false, nil
	}
	return r.Int, true, nil
}

// AsReal resolves o and returns its numeric value as a float64, accepting
// either Real or Integer (PDF uses the two interchangeably in practice:
// an integer-valued coordinate is a perfectly legal Real-typed field).
func (doc *Document) AsReal(o Obj) (float64, bool, error) {
	r, err := doc.Get(o)
	if err != nil {
		return 0, false, err
	}
	switch r.Kind {
	case KindReal:
		return r.Real, true, nil
	case KindInteger:
		return float64(r.Int), true, nil
	default:
		return 0, false, nil
	}
}

// AsBoolean resolves o and returns its Bool, or ok=false if not a Boolean.
func (doc *Document) AsBoolean(o Obj) (bool, bool, error) {
	r, err := doc.Get(o)
	if err != nil {
		return false, false, err
	}
	if r.Kind != KindBoolean {
		return false, false, nil
	}
	return r.Bool, true, nil
}

// AsName resolves o and returns its Name, or ok=false if not a Name.
func (doc *Document) AsName(o Obj) (string, bool, error) {
	r, err := doc.Get(o)
	if err != nil {
		return "", false, err
	}
	if r.Kind != KindName {
		return "", false, nil
	}
	return r.Name, true, nil
}

// AsString resolves o and returns its decoded bytes, or ok=false if not a
// ByteString (the common representation for both literal and hex string
// productions once parsed).
func (doc *Document) AsString(o Obj) ([]byte, bool, error) {
	r, err := doc.Get(o)
	if err != nil {
		return nil, false, err
	}
	if r.Kind != KindByteString {
		return nil, false, nil
	}
	return r.Str, true, nil
}

// AsStream resolves o and, if it is a Stream, applies its filter pipeline
// (memoized) and returns the decoded payload.
func (doc *Document) AsStream(o Obj) ([]byte, bool, error) {
	r, err := doc.Get(o)
	if err != nil {
		return nil, false, err
	}
	if r.Kind != KindStream {
		return nil, false, nil
	}
	if err := ApplyFilters(r.Stream); err != nil {
		return nil, false, err
	}
	return r.Stream.Data, true, nil
}

// DictGet is a convenience accessor supplemented from
// original_source/pdf/src/resolver.rs, whose Resolver type exposes the
// same "look up a key, dereferencing through it" helper rather than
// forcing every caller to AsDictionary then index then Get: it resolves o
// to a dictionary (or stream), looks up key, and resolves that value.
func (doc *Document) DictGet(o Obj, key string) (Obj, bool, error) {
	d, ok, err := doc.AsDictionary(o)
	if err != nil || !ok {
		return Null(), false, err
	}
	v, present := d[key]
	if !present {
		return Null(), false, nil
	}
	r, err := doc.Get(v)
	if err != nil {
		return Null(), false, err
	}
	return r, true, nil
}

// DictGetInt, DictGetName, and DictGetDict compose DictGet with the
// matching As accessor, the other half of the resolver.rs-style
// convenience surface.
func (doc *Document) DictGetInt(o Obj, key string) (int64, bool, error) {
	v, ok, err := doc.DictGet(o, key)
	if err != nil || !ok {
		return 0, false, err
	}
	if v.Kind != KindInteger {
		return 0, false, nil
	}
	return v.Int, true, nil
}

func (doc *Document) DictGetName(o Obj, key string) (string, bool, error) {
	v, ok, err := doc.DictGet(o, key)
	if err != nil || !ok {
		return "", false, err
	}
	if v.Kind != KindName {
		return "", false, nil
	}
	return v.Name, true, nil
}

func (doc *Document) DictGetDict(o Obj, key string) (map[string]Obj, bool, error) {
	v, ok, err := doc.DictGet(o, key)
	if err != nil || !ok {
		return nil, false, err
	}
	if v.Kind == KindStream {
		return v.Stream.Dict, true, nil
	}
	if v.Kind != KindDictionary {
		return nil, false, nil
	}
	return v.Dict, true, nil
}
