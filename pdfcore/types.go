// Package pdfcore implements the read-only core of a PDF document loader:
// the syntactic parser that recognizes PDF object grammar and
// cross-reference structure, and the lazy object-resolution layer built on
// top of it. Content-stream interpretation, rendering, encryption, and PDF
// production are out of scope; see SPEC_FULL.md.
package pdfcore

// Key identifies an indirect object: (object number, generation). Object
// numbers start at 1; generation 0 is the common case.
type Key struct {
	Num uint64
	Gen uint64
}

// ObjKind tags the variant held by an Obj.
type ObjKind int

const (
	KindNull ObjKind = iota
	KindBoolean
	KindInteger
	KindReal
	KindByteString
	KindName
	KindArray
	KindDictionary
	KindReference
	KindStream
)

func (k ObjKind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBoolean:
		return "Boolean"
	case KindInteger:
		return "Integer"
	case KindReal:
		return "Real"
	case KindByteString:
		return "ByteString"
	case KindName:
		return "Name"
	case KindArray:
		return "Array"
	case KindDictionary:
		return "Dictionary"
	case KindReference:
		return "Reference"
	case KindStream:
		return "Stream"
	default:
		return "Unknown"
	}
}

// Obj is a parsed PDF object: a tagged variant over the productions in
// spec §3. Only the field matching Kind is meaningful.
//
// ByteString holds raw bytes rather than a string because literal and hex
// strings may carry non-UTF-8 content; Name, by contrast, already owns a
// decoded Go string because name-escape (#NN) resolution synthesizes new
// content that does not alias the source buffer.
type Obj struct {
	Kind   ObjKind
	Bool   bool
	Int    int64
	Real   float64
	Str    []byte
	Name   string
	Arr    []Obj
	Dict   map[string]Obj
	Ref    Key
	Stream *Stream
}

func Null() Obj                 { return Obj{Kind: KindNull} }
func Boolean(b bool) Obj         { return Obj{Kind: KindBoolean, Bool: b} }
func Integer(i int64) Obj        { return Obj{Kind: KindInteger, Int: i} }
func Real(f float64) Obj         { return Obj{Kind: KindReal, Real: f} }
func ByteString(b []byte) Obj     { return Obj{Kind: KindByteString, Str: b} }
func Name(s string) Obj          { return Obj{Kind: KindName, Name: s} }
func Array(a []Obj) Obj          { return Obj{Kind: KindArray, Arr: a} }
func Dictionary(d map[string]Obj) Obj { return Obj{Kind: KindDictionary, Dict: d} }
func Reference(k Key) Obj        { return Obj{Kind: KindReference, Ref: k} }
func StreamObj(s *Stream) Obj    { return Obj{Kind: KindStream, Stream: s} }

// IsNull reports whether o is the Null object. Used pervasively because
// missing/free xref entries resolve to Null rather than an error.
func (o Obj) IsNull() bool { return o.Kind == KindNull }

// Stream holds a stream object's metadata dictionary and byte payload.
// Before filter application, Data is a read-only span into the document's
// source buffer (Offset, Length); after application, Data owns decoded
// bytes and Applied is true. A Stream in Filter-applied state caches its
// decoded bytes for the document's lifetime (spec §3).
type Stream struct {
	Dict    map[string]Obj
	Offset  int // byte offset of the raw (pre-filter) payload in the source buffer
	Length  int // length of the raw payload
	Data    []byte
	Filters []string // resolved Filter pipeline, left-to-right
	Applied bool
}

// XrefKind distinguishes the three forms of cross-reference entry.
type XrefKind int

const (
	XrefFree XrefKind = iota
	XrefInUse
	XrefCompressed
)

// XrefEntry is one entry in the document's cross-reference map. For
// InUse/Free, Offset is a byte offset into the source buffer; for
// Compressed it is the object number of the containing object stream
// (object streams themselves are out of scope for decoding, but the entry
// is preserved per spec §3).
type XrefEntry struct {
	Offset     uint64
	Generation uint64
	Kind       XrefKind
}

// Version is the PDF version declared in the file header's %PDF-1.X
// comment.
type Version struct {
	Major int
	Minor int
}

// knownMaxMinor is the highest 1.X minor version this parser recognizes as
// "known" rather than newer-than-supported. Whether to accept %PDF-2.x is
// an open question per spec §9; this implementation treats any version
// other than 1.0-1.7 as Newer rather than rejecting it outright.
const knownMaxMinor = 7

// Newer reports whether this version is outside the 1.0-1.7 range this
// parser was written against.
func (v Version) Newer() bool { return v.Major != 1 || v.Minor > knownMaxMinor }
