package pdfcore

// parseXrefStreamAt parses the cross-reference stream object located at
// pos (an indirect object whose dictionary carries /Type /XRef), per ISO
// 32000-1 §7.5.8. Unlike the ASCII table, entries here are fixed-width
// binary records whose field widths are given by /W, and the full 0..Size
// object-number range can be restricted to a sparse set of subsections via
// /Index.
func (p *Parser) parseXrefStreamAt(pos int, into XrefMap) (map[string]Obj, error) {
	_, obj, err := p.ParseIndirectObject(pos)
	if err != nil {
		return nil, err
	}
	if obj.Kind != KindStream {
		return nil, newErr(KindMalformedXref, "xref stream offset %d does not point at a stream object", pos)
	}
	s := obj.Stream
	if err := ApplyFilters(s); err != nil {
		return nil, err
	}

	widths, err := xrefStreamWidths(s.Dict)
	if err != nil {
		return nil, err
	}
	sections, err := xrefStreamIndex(s.Dict)
	if err != nil {
		return nil, err
	}

	recordLen := widths[0] + widths[1] + widths[2]
	data := s.Data
	offset := 0
	for _, sec := range sections {
		for i := 0; i < sec.count; i++ {
			if offset+recordLen > len(data) {
				return nil, newErr(KindMalformedXref, "xref stream data truncated at object %d", sec.first+i)
			}
			rec := data[offset : offset+recordLen]
			offset += recordLen

			typ := int64(1)
			o := 0
			if widths[0] > 0 {
				typ = readBE(rec[o : o+widths[0]])
				o += widths[0]
			}
			field2 := readBE(rec[o : o+widths[1]])
			o += widths[1]
			field3 := readBE(rec[o : o+widths[2]])

			num := uint64(sec.first + i)
			switch typ {
			case 0:
				into.addIfAbsent(num, XrefEntry{Offset: uint64(field2), Generation: uint64(field3), Kind: XrefFree})
			case 1:
				into.addIfAbsent(num, XrefEntry{Offset: uint64(field2), Generation: uint64(field3), Kind: XrefInUse})
			case 2:
				into.addIfAbsent(num, XrefEntry{Offset: uint64(field2), Generation: uint64(field3), Kind: XrefCompressed})
			default:
				return nil, newErr(KindMalformedXref, "unknown xref stream record type %d", typ)
			}
		}
	}
	return s.Dict, nil
}

func xrefStreamWidths(d map[string]Obj) ([3]int, error) {
	var widths [3]int
	w, ok := d["W"]
	if !ok || w.Kind != KindArray || len(w.Arr) != 3 {
		return widths, newErr(KindMalformedXref, "xref stream missing valid /W")
	}
	for i, item := range w.Arr {
		if item.Kind != KindInteger || item.Int < 0 {
			return widths, newErr(KindMalformedXref, "xref stream /W entry %d is not a non-negative integer", i)
		}
		widths[i] = int(item.Int)
	}
	return widths, nil
}

type xrefSection struct{ first, count int }

func xrefStreamIndex(d map[string]Obj) ([]xrefSection, error) {
	idx, ok := d["Index"]
	if !ok {
		size, ok := d["Size"]
		if !ok || size.Kind != KindInteger {
			return nil, newErr(KindMalformedXref, "xref stream missing /Index and /Size")
		}
		return []xrefSection{{first: 0, count: int(size.Int)}}, nil
	}
	if idx.Kind != KindArray || len(idx.Arr)%2 != 0 {
		return nil, newErr(KindMalformedXref, "xref stream /Index must be an even-length array")
	}
	sections := make([]xrefSection, 0, len(idx.Arr)/2)
	for i := 0; i < len(idx.Arr); i += 2 {
		first, second := idx.Arr[i], idx.Arr[i+1]
		if first.Kind != KindInteger || second.Kind != KindInteger {
			return nil, newErr(KindMalformedXref, "xref stream /Index entries must be integers")
		}
		sections = append(sections, xrefSection{first: int(first.Int), count: int(second.Int)})
	}
	return sections, nil
}

func readBE(b []byte) int64 {
	var v int64
	for _, c := range b {
		v = v<<8 | int64(c)
	}
	return v
}
