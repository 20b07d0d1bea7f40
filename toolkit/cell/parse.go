package cell

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"

	"golang.org/x/net/html/charset"
)

// Parse decodes a provider response body. The whole document must be well
// formed before any element is considered. An err element anywhere takes
// precedence over a cell element.
func Parse(body []byte) (Record, error) {
	var (
		errElem  *xml.StartElement
		cellElem *xml.StartElement
		depth    int
		roots    int
	)
	decoder := xml.NewDecoder(bytes.NewReader(body))
	decoder.CharsetReader = charset.NewReaderLabel
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return Record{}, &LookupError{Kind: KindMalformed, Message: err.Error(), Err: err}
		}
		switch t := token.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
				if roots > 1 {
					line, _ := decoder.InputPos()
					return Record{}, malformed("junk after document element on line %d", line)
				}
			}
			depth++
			switch {
			case t.Name.Local == "err" && errElem == nil:
				elem := t.Copy()
				errElem = &elem
			case t.Name.Local == "cell" && cellElem == nil:
				elem := t.Copy()
				cellElem = &elem
			}
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				line, _ := decoder.InputPos()
				return Record{}, malformed("text outside of document element on line %d", line)
			}
		}
	}
	if roots == 0 {
		return Record{}, malformed("no element found")
	}
	if errElem != nil {
		return Record{}, &LookupError{Kind: KindProvider, Message: attr(*errElem, "info").String()}
	}
	if cellElem == nil {
		return Record{}, malformed("missing cell element")
	}
	return Record{
		Latitude:       attr(*cellElem, "lat"),
		Longitude:      attr(*cellElem, "lon"),
		MCC:            attr(*cellElem, "mcc"),
		MNC:            attr(*cellElem, "mnc"),
		LAC:            attr(*cellElem, "lac"),
		CellID:         attr(*cellElem, "cellid"),
		Range:          attr(*cellElem, "range"),
		Samples:        attr(*cellElem, "samples"),
		SignalStrength: attr(*cellElem, "averageSignalStrength"),
		Radio:          attr(*cellElem, "radio"),
	}, nil
}

func attr(elem xml.StartElement, name string) Attr {
	for _, a := range elem.Attr {
		if a.Name.Local == name {
			return Present(a.Value)
		}
	}
	return Attr{}
}
