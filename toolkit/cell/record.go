package cell

import (
	"net/url"
	"strconv"
)

type Query struct {
	MCC    uint64
	MNC    uint64
	CellID uint64
	LAC    uint64
}

// Values encodes the query as the provider's GET parameters.
func (q Query) Values(key string) url.Values {
	v := url.Values{}
	v.Set("key", key)
	v.Set("mcc", strconv.FormatUint(q.MCC, 10))
	v.Set("mnc", strconv.FormatUint(q.MNC, 10))
	v.Set("cellid", strconv.FormatUint(q.CellID, 10))
	v.Set("lac", strconv.FormatUint(q.LAC, 10))
	return v
}

// Attr is an attribute value as received from the provider. The zero value is
// an absent attribute.
type Attr struct {
	value string
	ok    bool
}

func Present(value string) Attr {
	return Attr{value: value, ok: true}
}

func (a Attr) Get() (string, bool) {
	return a.value, a.ok
}

func (a Attr) String() string {
	if !a.ok {
		return "unknown"
	}
	return a.value
}

func (a Attr) int() (int, bool) {
	if !a.ok {
		return 0, false
	}
	n, err := strconv.Atoi(a.value)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Record is one tower as reported by the provider. Every field is kept
// verbatim; numeric interpretation happens in Estimate.
type Record struct {
	Latitude       Attr
	Longitude      Attr
	MCC            Attr
	MNC            Attr
	LAC            Attr
	CellID         Attr
	Range          Attr
	Samples        Attr
	SignalStrength Attr
	Radio          Attr
}

type Field struct {
	Key   string
	Value Attr
}

func (r Record) Fields() []Field {
	return []Field{
		{"latitude", r.Latitude},
		{"longitude", r.Longitude},
		{"mcc", r.MCC},
		{"mnc", r.MNC},
		{"lac", r.LAC},
		{"cellid", r.CellID},
		{"range", r.Range},
		{"samples", r.Samples},
		{"signal_strength", r.SignalStrength},
		{"radio", r.Radio},
	}
}
