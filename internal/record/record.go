// Package record reads sequences of typed, validated fields from binary
// streams. A Desc describes the wire layout once; Read produces a fresh
// Record per call.
package record

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Kind identifies the wire encoding of a field. All multi-byte kinds are
// little-endian.
type Kind int

const (
	U8 Kind = iota
	U16
	U32
	U64
	I8
	I16
	I32
	I64
	F32
	Raw // fixed-length byte block, length taken from Field.Len
	Sub // nested record, layout taken from Field.Sub
)

func (k Kind) size() int {
	switch k {
	case U8, I8:
		return 1
	case U16, I16:
		return 2
	case U32, I32, F32:
		return 4
	case U64, I64:
		return 8
	}
	return 0
}

// Field is a single entry of a record layout.
type Field struct {
	Name string
	Kind Kind
	Len  int   // byte length for Raw fields
	Sub  *Desc // layout for Sub fields
	Rule *Rule
}

// Desc is an immutable ordered field layout. Descs are defined once and
// shared between parses.
type Desc struct {
	Name   string
	Fields []Field
}

// Size returns the encoded byte size of the layout, including nested records.
func (d *Desc) Size() int {
	total := 0
	for i := range d.Fields {
		f := &d.Fields[i]
		switch f.Kind {
		case Raw:
			total += f.Len
		case Sub:
			total += f.Sub.Size()
		default:
			total += f.Kind.size()
		}
	}
	return total
}

// Record holds the decoded values of one parse, keyed by field name in
// layout order. Scalars are normalized to uint64, int64 or float64.
type Record struct {
	name   string
	order  []string
	values map[string]interface{}
}

func newRecord(name string) *Record {
	return &Record{name: name, values: make(map[string]interface{})}
}

func (r *Record) set(name string, v interface{}) {
	r.order = append(r.order, name)
	r.values[name] = v
}

// FieldNames returns the decoded field names in layout order.
func (r *Record) FieldNames() []string {
	return r.order
}

func (r *Record) value(name string) interface{} {
	v, ok := r.values[name]
	if !ok {
		panic(fmt.Sprintf("record %s has no field %s", r.name, name))
	}
	return v
}

// Uint returns an unsigned integer field. The getters panic when the field
// does not exist or has another kind; layouts are fixed, so a miss is a
// programming error, not a file error.
func (r *Record) Uint(name string) uint64 {
	v, ok := r.value(name).(uint64)
	if !ok {
		panic(fmt.Sprintf("field %s.%s is not an unsigned integer", r.name, name))
	}
	return v
}

func (r *Record) Int(name string) int64 {
	v, ok := r.value(name).(int64)
	if !ok {
		panic(fmt.Sprintf("field %s.%s is not a signed integer", r.name, name))
	}
	return v
}

func (r *Record) Float(name string) float64 {
	v, ok := r.value(name).(float64)
	if !ok {
		panic(fmt.Sprintf("field %s.%s is not a float", r.name, name))
	}
	return v
}

func (r *Record) Bytes(name string) []byte {
	v, ok := r.value(name).([]byte)
	if !ok {
		panic(fmt.Sprintf("field %s.%s is not a byte block", r.name, name))
	}
	return v
}

func (r *Record) Nested(name string) *Record {
	v, ok := r.value(name).(*Record)
	if !ok {
		panic(fmt.Sprintf("field %s.%s is not a nested record", r.name, name))
	}
	return v
}

// Read decodes one record according to d. Validation failures and short
// reads abort the whole parse with a *FormatError; no partial record is
// returned. In strict mode Expect rules are enforced like Require rules,
// otherwise their violations are ignored.
func Read(r io.Reader, d *Desc, strict bool) (*Record, error) {
	rec := newRecord(d.Name)
	for i := range d.Fields {
		f := &d.Fields[i]

		if f.Kind == Sub {
			sub, err := Read(r, f.Sub, strict)
			if err != nil {
				return nil, err
			}
			rec.set(f.Name, sub)
			continue
		}

		n := f.Kind.size()
		if f.Kind == Raw {
			n = f.Len
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, Errorf("short read in field %s.%s: wanted %d bytes: %s", d.Name, f.Name, n, err)
		}

		v := decodeScalar(f.Kind, buf)
		if f.Rule != nil {
			if err := f.Rule.check(d.Name, f.Name, v, strict); err != nil {
				return nil, err
			}
		}
		rec.set(f.Name, v)
	}
	return rec, nil
}

func decodeScalar(k Kind, buf []byte) interface{} {
	switch k {
	case U8:
		return uint64(buf[0])
	case U16:
		return uint64(binary.LittleEndian.Uint16(buf))
	case U32:
		return uint64(binary.LittleEndian.Uint32(buf))
	case U64:
		return binary.LittleEndian.Uint64(buf)
	case I8:
		return int64(int8(buf[0]))
	case I16:
		return int64(int16(binary.LittleEndian.Uint16(buf)))
	case I32:
		return int64(int32(binary.LittleEndian.Uint32(buf)))
	case I64:
		return int64(binary.LittleEndian.Uint64(buf))
	case F32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(buf)))
	case Raw:
		return buf
	}
	panic(fmt.Sprintf("unhandled field kind %d", k))
}

// Zeros is a convenience literal for Expect-all-zero padding rules.
func Zeros(n int) []byte {
	return make([]byte, n)
}
