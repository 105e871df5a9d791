package record

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"
)

var testDesc = &Desc{
	Name: "outer",
	Fields: []Field{
		{Name: "magic", Kind: U16, Rule: Required(Eq, 0x1234)},
		{Name: "pad", Kind: Raw, Len: 3, Rule: Expected(Eq, Zeros(3))},
		{Name: "count", Kind: U32},
		{Name: "inner", Kind: Sub, Sub: &Desc{
			Name: "inner",
			Fields: []Field{
				{Name: "gain", Kind: F32, Rule: Required(Gt, 0)},
				{Name: "offset", Kind: I16},
			},
		}},
		{Name: "mode", Kind: U8, Rule: ExpectedIn(0, 1, 2)},
	},
}

func testPayload(magic uint16, pad byte, gain float32, mode uint8) []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, magic)
	buf.Write([]byte{pad, 0, 0})
	binary.Write(buf, binary.LittleEndian, uint32(600))
	binary.Write(buf, binary.LittleEndian, gain)
	binary.Write(buf, binary.LittleEndian, int16(-42))
	buf.WriteByte(mode)
	return buf.Bytes()
}

func TestReadNested(t *testing.T) {
	rec, err := Read(bytes.NewReader(testPayload(0x1234, 0, 2.5, 1)), testDesc, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rec.Uint("magic"); got != 0x1234 {
		t.Errorf("magic: got %#x", got)
	}
	if got := rec.Uint("count"); got != 600 {
		t.Errorf("count: got %d", got)
	}
	inner := rec.Nested("inner")
	if got := inner.Float("gain"); got != 2.5 {
		t.Errorf("gain: got %v", got)
	}
	if got := inner.Int("offset"); got != -42 {
		t.Errorf("offset: got %v", got)
	}
	wantOrder := []string{"magic", "pad", "count", "inner", "mode"}
	for i, name := range rec.FieldNames() {
		if name != wantOrder[i] {
			t.Errorf("field order: got %v want %v", rec.FieldNames(), wantOrder)
			break
		}
	}
}

func TestReadShort(t *testing.T) {
	data := testPayload(0x1234, 0, 2.5, 1)
	_, err := Read(bytes.NewReader(data[:len(data)-3]), testDesc, true)
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("want FormatError, got %v", err)
	}
	if !strings.Contains(err.Error(), "short read") {
		t.Errorf("error should mention short read: %v", err)
	}
}

func TestRequiredFailsInBothModes(t *testing.T) {
	for _, strict := range []bool{true, false} {
		_, err := Read(bytes.NewReader(testPayload(0xdead, 0, 2.5, 1)), testDesc, strict)
		var fe *FormatError
		if !errors.As(err, &fe) {
			t.Fatalf("strict=%v: want FormatError, got %v", strict, err)
		}
		if !strings.Contains(err.Error(), "magic") {
			t.Errorf("strict=%v: error should name the field: %v", strict, err)
		}
	}
}

func TestExpectedOnlyFailsStrict(t *testing.T) {
	data := testPayload(0x1234, 0xff, 2.5, 1) // non-zero padding
	if _, err := Read(bytes.NewReader(data), testDesc, false); err != nil {
		t.Fatalf("lenient mode should pass: %v", err)
	}
	if _, err := Read(bytes.NewReader(data), testDesc, true); err == nil {
		t.Fatal("strict mode should fail on padding deviation")
	}
}

func TestSetMembership(t *testing.T) {
	if _, err := Read(bytes.NewReader(testPayload(0x1234, 0, 2.5, 7)), testDesc, true); err == nil {
		t.Fatal("mode outside the allowed set should fail in strict mode")
	}
	if _, err := Read(bytes.NewReader(testPayload(0x1234, 0, 2.5, 7)), testDesc, false); err != nil {
		t.Fatalf("mode deviation is expect-class, lenient should pass: %v", err)
	}
}

func TestOperators(t *testing.T) {
	cases := []struct {
		op   Op
		want interface{}
		v    interface{}
		ok   bool
	}{
		{Eq, 5, uint64(5), true},
		{Eq, 5, uint64(6), false},
		{Ne, 5, uint64(6), true},
		{Lt, 5, int64(4), true},
		{Le, 5, int64(5), true},
		{Gt, 0, float64(0.25), true},
		{Gt, 0, float64(0), false},
		{Ge, 0, float64(0), true},
		{Eq, []byte{0, 0}, []byte{0, 0}, true},
		{Eq, []byte{0, 0}, []byte{0, 1}, false},
	}
	for i, c := range cases {
		r := Required(c.op, c.want)
		if got := r.holds(c.v); got != c.ok {
			t.Errorf("case %d: %v %s %v: got %v want %v", i, c.v, c.op, c.want, got, c.ok)
		}
	}
}

func TestDescSize(t *testing.T) {
	if got, want := testDesc.Size(), len(testPayload(0x1234, 0, 1, 0)); got != want {
		t.Errorf("Size: got %d want %d", got, want)
	}
}

func TestF32RoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, float32(1.5e9))
	d := &Desc{Name: "f", Fields: []Field{{Name: "rate", Kind: F32}}}
	rec, err := Read(buf, d, true)
	if err != nil {
		t.Fatal(err)
	}
	if got := rec.Float("rate"); math.Abs(got-1.5e9) > 1 {
		t.Errorf("rate: got %v", got)
	}
}
