package record

import (
	"bytes"
	"fmt"
)

// Severity decides whether a rule violation depends on strict mode.
type Severity int

const (
	// Require violations are fatal regardless of mode.
	Require Severity = iota
	// Expect violations are fatal only in strict mode. They cover fields
	// whose meaning is undeciphered but whose observed values are stable.
	Expect
)

// Op is a comparison operator of a validation rule.
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
	In
)

func (o Op) String() string {
	switch o {
	case Eq:
		return "=="
	case Ne:
		return "!="
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	case In:
		return "in"
	}
	return "?"
}

// Rule validates a decoded field value against a literal. Want is a numeric
// literal or byte block for comparison operators, or a []uint64 set for In.
type Rule struct {
	Severity Severity
	Op       Op
	Want     interface{}
}

func Required(op Op, want interface{}) *Rule {
	return &Rule{Severity: Require, Op: op, Want: want}
}

func Expected(op Op, want interface{}) *Rule {
	return &Rule{Severity: Expect, Op: op, Want: want}
}

func RequiredIn(want ...uint64) *Rule {
	return &Rule{Severity: Require, Op: In, Want: want}
}

func ExpectedIn(want ...uint64) *Rule {
	return &Rule{Severity: Expect, Op: In, Want: want}
}

func (r *Rule) check(rec, field string, v interface{}, strict bool) error {
	if r.holds(v) {
		return nil
	}
	if r.Severity == Expect && !strict {
		return nil
	}
	return Errorf("field %s.%s: have %s, want %s %s", rec, field, literal(v), r.Op, literal(r.Want))
}

func (r *Rule) holds(v interface{}) bool {
	switch want := r.Want.(type) {
	case []byte:
		eq := bytes.Equal(v.([]byte), want)
		if r.Op == Ne {
			return !eq
		}
		return eq
	case []uint64:
		have := asFloat(v)
		for _, w := range want {
			if have == float64(w) {
				return true
			}
		}
		return false
	}

	have, want := asFloat(v), asFloat(r.Want)
	switch r.Op {
	case Eq:
		return have == want
	case Ne:
		return have != want
	case Lt:
		return have < want
	case Le:
		return have <= want
	case Gt:
		return have > want
	case Ge:
		return have >= want
	}
	return false
}

// asFloat widens any numeric literal for comparison. Header fields are at
// most 32 bits wide, so the float64 mantissa holds them exactly.
func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case uint64:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	case int:
		return float64(n)
	case float32:
		return float64(n)
	}
	panic(fmt.Sprintf("rule literal %v (%T) is not numeric", v, v))
}

func literal(v interface{}) string {
	switch n := v.(type) {
	case []byte:
		return fmt.Sprintf("%#x", n)
	case []uint64:
		return fmt.Sprintf("%v", n)
	case uint64:
		return fmt.Sprintf("%#x", n)
	default:
		return fmt.Sprintf("%v", n)
	}
}
