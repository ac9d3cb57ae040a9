package numeric

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// Kind names the variant held by a Value.
type Kind int

const (
	Invalid  Kind = iota // zero Value, never returned by Parse
	Integer              // arbitrary precision, *big.Int
	Rational             // exact fraction in lowest terms, *big.Rat
	Float                // float64
	Special              // Infinity, -Infinity or NaN
	Complex              // complex128
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Rational:
		return "rational"
	case Float:
		return "float"
	case Special:
		return "special"
	case Complex:
		return "complex"
	default:
		return "invalid"
	}
}

// Value is the result of a successful Parse. Exactly one variant is set,
// selected by Kind. The zero Value is Invalid.
type Value struct {
	kind Kind
	i    *big.Int
	r    *big.Rat
	f    float64
	c    complex128
}

func intValue(i *big.Int) Value {
	return Value{kind: Integer, i: i}
}

// big.Rat keeps fractions reduced with a positive denominator.
func ratValue(r *big.Rat) Value {
	return Value{kind: Rational, r: r}
}

func floatValue(f float64) Value {
	return Value{kind: Float, f: f}
}

func specialValue(f float64) Value {
	return Value{kind: Special, f: f}
}

func complexValue(c complex128) Value {
	return Value{kind: Complex, c: c}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind {
	return v.kind
}

// Int returns a copy of the integer for Integer values, nil otherwise.
func (v Value) Int() *big.Int {
	if v.kind != Integer {
		return nil
	}
	return new(big.Int).Set(v.i)
}

// Rat returns a copy of the exact value for Integer and Rational values,
// nil otherwise.
func (v Value) Rat() *big.Rat {
	switch v.kind {
	case Integer:
		return new(big.Rat).SetInt(v.i)
	case Rational:
		return new(big.Rat).Set(v.r)
	}
	return nil
}

// Float64 returns the nearest float64. Complex values report their real part
// and exact=false when the imaginary part is non-zero.
func (v Value) Float64() (f float64, exact bool) {
	switch v.kind {
	case Integer:
		f, acc := new(big.Float).SetInt(v.i).Float64()
		return f, acc == big.Exact
	case Rational:
		return v.r.Float64()
	case Float, Special:
		return v.f, true
	case Complex:
		return real(v.c), imag(v.c) == 0
	}
	return math.NaN(), false
}

// Complex128 returns v as a complex number with a zero imaginary part
// unless v is Complex.
func (v Value) Complex128() complex128 {
	if v.kind == Complex {
		return v.c
	}
	f, _ := v.Float64()
	return complex(f, 0)
}

// IsNaN reports whether v is NaN, or a complex with a NaN part.
func (v Value) IsNaN() bool {
	switch v.kind {
	case Float, Special:
		return math.IsNaN(v.f)
	case Complex:
		return math.IsNaN(real(v.c)) || math.IsNaN(imag(v.c))
	}
	return false
}

// IsInf reports whether v is an infinity, following math.IsInf for sign.
func (v Value) IsInf(sign int) bool {
	if v.kind != Float && v.kind != Special {
		return false
	}
	return math.IsInf(v.f, sign)
}

// Equal reports whether v and o hold the same variant and value. NaN is
// unequal to everything, itself included.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Integer:
		return v.i.Cmp(o.i) == 0
	case Rational:
		return v.r.Cmp(o.r) == 0
	case Float, Special:
		return v.f == o.f
	case Complex:
		return v.c == o.c
	}
	return false
}

func (v Value) String() string {
	switch v.kind {
	case Integer:
		return v.i.String()
	case Rational:
		return v.r.RatString()
	case Float:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case Special:
		switch {
		case math.IsNaN(v.f):
			return "NaN"
		case v.f > 0:
			return "Infinity"
		default:
			return "-Infinity"
		}
	case Complex:
		re := strconv.FormatFloat(real(v.c), 'g', -1, 64)
		im := strconv.FormatFloat(imag(v.c), 'g', -1, 64)
		if imag(v.c) >= 0 || math.IsNaN(imag(v.c)) {
			im = "+" + im
		}
		return re + im + "i"
	}
	return "<invalid>"
}

// MarshalJSON encodes v as {"kind": ..., "value": v.String()}.
func (v Value) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind  string `json:"kind"`
		Value string `json:"value"`
	}{
		Kind:  v.kind.String(),
		Value: v.String(),
	}
	return json.Marshal(out)
}

func (v Value) GoString() string {
	return fmt.Sprintf("numeric.Value{%s %s}", v.kind, v)
}
