package numeric

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"testing"
)

func TestParse_Integers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"zero", "0", "0"},
		{"decimal", "25", "25"},
		{"negative", "-42", "-42"},
		{"explicit plus", "+7", "7"},
		{"hex", "0x1f", "31"},
		{"hex uppercase prefix", "0X1F", "31"},
		{"binary", "0b101", "5"},
		{"octal legacy", "07", "7"},
		{"octal legacy multi", "0755", "493"},
		{"octal prefixed", "0o17", "15"},
		{"decimal prefixed", "0d19", "19"},
		{"negative hex", "-0x10", "-16"},
		{"underscores", "1_000_000", "1000000"},
		{"big", "123456789012345678901234567890", "123456789012345678901234567890"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if v.Kind() != Integer {
				t.Fatalf("Parse(%q) kind = %s, want integer", tt.input, v.Kind())
			}
			if got := v.Int().String(); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_DecimalIntegersRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 9, 10, 99, -100, 4096, math.MaxInt64, math.MinInt64 + 1} {
		s := strconv.FormatInt(n, 10)
		v, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q) unexpected error: %v", s, err)
		}
		if v.Kind() != Integer || v.Int().Cmp(big.NewInt(n)) != 0 {
			t.Errorf("Parse(%q) = %#v, want integer %d", s, v, n)
		}
	}
}

func TestParse_Rationals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"invalid octal falls back to decimal", "09", "9"},
		{"leading zeros decimal", "0089", "89"},
		{"decimal point", "1.25", "5/4"},
		{"negative decimal point", "-1.15", "-23/20"},
		{"fraction", "3/6", "1/2"},
		{"negative fraction", "-2/4", "-1/2"},
		{"exponent", "1.5e3", "1500"},
		{"negative exponent", "25e-2", "1/4"},
		{"decimal over integer", "1.5/3", "1/2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if v.Kind() != Rational {
				t.Fatalf("Parse(%q) kind = %s, want rational", tt.input, v.Kind())
			}
			if got := v.Rat().RatString(); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_NineIsNumericallyNine(t *testing.T) {
	v, err := Parse("09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f, exact := v.Float64(); f != 9 || !exact {
		t.Errorf("Parse(\"09\").Float64() = %v, %v; want 9, true", f, exact)
	}
}

func TestParse_ZeroDenominator(t *testing.T) {
	for _, input := range []string{"1/0", "-3/0", "1.5/0_0"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			if err == nil {
				t.Fatalf("Parse(%q) expected error, got none", input)
			}
			if !errors.Is(err, ErrZeroDenominator) {
				t.Errorf("Parse(%q) error = %v, want ErrZeroDenominator", input, err)
			}
			var perr *ParseError
			if !errors.As(err, &perr) || perr.Token != input {
				t.Errorf("Parse(%q) error = %#v, want *ParseError for the token", input, err)
			}
		})
	}
}

func TestParse_Floats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"leading dot", ".5", 0.5},
		{"trailing dot", "5.", 5},
		{"signed leading dot", "-.25", -0.25},
		{"hex float", "0x1.8p1", 3},
		{"leading dot with exponent", ".5e2", 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if v.Kind() != Float {
				t.Fatalf("Parse(%q) kind = %s, want float", tt.input, v.Kind())
			}
			if got, _ := v.Float64(); got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_ExponentBeyondExactRange(t *testing.T) {
	tests := []struct {
		input string
		check func(float64) bool
	}{
		{"1e5000", func(f float64) bool { return math.IsInf(f, 1) }},
		{"-1e5000", func(f float64) bool { return math.IsInf(f, -1) }},
		{"1e99999999999999999999", func(f float64) bool { return math.IsInf(f, 1) }},
		{"1e-5000", func(f float64) bool { return f == 0 && !math.Signbit(f) }},
		{"-1e-5000", func(f float64) bool { return f == 0 && math.Signbit(f) }},
		{"2.5e4097", func(f float64) bool { return math.IsInf(f, 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if v.Kind() != Float {
				t.Fatalf("Parse(%q) kind = %s, want float", tt.input, v.Kind())
			}
			if f, _ := v.Float64(); !tt.check(f) {
				t.Errorf("Parse(%q) = %v", tt.input, f)
			}
		})
	}

	if v, err := Parse("1e4096"); err != nil || v.Kind() != Rational {
		t.Errorf("Parse(1e4096) = %#v, %v; want exact rational", v, err)
	}
}

func TestParse_ComplexWithHugeExponent(t *testing.T) {
	v, err := Parse("1+1e5000i")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind() != Complex || !math.IsInf(imag(v.Complex128()), 1) {
		t.Errorf("Parse(1+1e5000i) = %#v", v)
	}
}

func TestParse_Specials(t *testing.T) {
	v, err := Parse("NaN")
	if err != nil {
		t.Fatalf("Parse(NaN) unexpected error: %v", err)
	}
	if !v.IsNaN() || v.Kind() != Special {
		t.Errorf("Parse(NaN) = %#v, want special NaN", v)
	}
	if v.Equal(v) {
		t.Error("NaN must not equal itself")
	}

	v, err = Parse("Infinity")
	if err != nil {
		t.Fatalf("Parse(Infinity) unexpected error: %v", err)
	}
	if !v.IsInf(1) {
		t.Errorf("Parse(Infinity) = %#v, want +Inf", v)
	}

	v, err = Parse("-Infinity")
	if err != nil {
		t.Fatalf("Parse(-Infinity) unexpected error: %v", err)
	}
	if !v.IsInf(-1) {
		t.Errorf("Parse(-Infinity) = %#v, want -Inf", v)
	}
}

func TestParse_SpecialsAreExact(t *testing.T) {
	for _, input := range []string{"infinity", "INFINITY", "inf", "+Inf", "nan", "NAN", " NaN", "NaN ", "Infinityx", "+Infinity"} {
		t.Run(input, func(t *testing.T) {
			if v, err := Parse(input); err == nil {
				t.Errorf("Parse(%q) = %#v, want failure", input, v)
			}
		})
	}
}

func TestParse_Complex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  complex128
	}{
		{"real and imaginary", "3+3i", complex(3, 3)},
		{"imaginary only", "5i", complex(0, 5)},
		{"negative imaginary part", "1-2i", complex(1, -2)},
		{"bare unit", "i", complex(0, 1)},
		{"negative bare unit", "-i", complex(0, -1)},
		{"unit coefficient", "2+i", complex(2, 1)},
		{"j unit", "4j", complex(0, 4)},
		{"decimal components", "1.5+0.25i", complex(1.5, 0.25)},
		{"rational components", "1/2-3/4i", complex(0.5, -0.75)},
		{"exponent in imaginary", "1e+2i", complex(0, 100)},
		{"polar zero angle", "2@0", complex(2, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if v.Kind() != Complex {
				t.Fatalf("Parse(%q) kind = %s, want complex", tt.input, v.Kind())
			}
			if got := v.Complex128(); got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_Failures(t *testing.T) {
	tests := []string{
		"",
		"x",
		"-",
		"+",
		"0x",
		"0b2",
		"1__0",
		"_1",
		"1_",
		"1.2.3",
		"1e",
		"1/",
		"/2",
		"12abc",
		" 25",
		"25 ",
		"3+3",
		"3+3k",
		"i3",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			v, err := Parse(input)
			if err == nil {
				t.Fatalf("Parse(%q) = %#v, want failure", input, v)
			}
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("Parse(%q) error = %v, want ErrSyntax", input, err)
			}
		})
	}
}

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"3", true},
		{"25", true},
		{"x", false},
		{"", false},
		{"1.25", true},
		{"0x1f", true},
		{"09", true},
		{"1/0", false},
		{"NaN", true},
		{"nan", false},
		{"3+3i", true},
		{"1e5000", true},
		{"1e99999999999999999999", true},
		{"1e-5000", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsNumeric(tt.input); got != tt.want {
				t.Errorf("IsNumeric(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsNumeric_AgreesWithParse(t *testing.T) {
	inputs := []string{"", "0", "-0", "07", "08", "0o8", "1.", ".", "e5", "1e5", "1e5000", "Infinity", "i", "ii", "@", "1@", "1@2", "\x00", "٣"}
	for _, input := range inputs {
		_, err := Parse(input)
		if got := IsNumeric(input); got != (err == nil) {
			t.Errorf("IsNumeric(%q) = %v, Parse error = %v", input, got, err)
		}
	}
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0x1f", "31"},
		{"1.25", "5/4"},
		{"09", "9"},
		{".5", "0.5"},
		{"NaN", "NaN"},
		{"-Infinity", "-Infinity"},
		{"3+3i", "3+3i"},
		{"1-2i", "1-2i"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValue_MarshalJSON(t *testing.T) {
	v, err := Parse("1.25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := string(data), `{"kind":"rational","value":"5/4"}`; got != want {
		t.Errorf("MarshalJSON() = %s, want %s", got, want)
	}
}

func TestValue_EqualAcrossKinds(t *testing.T) {
	a, _ := Parse("9")
	b, _ := Parse("09")
	if a.Equal(b) {
		t.Error("integer 9 and rational 9 are different variants")
	}
	c, _ := Parse("0d9")
	if !a.Equal(c) {
		t.Error("9 and 0d9 should be equal integers")
	}
}

func TestValue_Immutable(t *testing.T) {
	v, _ := Parse("10")
	v.Int().SetInt64(99)
	if got := v.Int().Int64(); got != 10 {
		t.Errorf("value mutated through accessor: got %d", got)
	}
}
