package numeric

import (
	"errors"
	"math"
	"math/big"
	"math/cmplx"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrSyntax means no step of the cascade accepted the token.
	ErrSyntax = errors.New("invalid numeric syntax")
	// ErrZeroDenominator is returned for fractions such as 1/0.
	ErrZeroDenominator = errors.New("zero denominator")
)

// ParseError records a failed Parse, in the manner of strconv.NumError.
type ParseError struct {
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return "numeric: parsing " + strconv.Quote(e.Token) + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// errNext makes the cascade move on to the next step.
var errNext = errors.New("try next step")

// maxExponent bounds decimal exponents turned into exact rationals; larger
// ones are left to the Float step.
const maxExponent = 4096

type step func(token string) (Value, error)

// cascade is ordered from most to least exact representation.
var cascade = []step{
	parseInteger,
	parseRational,
	parseFloat,
	parseSpecial,
	parseComplex,
}

// Parse converts token into the most specific Value it denotes. The whole
// token must be consumed by a single step; surrounding whitespace is not
// accepted. A zero denominator fails the whole cascade.
func Parse(token string) (Value, error) {
	for _, p := range cascade {
		v, err := p(token)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, errNext) {
			return Value{}, &ParseError{Token: token, Err: err}
		}
	}
	return Value{}, &ParseError{Token: token, Err: ErrSyntax}
}

// IsNumeric reports whether Parse would succeed. It never panics.
func IsNumeric(token string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	_, err := Parse(token)
	return err == nil
}

func parseInteger(token string) (Value, error) {
	s, neg := trimSign(token)
	base, digits := 10, s
	if len(s) >= 2 && s[0] == '0' {
		switch s[1] {
		case 'b', 'B':
			base, digits = 2, s[2:]
		case 'o', 'O':
			base, digits = 8, s[2:]
		case 'x', 'X':
			base, digits = 16, s[2:]
		case 'd', 'D':
			base, digits = 10, s[2:]
		default:
			// Legacy octal: 07 is seven, 09 is not an integer literal.
			base, digits = 8, s[1:]
		}
	}
	if digits == "" || scanDigits(digits, base) != len(digits) {
		return Value{}, errNext
	}

	i, ok := new(big.Int).SetString(stripUnderscores(digits), base)
	if !ok {
		return Value{}, errNext
	}
	if neg {
		i.Neg(i)
	}
	return intValue(i), nil
}

func parseRational(token string) (Value, error) {
	r, err := exactRational(token)
	if err != nil {
		return Value{}, err
	}
	return ratValue(r), nil
}

// exactRational parses [sign]digits[.digits][e[sign]digits][/digits].
func exactRational(s string) (*big.Rat, error) {
	num, den, hasDen := strings.Cut(s, "/")
	r, err := scanDecimal(num)
	if err != nil {
		return nil, err
	}
	if !hasDen {
		return r, nil
	}
	if den == "" || scanDigits(den, 10) != len(den) {
		return nil, errNext
	}
	d, _ := new(big.Int).SetString(stripUnderscores(den), 10)
	if d.Sign() == 0 {
		return nil, ErrZeroDenominator
	}
	return r.Quo(r, new(big.Rat).SetInt(d)), nil
}

func scanDecimal(s string) (*big.Rat, error) {
	s, neg := trimSign(s)

	n := scanDigits(s, 10)
	if n == 0 {
		return nil, errNext
	}
	mantissa := stripUnderscores(s[:n])
	s = s[n:]

	scale := 0
	if len(s) > 0 && s[0] == '.' {
		n = scanDigits(s[1:], 10)
		if n == 0 {
			return nil, errNext
		}
		frac := stripUnderscores(s[1 : 1+n])
		mantissa += frac
		scale = -len(frac)
		s = s[1+n:]
	}

	if len(s) > 0 && (s[0] == 'e' || s[0] == 'E') {
		exp, expNeg := trimSign(s[1:])
		n = scanDigits(exp, 10)
		if n == 0 || n != len(exp) {
			return nil, errNext
		}
		e, err := strconv.Atoi(stripUnderscores(exp))
		if err != nil || e > maxExponent {
			return nil, errNext
		}
		if expNeg {
			e = -e
		}
		scale += e
		s = ""
	}

	if s != "" {
		return nil, errNext
	}

	m, _ := new(big.Int).SetString(mantissa, 10)
	if neg {
		m.Neg(m)
	}
	r := new(big.Rat).SetInt(m)
	if scale != 0 {
		p := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(abs(scale))), nil)
		if scale > 0 {
			r.Mul(r, new(big.Rat).SetInt(p))
		} else {
			r.Quo(r, new(big.Rat).SetInt(p))
		}
	}
	return r, nil
}

func parseFloat(token string) (Value, error) {
	// strconv also takes "inf", "infinity" and "nan" in any case; only the
	// exact named specials are numeric here.
	if token == "" || strings.ContainsAny(token, "iInN") {
		return Value{}, errNext
	}
	f, err := floatRange(token)
	if err != nil {
		return Value{}, errNext
	}
	return floatValue(f), nil
}

// floatRange is strconv.ParseFloat, except that a well-formed value out of
// float64 range is accepted as ±Inf or ±0. Exponents too large for an exact
// rational end up here.
func floatRange(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	return f, nil
}

func parseSpecial(token string) (Value, error) {
	switch token {
	case "Infinity":
		return specialValue(math.Inf(1)), nil
	case "-Infinity":
		return specialValue(math.Inf(-1)), nil
	case "NaN":
		return specialValue(math.NaN()), nil
	}
	return Value{}, errNext
}

const num = `\d+(?:_\d+)*(?:\.\d+(?:_\d+)*)?(?:[eE][+-]?\d+(?:_\d+)*)?(?:/\d+(?:_\d+)*)?`

var (
	complexRealImag = regexp.MustCompile(`^([+-]?` + num + `)([+-])(` + num + `)?[iIjJ]$`)
	complexImag     = regexp.MustCompile(`^([+-]?)(` + num + `)?[iIjJ]$`)
	complexReal     = regexp.MustCompile(`^[+-]?` + num + `$`)
	complexPolar    = regexp.MustCompile(`^([+-]?` + num + `)@([+-]?` + num + `)$`)
)

func parseComplex(token string) (Value, error) {
	if m := complexRealImag.FindStringSubmatch(token); m != nil {
		re, err := component(m[1])
		if err != nil {
			return Value{}, errNext
		}
		im, err := imaginary(m[2], m[3])
		if err != nil {
			return Value{}, errNext
		}
		return complexValue(complex(re, im)), nil
	}

	if m := complexImag.FindStringSubmatch(token); m != nil {
		im, err := imaginary(m[1], m[2])
		if err != nil {
			return Value{}, errNext
		}
		return complexValue(complex(0, im)), nil
	}

	if m := complexPolar.FindStringSubmatch(token); m != nil {
		r, err := component(m[1])
		if err != nil {
			return Value{}, errNext
		}
		theta, err := component(m[2])
		if err != nil {
			return Value{}, errNext
		}
		return complexValue(cmplx.Rect(r, theta)), nil
	}

	if complexReal.MatchString(token) {
		re, err := component(token)
		if err != nil {
			return Value{}, errNext
		}
		return complexValue(complex(re, 0)), nil
	}

	return Value{}, errNext
}

// imaginary evaluates the coefficient of the imaginary unit; a bare unit
// counts as one.
func imaginary(sign, coeff string) (float64, error) {
	if coeff == "" {
		coeff = "1"
	}
	return component(sign + coeff)
}

func component(s string) (float64, error) {
	r, err := exactRational(s)
	if errors.Is(err, errNext) {
		return floatRange(stripUnderscores(s))
	}
	if err != nil {
		return 0, err
	}
	f, _ := r.Float64()
	return f, nil
}

func trimSign(s string) (string, bool) {
	if s == "" {
		return s, false
	}
	switch s[0] {
	case '-':
		return s[1:], true
	case '+':
		return s[1:], false
	}
	return s, false
}

// scanDigits returns the length of the longest prefix of s made of digits
// valid in base. A single underscore may separate two digits.
func scanDigits(s string, base int) int {
	n := 0
	afterDigit := false
	for n < len(s) {
		c := s[n]
		if isDigit(c, base) {
			n++
			afterDigit = true
			continue
		}
		if c == '_' && afterDigit && n+1 < len(s) && isDigit(s[n+1], base) {
			n++
			afterDigit = false
			continue
		}
		break
	}
	return n
}

func isDigit(c byte, base int) bool {
	switch base {
	case 2:
		return c == '0' || c == '1'
	case 8:
		return c >= '0' && c <= '7'
	case 16:
		return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	default:
		return c >= '0' && c <= '9'
	}
}

func stripUnderscores(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	return strings.ReplaceAll(s, "_", "")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
