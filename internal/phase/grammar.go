package phase

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

// phaseExpr accepts "n", "π", "nπ", "a/b", "aπ/b", "a/bπ" where a carries an
// optional sign.
type phaseExpr struct {
	Sign      string       `@Sign?`
	Magnitude *int         `@Int?`
	LeadPi    bool         `@Pi?`
	Fraction  *denominator `@@?`
}

type denominator struct {
	Value  int  `"/" @Int`
	TailPi bool `@Pi?`
}

var phaseLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Pi", Pattern: `\x{03c0}|pi`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Sign", Pattern: `[-+]`},
	{Name: "Slash", Pattern: `/`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

var parsePhaseExpr = participle.MustBuild[phaseExpr](
	participle.Lexer(phaseLexer),
	participle.Elide("Whitespace"),
)

// Parse validates raw and returns its normalized phase. boxLike selects the
// inverted integer mapping used by H-boxes.
func Parse(raw string, boxLike bool) (Phase, error) {
	if strings.TrimSpace(raw) == "" {
		return Zero, nil
	}
	if strings.Contains(raw, ".") {
		return Zero, &ParseError{Input: raw, Reason: ReasonDecimal}
	}
	isFraction := strings.Contains(raw, "/")
	if strings.Count(raw, "/") > 1 {
		return Zero, &ParseError{Input: raw, Reason: ReasonMalformedFraction}
	}

	expr, err := parsePhaseExpr.ParseString("", raw)
	if err != nil {
		reason := ReasonNonNumeric
		if isFraction {
			reason = ReasonMalformedFraction
		}
		return Zero, &ParseError{Input: raw, Reason: reason, cause: errors.Wrap(err, "phase grammar")}
	}

	if expr.Fraction != nil {
		return normalizeFraction(raw, expr)
	}
	return normalizeInteger(raw, expr, boxLike)
}

func normalizeFraction(raw string, expr *phaseExpr) (Phase, error) {
	if expr.LeadPi && expr.Fraction.TailPi {
		return Zero, &ParseError{Input: raw, Reason: ReasonMalformedFraction}
	}
	if expr.Fraction.Value <= 0 {
		return Zero, &ParseError{Input: raw, Reason: ReasonMalformedFraction}
	}

	numerator := 1
	if expr.Magnitude != nil {
		numerator = *expr.Magnitude
	}
	if expr.Sign == "-" {
		numerator = -numerator
	}

	var a string
	switch numerator {
	case 1:
		a = ""
	case -1:
		a = "-"
	default:
		a = strconv.Itoa(numerator)
	}
	return Phase{label: a + Pi + "/" + strconv.Itoa(expr.Fraction.Value)}, nil
}

// normalizeInteger reduces n·π to {0, π}. A lone π counts as n = 1 on spiders and
// clears the label on boxes.
func normalizeInteger(raw string, expr *phaseExpr, boxLike bool) (Phase, error) {
	if expr.Magnitude == nil {
		if !expr.LeadPi || expr.Sign != "" {
			return Zero, &ParseError{Input: raw, Reason: ReasonNonNumeric}
		}
		if boxLike {
			return Zero, nil
		}
		return Phase{label: Pi}, nil
	}

	n := *expr.Magnitude
	if expr.Sign == "-" {
		n = -n
	}
	parity := ((n % 2) + 2) % 2

	if boxLike {
		if parity == 1 {
			return Zero, nil
		}
		return Phase{label: BoxPlaceholder}, nil
	}
	if parity == 0 {
		return Zero, nil
	}
	return Phase{label: Pi}, nil
}
