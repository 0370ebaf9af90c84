package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"charm.land/jsonfix/repair"
)

type numberClass uint8

const (
	numberValid numberClass = iota
	numberEmpty
	numberLeadingDecimal
	numberNegativeLeadingDecimal
	numberFraction
	numberRange
	numberMultiDecimal
	numberTrailingExponent
	numberHybrid
	numberTrailingDecimal
	numberLeadingPlus
	numberThousands
	numberInvalid
)

var numberActions = map[numberClass]repair.Action{
	numberLeadingDecimal:         repair.NormalizedLeadingDecimal,
	numberNegativeLeadingDecimal: repair.NormalizedNegativeLeadingDecimal,
	numberFraction:               repair.ConvertedFraction,
	numberRange:                  repair.ConvertedRange,
	numberMultiDecimal:           repair.ConvertedInvalidDecimal,
	numberTrailingExponent:       repair.RemovedTrailingExponent,
	numberHybrid:                 repair.ConvertedHybrid,
	numberTrailingDecimal:        repair.CompletedTrailingDecimal,
	numberLeadingPlus:            repair.RemovedLeadingPlus,
	numberThousands:              repair.RemovedThousandsSeparator,
	numberInvalid:                repair.ConvertedInvalidNumber,
}

// numberSpan is a consumed numeric-looking token and what became of it.
type numberSpan struct {
	raw   string
	text  string
	class numberClass
	// changed is false when text equals raw, as in strict mode.
	changed bool
}

func (n numberSpan) action() (repair.Action, bool) {
	if !n.changed {
		return "", false
	}
	a, ok := numberActions[n.class]
	return a, ok
}

var (
	validNumber       = regexp.MustCompile(`^-?(0|[1-9]\d*)(\.\d+)?([eE][+-]?\d+)?$`)
	rangeNumber       = regexp.MustCompile(`^-?\d+(\.\d+)?-\d+(\.\d+)?$`)
	trailingExponent  = regexp.MustCompile(`[eE][+-]?$`)
	trailingDecimal   = regexp.MustCompile(`^-?\d+\.$`)
	numericCharacters = regexp.MustCompile(`^[0-9.\-+eE]*$`)
)

// classifyNumber applies the number rules to a raw span in priority order.
// Strict mode keeps spans that would be re-typed as strings verbatim.
func classifyNumber(raw string, strict bool) numberSpan {
	v := strings.ReplaceAll(raw, ",", "")
	stripped := v != raw

	done := func(text string, class numberClass) numberSpan {
		return numberSpan{raw: raw, text: text, class: class, changed: text != raw}
	}
	quote := func(class numberClass) numberSpan {
		if strict {
			return numberSpan{raw: raw, text: raw, class: class}
		}
		return done(quoteJSON(raw), class)
	}

	if r := []rune(v); len(r) == 0 || (len(r) == 1 && !isDigit(r[0])) {
		return numberSpan{raw: raw, class: numberEmpty, changed: raw != ""}
	}

	switch {
	case strings.HasPrefix(v, "."):
		if fixed := "0" + v; validNumber.MatchString(fixed) {
			return done(fixed, numberLeadingDecimal)
		}
	case strings.HasPrefix(v, "-."):
		if fixed := "-0" + v[1:]; validNumber.MatchString(fixed) {
			return done(fixed, numberNegativeLeadingDecimal)
		}
	}

	switch {
	case strings.Contains(v, "/"):
		return quote(numberFraction)
	case rangeNumber.MatchString(v):
		return quote(numberRange)
	case strings.Count(v, ".") > 1:
		return quote(numberMultiDecimal)
	}

	if loc := trailingExponent.FindStringIndex(v); loc != nil && numericCharacters.MatchString(v[:loc[0]]) {
		fixed := v[:loc[0]]
		if trailingDecimal.MatchString(fixed) {
			fixed += "0"
		}
		fixed = leadingZero(fixed)
		if validNumber.MatchString(fixed) {
			return done(fixed, numberTrailingExponent)
		}
	}

	if !numericCharacters.MatchString(v) {
		return quote(numberHybrid)
	}
	if trailingDecimal.MatchString(v) {
		return done(v+"0", numberTrailingDecimal)
	}
	if strings.HasPrefix(v, "+") && validNumber.MatchString(v[1:]) {
		return done(v[1:], numberLeadingPlus)
	}
	if validNumber.MatchString(v) {
		if stripped {
			return done(v, numberThousands)
		}
		return done(v, numberValid)
	}
	return quote(numberInvalid)
}

func leadingZero(s string) string {
	switch {
	case strings.HasPrefix(s, "."):
		return "0" + s
	case strings.HasPrefix(s, "-."):
		return "-0" + s[1:]
	}
	return s
}

// numberEnd returns the end of the numeric-looking span starting at i.
func (s *scanner) numberEnd(i int) int {
	if i < len(s.src) && isCurrency(s.src[i]) {
		i++
	}
	start := i
	seenDigit := false
	for i < len(s.src) {
		c := s.src[i]
		switch {
		case isDigit(c):
			seenDigit = true
		case c == '.', c == '-', c == '+', c == '/':
		case c == ',':
			if !seenDigit || s.stack.top() != frameObject || !s.thousandsGroupAt(i) {
				return i
			}
			i += 4
			continue
		case isASCIILetter(c) || c == '_' || (c >= 0x80 && !unicode.IsSpace(c)):
			if !seenDigit && !s.signedWord(start, i) {
				return i
			}
		default:
			return i
		}
		i++
	}
	return i
}

// signedWord reports whether src[start:i] is a sign followed only by
// letters, as in -Infinity.
func (s *scanner) signedWord(start, i int) bool {
	if i <= start || (s.src[start] != '-' && s.src[start] != '+') {
		return false
	}
	for k := start + 1; k < i; k++ {
		if !isASCIILetter(s.src[k]) {
			return false
		}
	}
	return true
}

// thousandsGroupAt reports whether the comma at i is followed by exactly three
// digits.
func (s *scanner) thousandsGroupAt(i int) bool {
	if i+3 >= len(s.src) {
		return false
	}
	for k := 1; k <= 3; k++ {
		if !isDigit(s.src[i+k]) {
			return false
		}
	}
	return i+4 >= len(s.src) || !isDigit(s.src[i+4])
}

func (s *scanner) number() {
	start := s.pos
	end := s.numberEnd(start)
	raw := string(s.src[start:end])
	s.pos = end

	if s.keyAt(end) {
		s.out.WriteString(quoteJSON(raw))
		s.log.Add(repair.QuotedKey, start, raw, quoteJSON(raw))
		s.expect = expectColon
		return
	}

	span := classifyNumber(raw, s.opts.StrictMode)
	s.out.WriteString(span.text)
	if action, ok := span.action(); ok {
		s.log.Add(action, start, span.raw, span.text)
	}
	s.expect = expectCommaOrEnd
}
