// Package commands turns a free-text (typically dictated) phrase such as
// "gastei 50,00 com mercado" into a structured intent: the kind of entry,
// the amount and the description, plus the category name derived from it.
//
// Parsing is pure; resolving the category and writing the record happen in
// the services package.
package commands

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"gestaofinanceira/internal/models"
	"gestaofinanceira/internal/money"
)

var (
	// ErrUnrecognized means neither pattern family matched.
	ErrUnrecognized = errors.New("command not recognized")
	// ErrInvalidAmount means a pattern matched but its numeral did not parse.
	ErrInvalidAmount = errors.New("invalid amount")
)

// Patterns are searched, not anchored, so leading filler words are ignored.
// Groups: 1 trigger, 2 amount, 3 currency, 4 remainder.
var (
	expensePattern = regexp.MustCompile(`(gastei|paguei|saída de|despesa de|comprei) ([\d,\.]+) ?(reais|brl)? (?:com|em|no|na|de|para) (.*)`)
	incomePattern  = regexp.MustCompile(`(recebi|ganhei|entrada de|oferta de|dízimo de) ([\d,\.]+) ?(reais|brl)? (?:de|do|da|como|pelo|pela|referente a) (.*)`)
)

// Intent is a successfully parsed command.
type Intent struct {
	Kind         models.Kind
	Amount       int64 // cents
	Description  string
	CategoryName string
	Normalized   string
}

// ParseError carries the normalized input back to the caller so the user
// can see what was heard.
type ParseError struct {
	Err        error
	Normalized string
	Numeral    string
}

func (e *ParseError) Error() string {
	if errors.Is(e.Err, ErrInvalidAmount) {
		return fmt.Sprintf("%v: %q", e.Err, e.Numeral)
	}
	return fmt.Sprintf("%v: %q", e.Err, e.Normalized)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse classifies text. Expense phrases are tried before income phrases.
func Parse(text string) (*Intent, error) {
	normalized := strings.ToLower(text)

	var kind models.Kind
	var match []string
	if m := expensePattern.FindStringSubmatch(normalized); m != nil {
		kind, match = models.KindExpense, m
	} else if m := incomePattern.FindStringSubmatch(normalized); m != nil {
		kind, match = models.KindIncome, m
	}

	if match == nil {
		return nil, &ParseError{Err: ErrUnrecognized, Normalized: normalized}
	}

	numeral := strings.TrimSpace(match[2])
	description := strings.TrimSpace(match[4])
	if description == "" {
		return nil, &ParseError{Err: ErrUnrecognized, Normalized: normalized}
	}

	amount, err := money.Parse(numeral)
	if err != nil {
		return nil, &ParseError{Err: ErrInvalidAmount, Normalized: normalized, Numeral: numeral}
	}

	return &Intent{
		Kind:         kind,
		Amount:       amount,
		Description:  description,
		CategoryName: CategoryName(description),
		Normalized:   normalized,
	}, nil
}

// CategoryName derives the category from a description: short descriptions
// (one or two words) are used whole, longer ones contribute their first word.
func CategoryName(description string) string {
	words := strings.Fields(description)
	if len(words) == 0 {
		return ""
	}
	if len(words) <= 2 {
		return Capitalize(strings.TrimSpace(description))
	}
	return Capitalize(words[0])
}

// Capitalize upper-cases the first rune and leaves the rest untouched.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
