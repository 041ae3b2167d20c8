// Package stockcode validates Taiwan stock codes.
package stockcode

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

// Pattern is the accepted shape of a stock code: four to six ASCII digits.
var Pattern = regexp.MustCompile(`^[0-9]{4,6}$`)

// InvalidCodeMessage is the inline message shown for malformed input.
const InvalidCodeMessage = "請輸入有效的台股代號（通常為 4-6 位數字）"

// ErrInvalidFormat is matched by every *InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid stock code format")

// Code is a validated stock code. Only Parse produces one from user input.
type Code string

func (c Code) String() string { return string(c) }

// InvalidFormatError reports input that is not a 4-6 digit code.
type InvalidFormatError struct {
	Input string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidFormat, e.Input)
}

// Is lets errors.Is match ErrInvalidFormat.
func (e *InvalidFormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

// Reason returns the human-readable message for the user.
func (e *InvalidFormatError) Reason() string {
	return InvalidCodeMessage
}

// Normalize trims surrounding whitespace. It is the only rewrite applied
// before validation.
func Normalize(raw string) string {
	return strings.TrimSpace(raw)
}

// Suggest returns the code raw would be if its full-width digits (e.g.
// "２３３０") were typed as ASCII. ok is false when folding changes nothing
// or still does not yield a valid code. It never makes Parse accept raw.
func Suggest(raw string) (code Code, ok bool) {
	folded := strings.TrimSpace(width.Fold.String(raw))
	if folded == Normalize(raw) || !IsValid(folded) {
		return "", false
	}
	return Code(folded), true
}

// IsValid reports whether s is exactly 4-6 ASCII decimal digits.
func IsValid(s string) bool {
	return Pattern.MatchString(s)
}

// Parse normalizes raw input and validates it.
func Parse(raw string) (Code, error) {
	s := Normalize(raw)
	if !IsValid(s) {
		return "", &InvalidFormatError{Input: s}
	}
	return Code(s), nil
}

// MustParse is Parse for literals; it panics on invalid input.
func MustParse(raw string) Code {
	c, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return c
}
