// Package validation holds the form-field validators used by the admin
// handlers. Each validator trims its input and returns a user-facing message,
// or "" when the value is acceptable.
package validation

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Validator checks a single string value and returns a message when invalid.
type Validator func(v string) string

// Lengths count runes so multi-byte input is not penalized.
func overLimit(v string, maxLen int) bool {
	return utf8.RuneCountInString(v) > maxLen
}

func lengthMsg(fieldName string, maxLen int) string {
	return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
}

// Required rejects empty values and values longer than maxLen characters.
func Required(fieldName string, maxLen int) Validator {
	return func(v string) string {
		switch v = strings.TrimSpace(v); {
		case v == "":
			return fieldName + " is required."
		case overLimit(v, maxLen):
			return lengthMsg(fieldName, maxLen)
		}
		return ""
	}
}

// RequiredRange rejects empty values and values outside minLen..maxLen
// characters.
func RequiredRange(fieldName string, minLen, maxLen int) Validator {
	return func(v string) string {
		switch v = strings.TrimSpace(v); {
		case v == "":
			return fieldName + " is required."
		case utf8.RuneCountInString(v) < minLen || overLimit(v, maxLen):
			return fmt.Sprintf("%s must be between %d and %d characters.", fieldName, minLen, maxLen)
		}
		return ""
	}
}

// IntRange requires an integer between minVal and maxVal inclusive.
func IntRange(fieldName string, minVal, maxVal int) Validator {
	return func(v string) string {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		switch {
		case err != nil:
			return fieldName + " must be a number."
		case n < minVal || n > maxVal:
			return fmt.Sprintf("%s must be between %d and %d.", fieldName, minVal, maxVal)
		}
		return ""
	}
}

// HTTPSURL requires an absolute http or https URL no longer than maxLen
// characters.
func HTTPSURL(fieldName string, maxLen int) Validator {
	return func(v string) string {
		switch v = strings.TrimSpace(v); {
		case v == "":
			return fieldName + " is required."
		case overLimit(v, maxLen):
			return lengthMsg(fieldName, maxLen)
		case !isHTTPURL(v):
			return "Enter a valid http(s) URL."
		}
		return ""
	}
}

func isHTTPURL(v string) bool {
	u, err := url.Parse(v)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// Email requires an RFC 5322 address no longer than maxLen characters.
func Email(fieldName string, maxLen int) Validator {
	return func(v string) string {
		switch v = strings.TrimSpace(v); {
		case v == "":
			return fieldName + " is required."
		case overLimit(v, maxLen):
			return lengthMsg(fieldName, maxLen)
		}
		if _, err := mail.ParseAddress(v); err != nil {
			return "Enter a valid email address."
		}
		return ""
	}
}

// OneOf requires the value to match one of options, comparing
// case-insensitively. The message lists the options as given.
func OneOf(fieldName string, options []string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		ok := slices.ContainsFunc(options, func(opt string) bool { return strings.EqualFold(v, opt) })
		if !ok {
			return fmt.Sprintf("%s must be one of: %s", fieldName, strings.Join(options, ", "))
		}
		return ""
	}
}

// Pattern requires non-empty values to match re. Empty values pass, so pair
// it with Required when the field is mandatory.
func Pattern(fieldName string, re *regexp.Regexp) Validator {
	return func(v string) string {
		if v = strings.TrimSpace(v); v != "" && !re.MatchString(v) {
			return fieldName + " has an invalid format."
		}
		return ""
	}
}

// Optional allows empty values but caps non-empty ones at maxLen characters.
func Optional(fieldName string, maxLen int) Validator {
	return func(v string) string {
		if v = strings.TrimSpace(v); v != "" && overLimit(v, maxLen) {
			return lengthMsg(fieldName, maxLen)
		}
		return ""
	}
}

// FieldValidator collects at most one message per form field.
type FieldValidator struct {
	errors map[string]string
}

func New() *FieldValidator {
	return &FieldValidator{errors: map[string]string{}}
}

// Validate runs the validators in order and records the first failure, if
// any, under field. It returns fv for chaining.
func (fv *FieldValidator) Validate(field, value string, validators ...Validator) *FieldValidator {
	if _, dup := fv.errors[field]; dup {
		return fv
	}
	for _, check := range validators {
		if msg := check(value); msg != "" {
			fv.errors[field] = msg
			break
		}
	}
	return fv
}

// Errors returns the accumulated messages keyed by field name.
func (fv *FieldValidator) Errors() map[string]string {
	return fv.errors
}
