package errors

import (
	"net/url"
	"unicode"
)

// maxIDLength bounds node, document and graph identifiers.
const maxIDLength = 256

// ValidateID checks an identifier supplied from outside. what names the
// identifier in the error ("node id", "document id").
func ValidateID(what, id string) error {
	switch {
	case id == "":
		return New(ErrCodeInvalidInput, "%s cannot be empty", what)
	case len(id) > maxIDLength:
		return New(ErrCodeInvalidInput, "%s too long (max %d characters)", what, maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s %q contains control characters", what, id)
		}
	}
	return nil
}

// ValidateURL checks that raw is an absolute http or https URL with a host.
// what names the setting in the error ("llm.base_url").
func ValidateURL(what, raw string) error {
	if raw == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", what)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "%s is not a URL", what)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "%s must use http or https, got %q", what, u.Scheme)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "%s has no host", what)
	}
	return nil
}
