package common

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"

	"github.com/go-chi/chi/v5"
)

var codePattern = regexp.MustCompile(`^[a-z0-9_]{2,64}$`)

// GetCodeParam extracts and decodes a state or district code from the URL.
// Codes are lower case letters, digits and underscores.
func GetCodeParam(r *http.Request, paramName string) (string, error) {
	decoded, err := url.PathUnescape(chi.URLParam(r, paramName))
	if err != nil {
		return "", fmt.Errorf("invalid URL encoding in %s", paramName)
	}
	if decoded == "" {
		return "", fmt.Errorf("%s cannot be empty", paramName)
	}
	if !codePattern.MatchString(decoded) {
		return "", fmt.Errorf("%s must contain only lower case letters, digits and underscores", paramName)
	}
	return decoded, nil
}
