// Package importurl validates the URLs accepted by Ruchy's `import "url"`
// statement.
package importurl

import (
	"fmt"
	"strings"
)

var suspiciousPatterns = []string{"javascript:", "data:", "file:"}

// Validate runs every check an import URL must pass, returning the first
// violation found: scheme, then extension, then path safety, then
// suspicious substrings.
func Validate(url string) error {
	if err := validateScheme(url); err != nil {
		return err
	}
	if err := validateExtension(url); err != nil {
		return err
	}
	if err := validatePathSafety(url); err != nil {
		return err
	}
	return validateNoSuspiciousPatterns(url)
}

// IsValidScheme reports whether url uses https, or http restricted to
// localhost/127.0.0.1 for local development.
func IsValidScheme(url string) bool {
	return strings.HasPrefix(url, "https://") ||
		strings.HasPrefix(url, "http://localhost") ||
		strings.HasPrefix(url, "http://127.0.0.1")
}

func validateScheme(url string) error {
	if IsValidScheme(url) {
		return nil
	}
	return fmt.Errorf("URL imports must use HTTPS for security (except for localhost). Got: %s", url)
}

func validateExtension(url string) error {
	if strings.HasSuffix(url, ".ruchy") || strings.HasSuffix(url, ".rchy") {
		return nil
	}
	return fmt.Errorf("URL imports must reference .ruchy or .rchy files. Got: %s", url)
}

func validatePathSafety(url string) error {
	if strings.Contains(url, "..") || strings.Contains(url, "/.") {
		return fmt.Errorf("URL imports cannot contain path traversal sequences (.. or /.): %s", url)
	}
	return nil
}

func validateNoSuspiciousPatterns(url string) error {
	for _, pat := range suspiciousPatterns {
		if strings.Contains(url, pat) {
			return fmt.Errorf("invalid URL scheme for import")
		}
	}
	return nil
}
