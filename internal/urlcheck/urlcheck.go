// Package urlcheck performs structural validation of submitted URLs.
package urlcheck

import (
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxLength is the longest URL accepted.
const MaxLength = 2083

var validate = validator.New()

var (
	labelPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)
	tldPattern   = regexp.MustCompile(`^([a-z]{2,}|xn--[a-z0-9-]{2,})$`)
)

// Valid reports whether candidate is an absolute http(s) URL with a
// fully-qualified host and no embedded credentials.
func Valid(candidate string) bool {
	if candidate == "" || len(candidate) > MaxLength {
		return false
	}

	if strings.ContainsAny(candidate, " \t\r\n") || strings.HasPrefix(candidate, "//") {
		return false
	}

	if err := validate.Var(candidate, "required,url"); err != nil {
		return false
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return false
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return false
	}

	if u.Opaque != "" || u.User != nil || u.Host == "" {
		return false
	}

	if port := u.Port(); port != "" && !validPort(port) {
		return false
	}

	// a bare trailing colon leaves Port() empty
	if strings.HasSuffix(u.Host, ":") {
		return false
	}

	return validHost(u.Hostname())
}

func validPort(port string) bool {
	n, err := strconv.Atoi(port)

	return err == nil && n > 0 && n <= 65535
}

func validHost(host string) bool {
	if host == "" {
		return false
	}

	if ip := net.ParseIP(host); ip != nil {
		return true
	}

	return validFQDN(strings.ToLower(host))
}

func validFQDN(host string) bool {
	if strings.HasSuffix(host, ".") || strings.Contains(host, "_") {
		return false
	}

	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return false
	}

	for _, label := range labels {
		if !labelPattern.MatchString(label) {
			return false
		}
	}

	return tldPattern.MatchString(labels[len(labels)-1])
}
