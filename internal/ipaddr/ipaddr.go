// Package ipaddr canonicalizes textual IPv4 and IPv6 addresses so that every
// spelling of an address maps to one form. Anonymous editors' user pages are
// keyed by that form.
package ipaddr

import (
	"regexp"
	"strings"
)

const (
	// octet allows up to two leading zeros.
	octet = `(?:25[0-5]|2[0-4][0-9]|1[0-9][0-9]|0?[0-9]?[0-9])`
	ipv4  = octet + `\.` + octet + `\.` + octet + `\.` + octet

	h16      = `[0-9A-Fa-f]{1,4}`
	embedded = `(?:25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)(?:\.(?:25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)){3}`

	ipv6 = `(?:` +
		`(?:(?:` + h16 + `:){7}(?:` + h16 + `|:))` +
		`|(?:(?:` + h16 + `:){6}(?::` + h16 + `|` + embedded + `|:))` +
		`|(?:(?:` + h16 + `:){5}(?:(?::` + h16 + `){1,2}|:` + embedded + `|:))` +
		`|(?:(?:` + h16 + `:){4}(?:(?::` + h16 + `){1,3}|(?::` + h16 + `)?:` + embedded + `|:))` +
		`|(?:(?:` + h16 + `:){3}(?:(?::` + h16 + `){1,4}|(?::` + h16 + `){0,2}:` + embedded + `|:))` +
		`|(?:(?:` + h16 + `:){2}(?:(?::` + h16 + `){1,5}|(?::` + h16 + `){0,3}:` + embedded + `|:))` +
		`|(?:(?:` + h16 + `:){1}(?:(?::` + h16 + `){1,6}|(?::` + h16 + `){0,4}:` + embedded + `|:))` +
		`|(?::(?:(?::` + h16 + `){1,7}|(?::` + h16 + `){0,5}:` + embedded + `|:))` +
		`)`

	zone      = `(?:%.+)?`
	prefixLen = `(?:/(?:12[0-8]|1[01][0-9]|[1-9]?\d))?`
)

var (
	ipv4Pattern = regexp.MustCompile(`^` + ipv4 + `$`)
	ipv6Pattern = regexp.MustCompile(`^` + ipv6 + zone + prefixLen + `$`)
)

// groups is the number of hextets in a full IPv6 address.
const groups = 8

// IsIP reports whether s is an IPv4 address or an IPv6 address, the latter
// optionally followed by a %zone and a /prefix length.
func IsIP(s string) bool {
	return ipv4Pattern.MatchString(s) || ipv6Pattern.MatchString(s)
}

// Sanitize returns the canonical spelling of an IP address. Surrounding
// whitespace is trimmed. Input that is not an IP address is returned as is,
// since callers pass arbitrary user names through here.
//
// IPv4 octets lose their leading zeros. IPv6 addresses are upper-cased, any
// "::" is expanded to the missing zero groups, and each group loses its
// leading zeros. A zone or prefix length is kept.
func Sanitize(s string) string {
	ip := strings.TrimSpace(s)

	if ipv4Pattern.MatchString(ip) {
		return sanitizeIPv4(ip)
	}
	if ipv6Pattern.MatchString(ip) {
		return sanitizeIPv6(ip)
	}
	return ip
}

func sanitizeIPv4(ip string) string {
	octets := strings.Split(ip, ".")
	for i, o := range octets {
		octets[i] = trimZeros(o)
	}
	return strings.Join(octets, ".")
}

func sanitizeIPv6(ip string) string {
	ip = strings.ToUpper(ip)

	addr, suffix := ip, ""
	if i := strings.IndexAny(ip, "%/"); i >= 0 {
		addr, suffix = ip[:i], ip[i:]
	}

	var parts []string
	if head, tail, found := strings.Cut(addr, "::"); found {
		left, right := splitGroups(head), splitGroups(tail)
		have := len(left) + len(right)
		// A dotted quad tail fills two hextets.
		if last := lastGroup(left, right); strings.Contains(last, ".") {
			have++
		}
		parts = make([]string, 0, groups)
		parts = append(parts, left...)
		for i := have; i < groups; i++ {
			parts = append(parts, "0")
		}
		parts = append(parts, right...)
	} else {
		parts = strings.Split(addr, ":")
	}

	for i, p := range parts {
		// An embedded IPv4 tail is kept as written.
		if strings.Contains(p, ".") {
			continue
		}
		parts[i] = trimZeros(p)
	}
	return strings.Join(parts, ":") + suffix
}

func lastGroup(left, right []string) string {
	if len(right) > 0 {
		return right[len(right)-1]
	}
	if len(left) > 0 {
		return left[len(left)-1]
	}
	return ""
}

func splitGroups(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ":")
}

// trimZeros strips leading zeros, leaving at least one digit.
func trimZeros(s string) string {
	if t := strings.TrimLeft(s, "0"); t != "" {
		return t
	}
	return "0"
}
