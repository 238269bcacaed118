// Package candidate turns raw address lines into concrete proxy URLs.
package candidate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"dot5/internal/model"
)

// DefaultScheme is the proxy scheme used when none is configured.
const DefaultScheme = "http"

// addressRe accepts [user:pass@]a.b.c.d[:port]. Octet values are not range
// checked here; a bad address simply fails to connect later.
var addressRe = regexp.MustCompile(
	`^(?:(?P<user>[^:@\s]+):(?P<pass>[^:@\s]+)@)?(?P<ip>\d{1,3}(?:\.\d{1,3}){3})(?::(?P<port>\d{1,5}))?$`,
)

// Address is the parsed form of one input line.
type Address struct {
	User string
	Pass string
	IP   string
	Port string // empty when the line carried no port
}

// HasPort reports whether the line specified a port.
func (a Address) HasPort() bool { return a.Port != "" }

func (a Address) proxyURL(scheme, port string) string {
	creds := ""
	if a.User != "" && a.Pass != "" {
		creds = a.User + ":" + a.Pass + "@"
	}
	return fmt.Sprintf("%s://%s%s:%s", scheme, creds, a.IP, port)
}

// Parse matches a single line against the address grammar. Surrounding
// whitespace is ignored; ok is false for blank or malformed lines.
func Parse(line string) (Address, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Address{}, false
	}
	m := addressRe.FindStringSubmatch(line)
	if m == nil {
		return Address{}, false
	}
	return Address{
		User: m[addressRe.SubexpIndex("user")],
		Pass: m[addressRe.SubexpIndex("pass")],
		IP:   m[addressRe.SubexpIndex("ip")],
		Port: m[addressRe.SubexpIndex("port")],
	}, true
}

// Normalize expands lines into http proxy candidates. See NormalizeScheme.
func Normalize(lines []string, tryPorts []int) []model.Candidate {
	return NormalizeScheme(lines, tryPorts, DefaultScheme)
}

// NormalizeScheme expands each parseable line into candidates using the
// given proxy scheme. A line with a port yields one "provided" candidate;
// a bare line yields one "generated" candidate per entry of tryPorts, each
// carrying the whole tryPorts list. Candidates are deduplicated on the exact
// proxy URL string, keeping the first one seen.
func NormalizeScheme(lines []string, tryPorts []int, scheme string) []model.Candidate {
	if scheme == "" {
		scheme = DefaultScheme
	}

	var all []model.Candidate
	for _, line := range lines {
		addr, ok := Parse(line)
		if !ok {
			continue
		}
		input := strings.TrimSpace(line)

		if addr.HasPort() {
			port, _ := strconv.Atoi(addr.Port)
			all = append(all, model.Candidate{
				Input:      input,
				Proxy:      addr.proxyURL(scheme, addr.Port),
				Source:     model.SourceProvided,
				PortsTried: []int{port},
			})
			continue
		}

		for _, p := range tryPorts {
			all = append(all, model.Candidate{
				Input:      input,
				Proxy:      addr.proxyURL(scheme, strconv.Itoa(p)),
				Source:     model.SourceGenerated,
				PortsTried: append([]int(nil), tryPorts...),
			})
		}
	}

	seen := make(map[string]bool, len(all))
	unique := make([]model.Candidate, 0, len(all))
	for _, c := range all {
		if seen[c.Proxy] {
			continue
		}
		seen[c.Proxy] = true
		unique = append(unique, c)
	}
	return unique
}
