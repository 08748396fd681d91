package richtext

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultPermalinkBase prefixes permalinks to Matrix users and rooms.
const DefaultPermalinkBase = "https://matrix.to/#/"

var (
	matrixServer        = `[a-z0-9](?:[a-z0-9.\-]*[a-z0-9])?(?::\d{1,5})?`
	matrixUserPattern   = regexp.MustCompile(`(?i)@[a-z0-9._=\-/+]+:` + matrixServer)
	matrixAliasPattern  = regexp.MustCompile(`(?i)#[a-z0-9._=\-+]+:` + matrixServer)
	matrixURIPattern    = regexp.MustCompile(`(?i)\bmatrix:(?:u|r|roomid)/[^\s<>"]+`)
	matrixURIKindPrefix = []string{"u/", "r/", "roomid/"}
)

func (l *Linker) findMatrixLinks(s string) []candidate {
	var out []candidate
	for _, p := range []*regexp.Regexp{matrixUserPattern, matrixAliasPattern} {
		for _, m := range p.FindAllStringIndex(s, -1) {
			if !identifierBoundary(s, m[0]) {
				continue
			}
			end := trimLinkEnd(s, m[0], m[1])
			id := s[m[0]:end]
			if !validServerName(id) {
				continue
			}
			if target, ok := l.permalink(id); ok {
				out = append(out, candidate{start: m[0], end: end, target: target})
			}
		}
	}
	for _, m := range matrixURIPattern.FindAllStringIndex(s, -1) {
		end := trimLinkEnd(s, m[0], m[1])
		u, err := url.Parse(s[m[0]:end])
		if err != nil || u.Scheme != "matrix" || !hasMatrixURIKind(u.Opaque) {
			continue
		}
		out = append(out, candidate{start: m[0], end: end, target: u.String()})
	}
	return out
}

// permalink builds the link to a user ID or room alias.
func (l *Linker) permalink(id string) (string, bool) {
	target := l.permalinkBase + strings.Replace(id, "#", "%23", 1)
	if _, err := url.Parse(target); err != nil {
		return "", false
	}
	return target, true
}

// identifierBoundary rejects sigils glued to a preceding word, as in emails.
func identifierBoundary(s string, start int) bool {
	if start == 0 {
		return true
	}
	switch c := s[start-1]; {
	case c == ' ' || c == '\t' || c == '\n' || c == '\r':
		return true
	case strings.IndexByte(`([{<"'`, c) >= 0:
		return true
	}
	return false
}

// validServerName requires the server part of an identifier to be a dotted
// host or to carry a port.
func validServerName(id string) bool {
	_, server, ok := strings.Cut(id, ":")
	if !ok || server == "" {
		return false
	}
	host, port, hasPort := strings.Cut(server, ":")
	if hasPort {
		return host != "" && port != ""
	}
	return strings.Contains(host, ".") && !strings.HasSuffix(host, ".")
}

func hasMatrixURIKind(opaque string) bool {
	for _, prefix := range matrixURIKindPrefix {
		if strings.HasPrefix(opaque, prefix) && len(opaque) > len(prefix) {
			return true
		}
	}
	return false
}
