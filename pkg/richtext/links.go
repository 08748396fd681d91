package richtext

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/net/publicsuffix"

	"github.com/athapong/aio-richtext/pkg/styledtext"
)

var (
	schemeURLPattern  = regexp.MustCompile(`(?i)\b(?:https?|ftp)://[^\s<>"]+`)
	wwwPattern        = regexp.MustCompile(`(?i)\bwww\.[^\s<>"]+`)
	bareDomainPattern = regexp.MustCompile(`(?i)\b(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,63}(?::\d{1,5})?(?:/[^\s<>"]*)?`)
)

var webSchemes = map[string]bool{"http": true, "https": true, "ftp": true}

// Generic top-level domains that are more often file extensions in chat.
var fileExtensionSuffixes = mapset.NewSet("zip", "mov")

const trailingPunctuation = `.,;:!?'"`

// Link is a detected link: the characters it covers and its target.
type Link struct {
	Range  styledtext.Range `json:"range"`
	Target string           `json:"target"`
}

// Linker finds URL-shaped text and Matrix identifiers. It holds no mutable
// state and is safe for concurrent use.
type Linker struct {
	permalinkBase string
}

// NewLinker returns a Linker that points Matrix identifiers at
// permalinkBase. An empty base selects DefaultPermalinkBase.
func NewLinker(permalinkBase string) *Linker {
	if permalinkBase == "" {
		permalinkBase = DefaultPermalinkBase
	}
	return &Linker{permalinkBase: permalinkBase}
}

var defaultLinker = NewLinker(DefaultPermalinkBase)

// CreateLinks adds link attributes using the default Linker.
func CreateLinks(st styledtext.StyledText) styledtext.StyledText {
	return defaultLinker.CreateLinks(st)
}

// CreateLinks sets the link attribute over every detected link. Text that
// already carries a link or is code is never touched, and no other
// attribute changes.
func (l *Linker) CreateLinks(st styledtext.StyledText) styledtext.StyledText {
	return ApplyLinks(st, l.Links(st))
}

// ApplyLinks sets the link attribute for each of links.
func ApplyLinks(st styledtext.StyledText, links []Link) styledtext.StyledText {
	for _, link := range links {
		st = st.SetAttribute(styledtext.KeyLink, link.Target, link.Range)
	}
	return st
}

// candidate is a match in byte offsets of the plain string.
type candidate struct {
	start, end int
	target     string
}

// Links returns the links CreateLinks would add, in text order. Overlapping
// candidates resolve to the longest one starting earliest.
func (l *Linker) Links(st styledtext.StyledText) []Link {
	if st.IsEmpty() {
		return nil
	}
	s := st.String()

	var cands []candidate
	cands = append(cands, findWebLinks(s)...)
	cands = append(cands, l.findMatrixLinks(s)...)
	if len(cands) == 0 {
		return nil
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].start != cands[j].start {
			return cands[i].start < cands[j].start
		}
		return cands[i].end-cands[i].start > cands[j].end-cands[j].start
	})

	offsets := runeOffsets(s)
	var (
		links []Link
		last  = -1
	)
	for _, c := range cands {
		if c.start < last {
			continue
		}
		r := styledtext.Range{Start: offsets[c.start], Length: offsets[c.end] - offsets[c.start]}
		last = c.end
		if st.HasAttribute(styledtext.KeyLink, r) || st.HasAttribute(styledtext.KeyCode, r) {
			continue
		}
		links = append(links, Link{Range: r, Target: c.target})
	}
	return links
}

func findWebLinks(s string) []candidate {
	var out []candidate
	for _, m := range schemeURLPattern.FindAllStringIndex(s, -1) {
		if c, ok := webCandidate(s, m[0], m[1], ""); ok {
			out = append(out, c)
		}
	}
	for _, m := range wwwPattern.FindAllStringIndex(s, -1) {
		if !boundaryBefore(s, m[0]) {
			continue
		}
		if c, ok := webCandidate(s, m[0], m[1], "https://"); ok {
			out = append(out, c)
		}
	}
	for _, m := range bareDomainPattern.FindAllStringIndex(s, -1) {
		if !boundaryBefore(s, m[0]) || !boundaryAfter(s, m[1]) {
			continue
		}
		if c, ok := webCandidate(s, m[0], m[1], "https://"); ok && isBareLinkHost(c.target) {
			out = append(out, c)
		}
	}
	return out
}

func webCandidate(s string, start, end int, prefix string) (candidate, bool) {
	end = trimLinkEnd(s, start, end)
	if end <= start {
		return candidate{}, false
	}
	u, err := url.Parse(prefix + s[start:end])
	if err != nil || !webSchemes[strings.ToLower(u.Scheme)] || !strings.Contains(u.Hostname(), ".") {
		return candidate{}, false
	}
	return candidate{start: start, end: end, target: u.String()}, true
}

// isBareLinkHost reports whether a domain written without scheme or www is
// likely meant as a link: its host must end in a public suffix run by ICANN
// with a label in front of it. Two-letter country suffixes and suffixes that
// double as file extensions (readme.md, setup.py, notes.zip) also need a
// path or port.
func isBareLinkHost(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	suffix, icann := publicsuffix.PublicSuffix(host)
	if !icann || suffix == host {
		return false
	}
	if len(suffix) == 2 || fileExtensionSuffixes.Contains(suffix) {
		return u.Port() != "" || (u.Path != "" && u.Path != "/")
	}
	return true
}

// boundaryAfter rejects bare matches that continue into a larger token,
// such as the local part of an email address.
func boundaryAfter(s string, end int) bool {
	if end >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[end:])
	return r != '@'
}

// boundaryBefore reports whether a bare match at start is not the tail of
// a larger token such as an email address or a path.
func boundaryBefore(s string, start int) bool {
	if start == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:start])
	switch r {
	case '@', '.', '/', ':', '-', '_', '#':
		return false
	}
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// trimLinkEnd drops sentence punctuation and unbalanced closing brackets
// from the end of s[start:end].
func trimLinkEnd(s string, start, end int) int {
	for end > start {
		last := s[end-1]
		switch {
		case strings.IndexByte(trailingPunctuation, last) >= 0:
			end--
		case last == ')' && unbalanced(s[start:end], '(', ')'),
			last == ']' && unbalanced(s[start:end], '[', ']'),
			last == '}' && unbalanced(s[start:end], '{', '}'):
			end--
		default:
			return end
		}
	}
	return end
}

func unbalanced(s string, open, close byte) bool {
	return strings.Count(s, string(close)) > strings.Count(s, string(open))
}

// runeOffsets maps byte offsets of s that start a character, and len(s),
// to character offsets.
func runeOffsets(s string) []int {
	offsets := make([]int, len(s)+1)
	n := 0
	for i := range s {
		offsets[i] = n
		n++
	}
	offsets[len(s)] = n
	return offsets
}
