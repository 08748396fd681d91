package richtext

import (
	"net/url"
	"strings"

	"github.com/athapong/aio-richtext/pkg/styledtext"
)

// ConfirmationScheme is the scheme of links rewritten by
// DetectPhishingAttempts. A surface opening one asks the user before
// following internalURL.
const ConfirmationScheme = "confirm"

// DetectPhishingAttempts rewrites every link whose visible text is itself a
// URL naming a different host than the link target, so that
// <a href="https://evil.com">https://good.com</a> cannot be followed
// without confirmation. Other links are untouched.
func DetectPhishingAttempts(st styledtext.StyledText) styledtext.StyledText {
	st, _ = detectPhishingAttempts(st)
	return st
}

func detectPhishingAttempts(st styledtext.StyledText) (styledtext.StyledText, int) {
	flagged := 0
	for r, v := range st.EnumerateAttribute(styledtext.KeyLink, st.FullRange()) {
		target, ok := v.(string)
		if !ok {
			continue
		}
		display := st.Substring(r)
		if !isPhishingAttempt(display, target) {
			continue
		}
		st = st.SetAttribute(styledtext.KeyLink, confirmationLink(target, display), r)
		flagged++
	}
	return st, flagged
}

// isPhishingAttempt reports whether display reads as a web link to a host
// other than the one target points at.
func isPhishingAttempt(display, target string) bool {
	display = strings.TrimSpace(display)
	if display == "" || strings.HasPrefix(target, ConfirmationScheme+":") {
		return false
	}

	var shown string
	for _, c := range findWebLinks(display) {
		if c.start == 0 && strings.Trim(display[c.end:], trailingPunctuation) == "" {
			shown = c.target
			break
		}
	}
	if shown == "" {
		return false
	}
	return linkHost(shown) != linkHost(target)
}

// linkHost returns the lower-cased host of link without a leading "www.",
// or "" when link has none.
func linkHost(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func confirmationLink(internalURL, displayString string) string {
	u := url.URL{
		Scheme: ConfirmationScheme,
		RawQuery: url.Values{
			"internalURL":   {internalURL},
			"displayString": {displayString},
		}.Encode(),
	}
	return u.String()
}

// ParseConfirmationLink returns the real target and the displayed text of a
// link rewritten by DetectPhishingAttempts.
func ParseConfirmationLink(link string) (internalURL, displayString string, ok bool) {
	u, err := url.Parse(link)
	if err != nil || u.Scheme != ConfirmationScheme {
		return "", "", false
	}
	q := u.Query()
	internalURL = q.Get("internalURL")
	return internalURL, q.Get("displayString"), internalURL != ""
}
