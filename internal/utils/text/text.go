// Package text holds the plain-text helpers shared by the collectors.
package text

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripHTML returns the visible text of an HTML fragment with whitespace
// collapsed. Script and style contents are dropped. Input that is not HTML
// comes back trimmed and collapsed.
func StripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return CollapseSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return CollapseSpace(fragment)
	}
	doc.Find("script, style, noscript").Remove()
	// ブロック要素の境界で単語が連結しないよう空白を挟む
	doc.Find("p, br, div, li, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	return CollapseSpace(doc.Text())
}

// CollapseSpace replaces every run of whitespace with one space and trims
// the ends.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CountRunes counts Unicode characters rather than bytes.
func CountRunes(s string) int {
	return len([]rune(s))
}

// Truncate shortens s to at most n runes, appending "..." when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
