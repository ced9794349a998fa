package factbook

import (
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"geodata/internal/domain/entity"
	"geodata/internal/usecase/collect"
	"geodata/internal/utils/text"
)

var (
	numberRe    = regexp.MustCompile(`[0-9][0-9,]*(?:\.[0-9]+)?`)
	magnitudeRe = regexp.MustCompile(`^\s*(trillion|billion|million)\b`)
	parenRe     = regexp.MustCompile(`\([^)]*\)`)
	percentRe   = regexp.MustCompile(`[<>]?[0-9.,]+%`)
)

var magnitudes = map[string]float64{
	"trillion": 1e12,
	"billion":  1e9,
	"million":  1e6,
}

var independenceLayouts = []string{"2 January 2006", "January 2, 2006", "January 2006"}

type node = map[string]any

// ParseCountry extracts a country profile from a factbook.json document.
// Fields missing from the document stay empty. ID, DataSourceID and
// LastUpdated are left to the caller.
func ParseCountry(code string, raw []byte) (*entity.CountryProfile, error) {
	var doc node
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", collect.ErrExtractionFailed, code, err)
	}

	p := &entity.CountryProfile{
		Name:           textAt(doc, "Government", "Country name", "conventional short form"),
		OfficialName:   textAt(doc, "Government", "Country name", "conventional long form"),
		Region:         textAt(doc, "Geography", "Map references"),
		Capital:        textAt(doc, "Government", "Capital", "name"),
		GovernmentType: textAt(doc, "Government", "Government type"),
		Currency:       currency(doc),
		Languages:      languages(doc),
	}
	if p.Name == "" || strings.EqualFold(p.Name, "none") {
		p.Name = strings.ToUpper(code)
	}
	if strings.EqualFold(p.OfficialName, "none") {
		p.OfficialName = ""
	}
	p.HeadOfState = officeHolder(textAt(doc, "Government", "Executive branch", "chief of state"))
	p.HeadOfGovernment = officeHolder(textAt(doc, "Government", "Executive branch", "head of government"))

	pop := textAt(doc, "People and Society", "Population")
	if pop == "" {
		pop = textAt(doc, "People and Society", "Population", "total")
	}
	if n, ok := leadingNumber(pop); ok {
		v := int64(n)
		p.Population = &v
	}
	if n, ok := leadingNumber(textAt(doc, "Geography", "Area", "total")); ok {
		p.Area = &n
	}
	if n, ok := money(latestText(lookup(doc, "Economy", "Real GDP (purchasing power parity)"))); ok {
		p.GDP = &n
	}
	p.IndependenceDate = independence(textAt(doc, "Government", "Independence"))
	return p, nil
}

// lookup walks nested objects. Keys match after trimming, since some
// documents carry trailing spaces in section names.
func lookup(n node, path ...string) node {
	cur := n
	for _, key := range path {
		next, ok := cur[key].(node)
		if !ok {
			next = nil
			for k, v := range cur {
				if strings.TrimSpace(k) == key {
					next, _ = v.(node)
					break
				}
			}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

func textOf(n node) string {
	if n == nil {
		return ""
	}
	s, _ := n["text"].(string)
	return text.StripHTML(s)
}

func textAt(n node, path ...string) string {
	return textOf(lookup(n, path...))
}

// latestText returns the text of the child with the greatest key. Yearly
// series are keyed like "Real GDP (purchasing power parity) 2023".
func latestText(n node) string {
	if s := textOf(n); s != "" {
		return s
	}
	keys := make([]string, 0, len(n))
	for k, v := range n {
		if _, ok := v.(node); ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for i := len(keys) - 1; i >= 0; i-- {
		if s := textOf(n[keys[i]].(node)); s != "" {
			return s
		}
	}
	return ""
}

func leadingNumber(s string) (float64, bool) {
	m := numberRe.FindStringIndex(s)
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s[m[0]:m[1]], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// money parses amounts like "$3.764 trillion (2023 est.)".
func money(s string) (float64, bool) {
	m := numberRe.FindStringIndex(s)
	if m == nil {
		return 0, false
	}
	f, ok := leadingNumber(s[m[0]:m[1]])
	if !ok {
		return 0, false
	}
	if mag := magnitudeRe.FindStringSubmatch(s[m[1]:]); mag != nil {
		f *= magnitudes[mag[1]]
	}
	return f, true
}

func currency(doc node) string {
	if s := textAt(doc, "Economy", "Currency"); s != "" {
		return s
	}
	rates := textAt(doc, "Economy", "Exchange rates")
	if i := strings.Index(rates, " per US dollar"); i > 0 {
		return strings.TrimSpace(parenRe.ReplaceAllString(rates[:i], ""))
	}
	return ""
}

func languages(doc node) []string {
	s := textAt(doc, "People and Society", "Languages", "Languages")
	if s == "" {
		s = textAt(doc, "People and Society", "Languages")
	}
	if i := strings.Index(strings.ToLower(s), "note:"); i >= 0 {
		s = s[:i]
	}
	s = parenRe.ReplaceAllString(s, "")
	s = percentRe.ReplaceAllString(s, "")

	out := []string{}
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' }) {
		name := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(part), "."))
		if name == "" || slices.Contains(out, name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

// officeHolder drops the tenure note from "President Emmanuel MACRON (since 14 May 2017)".
func officeHolder(s string) string {
	if i := strings.Index(s, "("); i > 0 {
		s = s[:i]
	}
	if i := strings.Index(s, ";"); i > 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func independence(s string) *time.Time {
	if i := strings.IndexAny(s, "(;"); i > 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	for _, layout := range independenceLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
