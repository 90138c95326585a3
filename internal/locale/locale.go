package locale

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Lang is a display language key
type Lang string

const (
	Default Lang = "default"
	EN      Lang = "en"
	ZH      Lang = "zh"
	JA      Lang = "ja"
	KO      Lang = "ko"
	ZHCN    Lang = "zh-CN"
	ZHTW    Lang = "zh-TW"
)

// Tracked lists the translation languages reported by coverage, in display order.
// The set is fixed and never derived from board content.
var Tracked = []Lang{EN, ZH, JA, KO, ZHCN, ZHTW}

var labels = map[Lang]string{
	Default: "기본",
	EN:      "English",
	ZH:      "中文",
	JA:      "日本語",
	KO:      "한국어",
	ZHCN:    "简体中文",
	ZHTW:    "繁體中文",
}

// Label returns the name shown in a language switcher
func Label(l Lang) string {
	if s, ok := labels[l]; ok {
		return s
	}
	return string(l)
}

// Parse validates a language key. Unknown keys resolve to Default.
func Parse(s string) (Lang, bool) {
	l := Lang(s)
	if _, ok := labels[l]; ok {
		return l, true
	}
	return Default, false
}

// Resolver is anything GetText can pull display text from
type Resolver interface {
	resolve(lang, fallback Lang) string
}

// Plain is an unlocalized string; it always resolves to itself.
type Plain string

func (p Plain) resolve(Lang, Lang) string { return string(p) }

// Text maps language keys to text. The Default key is always present after
// decoding, possibly as an empty string.
type Text map[Lang]string

// NewText builds a Text with the given default value.
func NewText(def string) Text {
	return Text{Default: def}
}

// UnmarshalJSON accepts either an object of language keys or a bare string,
// which becomes the default text.
func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text{Default: s}
		return nil
	}

	var m map[Lang]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if m == nil {
		m = map[Lang]string{}
	}
	if _, ok := m[Default]; !ok {
		m[Default] = ""
	}
	*t = m
	return nil
}

// Has reports whether lang holds non-blank text.
func (t Text) Has(lang Lang) bool {
	return strings.TrimSpace(t[lang]) != ""
}

// Countable reports whether the field takes part in coverage.
func (t Text) Countable() bool {
	return t.Has(Default)
}

// Clone returns an independent copy
func (t Text) Clone() Text {
	if t == nil {
		return nil
	}
	out := make(Text, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

func (t Text) resolve(lang, fallback Lang) string {
	if t.Has(lang) {
		return t[lang]
	}
	if t.Has(fallback) {
		return t[fallback]
	}
	return strings.TrimSpace(t[Default])
}

// GetText picks display text for lang. A blank value at any tier counts as
// missing; the order is lang, then fallback (Default when omitted), then the
// trimmed default, then "". Plain strings come back unchanged.
func GetText(r Resolver, lang Lang, fallback ...Lang) string {
	if r == nil {
		return ""
	}
	fb := Default
	if len(fallback) > 0 {
		fb = fallback[0]
	}
	return r.resolve(lang, fb)
}

// Detect chooses a display language from an Accept-Language header value.
// Entries are tried in q-weight order; q=0 entries are skipped. Simplified
// and traditional Chinese tags map to their regional keys; any other Chinese
// tag maps to ZH.
func Detect(acceptLanguage string) Lang {
	type candidate struct {
		tag string
		q   float64
	}
	var cands []candidate
	for _, part := range strings.Split(acceptLanguage, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tag, params, _ := strings.Cut(part, ";")
		q := 1.0
		if v, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				q = f
			}
		}
		// q=0 marks the language as not acceptable
		if q <= 0 {
			continue
		}
		cands = append(cands, candidate{tag: strings.TrimSpace(tag), q: q})
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].q > cands[j].q })

	for _, c := range cands {
		if l, ok := match(c.tag); ok {
			return l
		}
	}
	return Default
}

func match(tag string) (Lang, bool) {
	lower := strings.ToLower(tag)
	switch {
	case lower == "zh-cn" || lower == "zh-hans" || strings.HasPrefix(lower, "zh-hans-"):
		return ZHCN, true
	case lower == "zh-tw" || lower == "zh-hk" || lower == "zh-hant" || strings.HasPrefix(lower, "zh-hant-"):
		return ZHTW, true
	case strings.HasPrefix(lower, "zh"):
		return ZH, true
	case strings.HasPrefix(lower, "en"):
		return EN, true
	case strings.HasPrefix(lower, "ja"):
		return JA, true
	case strings.HasPrefix(lower, "ko"):
		return KO, true
	}
	return "", false
}
