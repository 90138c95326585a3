package locale

import "math"

// Source exposes the localized fields of a document in walk order
type Source interface {
	LocalizedFields() []Text
}

// Coverage is the translation completeness of one language
type Coverage struct {
	Filled  int `json:"filled"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

// BoardCoverage holds one entry per tracked language
type BoardCoverage map[Lang]Coverage

// ComputeCoverage counts, for every tracked language, how many countable
// fields carry a translation. Fields with a blank default are not countable.
func ComputeCoverage(src Source) BoardCoverage {
	var countables []Text
	if src != nil {
		for _, f := range src.LocalizedFields() {
			if f.Countable() {
				countables = append(countables, f)
			}
		}
	}
	total := len(countables)

	result := make(BoardCoverage, len(Tracked))
	for _, lang := range Tracked {
		filled := 0
		for _, f := range countables {
			if f.Has(lang) {
				filled++
			}
		}
		result[lang] = Coverage{Filled: filled, Total: total, Percent: percent(filled, total)}
	}
	return result
}

func percent(filled, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(filled) / float64(total) * 100))
}

// Fields is a ready-made Source over a flat list
type Fields []Text

func (f Fields) LocalizedFields() []Text { return f }
