package locale

import "testing"

func TestComputeCoverage_LunchExample(t *testing.T) {
	// title, one section, one item with an empty description
	src := Fields{
		{Default: "Lunch"},
		{Default: "Main", EN: "Main"},
		{Default: "Burger", EN: ""},
		{Default: ""},
	}

	cov := ComputeCoverage(src)

	en := cov[EN]
	if en.Filled != 1 || en.Total != 3 || en.Percent != 33 {
		t.Errorf("en coverage = %+v, want {1 3 33}", en)
	}
	zh := cov[ZH]
	if zh.Filled != 0 || zh.Total != 3 || zh.Percent != 0 {
		t.Errorf("zh coverage = %+v, want {0 3 0}", zh)
	}
}

func TestComputeCoverage_TracksFixedLanguages(t *testing.T) {
	cov := ComputeCoverage(Fields{{Default: "x", "fr": "y"}})

	if len(cov) != len(Tracked) {
		t.Fatalf("expected %d languages, got %d", len(Tracked), len(cov))
	}
	if _, ok := cov[Default]; ok {
		t.Error("default must not be reported")
	}
	if _, ok := cov["fr"]; ok {
		t.Error("untracked languages must not be reported")
	}
}

func TestComputeCoverage_NoCountableFields(t *testing.T) {
	for name, src := range map[string]Source{
		"nil source":    nil,
		"empty":         Fields{},
		"blank default": Fields{{Default: "  ", EN: "Hello"}},
	} {
		t.Run(name, func(t *testing.T) {
			for lang, c := range ComputeCoverage(src) {
				if c != (Coverage{}) {
					t.Errorf("%s: expected zero coverage, got %+v", lang, c)
				}
			}
		})
	}
}

func TestComputeCoverage_Rounding(t *testing.T) {
	src := Fields{
		{Default: "a", JA: "a"},
		{Default: "b", JA: "b"},
		{Default: "c"},
	}
	if got := ComputeCoverage(src)[JA]; got.Percent != 67 {
		t.Errorf("expected 2/3 to round to 67, got %d", got.Percent)
	}

	full := Fields{{Default: "a", KO: "가"}}
	if got := ComputeCoverage(full)[KO]; got.Percent != 100 || got.Filled != got.Total {
		t.Errorf("expected full coverage, got %+v", got)
	}
}

func TestComputeCoverage_Bounds(t *testing.T) {
	src := Fields{
		{Default: "a", EN: "a", ZH: " ", "zh-CN": "x"},
		{Default: "", EN: "orphan"},
		{Default: "b", EN: "b", ZHTW: "b"},
	}
	for lang, c := range ComputeCoverage(src) {
		if c.Filled > c.Total {
			t.Errorf("%s: filled %d exceeds total %d", lang, c.Filled, c.Total)
		}
		if c.Percent < 0 || c.Percent > 100 {
			t.Errorf("%s: percent %d out of range", lang, c.Percent)
		}
	}
}
