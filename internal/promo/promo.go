package promo

import (
	"fmt"
	"math"
	"time"
)

// AllDays is the default day set: every weekday, Sunday first.
var AllDays = []int{0, 1, 2, 3, 4, 5, 6}

// Promotion is a time-boxed percentage discount.
// StartHour and EndHour are inclusive; when StartHour > EndHour the window
// wraps past midnight. Days use time.Weekday numbering (0 = Sunday).
type Promotion struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Percent   float64 `json:"percent"`
	StartHour int     `json:"startHour"`
	EndHour   int     `json:"endHour"`
	Days      []int   `json:"days"`
}

// ActiveAt reports whether the promotion applies at t's local weekday and hour
func (p Promotion) ActiveAt(t time.Time) bool {
	return p.onDay(int(t.Weekday())) && p.inWindow(t.Hour())
}

func (p Promotion) onDay(day int) bool {
	for _, d := range p.Days {
		if d == day {
			return true
		}
	}
	return false
}

func (p Promotion) inWindow(hour int) bool {
	if p.StartHour <= p.EndHour {
		return hour >= p.StartHour && hour <= p.EndHour
	}
	return hour >= p.StartHour || hour <= p.EndHour
}

// Active returns the first promotion in list order that applies at now, or
// nil. Overlapping promotions are resolved by declaration order, not by size
// of discount.
func Active(list []Promotion, now time.Time) *Promotion {
	for i := range list {
		if list[i].ActiveAt(now) {
			return &list[i]
		}
	}
	return nil
}

// Discounted applies percent to a zero-decimal price, rounding to the nearest
// unit and never going below zero.
func Discounted(price int64, percent float64) int64 {
	v := math.Round(float64(price) * (1 - percent/100))
	if v < 0 {
		return 0
	}
	return int64(v)
}

// Validate checks the ranges accepted from editors
func Validate(p Promotion) error {
	if p.Percent < 0 || p.Percent > 100 {
		return fmt.Errorf("percent must be between 0 and 100, got %v", p.Percent)
	}
	if p.StartHour < 0 || p.StartHour > 23 {
		return fmt.Errorf("start hour must be between 0 and 23, got %d", p.StartHour)
	}
	if p.EndHour < 0 || p.EndHour > 23 {
		return fmt.Errorf("end hour must be between 0 and 23, got %d", p.EndHour)
	}
	for _, d := range p.Days {
		if d < 0 || d > 6 {
			return fmt.Errorf("day must be between 0 and 6, got %d", d)
		}
	}
	return nil
}

// Normalize fills defaults on stored promotions and drops the ones that can
// never discount anything. newID is called for promotions without an ID.
func Normalize(list []Promotion, newID func() string) []Promotion {
	out := make([]Promotion, 0, len(list))
	for _, p := range list {
		if p.Percent <= 0 {
			continue
		}
		if p.ID == "" && newID != nil {
			p.ID = newID()
		}
		if p.Name == "" {
			p.Name = "Promo"
		}
		if p.Days == nil {
			p.Days = append([]int(nil), AllDays...)
		}
		out = append(out, p)
	}
	return out
}
