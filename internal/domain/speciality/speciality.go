// Package speciality classifies doctor specialities for display and ranks
// them by appointment volume.
package speciality

import (
	"sort"
	"strings"
)

// Category is the icon family a speciality is shown with.
type Category string

// Categories
const (
	Heart       Category = "heart"
	Baby        Category = "baby"
	Activity    Category = "activity"
	Hand        Category = "hand"
	Bone        Category = "bone"
	Eye         Category = "eye"
	Brain       Category = "brain"
	Stethoscope Category = "stethoscope"
)

// rules are checked in order; the first stem found in the text wins.
var rules = []struct {
	stems    []string
	category Category
}{
	{[]string{"cardiolog"}, Heart},
	{[]string{"ginecolog", "gynecolog", "gynaecolog", "obstetri"}, Baby},
	{[]string{"pediatr", "paediatr"}, Activity},
	{[]string{"dermatolog"}, Hand},
	{[]string{"ortoped", "orthoped", "orthopaed", "traumatolog"}, Bone},
	{[]string{"oftalmolog", "ophthalmolog"}, Eye},
	{[]string{"neurolog"}, Brain},
}

// Classify maps free speciality text to a Category by keyword stem.
// Unrecognised text maps to Stethoscope.
func Classify(text string) Category {
	lower := strings.ToLower(text)
	for _, r := range rules {
		for _, stem := range r.stems {
			if strings.Contains(lower, stem) {
				return r.category
			}
		}
	}
	return Stethoscope
}

// Count is the number of appointments booked for one speciality.
type Count struct {
	Speciality   string
	Appointments int
}

// Ranked is a Count with its display progress and icon.
type Ranked struct {
	Count
	Progress float64 // 0..100, relative to the busiest speciality
	Category Category
}

// Rank orders counts by appointments descending (ties by name), keeps at
// most limit entries, and computes each entry's progress as
// appointments / max * 100.
// POST: Progress is 0 for every entry when the busiest has no appointments
func Rank(counts []Count, limit int) []Ranked {
	sorted := make([]Count, len(counts))
	copy(sorted, counts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Appointments != sorted[j].Appointments {
			return sorted[i].Appointments > sorted[j].Appointments
		}
		return sorted[i].Speciality < sorted[j].Speciality
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	top := 0
	for _, c := range sorted {
		if c.Appointments > top {
			top = c.Appointments
		}
	}

	out := make([]Ranked, 0, len(sorted))
	for _, c := range sorted {
		r := Ranked{Count: c, Category: Classify(c.Speciality)}
		if top > 0 {
			r.Progress = float64(c.Appointments) / float64(top) * 100
		}
		out = append(out, r)
	}
	return out
}
