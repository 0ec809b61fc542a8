package speciality_test

import (
	"testing"

	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/speciality"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want speciality.Category
	}{
		{"Cardiologia", speciality.Heart},
		{"Ginecologia e Obstetrícia", speciality.Baby},
		{"Obstetrícia", speciality.Baby},
		{"Pediatria", speciality.Activity},
		{"DERMATOLOGIA", speciality.Hand},
		{"Ortopedia", speciality.Bone},
		{"Traumatologia", speciality.Bone},
		{"Oftalmologia", speciality.Eye},
		{"Neurologia", speciality.Brain},
		{"Clínico Geral", speciality.Stethoscope},
		{"", speciality.Stethoscope},
		{"Ophthalmology", speciality.Eye},
		{"Orthopedics", speciality.Bone},
		{"Paediatrics", speciality.Activity},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := speciality.Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// TestRank tests ordering, limiting and progress relative to the maximum.
func TestRank(t *testing.T) {
	counts := []speciality.Count{
		{Speciality: "Pediatria", Appointments: 5},
		{Speciality: "Cardiologia", Appointments: 20},
		{Speciality: "Neurologia", Appointments: 10},
		{Speciality: "Dermatologia", Appointments: 10},
	}

	got := speciality.Rank(counts, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	wantOrder := []string{"Cardiologia", "Dermatologia", "Neurologia"}
	for i, name := range wantOrder {
		if got[i].Speciality != name {
			t.Errorf("position %d = %q, want %q", i, got[i].Speciality, name)
		}
	}
	if got[0].Progress != 100 {
		t.Errorf("busiest progress = %v, want 100", got[0].Progress)
	}
	if got[1].Progress != 50 {
		t.Errorf("second progress = %v, want 50", got[1].Progress)
	}
	if got[0].Category != speciality.Heart {
		t.Errorf("category = %q, want heart", got[0].Category)
	}
	if counts[0].Speciality != "Pediatria" {
		t.Error("Rank must not reorder its input")
	}
}

func TestRank_AllZero(t *testing.T) {
	got := speciality.Rank([]speciality.Count{{Speciality: "Neurologia"}}, 10)
	if len(got) != 1 || got[0].Progress != 0 {
		t.Errorf("expected zero progress, got %+v", got)
	}
	if len(speciality.Rank(nil, 10)) != 0 {
		t.Error("expected empty result for no counts")
	}
}
