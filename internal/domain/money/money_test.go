package money_test

import (
	"testing"

	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/money"
)

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "R$0,00"},
		{5, "R$0,05"},
		{15000, "R$150,00"},
		{123456, "R$1.234,56"},
		{100000000, "R$1.000.000,00"},
		{-2550, "-R$25,50"},
	}
	for _, tt := range tests {
		if got := money.FormatCents(tt.cents); got != tt.want {
			t.Errorf("FormatCents(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestParseCents(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "150", want: 15000},
		{in: "150,00", want: 15000},
		{in: "R$150,00", want: 15000},
		{in: "R$ 1.234,56", want: 123456},
		{in: "150.5", want: 15050},
		{in: "1.234", want: 123400},
		{in: ",5", want: 50},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "-10", wantErr: true},
		{in: "1,234", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := money.ParseCents(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCents(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseCents(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
