package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	Kind   string `validate:"omitempty,category_kind"`
	Amount string `validate:"omitempty,money_amount"`
	Date   string `validate:"omitempty,date_only"`
}

func TestCustomTags(t *testing.T) {
	v := validator.New()
	RegisterOn(v)

	tests := []struct {
		name    string
		in      sample
		wantErr bool
	}{
		{"income kind", sample{Kind: "income"}, false},
		{"expense kind", sample{Kind: "expense"}, false},
		{"unknown kind", sample{Kind: "transfer"}, true},
		{"comma amount", sample{Amount: "50,00"}, false},
		{"grouped amount", sample{Amount: "1.234,56"}, false},
		{"zero amount", sample{Amount: "0"}, true},
		{"three fractional digits", sample{Amount: "1,234"}, true},
		{"bad amount", sample{Amount: "abc"}, true},
		{"plain date", sample{Date: "2024-03-01"}, false},
		{"rfc3339 date", sample{Date: "2024-03-01T10:00:00-03:00"}, false},
		{"brazilian date", sample{Date: "01/03/2024"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("Struct(%+v) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate("2024-02-29")
	if !ok || d.Day() != 29 {
		t.Errorf("expected 29 Feb, got %v (%v)", d, ok)
	}
	if _, ok := ParseDate("2024-02-30"); ok {
		t.Error("expected invalid calendar date to fail")
	}
}
