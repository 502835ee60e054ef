package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain dot", input: "12.34", want: "12.34"},
		{name: "comma separator", input: "12,34", want: "12.34"},
		{name: "integer", input: "100", want: "100"},
		{name: "rounds third decimal half up", input: "12.345", want: "12.35"},
		{name: "whitespace trimmed", input: "  7.50 ", want: "7.5"},
		{name: "empty", input: "", wantErr: true},
		{name: "not a number", input: "abc", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
		{name: "negative", input: "-5.00", wantErr: true},
		{name: "rounds to zero", input: "0.004", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAmount(%q) error = nil, want error", tt.input)
				}
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("ParseAmount(%q) error = %v, want ErrInvalidAmount", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) error = %v", tt.input, err)
			}
			want, _ := decimal.NewFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, want)
			}
		})
	}
}

func TestCentsRoundTrip(t *testing.T) {
	tests := []struct {
		input string
		cents int64
	}{
		{"12.34", 1234},
		{"0.01", 1},
		{"100", 10000},
		{"33.335", 3334}, // half-up
		{"-5.50", -550},
	}

	for _, tt := range tests {
		d, _ := decimal.NewFromString(tt.input)
		if got := Cents(d); got != tt.cents {
			t.Errorf("Cents(%s) = %d, want %d", tt.input, got, tt.cents)
		}
	}

	if got := FromCents(1234); !got.Equal(decimal.New(1234, -2)) {
		t.Errorf("FromCents(1234) = %s, want 12.34", got)
	}
}

func TestMonthRange(t *testing.T) {
	d := time.Date(2026, time.February, 14, 10, 30, 0, 0, time.UTC)
	start, end := MonthRange(d)
	if got := start.Format("2006-01-02"); got != "2026-02-01" {
		t.Errorf("MonthRange start = %s, want 2026-02-01", got)
	}
	if got := end.Format("2006-01-02"); got != "2026-02-28" {
		t.Errorf("MonthRange end = %s, want 2026-02-28", got)
	}
}

func TestTransactionCountsForBalance(t *testing.T) {
	split := Transaction{Splittable: true}
	personal := Transaction{Splittable: false}
	to := int64(2)
	settlement := Transaction{IsSettlement: true, SettledToID: &to}

	if !split.CountsForBalance() {
		t.Error("splittable expense should count for balance")
	}
	if personal.CountsForBalance() {
		t.Error("personal expense should not count for balance")
	}
	if !settlement.CountsForBalance() {
		t.Error("settlement should count for balance")
	}
}
