package services

import (
	"errors"
	"math"
	"testing"
)

func TestSizeBucketPartition(t *testing.T) {
	tests := []struct {
		rooms int
		want  string
	}{
		{0, "S1"},
		{1, "S1"},
		{50, "S1"},
		{51, "S2"},
		{100, "S2"},
		{101, "S3"},
		{150, "S3"},
		{151, "S4"},
		{250, "S4"},
		{251, "S5"},
		{400, "S5"},
		{401, "S6"},
		{2000, "S6"},
	}
	for _, tt := range tests {
		if got := SizeBucket(tt.rooms); got != tt.want {
			t.Errorf("SizeBucket(%d) = %s, want %s", tt.rooms, got, tt.want)
		}
	}
}

func TestValidateRatios(t *testing.T) {
	valid := referenceRatios()
	if err := ValidateRatios(valid); err != nil {
		t.Fatalf("valid ratios rejected: %v", err)
	}

	sumOne := valid
	sumOne.OtherToTotal = 0.6
	sumOne.MiscToTotal = 0.4
	if err := ValidateRatios(sumOne); !errors.Is(err, ErrPrecondition) {
		t.Errorf("ratio sum of 1.0 accepted: %v", err)
	}

	negative := valid
	negative.EnergyPct = -0.02
	if err := ValidateRatios(negative); !errors.Is(err, ErrPrecondition) {
		t.Errorf("negative ratio accepted: %v", err)
	}

	nan := valid
	nan.SalesPct = math.NaN()
	if err := ValidateRatios(nan); !errors.Is(err, ErrPrecondition) {
		t.Errorf("NaN ratio accepted: %v", err)
	}
}
