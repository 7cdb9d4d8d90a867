package repository

import (
	"regexp"
	"testing"

	"backend/models"
)

func TestStageRankOrdering(t *testing.T) {
	states := []string{
		models.StateDraft,
		models.StateCommercialAccepted,
		models.StateUsaliCalculated,
		models.StateProjected,
		models.StateFinalized,
	}
	for i := 1; i < len(states); i++ {
		if StageRank(states[i]) <= StageRank(states[i-1]) {
			t.Errorf("StageRank(%s) = %d not greater than StageRank(%s) = %d",
				states[i], StageRank(states[i]), states[i-1], StageRank(states[i-1]))
		}
	}
	if StageRank("bogus") >= StageRank(models.StateDraft) {
		t.Errorf("unknown state ranks at or above draft")
	}
}

func TestGenerateRandomCodeFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z]{2}\d{5}$`)
	code := GenerateRandomCode()
	if !pattern.MatchString(code) {
		t.Errorf("code %q does not match expected format", code)
	}
}
