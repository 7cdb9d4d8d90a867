package repository

import (
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"backend/models"
)

// StageRank orders the workflow states of a screening project. Unknown
// states rank below draft so they can never win a monotonic update.
func StageRank(state string) int {
	switch state {
	case models.StateDraft:
		return 1
	case models.StateCommercialAccepted:
		return 2
	case models.StateUsaliCalculated:
		return 3
	case models.StateProjected:
		return 4
	case models.StateFinalized:
		return 5
	default:
		return 0
	}
}

// NextProjectCode allocates the next screening code in the form
// "HS/<year>/<seq>", where the sequence restarts every calendar year.
func NextProjectCode(db *sql.DB) (string, error) {
	year := time.Now().Year()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM project WHERE code LIKE $1`,
		fmt.Sprintf("HS/%d/%%", year)).Scan(&count)
	if err != nil {
		return "", fmt.Errorf("failed to count project codes: %w", err)
	}

	return fmt.Sprintf("HS/%d/%04d", year, count+1), nil
}

// GenerateRandomCode produces a short fallback code used when the sequential
// allocation fails.
func GenerateRandomCode() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	letters := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	prefix := string(letters[rng.Intn(len(letters))]) + string(letters[rng.Intn(len(letters))])
	number := rng.Intn(90000) + 10000

	return fmt.Sprintf("%s%d", prefix, number)
}
