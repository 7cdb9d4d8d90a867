package storage

import (
	"backend/models"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

var db *sql.DB

func InitDB() *sql.DB {
	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file")
	}
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")

	connStr := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%s sslmode=disable",
		user, password, dbname, host, port)

	var err error
	db, err = sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	return db
}

func GetDB() *sql.DB {
	return db
}

// SaveSession stores a new session for a user. A fresh login invalidates all
// previous sessions for the same user.
func SaveSession(db *sql.DB, session *models.Session) error {
	deleteQuery := `DELETE FROM session WHERE user_id = $1`
	if _, err := db.Exec(deleteQuery, session.UserID); err != nil {
		return fmt.Errorf("failed to delete previous sessions: %v", err)
	}

	insertQuery := `INSERT INTO session (user_id, session_id, host_name, ip_address, timestp, expires_at, refresh_token, refresh_token_expires_at)
                    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := db.Exec(insertQuery, session.UserID, session.SessionID, session.HostName, session.IPAddress,
		session.Timestamp, session.ExpiresAt, session.RefreshToken, session.RefreshTokenExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to insert new session: %v", err)
	}
	return nil
}

// GetRefreshTokenBySession retrieves the unexpired refresh token bound to a session.
func GetRefreshTokenBySession(db *sql.DB, sessionID string) (string, error) {
	var refreshToken string
	err := db.QueryRow(`
		SELECT refresh_token FROM session
		WHERE session_id = $1 AND refresh_token_expires_at > NOW()`, sessionID).Scan(&refreshToken)
	if err != nil {
		return "", fmt.Errorf("refresh token not found: %v", err)
	}
	return refreshToken, nil
}

// DeleteSessionByID deletes a specific session (logout).
func DeleteSessionByID(db *sql.DB, sessionID string) error {
	result, err := db.Exec(`DELETE FROM session WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %v", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("session not found or already deleted")
	}
	return nil
}

func CleanupExpiredSessions(db *sql.DB) error {
	threshold := time.Now().Add(-24 * time.Hour)
	_, err := db.Exec("DELETE FROM session WHERE expires_at < $1", threshold)
	return err
}

func GetUserByEmail(db *sql.DB, email string) (*models.User, error) {
	var user models.User
	query := `SELECT id, email, password, first_name, last_name, is_admin, suspended FROM users WHERE LOWER(email) = LOWER($1)`

	err := db.QueryRow(query, email).Scan(&user.ID, &user.Email, &user.Password,
		&user.FirstName, &user.LastName, &user.IsAdmin, &user.Suspended)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user with email %s not found", email)
		}
		return nil, fmt.Errorf("failed to query user: %v", err)
	}
	return &user, nil
}

// GetUserBySessionID retrieves a User by the given session ID.
func GetUserBySessionID(db *sql.DB, sessionID string) (*models.User, error) {
	query := `
		SELECT u.id, u.email, u.first_name, u.last_name, u.created_at, u.updated_at, u.is_admin, u.suspended
		FROM session s
		JOIN users u ON s.user_id = u.id
		WHERE s.session_id = $1 AND s.expires_at > NOW()
	`

	var user models.User
	err := db.QueryRow(query, sessionID).Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName,
		&user.CreatedAt, &user.UpdatedAt, &user.IsAdmin, &user.Suspended,
	)
	if err != nil || user.Suspended {
		if err == sql.ErrNoRows {
			return nil, errors.New("user not found for the given session ID or account suspended")
		}
		if err != nil {
			return nil, err
		}
		return nil, errors.New("account suspended")
	}
	return &user, nil
}

// GetRatioRow retrieves the most recently updated benchmark row matching the
// segment, category and size bucket. Returns sql.ErrNoRows when no row
// matches; the caller decides how that propagates.
func GetRatioRow(db *sql.DB, segment, category, sizeBucket string) (*models.HotelRatios, error) {
	query := `
		SELECT id, segment, category, size_bucket, fb_to_rooms, other_to_total, misc_to_total,
		       rooms_dept_pct, rooms_dept_per_rn, food_cost_pct, fb_labor_pct, fb_other_pct,
		       other_dept_pct, admin_pct, it_pct, sales_pct, maintenance_pct, energy_pct, updated_at
		FROM hotel_ratios
		WHERE segment = $1 AND category = $2 AND size_bucket = $3
		ORDER BY updated_at DESC
		LIMIT 1`

	var r models.HotelRatios
	err := db.QueryRow(query, segment, category, sizeBucket).Scan(
		&r.ID, &r.Segment, &r.Category, &r.SizeBucket, &r.FbToRooms, &r.OtherToTotal, &r.MiscToTotal,
		&r.RoomsDeptPct, &r.RoomsDeptPerRN, &r.FoodCostPct, &r.FbLaborPct, &r.FbOtherPct,
		&r.OtherDeptPct, &r.AdminPct, &r.ItPct, &r.SalesPct, &r.MaintenancePct, &r.EnergyPct, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetProject loads a screening project row.
func GetProject(db *sql.DB, projectID int) (*models.Project, error) {
	query := `
		SELECT id, name, code, rooms, segment, category, currency, amortization_type,
		       gop_ajustado, ffe_pct, workflow_state, created_by, created_at, updated_at
		FROM project WHERE id = $1`

	var p models.Project
	err := db.QueryRow(query, projectID).Scan(
		&p.ID, &p.Name, &p.Code, &p.Rooms, &p.Segment, &p.Category, &p.Currency,
		&p.AmortizationType, &p.GopAdjusted, &p.FfePct, &p.WorkflowState,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// AdvanceWorkflowState moves a project's workflow marker forward. The update
// is monotonic: a state earlier in the wizard never replaces a later one.
func AdvanceWorkflowState(db *sql.DB, projectID int, newState string, rank func(string) int) error {
	var current string
	if err := db.QueryRow(`SELECT workflow_state FROM project WHERE id = $1`, projectID).Scan(&current); err != nil {
		return err
	}
	if rank(newState) <= rank(current) {
		return nil
	}
	_, err := db.Exec(`UPDATE project SET workflow_state = $1, updated_at = NOW() WHERE id = $2`, newState, projectID)
	return err
}
