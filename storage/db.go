package storage

import (
	"backend/models"
	"backend/utils"
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
		log.Println("No .env file found, using environment variables")
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

	// Pool sizing for a light workload
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

// SaveSession stores a fresh session row for a user. Each login creates its
// own row, so a user can be signed in from several devices at once.
func SaveSession(db *sql.DB, session *models.Session) error {
	ctx, cancel := utils.GetFastQueryContext(nil)
	defer cancel()

	insertQuery := `INSERT INTO session (user_id, session_id, host_name, ip_address, timestp, expires_at, refresh_token, refresh_token_expires_at)
                    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := db.ExecContext(ctx, insertQuery, session.UserID, session.SessionID, session.HostName, session.IPAddress, session.Timestamp, session.ExpiresAt, session.RefreshToken, session.RefreshTokenExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to insert new session: %v", err)
	}
	return nil
}

// GetUserSessionCount returns the number of active sessions for a user
func GetUserSessionCount(db *sql.DB, userID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM session WHERE user_id = $1 AND expires_at > NOW()`
	err := db.QueryRow(query, userID).Scan(&count)
	return count, err
}

// DeleteSessionByID deletes a specific session by session_id
func DeleteSessionByID(db *sql.DB, sessionID string, userID int) error {
	query := `DELETE FROM session WHERE session_id = $1 AND user_id = $2`
	result, err := db.Exec(query, sessionID, userID)
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

// DeleteRefreshToken clears the refresh token for a session (for logout)
func DeleteRefreshToken(db *sql.DB, sessionID string) error {
	_, err := db.Exec(`UPDATE session SET refresh_token = NULL, refresh_token_expires_at = NULL WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %v", err)
	}
	return nil
}

func CleanupExpiredSessions(db *sql.DB) error {
	threshold := time.Now().Add(-24 * time.Hour)
	_, err := db.Exec("DELETE FROM session WHERE expires_at < $1", threshold)
	return err
}

func GetUserByEmail(db *sql.DB, email string) (*models.User, error) {
	ctx, cancel := utils.GetFastQueryContext(nil)
	defer cancel()

	var user models.User
	query := `SELECT u.id, u.email, u.password, u.company_name, u.suspended, r.role_name
	          FROM users u JOIN roles r ON u.role_id = r.role_id
	          WHERE LOWER(u.email) = LOWER($1)`

	err := db.QueryRowContext(ctx, query, email).Scan(&user.ID, &user.Email, &user.Password, &user.CompanyName, &user.Suspended, &user.RoleName)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user with email %s not found", email)
		}
		return nil, fmt.Errorf("failed to query user: %v", err)
	}

	return &user, nil
}

// GetUserBySessionID retrieves a User for an active session token.
func GetUserBySessionID(db *sql.DB, sessionID string) (*models.User, error) {
	ctx, cancel := utils.GetFastQueryContext(nil)
	defer cancel()

	query := `
		SELECT u.id, u.email, u.company_name, u.first_name, u.last_name,
		       u.phone_no, u.created_at, u.updated_at, r.role_name, u.suspended
		FROM session s
		JOIN users u ON s.user_id = u.id
		JOIN roles r ON u.role_id = r.role_id
		WHERE s.session_id = $1 AND s.expires_at > NOW()
	`

	var user models.User
	err := db.QueryRowContext(ctx, query, sessionID).Scan(
		&user.ID, &user.Email, &user.CompanyName, &user.FirstName,
		&user.LastName, &user.PhoneNo, &user.CreatedAt, &user.UpdatedAt,
		&user.RoleName, &user.Suspended,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("no active session for the given token")
		}
		return nil, err
	}
	if user.Suspended {
		return nil, errors.New("account suspended")
	}

	return &user, nil
}

// CreateUser inserts a user with the given role name. The password must
// already be hashed by the caller.
func CreateUser(db *sql.DB, user *models.User) (int, error) {
	ctx, cancel := utils.GetDefaultQueryContext(nil)
	defer cancel()

	var roleID int
	err := db.QueryRowContext(ctx, `SELECT role_id FROM roles WHERE role_name = $1`, user.RoleName).Scan(&roleID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("unknown role %q", user.RoleName)
		}
		return 0, err
	}

	var id int
	err = db.QueryRowContext(ctx, `
		INSERT INTO users (email, password, company_name, first_name, last_name, phone_no, role_id, suspended, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, NOW(), NOW())
		RETURNING id`,
		user.Email, user.Password, user.CompanyName, user.FirstName, user.LastName, user.PhoneNo, roleID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %v", err)
	}
	return id, nil
}
