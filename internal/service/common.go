package service

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lucsky/cuid"
)

type sqlExecutor interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

func newID() string {
	return cuid.New()
}

func validateNonNegativeFloat(name string, value float64) error {
	if value < 0 {
		return fmt.Errorf("%s must be >= 0", name)
	}
	return nil
}

func normalizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

func requireText(name, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return value, nil
}

// resolveID looks up an id by exact id first, then by case-insensitive name.
// A name shared by several rows is reported as ambiguous.
func resolveID(db sqlExecutor, table, kind, idOrName string) (string, error) {
	idOrName = strings.TrimSpace(idOrName)
	if idOrName == "" {
		return "", fmt.Errorf("%s identifier is required", kind)
	}
	var id string
	err := db.QueryRow(`SELECT id FROM `+table+` WHERE id = ?`, idOrName).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("resolve %s %q: %w", kind, idOrName, err)
	}

	rows, err := db.Query(`SELECT id FROM `+table+` WHERE LOWER(name) = ? ORDER BY created_at, id`, normalizeName(idOrName))
	if err != nil {
		return "", fmt.Errorf("resolve %s %q: %w", kind, idOrName, err)
	}
	defer rows.Close()
	ids := make([]string, 0, 1)
	for rows.Next() {
		var candidate string
		if err := rows.Scan(&candidate); err != nil {
			return "", fmt.Errorf("scan %s id: %w", kind, err)
		}
		ids = append(ids, candidate)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterate %s ids: %w", kind, err)
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%s %q not found", kind, idOrName)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%s name %q is ambiguous (%d matches); use the id", kind, idOrName, len(ids))
	}
}
