package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

const (
	DefaultDbPath = "data/discussion.db"
)

type DiscussionDB interface {
	Close() error

	GetPreference(key string) (map[string]any, bool, error)
	SetPreference(key string, value map[string]any) error

	SaveResponses(records []*ResponseRecord) error
	SeenResponseIds(threadId string) (map[string]bool, error)
}

type discussionDb struct {
	driver *sql.DB
}

var _ DiscussionDB = (*discussionDb)(nil)

var (
	tableCreateStatements = []string{
		`CREATE TABLE IF NOT EXISTS preference (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS response_record (
			id TEXT PRIMARY KEY,
			thread_id TEXT NOT NULL,
			author TEXT NOT NULL,
			raw_body TEXT NOT NULL,
			created_at DATETIME,
			seen_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_response_thread ON response_record(thread_id);`,
	}
)

func ensureDirectoryExists(path string) error {
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		logrus.Infof("Directory %s not exist, create it", dir)
		if err = os.MkdirAll(dir, 0755); err != nil {
			logrus.WithError(err).Error("os.MkdirAll")
			return err
		}
	}
	return nil
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (DiscussionDB, error) {
	if path == "" {
		path = DefaultDbPath
	}

	dbPath, err := filepath.Abs(path)
	if err != nil {
		logrus.WithError(err).Error("filepath.Abs failed")
		return nil, err
	}

	if err := ensureDirectoryExists(dbPath); err != nil {
		logrus.WithError(err).Error("ensureDirectoryExists failed")
		return nil, err
	}

	driver, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		logrus.WithError(err).Error("sql.Open failed")
		return nil, err
	}
	logrus.WithField("DiscussionDbPath", dbPath).Debug("sql.Open success")

	for _, statement := range tableCreateStatements {
		if _, err := driver.Exec(statement); err != nil {
			logrus.WithError(err).Error("driver.Exec failed")
			_ = driver.Close()
			return nil, err
		}
	}
	return &discussionDb{driver: driver}, nil
}

func (db *discussionDb) Close() error {
	return db.driver.Close()
}

// GetPreference returns the stored dictionary for key. The bool reports
// whether a value was stored.
func (db *discussionDb) GetPreference(key string) (map[string]any, bool, error) {
	var raw string
	err := db.driver.QueryRow(`SELECT value FROM preference WHERE key = ?;`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		logrus.WithError(err).Error("db.driver.QueryRow.Scan failed")
		return nil, false, err
	}

	value := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("stored preference is not a dictionary")
		return nil, false, nil
	}
	return value, true, nil
}

func (db *discussionDb) SetPreference(key string, value map[string]any) error {
	if value == nil {
		value = map[string]any{}
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	_, err = db.driver.Exec(`INSERT INTO preference (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`,
		key, string(raw), time.Now().UTC())
	if err != nil {
		logrus.WithError(err).Error("db.driver.Exec failed")
	}
	return err
}

func (db *discussionDb) SaveResponses(records []*ResponseRecord) error {
	tx, err := db.driver.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO response_record
		(id, thread_id, author, raw_body, created_at, seen_at) VALUES (?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, r := range records {
		if _, err := stmt.Exec(r.Id, r.ThreadId, r.Author, r.RawBody, r.CreatedAt, now); err != nil {
			logrus.WithError(err).WithField("id", r.Id).Error("insert response_record failed")
			return err
		}
	}
	return tx.Commit()
}

func (db *discussionDb) SeenResponseIds(threadId string) (map[string]bool, error) {
	rows, err := db.driver.Query(`SELECT id FROM response_record WHERE thread_id = ?;`, threadId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		seen[id] = true
	}
	return seen, rows.Err()
}
