package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one row of transcription run history.
type Record struct {
	JobID       string    `json:"job_id"`
	RequestName string    `json:"request_name"`
	SourceType  string    `json:"source_type"`
	ModelID     string    `json:"model_id"`
	Language    string    `json:"language"`
	GDriveURL   string    `json:"gdrive_url,omitempty"`
	LocalPath   string    `json:"local_path"`
	CreatedAt   time.Time `json:"created_at"`
	Duration    float64   `json:"duration"`
	WordCount   int       `json:"word_count"`
}

// MetadataDB keeps the run history in SQLite.
type MetadataDB struct {
	db *sql.DB
}

func NewMetadataDB(dbPath string) (*MetadataDB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS transcripts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id TEXT NOT NULL UNIQUE,
		request_name TEXT NOT NULL,
		source_type TEXT NOT NULL,
		model_id TEXT NOT NULL,
		language TEXT,
		gdrive_url TEXT,
		local_path TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		duration REAL,
		word_count INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_created_at ON transcripts(created_at);
	CREATE INDEX IF NOT EXISTS idx_request_name ON transcripts(request_name);
	`

	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MetadataDB{db: db}, nil
}

// SaveRecord inserts one run into the history.
func (mdb *MetadataDB) SaveRecord(rec *Record) error {
	query := `
	INSERT INTO transcripts (job_id, request_name, source_type, model_id, language, gdrive_url, local_path, created_at, duration, word_count)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := mdb.db.Exec(query, rec.JobID, rec.RequestName, rec.SourceType, rec.ModelID,
		rec.Language, rec.GDriveURL, rec.LocalPath, createdAt, rec.Duration, rec.WordCount)
	if err != nil {
		return fmt.Errorf("failed to save transcript metadata: %w", err)
	}
	return nil
}

// GetRecord retrieves one run by job ID.
func (mdb *MetadataDB) GetRecord(jobID string) (*Record, error) {
	query := `
	SELECT job_id, request_name, source_type, model_id, language, gdrive_url, local_path, created_at, duration, word_count
	FROM transcripts WHERE job_id = ?
	`

	var rec Record
	var gdrive, language sql.NullString
	err := mdb.db.QueryRow(query, jobID).Scan(&rec.JobID, &rec.RequestName, &rec.SourceType,
		&rec.ModelID, &language, &gdrive, &rec.LocalPath, &rec.CreatedAt, &rec.Duration, &rec.WordCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get transcript: %w", err)
	}
	rec.GDriveURL = gdrive.String
	rec.Language = language.String
	return &rec, nil
}

// ListRecords returns the most recent runs, newest first.
func (mdb *MetadataDB) ListRecords(limit int) ([]*Record, error) {
	query := `
	SELECT job_id, request_name, source_type, model_id, language, gdrive_url, local_path, created_at, duration, word_count
	FROM transcripts ORDER BY created_at DESC LIMIT ?
	`

	rows, err := mdb.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transcripts: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var rec Record
		var gdrive, language sql.NullString
		if err := rows.Scan(&rec.JobID, &rec.RequestName, &rec.SourceType, &rec.ModelID,
			&language, &gdrive, &rec.LocalPath, &rec.CreatedAt, &rec.Duration, &rec.WordCount); err != nil {
			continue
		}
		rec.GDriveURL = gdrive.String
		rec.Language = language.String
		records = append(records, &rec)
	}

	return records, rows.Err()
}

// Close closes the database connection
func (mdb *MetadataDB) Close() error {
	return mdb.db.Close()
}
