package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"ripple/internal/config"
)

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "catalog.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

const itemColumns = "id, external_id, author, source_type, source_value, tag, description, cover_url, play_url, digg_count, comment_count, play_count, share_count, posted_at, status, is_relevant, relevance_score, relevance_reason, comment_text, submission_ref, submission_status, submission_result_url, boost_order_ref, boost_status, error_message, created_at, updated_at"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id              int64
		externalID      string
		author          sql.NullString
		sourceType      string
		sourceValue     string
		tag             string
		description     sql.NullString
		coverURL        sql.NullString
		playURL         sql.NullString
		diggCount       int64
		commentCount    int64
		playCount       int64
		shareCount      int64
		postedRaw       sql.NullString
		statusStr       string
		isRelevant      sql.NullInt64
		relevanceScore  sql.NullInt64
		relevanceReason sql.NullString
		commentText     sql.NullString
		submissionRef   sql.NullString
		submissionState sql.NullString
		resultURL       sql.NullString
		boostRef        sql.NullString
		boostState      sql.NullString
		errorMessage    sql.NullString
		createdRaw      sql.NullString
		updatedRaw      sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&externalID,
		&author,
		&sourceType,
		&sourceValue,
		&tag,
		&description,
		&coverURL,
		&playURL,
		&diggCount,
		&commentCount,
		&playCount,
		&shareCount,
		&postedRaw,
		&statusStr,
		&isRelevant,
		&relevanceScore,
		&relevanceReason,
		&commentText,
		&submissionRef,
		&submissionState,
		&resultURL,
		&boostRef,
		&boostState,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:          id,
		ExternalID:  externalID,
		Author:      author.String,
		SourceType:  sourceType,
		SourceValue: sourceValue,
		Tag:         tag,
		Description: description.String,
		CoverURL:    coverURL.String,
		PlayURL:     playURL.String,
		Stats: Stats{
			Diggs:    diggCount,
			Comments: commentCount,
			Plays:    playCount,
			Shares:   shareCount,
		},
		Status:       Status(statusStr),
		Comment:      commentText.String,
		ErrorMessage: errorMessage.String,
	}
	if isRelevant.Valid {
		item.Relevance = &Relevance{
			Relevant: isRelevant.Int64 != 0,
			Score:    int(relevanceScore.Int64),
			Reason:   relevanceReason.String,
		}
	}
	if submissionRef.Valid && submissionRef.String != "" {
		item.Submission = &Submission{
			ExternalRef: submissionRef.String,
			Status:      SubmissionStatus(submissionState.String),
			ResultURL:   resultURL.String,
		}
	}
	if boostRef.Valid && boostRef.String != "" {
		item.Boost = &Boost{
			OrderRef: boostRef.String,
			Status:   BoostStatus(boostState.String),
		}
	}

	if posted, err := parseTimeString(postedRaw.String); err == nil {
		item.PostedAt = posted
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	return item, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
