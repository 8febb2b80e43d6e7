package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Discovered describes one freshly scraped content unit before it becomes a
// catalog item.
type Discovered struct {
	ExternalID  string
	Author      string
	SourceType  string
	SourceValue string
	Tag         string
	Description string
	CoverURL    string
	PlayURL     string
	Stats       Stats
	PostedAt    time.Time
}

// UpsertDiscovered inserts a new item for scraped content, or refreshes the
// volatile engagement counters when the external id is already known. Stage
// fields (relevance, comment, submission, boost) are never touched on
// re-discovery. The returned bool is true when a new row was created.
func (s *Store) UpsertDiscovered(ctx context.Context, d Discovered) (*Item, bool, error) {
	if d.ExternalID == "" {
		return nil, false, errors.New("external id is required")
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	existing, err := s.GetByExternalID(ctx, d.ExternalID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		_, err := s.db.ExecContext(
			ctx,
			`UPDATE catalog_items
             SET digg_count = ?, comment_count = ?, play_count = ?, share_count = ?, updated_at = ?
             WHERE external_id = ?`,
			d.Stats.Diggs,
			d.Stats.Comments,
			d.Stats.Plays,
			d.Stats.Shares,
			timestamp,
			d.ExternalID,
		)
		if err != nil {
			return nil, false, fmt.Errorf("refresh item stats: %w", err)
		}
		item, err := s.GetByExternalID(ctx, d.ExternalID)
		return item, false, err
	}

	tag := d.Tag
	if tag == "" {
		tag = "general"
	}
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO catalog_items (
            external_id, author, source_type, source_value, tag, description,
            cover_url, play_url, digg_count, comment_count, play_count, share_count,
            posted_at, status, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ExternalID,
		nullableString(d.Author),
		d.SourceType,
		d.SourceValue,
		tag,
		nullableString(d.Description),
		nullableString(d.CoverURL),
		nullableString(d.PlayURL),
		d.Stats.Diggs,
		d.Stats.Comments,
		d.Stats.Plays,
		d.Stats.Shares,
		nullableTime(d.PostedAt),
		StatusDiscovered,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, false, fmt.Errorf("last insert id: %w", err)
	}
	item, err := s.GetByID(ctx, id)
	return item, true, err
}

// GetByID fetches a catalog item by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM catalog_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// GetByExternalID fetches a catalog item by its platform identity.
func (s *Store) GetByExternalID(ctx context.Context, externalID string) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM catalog_items WHERE external_id = ?`, externalID)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item by external id: %w", err)
	}
	return item, nil
}

// Update persists changes to an existing catalog item.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	item.UpdatedAt = time.Now().UTC()

	var (
		isRelevant      any
		relevanceScore  any
		relevanceReason any
	)
	if item.Relevance != nil {
		isRelevant = boolToInt(item.Relevance.Relevant)
		relevanceScore = item.Relevance.Score
		relevanceReason = nullableString(item.Relevance.Reason)
	}
	var (
		submissionRef    any
		submissionStatus any
		resultURL        any
	)
	if item.Submission != nil {
		submissionRef = item.Submission.ExternalRef
		submissionStatus = string(item.Submission.Status)
		resultURL = nullableString(item.Submission.ResultURL)
	}
	var (
		boostRef    any
		boostStatus any
	)
	if item.Boost != nil {
		boostRef = item.Boost.OrderRef
		boostStatus = string(item.Boost.Status)
	}

	_, err := s.db.ExecContext(
		ctx,
		`UPDATE catalog_items
         SET author = ?, tag = ?, description = ?, cover_url = ?, play_url = ?,
             digg_count = ?, comment_count = ?, play_count = ?, share_count = ?,
             status = ?, is_relevant = ?, relevance_score = ?, relevance_reason = ?,
             comment_text = ?, submission_ref = ?, submission_status = ?,
             submission_result_url = ?, boost_order_ref = ?, boost_status = ?,
             error_message = ?, updated_at = ?
         WHERE id = ?`,
		nullableString(item.Author),
		item.Tag,
		nullableString(item.Description),
		nullableString(item.CoverURL),
		nullableString(item.PlayURL),
		item.Stats.Diggs,
		item.Stats.Comments,
		item.Stats.Plays,
		item.Stats.Shares,
		item.Status,
		isRelevant,
		relevanceScore,
		relevanceReason,
		nullableString(item.Comment),
		submissionRef,
		submissionStatus,
		resultURL,
		boostRef,
		boostStatus,
		nullableString(item.ErrorMessage),
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// List returns catalog items filtered by status set (or all items when no
// status is provided), ordered by creation time.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Item, error) {
	return s.ListByTag(ctx, "", statuses...)
}

// ListByTag returns catalog items for one workflow tag, optionally filtered by
// status set. An empty tag matches all tags.
func (s *Store) ListByTag(ctx context.Context, tag string, statuses ...Status) ([]*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM catalog_items`
	var (
		clauses []string
		args    []any
	)
	if tag != "" {
		clauses = append(clauses, `tag = ?`)
		args = append(args, tag)
	}
	if len(statuses) > 0 {
		clauses = append(clauses, `status IN (`+makePlaceholders(len(statuses))+`)`)
		for _, status := range statuses {
			args = append(args, status)
		}
	}
	for i, clause := range clauses {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list catalog items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Stats returns a count of items grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM catalog_items GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("catalog stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Remove deletes an item by identifier. The pipeline never calls this; it
// exists for administrative cleanup through the CLI.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM catalog_items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}
