package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// AddTarget registers a new monitored discovery source.
func (s *Store) AddTarget(ctx context.Context, targetType TargetType, value, tag string) (*Target, error) {
	value = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(value), "@#"))
	if value == "" {
		return nil, errors.New("target value is required")
	}
	if tag = strings.TrimSpace(tag); tag == "" {
		tag = "general"
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO monitoring_targets (type, value, tag, created_at) VALUES (?, ?, ?, ?)`,
		targetType,
		value,
		tag,
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert target: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &Target{ID: id, Type: targetType, Value: value, Tag: tag, CreatedAt: now}, nil
}

// Targets returns monitored targets, optionally scoped to one workflow tag.
func (s *Store) Targets(ctx context.Context, tag string) ([]*Target, error) {
	query := `SELECT id, type, value, tag, created_at FROM monitoring_targets`
	var args []any
	if tag != "" {
		query += ` WHERE tag = ?`
		args = append(args, tag)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	defer rows.Close()

	var targets []*Target
	for rows.Next() {
		var (
			target     Target
			typeStr    string
			createdRaw string
		)
		if err := rows.Scan(&target.ID, &typeStr, &target.Value, &target.Tag, &createdRaw); err != nil {
			return nil, err
		}
		target.Type = TargetType(typeStr)
		if created, err := parseTimeString(createdRaw); err == nil {
			target.CreatedAt = created
		}
		targets = append(targets, &target)
	}
	return targets, rows.Err()
}

// RemoveTarget deletes a monitored target by identifier.
func (s *Store) RemoveTarget(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM monitoring_targets WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete target: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// BrandProfile returns the single brand profile row, or a zero profile when
// none has been saved yet.
func (s *Store) BrandProfile(ctx context.Context) (BrandProfile, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT product_name, product_description, target_audience, persona, ugc_account_id, updated_at
         FROM brand_profile WHERE id = 1`,
	)
	var (
		profile    BrandProfile
		updatedRaw string
	)
	err := row.Scan(
		&profile.ProductName,
		&profile.ProductDescription,
		&profile.TargetAudience,
		&profile.Persona,
		&profile.UGCAccountID,
		&updatedRaw,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return BrandProfile{}, nil
	}
	if err != nil {
		return BrandProfile{}, fmt.Errorf("get brand profile: %w", err)
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		profile.UpdatedAt = updated
	}
	return profile, nil
}

// SaveBrandProfile upserts the single brand profile row.
func (s *Store) SaveBrandProfile(ctx context.Context, profile BrandProfile) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO brand_profile (id, product_name, product_description, target_audience, persona, ugc_account_id, updated_at)
         VALUES (1, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             product_name = excluded.product_name,
             product_description = excluded.product_description,
             target_audience = excluded.target_audience,
             persona = excluded.persona,
             ugc_account_id = excluded.ugc_account_id,
             updated_at = excluded.updated_at`,
		strings.TrimSpace(profile.ProductName),
		strings.TrimSpace(profile.ProductDescription),
		strings.TrimSpace(profile.TargetAudience),
		strings.TrimSpace(profile.Persona),
		strings.TrimSpace(profile.UGCAccountID),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save brand profile: %w", err)
	}
	return nil
}

// Prompts returns the prompt overrides for a workflow tag. Missing rows yield
// an empty set so callers fall back to built-in defaults.
func (s *Store) Prompts(ctx context.Context, tag string) (PromptSet, error) {
	if tag = strings.TrimSpace(tag); tag == "" {
		tag = "general"
	}
	row := s.db.QueryRowContext(
		ctx,
		`SELECT tag, relevancy_text, comment_text, updated_at FROM prompt_sets WHERE tag = ?`,
		tag,
	)
	var (
		set        PromptSet
		updatedRaw string
	)
	err := row.Scan(&set.Tag, &set.RelevancyText, &set.CommentText, &updatedRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return PromptSet{Tag: tag}, nil
	}
	if err != nil {
		return PromptSet{}, fmt.Errorf("get prompts: %w", err)
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		set.UpdatedAt = updated
	}
	return set, nil
}

// SavePrompts upserts the prompt overrides for a workflow tag.
func (s *Store) SavePrompts(ctx context.Context, set PromptSet) error {
	tag := strings.TrimSpace(set.Tag)
	if tag == "" {
		tag = "general"
	}
	now := time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO prompt_sets (tag, relevancy_text, comment_text, updated_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(tag) DO UPDATE SET
             relevancy_text = excluded.relevancy_text,
             comment_text = excluded.comment_text,
             updated_at = excluded.updated_at`,
		tag,
		set.RelevancyText,
		set.CommentText,
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save prompts: %w", err)
	}
	return nil
}
