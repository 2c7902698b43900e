package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/followwise/followwise-api/internal/entity"
)

type FollowUpRepository struct {
	DB *sql.DB
}

func NewFollowUpRepository(db *sql.DB) *FollowUpRepository {
	return &FollowUpRepository{DB: db}
}

func (r *FollowUpRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.FollowUpSuggestion, error) {
	query := `
		SELECT id, lead_id, variant_index, subject, body, tone, created_at
		FROM followup_suggestions
		WHERE lead_id = $1
		ORDER BY variant_index
	`

	rows, err := r.DB.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	defer rows.Close()

	batch := []*entity.FollowUpSuggestion{}
	for rows.Next() {
		var (
			s    entity.FollowUpSuggestion
			tone string
		)
		if err := rows.Scan(&s.ID, &s.LeadID, &s.VariantIndex, &s.Subject, &s.Body, &tone, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		s.Tone = entity.Tone(tone)
		batch = append(batch, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suggestions: %w", err)
	}
	return batch, nil
}

// ReplaceForLead swaps the lead's batch atomically: either the whole new
// batch is visible after commit or the previous one is left untouched.
func (r *FollowUpRepository) ReplaceForLead(ctx context.Context, leadID string, batch []*entity.FollowUpSuggestion) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("[REPO] rollback of suggestions for lead %s failed: %v", leadID, rbErr)
			}
		}
	}()

	// Concurrent regenerations for one lead queue up behind this lock.
	var locked string
	if err = tx.QueryRowContext(ctx, `SELECT id FROM leads WHERE id = $1 FOR UPDATE`, leadID).Scan(&locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			err = entity.ErrNotFound
			return err
		}
		return fmt.Errorf("lock lead: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM followup_suggestions WHERE lead_id = $1`, leadID); err != nil {
		return fmt.Errorf("delete previous suggestions: %w", err)
	}

	insert := `
		INSERT INTO followup_suggestions (id, lead_id, variant_index, subject, body, tone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, s := range batch {
		if _, err = tx.ExecContext(ctx, insert, s.ID, leadID, s.VariantIndex, s.Subject, s.Body, string(s.Tone), s.CreatedAt); err != nil {
			return fmt.Errorf("insert suggestion %d: %w", s.VariantIndex, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit suggestions: %w", err)
	}
	return nil
}
