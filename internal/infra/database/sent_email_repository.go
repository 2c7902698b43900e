package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/followwise/followwise-api/internal/entity"
)

const sentEmailColumns = `id, user_id, lead_id, to_email, subject, body, provider, status, sent_at`

type SentEmailRepository struct {
	DB *sql.DB
}

func NewSentEmailRepository(db *sql.DB) *SentEmailRepository {
	return &SentEmailRepository{DB: db}
}

func (r *SentEmailRepository) Create(ctx context.Context, l *entity.SentEmailLog, resetFollowUp bool) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin sent email: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("[REPO] rollback of sent email %s failed: %v", l.ID, rbErr)
			}
		}
	}()

	query := `
		INSERT INTO sent_email_logs (` + sentEmailColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if _, err = tx.ExecContext(ctx, query,
		l.ID,
		l.UserID,
		l.LeadID,
		l.ToEmail,
		l.Subject,
		l.Body,
		string(l.Provider),
		l.Status,
		l.SentAt,
	); err != nil {
		return fmt.Errorf("insert sent email: %w", err)
	}

	if resetFollowUp {
		if _, err = tx.ExecContext(ctx, `UPDATE leads SET next_followup_at = NULL, updated_at = NOW() WHERE id = $1`, l.LeadID); err != nil {
			return fmt.Errorf("reset follow-up reminder: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit sent email: %w", err)
	}
	return nil
}

func (r *SentEmailRepository) ListByLead(ctx context.Context, leadID string, skip, limit int) ([]*entity.SentEmailLog, error) {
	query := `SELECT ` + sentEmailColumns + ` FROM sent_email_logs WHERE lead_id = $1 ORDER BY sent_at DESC OFFSET $2 LIMIT $3`
	return r.list(ctx, query, leadID, skip, limit)
}

func (r *SentEmailRepository) ListByUser(ctx context.Context, userID string, skip, limit int) ([]*entity.SentEmailLog, error) {
	query := `SELECT ` + sentEmailColumns + ` FROM sent_email_logs WHERE user_id = $1 ORDER BY sent_at DESC OFFSET $2 LIMIT $3`
	return r.list(ctx, query, userID, skip, limit)
}

func (r *SentEmailRepository) list(ctx context.Context, query string, args ...interface{}) ([]*entity.SentEmailLog, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sent emails: %w", err)
	}
	defer rows.Close()

	logs := []*entity.SentEmailLog{}
	for rows.Next() {
		var (
			l        entity.SentEmailLog
			provider string
		)
		if err := rows.Scan(&l.ID, &l.UserID, &l.LeadID, &l.ToEmail, &l.Subject, &l.Body, &provider, &l.Status, &l.SentAt); err != nil {
			return nil, fmt.Errorf("scan sent email: %w", err)
		}
		l.Provider = entity.EmailProvider(provider)
		logs = append(logs, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sent emails: %w", err)
	}
	return logs, nil
}
