package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/followwise/followwise-api/internal/entity"
)

// invalidTextRepresentation is raised for ids that are not uuid literals.
const invalidTextRepresentation = "22P02"

const leadColumns = `id, user_id, contact_name, contact_email, company, phone, source,
	last_email_snippet, lead_score, status, next_followup_at, notes, is_active, created_at, updated_at`

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.UserID,
		lead.ContactName,
		lead.ContactEmail,
		nullString(lead.Company),
		nullString(lead.Phone),
		string(lead.Source),
		nullString(lead.LastEmailSnippet),
		lead.LeadScore,
		string(lead.Status),
		nullTime(lead.NextFollowUpAt),
		nullString(lead.Notes),
		lead.IsActive,
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) FindByIDAndOwner(ctx context.Context, id, userID string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1 AND user_id = $2`
	return scanLead(r.DB.QueryRowContext(ctx, query, id, userID))
}

func (r *LeadRepository) FindByEmailAndOwner(ctx context.Context, email, userID string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE contact_email = $1 AND user_id = $2 LIMIT 1`
	return scanLead(r.DB.QueryRowContext(ctx, query, email, userID))
}

func (r *LeadRepository) List(ctx context.Context, userID string, filter entity.LeadFilter) ([]*entity.Lead, error) {
	var b strings.Builder
	args := []interface{}{userID}

	b.WriteString(`SELECT ` + leadColumns + ` FROM leads WHERE user_id = $1`)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		fmt.Fprintf(&b, " AND status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		fmt.Fprintf(&b, " AND (contact_name ILIKE $%d OR contact_email ILIKE $%d OR company ILIKE $%d OR notes ILIKE $%d)", n, n, n, n)
	}
	args = append(args, filter.Skip, filter.Limit)
	fmt.Fprintf(&b, " ORDER BY created_at DESC OFFSET $%d LIMIT $%d", len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

func (r *LeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	query := `
		UPDATE leads SET
			contact_name = $1,
			contact_email = $2,
			company = $3,
			phone = $4,
			source = $5,
			last_email_snippet = $6,
			lead_score = $7,
			status = $8,
			next_followup_at = $9,
			notes = $10,
			is_active = $11,
			updated_at = $12
		WHERE id = $13 AND user_id = $14
	`

	res, err := r.DB.ExecContext(ctx, query,
		lead.ContactName,
		lead.ContactEmail,
		nullString(lead.Company),
		nullString(lead.Phone),
		string(lead.Source),
		nullString(lead.LastEmailSnippet),
		lead.LeadScore,
		string(lead.Status),
		nullTime(lead.NextFollowUpAt),
		nullString(lead.Notes),
		lead.IsActive,
		lead.UpdatedAt,
		lead.ID,
		lead.UserID,
	)
	if err != nil {
		if isMalformedID(err) {
			return entity.ErrNotFound
		}
		return fmt.Errorf("update lead: %w", err)
	}
	return expectAffected(res)
}

// Delete is a hard delete; the schema cascades to suggestions and sent-email logs.
func (r *LeadRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if isMalformedID(err) {
			return entity.ErrNotFound
		}
		return fmt.Errorf("delete lead: %w", err)
	}
	return expectAffected(res)
}

func (r *LeadRepository) ListDueForFollowUp(ctx context.Context, now time.Time, limit int) ([]*entity.Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE is_active
			AND next_followup_at IS NOT NULL
			AND next_followup_at <= $1
			AND NOT EXISTS (SELECT 1 FROM followup_suggestions f WHERE f.lead_id = leads.id)
		ORDER BY next_followup_at
		LIMIT $2
	`

	rows, err := r.DB.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list due leads: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		lead                           entity.Lead
		company, phone, snippet, notes sql.NullString
		source, status                 string
		nextFollowUp                   sql.NullTime
	)

	err := row.Scan(
		&lead.ID,
		&lead.UserID,
		&lead.ContactName,
		&lead.ContactEmail,
		&company,
		&phone,
		&source,
		&snippet,
		&lead.LeadScore,
		&status,
		&nextFollowUp,
		&notes,
		&lead.IsActive,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("scan lead: %w", err)
	}

	lead.Company = company.String
	lead.Phone = phone.String
	lead.LastEmailSnippet = snippet.String
	lead.Notes = notes.String
	lead.Source = entity.LeadSource(source)
	lead.Status = entity.LeadStatus(status)
	if nextFollowUp.Valid {
		t := nextFollowUp.Time
		lead.NextFollowUpAt = &t
	}
	return &lead, nil
}

func scanLeads(rows *sql.Rows) ([]*entity.Lead, error) {
	leads := []*entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}

// isMalformedID reports a lead id Postgres could not parse. Such an id
// cannot match any row.
func isMalformedID(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == invalidTextRepresentation
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}
