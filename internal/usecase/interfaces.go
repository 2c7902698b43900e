package usecase

import (
	"context"

	"github.com/followwise/followwise-api/internal/entity"
)

// SuggestionProvider drafts exactly entity.VariantCount follow-up variants.
// history may be nil. Implementations backed by a remote model are expected
// to fall back to a deterministic draft rather than return transport errors.
type SuggestionProvider interface {
	Generate(ctx context.Context, contextText string, tone entity.Tone, lead *entity.LeadInfo, history []entity.Interaction) ([]entity.FollowUpVariant, error)
}

// SuggestionCache is an optional read-through cache of a lead's live batch.
// Writers invalidate after committing; readers fill with the Version they
// read before querying the database, and the fill is dropped if an
// invalidation happened in between.
type SuggestionCache interface {
	Get(ctx context.Context, leadID string) ([]*entity.FollowUpSuggestion, bool, error)
	Version(ctx context.Context, leadID string) (int64, error)
	Set(ctx context.Context, leadID string, version int64, batch []*entity.FollowUpSuggestion) error
	Invalidate(ctx context.Context, leadID string) error
}

type RegenerationPublisher interface {
	PublishRegeneration(ctx context.Context, job RegenerationJob) error
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type TokenIssuer interface {
	Issue(userID string) (string, error)
	Parse(token string) (string, error)
}
