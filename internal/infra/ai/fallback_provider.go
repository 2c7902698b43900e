package ai

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/followwise/followwise-api/internal/entity"
	"github.com/followwise/followwise-api/internal/infra/metrics"
	"github.com/followwise/followwise-api/internal/usecase"
)

// FallbackProvider asks a remote provider first and answers with the
// template drafts whenever that call fails, stalls, or returns a bad shape.
type FallbackProvider struct {
	name     string
	primary  usecase.SuggestionProvider
	fallback *TemplateProvider
	timeout  time.Duration
}

func NewFallbackProvider(name string, primary usecase.SuggestionProvider, fallback *TemplateProvider, timeout time.Duration) *FallbackProvider {
	return &FallbackProvider{
		name:     name,
		primary:  primary,
		fallback: fallback,
		timeout:  timeout,
	}
}

func (f *FallbackProvider) Generate(ctx context.Context, contextText string, tone entity.Tone, lead *entity.LeadInfo, history []entity.Interaction) ([]entity.FollowUpVariant, error) {
	if !tone.Valid() {
		tone = entity.TonePolite
	}

	callCtx := ctx
	if f.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	variants, err := f.primary.Generate(callCtx, contextText, tone, lead, history)
	if err == nil {
		err = checkShape(variants)
	}
	if err == nil {
		for i := range variants {
			variants[i].VariantIndex = i
			variants[i].Tone = tone
		}
		return variants, nil
	}

	log.Printf("[AI] %s failed: %v, falling back to templates", f.name, err)
	metrics.RecordAIFallback(f.name)
	return f.fallback.Draft(contextText, tone, lead), nil
}

func checkShape(variants []entity.FollowUpVariant) error {
	if len(variants) != entity.VariantCount {
		return fmt.Errorf("expected %d variants, got %d", entity.VariantCount, len(variants))
	}
	for i, v := range variants {
		if v.Subject == "" || v.Body == "" {
			return fmt.Errorf("variant %d is empty", i)
		}
	}
	return nil
}
