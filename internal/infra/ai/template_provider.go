package ai

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/followwise/followwise-api/internal/entity"
)

const (
	defaultRecipient = "there"
	defaultSender    = "Your FollowWise Team"

	subjectContextLimit = 50
	deadlineDays        = 3
	deadlineLayout      = "Monday, January 02"
)

type templatePool struct {
	subjects []string
	bodies   []string
}

var templates = map[entity.Tone]templatePool{
	entity.TonePolite: {
		subjects: []string{
			"Following up on our recent conversation",
			"Just checking in",
			"Reconnecting regarding your interest",
		},
		bodies: []string{
			"Dear {name},\n\nI hope this message finds you well. I'm following up on our recent conversation about {context}. I wanted to check if you had any questions or if there's anything else I can assist you with.\n\nBest regards,\n{user_name}",
			"Hello {name},\n\nI wanted to follow up regarding {context}. Please let me know if you've had a chance to review the information I sent. I'm happy to provide any additional details you might need.\n\nBest regards,\n{user_name}",
			"Hi {name},\n\nI hope you're doing well. I'm reaching out to see if you've had any thoughts about {context} since we last spoke. I'm here to help with any questions you might have.\n\nKind regards,\n{user_name}",
		},
	},
	entity.ToneAssertive: {
		subjects: []string{
			"Action required: Follow-up on our discussion",
			"Time-sensitive: Need your input",
			"Following up: Next steps",
		},
		bodies: []string{
			"{name},\n\nI'm following up on our discussion about {context}. To move forward, I'll need your response by {deadline}. Please let me know if you have any questions.\n\nRegards,\n{user_name}",
			"{name},\n\nThis is a follow-up regarding {context}. I need to hear back from you by {deadline} to proceed. Let me know if you need any clarification.\n\nBest,\n{user_name}",
			"{name},\n\nI'm reaching out again about {context}. Your input is needed to take the next steps. Please respond by {deadline}.\n\nThanks,\n{user_name}",
		},
	},
	entity.ToneFriendly: {
		subjects: []string{
			"Hey {first_name}! Just checking in",
			"Following up on {context}",
			"Quick update on our conversation",
		},
		bodies: []string{
			"Hey {first_name}!\n\nI was just thinking about our conversation about {context} and wanted to check in. How's it going? Let me know if you've had any thoughts or questions!\n\nCheers,\n{user_name}",
			"Hi {first_name}!\n\nHope you're having a great week! I wanted to follow up on {context}. Any updates on your end?\n\nBest,\n{user_name}",
			"{first_name}!\n\nQuick note to follow up about {context}. Let me know what you think when you get a chance!\n\nTalk soon,\n{user_name}",
		},
	},
}

// TemplateProvider drafts follow-ups from fixed per-tone template pools.
// Output depends only on its inputs and the clock, which feeds {deadline}.
type TemplateProvider struct {
	now func() time.Time
}

func NewTemplateProvider() *TemplateProvider {
	return &TemplateProvider{now: time.Now}
}

// NewTemplateProviderWithClock pins the clock used for deadline phrasing.
func NewTemplateProviderWithClock(now func() time.Time) *TemplateProvider {
	return &TemplateProvider{now: now}
}

func (p *TemplateProvider) Generate(ctx context.Context, contextText string, tone entity.Tone, lead *entity.LeadInfo, history []entity.Interaction) ([]entity.FollowUpVariant, error) {
	return p.Draft(contextText, tone, lead), nil
}

// Draft is Generate without the error: template drafting cannot fail.
func (p *TemplateProvider) Draft(contextText string, tone entity.Tone, lead *entity.LeadInfo) []entity.FollowUpVariant {
	pool, ok := templates[tone]
	if !ok {
		tone = entity.TonePolite
		pool = templates[tone]
	}

	name, firstName, userName := defaultRecipient, defaultRecipient, defaultSender
	if lead != nil {
		if n := strings.TrimSpace(lead.ContactName); n != "" {
			name = n
			firstName = strings.SplitN(n, " ", 2)[0]
		}
		if lead.UserName != "" {
			userName = lead.UserName
		}
	}
	deadline := p.now().AddDate(0, 0, deadlineDays).Format(deadlineLayout)

	subjectVars := strings.NewReplacer(
		"{first_name}", firstName,
		"{context}", previewContext(contextText),
		"{deadline}", deadline,
	)
	bodyVars := strings.NewReplacer(
		"{name}", name,
		"{first_name}", firstName,
		"{context}", contextText,
		"{deadline}", deadline,
		"{user_name}", userName,
	)

	variants := make([]entity.FollowUpVariant, 0, entity.VariantCount)
	for i := 0; i < entity.VariantCount; i++ {
		variants = append(variants, entity.FollowUpVariant{
			VariantIndex: i,
			Subject:      subjectVars.Replace(pool.subjects[i%len(pool.subjects)]),
			Body:         bodyVars.Replace(pool.bodies[i%len(pool.bodies)]),
			Tone:         tone,
		})
	}
	return variants
}

func previewContext(s string) string {
	if utf8.RuneCountInString(s) <= subjectContextLimit {
		return s
	}
	return string([]rune(s)[:subjectContextLimit]) + "..."
}
