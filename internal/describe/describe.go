package describe

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/localpages/directory-cli/internal/model"
	"github.com/localpages/directory-cli/pkg/anthropic"
)

const systemPrompt = `You write short listing descriptions for a local business directory.
Write 2-3 sentences in a warm, factual tone. Mention the business by name.
Use only the facts provided; never invent hours, awards, or menu items.
Return only the description text with no preamble.`

// Drafter generates listing descriptions with Claude.
type Drafter struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// New creates a Drafter for the given model.
func New(client anthropic.Client, model string) *Drafter {
	return &Drafter{client: client, model: model, maxTokens: 400}
}

// Draft generates a description for a business from its stored facts.
func (d *Drafter) Draft(ctx context.Context, b *model.Business) (string, error) {
	temp := 0.7
	resp, err := d.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       d.model,
		MaxTokens:   d.maxTokens,
		System:      systemPrompt,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: buildPrompt(b)},
		},
	})
	if err != nil {
		return "", eris.Wrapf(err, "describe: draft for %s", b.Slug)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", eris.Errorf("describe: empty response for %s", b.Slug)
	}

	resp.Usage.LogCost(d.model, "describe")
	return text, nil
}

// buildPrompt flattens the business record into a fact sheet for the model.
func buildPrompt(b *model.Business) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Business: %s\n", b.Name)
	fmt.Fprintf(&sb, "Category: %s\n", b.Category)
	fmt.Fprintf(&sb, "Location: %s, %s\n", b.City, b.State)
	if b.Address != "" {
		fmt.Fprintf(&sb, "Address: %s\n", b.Address)
	}
	if b.Rating > 0 {
		fmt.Fprintf(&sb, "Rating: %.1f stars across %d reviews\n", b.Rating, b.ReviewCount)
	}
	if b.PriceLevel != nil {
		fmt.Fprintf(&sb, "Price level: %s\n", strings.Repeat("$", *b.PriceLevel))
	}
	if len(b.CachedHours) > 0 {
		sb.WriteString("Hours are published.\n")
	}
	if len(b.CachedReviews) > 0 {
		sb.WriteString("Recent review snippets:\n")
		for i, r := range b.CachedReviews {
			if i == 3 {
				break
			}
			if r.Text != "" {
				fmt.Fprintf(&sb, "- %q\n", r.Text)
			}
		}
	}
	return sb.String()
}
