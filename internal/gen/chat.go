package gen

import (
	"context"
	"fmt"

	"adgen/internal/types"
)

// ChatWithCampaign answers one user message in a multi-turn conversation
// grounded in the generated campaign. Prior turns are replayed so the model
// keeps context; the caller owns the transcript.
func (c *Client) ChatWithCampaign(ctx context.Context, campaign types.CampaignResult, history []types.ChatMessage, message string) (string, error) {
	contents := make([]Content, 0, len(history)+1)
	for _, msg := range history {
		role := "user"
		if msg.Role == types.ChatRoleModel {
			role = "model"
		}
		contents = append(contents, Content{Role: role, Parts: []Part{{Text: msg.Text}}})
	}
	contents = append(contents, Content{Role: "user", Parts: []Part{{Text: message}}})

	req := &GenerateRequest{
		Contents:          contents,
		SystemInstruction: &Content{Parts: []Part{{Text: chatSystemInstruction(campaign)}}},
	}

	resp, err := c.generate(ctx, c.textModel, req)
	if err != nil {
		return "", err
	}

	reply := firstText(resp)
	if reply == "" {
		return "", ErrNoCompletion
	}
	return reply, nil
}

func chatSystemInstruction(campaign types.CampaignResult) string {
	return fmt.Sprintf(`You are a marketing assistant helping refine an advertising campaign.
Answer questions and suggest improvements grounded in the current campaign.

CURRENT CAMPAIGN:
- Language: %s
- Target Audience: %s
- Tone: %s
- USP: %s
- Headline: %s
- Hook: %s
- Body: %s
- CTA: %s

Keep answers concise and actionable. When asked to rewrite copy, respond in the campaign language.`,
		campaign.Language,
		campaign.Strategy.TargetAudience, campaign.Strategy.ToneOfVoice,
		campaign.Strategy.USP,
		campaign.AdCopy.Headline, campaign.AdCopy.Hook,
		campaign.AdCopy.Body, campaign.AdCopy.CTA)
}
