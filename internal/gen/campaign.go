package gen

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"adgen/internal/logging"
	"adgen/internal/scrape"
	"adgen/internal/types"
)

// GenerateCampaign produces the full campaign for one input payload. Input
// channels are consumed in priority order: URL, then images, then video, then
// text. The URL path is two-stage: a web-search summarization of the page,
// then the structured campaign call over that summary.
func (c *Client) GenerateCampaign(ctx context.Context, input types.InputPayload, language types.TargetLanguage) (*types.CampaignResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if language == "" {
		language = types.LanguageEnglish
	}

	timer := logging.StartTimer("generator", "GenerateCampaign")

	var parts []Part
	switch input.Kind() {
	case types.InputURL:
		summary, err := c.summarizeURL(ctx, input.URL(), input.Text())
		if err != nil {
			timer.Stop()
			return nil, fmt.Errorf("url analysis failed: %w", err)
		}
		parts = []Part{{Text: "Generate a campaign based on this product analysis:\n\n" + summary}}

	case types.InputImage:
		for _, img := range input.Images() {
			parts = append(parts, Part{InlineData: &InlineData{
				MIMEType: http.DetectContentType(img),
				Data:     base64.StdEncoding.EncodeToString(img),
			}})
		}
		parts = append(parts, Part{Text: "Analyze these product images and generate a campaign. Additional context: " + input.Text()})

	case types.InputVideo:
		parts = []Part{
			{InlineData: &InlineData{
				MIMEType: "video/mp4",
				Data:     base64.StdEncoding.EncodeToString(input.Video()),
			}},
			{Text: "Analyze this product video and generate a campaign. Additional context: " + input.Text()},
		}

	default:
		parts = []Part{{Text: "Generate a campaign for this product: " + input.Text()}}
	}

	req := &GenerateRequest{
		Contents:          []Content{{Role: "user", Parts: parts}},
		SystemInstruction: &Content{Parts: []Part{{Text: campaignSystemInstruction(language)}}},
		GenerationConfig: &GenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   campaignSchema,
		},
	}

	resp, err := c.generate(ctx, c.textModel, req)
	if err != nil {
		timer.Stop()
		return nil, err
	}

	var result types.CampaignResult
	if err := decodeStrict(firstText(resp), &result); err != nil {
		timer.Stop()
		return nil, err
	}
	result.Language = language

	timer.StopWithInfo("input=%s language=%s", input.Kind(), language)
	return &result, nil
}

// summarizeURL runs the web-search grounding stage of the URL input path.
// Locally scraped page facts are appended when the page is reachable; scrape
// failures are non-fatal since search grounding covers the same ground.
func (c *Client) summarizeURL(ctx context.Context, url, userContext string) (string, error) {
	pageFacts := ""
	if c.scrapeFunc != nil {
		facts, err := c.scrapeFunc(ctx, url)
		if err != nil {
			logging.ScrapeWarn("page facts unavailable for %s: %v", url, err)
		} else {
			pageFacts = facts
		}
	}

	req := &GenerateRequest{
		Contents: []Content{{Role: "user", Parts: []Part{
			{Text: urlAnalysisPrompt(url, userContext, pageFacts)},
		}}},
		Tools: []Tool{{GoogleSearch: &GoogleSearch{}}},
	}

	resp, err := c.generate(ctx, c.textModel, req)
	if err != nil {
		return "", err
	}
	summary := firstText(resp)
	if summary == "" {
		return "", ErrNoCompletion
	}
	return summary, nil
}

// GenerateLandingPage builds the landing page content aligned with an
// existing campaign.
func (c *Client) GenerateLandingPage(ctx context.Context, campaign types.CampaignResult) (*types.LandingPageContent, error) {
	req := &GenerateRequest{
		Contents: []Content{{Role: "user", Parts: []Part{{Text: landingPagePrompt(campaign)}}}},
		GenerationConfig: &GenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   landingPageSchema,
		},
	}

	resp, err := c.generate(ctx, c.textModel, req)
	if err != nil {
		return nil, err
	}

	var page types.LandingPageContent
	if err := decodeStrict(firstText(resp), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// RegenerateAdCopy produces a fresh ad copy variation for an existing
// strategy. The output language is inferred by the model from the strategy
// text, which is best effort for mixed-language strategies.
func (c *Client) RegenerateAdCopy(ctx context.Context, strategy types.CampaignStrategy, creative types.CreativeAssets) (*types.AdCopy, error) {
	req := &GenerateRequest{
		Contents: []Content{{Role: "user", Parts: []Part{{Text: regenerateCopyPrompt(strategy, creative)}}}},
		GenerationConfig: &GenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   adCopySchema,
		},
	}

	resp, err := c.generate(ctx, c.textModel, req)
	if err != nil {
		return nil, err
	}

	var copy types.AdCopy
	if err := decodeStrict(firstText(resp), &copy); err != nil {
		return nil, err
	}
	return &copy, nil
}

// GenerateSocialPrompts derives per-platform creative directions from the
// campaign strategy and existing creative assets.
func (c *Client) GenerateSocialPrompts(ctx context.Context, strategy types.CampaignStrategy, creative types.CreativeAssets) (*types.SocialPrompts, error) {
	req := &GenerateRequest{
		Contents: []Content{{Role: "user", Parts: []Part{{Text: socialPromptsPrompt(strategy, creative)}}}},
		GenerationConfig: &GenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   socialPromptsSchema,
		},
	}

	resp, err := c.generate(ctx, c.textModel, req)
	if err != nil {
		return nil, err
	}

	var prompts types.SocialPrompts
	if err := decodeStrict(firstText(resp), &prompts); err != nil {
		return nil, err
	}
	return &prompts, nil
}

// GenerateAdVariations produces the five-angle variation set. The provider is
// asked for exactly one variant per fixed angle; a response that does not
// cover all five angles is rejected.
func (c *Client) GenerateAdVariations(ctx context.Context, strategy types.CampaignStrategy, copy types.AdCopy) ([]types.AdVariant, error) {
	req := &GenerateRequest{
		Contents: []Content{{Role: "user", Parts: []Part{{Text: adVariationsPrompt(strategy, copy)}}}},
		GenerationConfig: &GenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   adVariationsSchema,
		},
	}

	resp, err := c.generate(ctx, c.textModel, req)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Variations []types.AdVariant `json:"variations"`
	}
	if err := decodeStrict(firstText(resp), &payload); err != nil {
		return nil, err
	}
	if err := validateVariations(payload.Variations); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return payload.Variations, nil
}

func validateVariations(variants []types.AdVariant) error {
	if len(variants) != len(types.AllAngles) {
		return fmt.Errorf("expected %d variations, got %d", len(types.AllAngles), len(variants))
	}
	seen := make(map[types.AdAngle]bool, len(variants))
	for _, v := range variants {
		seen[v.Angle] = true
	}
	for _, angle := range types.AllAngles {
		if !seen[angle] {
			return fmt.Errorf("missing angle %q", angle)
		}
	}
	return nil
}

// defaultScrapeFunc hooks the local page scraper into the URL path.
func defaultScrapeFunc(ctx context.Context, url string) (string, error) {
	facts, err := scrape.PageFacts(ctx, url)
	if err != nil {
		return "", err
	}
	return facts.String(), nil
}
