package gen

import (
	"fmt"
	"regexp"
	"strings"

	"adgen/internal/types"
)

// Prompt templates passed to the provider. Public-facing text follows the
// campaign language; creative prompts stay English for downstream model
// compatibility.

func campaignSystemInstruction(language types.TargetLanguage) string {
	return fmt.Sprintf(`You are AdGen Master, a world-class Chief Marketing Officer and Creative Director.
Your goal is to generate a cohesive, high-converting advertising campaign.

IMPORTANT: OUTPUT LANGUAGE
You MUST generate all public-facing text (Ad Copy, Keywords, Strategy details) in the following language: %s.

Specific Instructions for Languages:
- If 'Darija (Morocco)', use authentic Moroccan Darija (Maghrebi Arabic script mixed with Latin if appropriate for the brand context, but usually Arabic script for ads). It should sound natural and local.
- If 'Français', use professional and persuasive French.
- If 'العربية', use Modern Standard Arabic (MSA) or creative advertising Arabic.

EXCEPTIONS (Always in English):
- The 'imagePrompt' and 'videoScript' in the creative section MUST remain in ENGLISH to ensure compatibility with image/video generation models.

Follow this workflow:
1. ANALYZE the input (image, video, text, or URL content).
2. STRATEGIZE: Define the perfect audience and tone in %s.
3. GENERATE: Create copy in %s.`, language, language, language)
}

func urlAnalysisPrompt(url, context, pageFacts string) string {
	prompt := fmt.Sprintf("Analyze this website URL and provide a comprehensive summary of the product, target audience, and unique selling points: %s. Context provided by user: %s", url, context)
	if pageFacts != "" {
		prompt += "\n\nFacts extracted from the page itself:\n" + pageFacts
	}
	return prompt
}

func landingPagePrompt(campaign types.CampaignResult) string {
	language := campaign.Language
	if language == "" {
		language = types.LanguageEnglish
	}
	darijaHint := ""
	if language == types.LanguageDarija {
		darijaHint = "Use authentic Moroccan Darija for headlines and copy.\n"
	}
	return fmt.Sprintf(`You are a CRO (Conversion Rate Optimization) Expert.

Task: Create a High-Converting Landing Page structure for the product described below.
This landing page must strictly align with the generated Ad Campaign.

IMPORTANT: Generate all text content in **%s**.
%s
CAMPAIGN CONTEXT:
- USP: %s
- Audience: %s
- Tone: %s
- Ad Hook: %s

REQUIREMENTS:
1. HERO: Write a compelling H1 (Headline) and H2 (Subheadline) that matches the Ad Hook.
2. PROBLEM: Identify 3 key pain points this audience faces.
3. SOLUTION: Identify 3 key benefits/features that solve the problem.
4. SOCIAL PROOF: Generate 3 realistic testimonials relevant to the target audience (Use names typical for the language/region).
5. PRICING: Create a realistic pricing tier (Currency should match the region, e.g. MAD for Morocco if Darija).
6. FAQ: 3 relevant questions and answers.

Output pure JSON matching the schema.`,
		language, darijaHint,
		campaign.Strategy.USP, campaign.Strategy.TargetAudience,
		campaign.Strategy.ToneOfVoice, campaign.AdCopy.Hook)
}

// regenerateCopyPrompt relies on the model detecting the output language from
// the strategy text. Best effort; see RegenerateAdCopy.
func regenerateCopyPrompt(strategy types.CampaignStrategy, creative types.CreativeAssets) string {
	return fmt.Sprintf(`Rewrite the Ad Copy (Headline, Hook, Body, CTA) for this campaign.

STRATEGY CONTEXT:
- Target Audience: %s
- Tone: %s
- USP: %s

VISUAL CONTEXT (The copy must match this vibe):
- Image Style: %s
- Video Concept: %s

Generate a FRESH, creative variation that is high-converting and persuasive.
Detect the language from the strategy context and strictly output in the same language.`,
		strategy.TargetAudience, strategy.ToneOfVoice, strategy.USP,
		creative.ImagePrompt, creative.VideoScript)
}

func socialPromptsPrompt(strategy types.CampaignStrategy, creative types.CreativeAssets) string {
	return fmt.Sprintf(`You are a Social Media Content Strategist.
Based on the following campaign strategy and existing creative assets, generate highly specific creative directions/prompts for Instagram Stories, TikTok, and YouTube Shorts.

CAMPAIGN STRATEGY:
- Audience: %s
- USP: %s
- Vibe: %s

EXISTING ASSETS:
- Base Image Concept: %s
- Base Video Concept: %s

TASK:
Create 3 distinct adaptations.
Each adaptation must include:
1. Visual Hook (first 3 seconds)
2. Main Action/Content
3. Audio/Text Overlay suggestions

The content ideas should be culturally relevant to the target audience defined in the strategy.

Output JSON only.`,
		strategy.TargetAudience, strategy.USP, strategy.VisualStyle,
		creative.ImagePrompt, creative.VideoScript)
}

func adVariationsPrompt(strategy types.CampaignStrategy, copy types.AdCopy) string {
	return fmt.Sprintf(`You are an expert Ad Creative Strategist for the post-iOS14 era.
Platforms like Meta Advantage+, Google Performance Max, and TikTok Smart Creative generally require 5 distinct psychological angles to optimize delivery.

CONTEXT:
- Product USP: %s
- Target Audience: %s
- Baseline Copy: %s

TASK:
Generate exactly 5 DISTINCT ad variations.
IMPORTANT: Detect the language of the Baseline Copy/USP and generate the variations in the SAME language.

Frameworks:
1. 'Pain & Problem' (Focus on the struggle + Solution).
2. 'UGC / Social Proof' (Native, authentic, 'TikTok style').
3. 'Educational / Authority' (Value first, 'How-to', Logical).
4. 'Contrarian / Curiosity' (Pattern interrupt, 'Stop doing this').
5. 'Irresistible Offer / FOMO' (Urgency, Discount, Scarcity).

Output a JSON object with a "variations" array containing exactly these 5 items.`,
		strategy.USP, strategy.TargetAudience, copy.Headline)
}

// =============================================================================
// PROMPT SANITIZATION AND AUGMENTATION
// =============================================================================

// unsafeTerms is the denylist stripped from image/video prompts before
// submission. The provider-side safety check remains authoritative; this only
// reduces gratuitous blocks from generated scripts.
var unsafeTerms = regexp.MustCompile(`(?i)nudity|violence|hate|blood`)

const (
	imageQualitySuffix     = ". Professional advertising photography, product shot, high detail, studio lighting, 8k resolution, sharp focus."
	variationQualitySuffix = ". Alternative composition, different angle, creative lighting variation, professional advertising photography."
	videoQualitySuffix     = ". Cinematic, photorealistic, high resolution, smooth motion, commercial advertisement style, 4k."
	logoSuffix             = ", vector graphic, minimal, white background, professional logo design"
)

// Veo degrades on long scripts with dialogue; keep only the leading visual
// description.
const videoPromptMaxLen = 350

func sanitizePrompt(prompt string) string {
	return strings.TrimSpace(unsafeTerms.ReplaceAllString(prompt, ""))
}

func truncateVideoPrompt(prompt string) string {
	runes := []rune(prompt)
	if len(runes) > videoPromptMaxLen {
		return string(runes[:videoPromptMaxLen])
	}
	return prompt
}
