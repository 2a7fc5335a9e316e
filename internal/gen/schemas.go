package gen

// Response schemas for structured-output calls. The provider constrains its
// JSON to these shapes, so the decode step can be strict.

func schemaString(desc string) map[string]interface{} {
	s := map[string]interface{}{"type": "string"}
	if desc != "" {
		s["description"] = desc
	}
	return s
}

func schemaArray(items map[string]interface{}, desc string) map[string]interface{} {
	s := map[string]interface{}{"type": "array", "items": items}
	if desc != "" {
		s["description"] = desc
	}
	return s
}

func schemaObject(props map[string]interface{}, required ...string) map[string]interface{} {
	s := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

var adCopySchema = schemaObject(map[string]interface{}{
	"headline": schemaString("Punchy, high-converting headline"),
	"hook":     schemaString("First sentence to grab attention"),
	"body":     schemaString("Main ad text (1-2 paragraphs)"),
	"cta":      schemaString("Short, actionable Call to Action button text"),
}, "headline", "hook", "body", "cta")

var campaignSchema = schemaObject(map[string]interface{}{
	"strategy": schemaObject(map[string]interface{}{
		"targetAudience": schemaString("The ideal customer profile"),
		"toneOfVoice":    schemaString("Adjectives describing the brand voice"),
		"usp":            schemaString("The main Unique Selling Proposition"),
		"visualStyle":    schemaString("Recommended color palette and visual vibe"),
	}, "targetAudience", "toneOfVoice", "usp", "visualStyle"),
	"adCopy": adCopySchema,
	"creative": schemaObject(map[string]interface{}{
		"imagePrompt": schemaString("A highly detailed prompt for an image generation model (Always in English for best results)"),
		"videoScript": schemaString("A visual description of the scene for a 15s video ad (Always in English for best results)"),
	}, "imagePrompt", "videoScript"),
	"keywords": schemaArray(schemaString(""), "List of 10 high-intent keywords for SEO/PPC"),
}, "strategy", "adCopy", "creative", "keywords")

var socialPromptsSchema = schemaObject(map[string]interface{}{
	"instagramStory": schemaString("Detailed visual prompt for a 9:16 Instagram Story (focus on stickers, polls, quick cuts)"),
	"tikTok":         schemaString("Detailed direction for a TikTok video (UGC style, trending audio suggestion, text overlays)"),
	"youTubeShort":   schemaString("Direction for a YouTube Short (educational or entertainment hook, clear value prop)"),
}, "instagramStory", "tikTok", "youTubeShort")

var adVariationsSchema = schemaObject(map[string]interface{}{
	"variations": schemaArray(schemaObject(map[string]interface{}{
		"angle":       schemaString("The marketing angle (must be one of: 'Pain & Problem', 'UGC / Social Proof', 'Educational / Authority', 'Contrarian / Curiosity', 'Irresistible Offer / FOMO')"),
		"headline":    schemaString("Headline optimized for the angle"),
		"primaryText": schemaString("Main body text optimized for the platform mix"),
		"platforms":   schemaArray(schemaString(""), "Best platforms for this specific variation"),
	}, "angle", "headline", "primaryText", "platforms"), ""),
}, "variations")

func titleDescSchema() map[string]interface{} {
	return schemaObject(map[string]interface{}{
		"title": schemaString(""),
		"desc":  schemaString(""),
	}, "title", "desc")
}

var landingPageSchema = schemaObject(map[string]interface{}{
	"hero": schemaObject(map[string]interface{}{
		"headline":    schemaString(""),
		"subheadline": schemaString(""),
		"cta":         schemaString(""),
	}, "headline", "subheadline", "cta"),
	"trust": schemaObject(map[string]interface{}{
		"title": schemaString(""),
		"logos": schemaArray(schemaString(""), ""),
	}, "title", "logos"),
	"problem": schemaObject(map[string]interface{}{
		"title": schemaString(""),
		"items": schemaArray(titleDescSchema(), ""),
	}, "title", "items"),
	"solution": schemaObject(map[string]interface{}{
		"title": schemaString(""),
		"items": schemaArray(titleDescSchema(), ""),
	}, "title", "items"),
	"howItWorks": schemaObject(map[string]interface{}{
		"title": schemaString(""),
		"steps": schemaArray(titleDescSchema(), ""),
	}, "title", "steps"),
	"socialProof": schemaObject(map[string]interface{}{
		"title": schemaString(""),
		"testimonials": schemaArray(schemaObject(map[string]interface{}{
			"name": schemaString(""),
			"role": schemaString(""),
			"text": schemaString(""),
		}, "name", "role", "text"), ""),
	}, "title", "testimonials"),
	"pricing": schemaObject(map[string]interface{}{
		"title":    schemaString(""),
		"price":    schemaString(""),
		"period":   schemaString(""),
		"features": schemaArray(schemaString(""), ""),
		"cta":      schemaString(""),
	}, "title", "price", "period", "features", "cta"),
	"faq": schemaObject(map[string]interface{}{
		"title": schemaString(""),
		"items": schemaArray(schemaObject(map[string]interface{}{
			"question": schemaString(""),
			"answer":   schemaString(""),
		}, "question", "answer"), ""),
	}, "title", "items"),
	"footer": schemaObject(map[string]interface{}{
		"copyright": schemaString(""),
		"links":     schemaArray(schemaString(""), ""),
	}, "copyright", "links"),
}, "hero", "trust", "problem", "solution", "howItWorks", "socialProof", "pricing", "faq", "footer")
