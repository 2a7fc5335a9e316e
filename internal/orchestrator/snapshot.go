package orchestrator

import (
	"adgen/internal/gen"
	"adgen/internal/types"
)

// Snapshot is an immutable view of the working state for rendering and
// export. AdCopy carries manual overrides already merged.
type Snapshot struct {
	Phase       Phase
	Result      *types.CampaignResult
	AdCopy      types.AdCopy
	LandingPage *types.LandingPageContent

	Image      *gen.Image
	Variations []gen.Image
	Logo       *gen.Image
	Video      *gen.Video
	Speech     *gen.Speech
	Social     *types.SocialPrompts
	Variants   []types.AdVariant
	ChatLog    []types.ChatMessage
}

// Snapshot captures the current working state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()

	snap := Snapshot{
		Phase:      o.phase,
		Image:      o.assets.image,
		Variations: append([]gen.Image{}, o.assets.variations...),
		Logo:       o.assets.logo,
		Video:      o.assets.video,
		Speech:     o.assets.speech,
		Social:     o.assets.social,
		Variants:   append([]types.AdVariant{}, o.assets.variants...),
		ChatLog:    append([]types.ChatMessage{}, o.assets.chatLog...),
	}

	if o.result != nil {
		result := *o.result
		snap.Result = &result
		snap.AdCopy = result.AdCopy
		if o.adCopyOverride != nil {
			snap.AdCopy = *o.adCopyOverride
		}
		if o.ctaOverride != nil {
			snap.AdCopy.CTA = *o.ctaOverride
		}
	}
	if o.landingPage != nil {
		page := *o.landingPage
		snap.LandingPage = &page
	}
	return snap
}
