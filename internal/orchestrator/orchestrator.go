// Package orchestrator drives the campaign generation lifecycle: the primary
// generate cycle, the independent follow-on asset actions, history recall and
// the export snapshot. All state lives here; the generation client below it
// is stateless.
package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"adgen/internal/gen"
	"adgen/internal/history"
	"adgen/internal/logging"
	"adgen/internal/types"
)

// Phase is the lifecycle position of the primary generation cycle.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseFailed  Phase = "failed"
)

// Follow-on action keys. One in-flight call per key; concurrent duplicates
// share the first call's result.
const (
	actionImage      = "image"
	actionVariations = "variations"
	actionLogo       = "logo"
	actionVideo      = "video"
	actionCopy       = "copy"
	actionSocial     = "social"
	actionVariants   = "variants"
	actionEdit       = "edit"
	actionSpeech     = "speech"
	actionChat       = "chat"
)

// Generator is the slice of the generation client the orchestrator drives.
type Generator interface {
	GenerateCampaign(ctx context.Context, input types.InputPayload, language types.TargetLanguage) (*types.CampaignResult, error)
	GenerateLandingPage(ctx context.Context, campaign types.CampaignResult) (*types.LandingPageContent, error)
	RegenerateAdCopy(ctx context.Context, strategy types.CampaignStrategy, creative types.CreativeAssets) (*types.AdCopy, error)
	GenerateSocialPrompts(ctx context.Context, strategy types.CampaignStrategy, creative types.CreativeAssets) (*types.SocialPrompts, error)
	GenerateAdVariations(ctx context.Context, strategy types.CampaignStrategy, copy types.AdCopy) ([]types.AdVariant, error)
	GenerateAdImage(ctx context.Context, prompt, aspectRatio, imageSize string) (*gen.Image, error)
	GenerateImageVariations(ctx context.Context, prompt, aspectRatio string) ([]gen.Image, error)
	EditAdImage(ctx context.Context, image []byte, instruction string) (*gen.Image, error)
	GenerateAdVideo(ctx context.Context, prompt, aspectRatio string, seedImage []byte) (*gen.Video, error)
	GenerateBrandLogo(ctx context.Context, prompt string) (*gen.Image, error)
	GenerateSpeech(ctx context.Context, text string) (*gen.Speech, error)
	TranscribeAudio(ctx context.Context, audio []byte) (string, error)
	ChatWithCampaign(ctx context.Context, campaign types.CampaignResult, chat []types.ChatMessage, message string) (string, error)
}

// assets are the transient per-campaign slots. Reset wholesale whenever the
// working campaign is replaced.
type assets struct {
	image      *gen.Image
	variations []gen.Image
	logo       *gen.Image
	video      *gen.Video
	speech     *gen.Speech
	social     *types.SocialPrompts
	variants   []types.AdVariant
	chatLog    []types.ChatMessage
}

// Orchestrator owns the working campaign state.
type Orchestrator struct {
	gen  Generator
	repo history.Repository

	flight singleflight.Group

	mu          sync.RWMutex
	phase       Phase
	result      *types.CampaignResult
	landingPage *types.LandingPageContent
	err         error
	assets      assets
	actionErrs  map[string]error

	adCopyOverride *types.AdCopy
	ctaOverride    *string
}

// New wires an orchestrator over a generator and a history repository.
func New(g Generator, repo history.Repository) *Orchestrator {
	return &Orchestrator{
		gen:        g,
		repo:       repo,
		phase:      PhaseIdle,
		actionErrs: map[string]error{},
	}
}

// Generate runs the primary cycle: campaign, then landing page, then history.
// Failure of either generation step aborts the cycle; a previously loaded
// campaign survives a failed regeneration.
func (o *Orchestrator) Generate(ctx context.Context, input types.InputPayload, language types.TargetLanguage) error {
	if err := input.Validate(); err != nil {
		return err
	}

	o.mu.Lock()
	if o.phase == PhaseLoading {
		o.mu.Unlock()
		return fmt.Errorf("a generation is already running")
	}
	o.phase = PhaseLoading
	o.err = nil
	o.mu.Unlock()

	timer := logging.StartTimer("orchestrator", "Generate")
	logging.Orchestr("generate cycle started input=%s language=%s", input.Kind(), language)

	result, err := o.gen.GenerateCampaign(ctx, input, language)
	if err != nil {
		o.fail(fmt.Errorf("campaign generation failed: %w", err))
		timer.Stop()
		return o.LastError()
	}

	page, err := o.gen.GenerateLandingPage(ctx, *result)
	if err != nil {
		o.fail(fmt.Errorf("landing page generation failed: %w", err))
		timer.Stop()
		return o.LastError()
	}

	item := types.HistoryItem{
		InputSummary: input.Summary(),
		InputType:    input.Kind(),
		Result:       *result,
		LandingPage:  page,
	}
	if err := o.repo.Append(item); err != nil {
		// The campaign is still usable; losing the history row is not fatal.
		logging.OrchestrError("history append failed: %v", err)
	}

	o.mu.Lock()
	o.phase = PhaseSuccess
	o.result = result
	o.landingPage = page
	o.assets = assets{}
	o.actionErrs = map[string]error{}
	o.adCopyOverride = nil
	o.ctaOverride = nil
	o.mu.Unlock()

	timer.StopWithInfo("summary=%q", item.InputSummary)
	return nil
}

func (o *Orchestrator) fail(err error) {
	logging.OrchestrError("%v", err)
	o.mu.Lock()
	o.phase = PhaseFailed
	o.err = err
	o.mu.Unlock()
}

// Phase reports the lifecycle position of the primary cycle.
func (o *Orchestrator) Phase() Phase {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.phase
}

// LastError reports the error of the last failed primary cycle, if any.
func (o *Orchestrator) LastError() error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.err
}

// ActionError reports the error of the last run of one follow-on action.
func (o *Orchestrator) ActionError(action string) error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.actionErrs[action]
}

// campaign returns the working campaign or an error when none is loaded.
// Every follow-on action starts here.
func (o *Orchestrator) campaign() (types.CampaignResult, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.result == nil {
		return types.CampaignResult{}, fmt.Errorf("no campaign loaded")
	}
	return *o.result, nil
}

// do runs one follow-on action under its singleflight key and records its
// error slot.
func (o *Orchestrator) do(action string, fn func() (interface{}, error)) (interface{}, error) {
	v, err, shared := o.flight.Do(action, fn)
	if shared {
		logging.OrchestrDebug("action %s shared an in-flight call", action)
	}
	o.mu.Lock()
	o.actionErrs[action] = err
	o.mu.Unlock()
	return v, err
}

// GenerateImage renders the main ad visual from the campaign image prompt.
func (o *Orchestrator) GenerateImage(ctx context.Context, aspectRatio, imageSize string) (*gen.Image, error) {
	campaign, err := o.campaign()
	if err != nil {
		return nil, err
	}
	v, err := o.do(actionImage, func() (interface{}, error) {
		img, err := o.gen.GenerateAdImage(ctx, campaign.Creative.ImagePrompt, aspectRatio, imageSize)
		if err != nil {
			return nil, err
		}
		o.mu.Lock()
		o.assets.image = img
		o.mu.Unlock()
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*gen.Image), nil
}

// GenerateVariations renders the three alternative takes on the ad visual.
func (o *Orchestrator) GenerateVariations(ctx context.Context, aspectRatio string) ([]gen.Image, error) {
	campaign, err := o.campaign()
	if err != nil {
		return nil, err
	}
	v, err := o.do(actionVariations, func() (interface{}, error) {
		images, err := o.gen.GenerateImageVariations(ctx, campaign.Creative.ImagePrompt, aspectRatio)
		if err != nil {
			return nil, err
		}
		o.mu.Lock()
		o.assets.variations = images
		o.mu.Unlock()
		return images, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]gen.Image), nil
}

// GenerateLogo renders a brand logo derived from the campaign strategy.
func (o *Orchestrator) GenerateLogo(ctx context.Context) (*gen.Image, error) {
	campaign, err := o.campaign()
	if err != nil {
		return nil, err
	}
	v, err := o.do(actionLogo, func() (interface{}, error) {
		prompt := fmt.Sprintf("Logo for a brand with this identity: %s. Visual style: %s",
			campaign.Strategy.USP, campaign.Strategy.VisualStyle)
		logo, err := o.gen.GenerateBrandLogo(ctx, prompt)
		if err != nil {
			return nil, err
		}
		o.mu.Lock()
		o.assets.logo = logo
		o.mu.Unlock()
		return logo, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*gen.Image), nil
}

// GenerateVideo renders the video ad from the campaign script. When a main
// image has already been generated it seeds the first frame.
func (o *Orchestrator) GenerateVideo(ctx context.Context, aspectRatio string) (*gen.Video, error) {
	campaign, err := o.campaign()
	if err != nil {
		return nil, err
	}
	v, err := o.do(actionVideo, func() (interface{}, error) {
		var seed []byte
		o.mu.RLock()
		if o.assets.image != nil {
			seed = o.assets.image.Data
		}
		o.mu.RUnlock()

		video, err := o.gen.GenerateAdVideo(ctx, campaign.Creative.VideoScript, aspectRatio, seed)
		if err != nil {
			return nil, err
		}
		o.mu.Lock()
		o.assets.video = video
		o.mu.Unlock()
		return video, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*gen.Video), nil
}

// RegenerateCopy replaces the working ad copy with a fresh variation. Any
// manual copy override is discarded.
func (o *Orchestrator) RegenerateCopy(ctx context.Context) (*types.AdCopy, error) {
	campaign, err := o.campaign()
	if err != nil {
		return nil, err
	}
	v, err := o.do(actionCopy, func() (interface{}, error) {
		copy, err := o.gen.RegenerateAdCopy(ctx, campaign.Strategy, campaign.Creative)
		if err != nil {
			return nil, err
		}
		o.mu.Lock()
		o.result.AdCopy = *copy
		o.adCopyOverride = nil
		o.ctaOverride = nil
		o.mu.Unlock()
		return copy, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.AdCopy), nil
}

// GenerateSocial derives per-platform creative directions.
func (o *Orchestrator) GenerateSocial(ctx context.Context) (*types.SocialPrompts, error) {
	campaign, err := o.campaign()
	if err != nil {
		return nil, err
	}
	v, err := o.do(actionSocial, func() (interface{}, error) {
		social, err := o.gen.GenerateSocialPrompts(ctx, campaign.Strategy, campaign.Creative)
		if err != nil {
			return nil, err
		}
		o.mu.Lock()
		o.assets.social = social
		o.mu.Unlock()
		return social, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.SocialPrompts), nil
}

// GenerateVariants produces the five-angle variation batch.
func (o *Orchestrator) GenerateVariants(ctx context.Context) ([]types.AdVariant, error) {
	campaign, err := o.campaign()
	if err != nil {
		return nil, err
	}
	v, err := o.do(actionVariants, func() (interface{}, error) {
		variants, err := o.gen.GenerateAdVariations(ctx, campaign.Strategy, campaign.AdCopy)
		if err != nil {
			return nil, err
		}
		o.mu.Lock()
		o.assets.variants = variants
		o.mu.Unlock()
		return variants, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]types.AdVariant), nil
}

// EditImage applies a natural-language edit to the current main image and
// replaces it with the result.
func (o *Orchestrator) EditImage(ctx context.Context, instruction string) (*gen.Image, error) {
	o.mu.RLock()
	current := o.assets.image
	o.mu.RUnlock()
	if current == nil {
		return nil, fmt.Errorf("no image to edit; generate one first")
	}

	v, err := o.do(actionEdit, func() (interface{}, error) {
		edited, err := o.gen.EditAdImage(ctx, current.Data, instruction)
		if err != nil {
			return nil, err
		}
		o.mu.Lock()
		o.assets.image = edited
		o.mu.Unlock()
		return edited, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*gen.Image), nil
}

// Speak synthesizes a voice-over of the working ad copy (hook plus body).
func (o *Orchestrator) Speak(ctx context.Context) (*gen.Speech, error) {
	campaign, err := o.campaign()
	if err != nil {
		return nil, err
	}
	v, err := o.do(actionSpeech, func() (interface{}, error) {
		copy := o.effectiveAdCopy(campaign)
		speech, err := o.gen.GenerateSpeech(ctx, copy.Hook+" "+copy.Body)
		if err != nil {
			return nil, err
		}
		o.mu.Lock()
		o.assets.speech = speech
		o.mu.Unlock()
		return speech, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*gen.Speech), nil
}

// Chat sends one user message to the campaign assistant and appends both
// turns to the transcript.
func (o *Orchestrator) Chat(ctx context.Context, message string) (string, error) {
	campaign, err := o.campaign()
	if err != nil {
		return "", err
	}
	v, err := o.do(actionChat, func() (interface{}, error) {
		o.mu.RLock()
		transcript := append([]types.ChatMessage{}, o.assets.chatLog...)
		o.mu.RUnlock()

		reply, err := o.gen.ChatWithCampaign(ctx, campaign, transcript, message)
		if err != nil {
			return nil, err
		}

		o.mu.Lock()
		o.assets.chatLog = append(o.assets.chatLog,
			types.ChatMessage{Role: types.ChatRoleUser, Text: message},
			types.ChatMessage{Role: types.ChatRoleModel, Text: reply},
		)
		o.mu.Unlock()
		return reply, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Transcribe converts recorded audio to text, for voice-driven edit
// instructions. Stateless; no slot is written.
func (o *Orchestrator) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return o.gen.TranscribeAudio(ctx, audio)
}

// LoadHistoryItem synchronously replaces the working campaign with a saved
// one. All transient asset slots, overrides and the chat reset.
func (o *Orchestrator) LoadHistoryItem(item types.HistoryItem) {
	o.mu.Lock()
	defer o.mu.Unlock()

	result := item.Result
	o.result = &result
	o.landingPage = item.LandingPage
	o.phase = PhaseSuccess
	o.err = nil
	o.assets = assets{}
	o.actionErrs = map[string]error{}
	o.adCopyOverride = nil
	o.ctaOverride = nil

	logging.Orchestr("loaded history item %s", item.ID)
}

// SetAdCopyOverride replaces the exported ad copy without touching the
// generated campaign. Pass nil to revert to the generated copy.
func (o *Orchestrator) SetAdCopyOverride(copy *types.AdCopy) {
	o.mu.Lock()
	o.adCopyOverride = copy
	o.mu.Unlock()
}

// SetCTAOverride replaces just the exported CTA. Pass nil to revert.
func (o *Orchestrator) SetCTAOverride(cta *string) {
	o.mu.Lock()
	o.ctaOverride = cta
	o.mu.Unlock()
}

func (o *Orchestrator) effectiveAdCopy(campaign types.CampaignResult) types.AdCopy {
	o.mu.RLock()
	defer o.mu.RUnlock()
	copy := campaign.AdCopy
	if o.adCopyOverride != nil {
		copy = *o.adCopyOverride
	}
	if o.ctaOverride != nil {
		copy.CTA = *o.ctaOverride
	}
	return copy
}
