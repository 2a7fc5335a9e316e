package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"adgen/internal/gen"
	"adgen/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeGenerator scripts every generation operation.
type fakeGenerator struct {
	campaignErr error
	landingErr  error

	imageCalls int32
	imageGate  chan struct{} // when set, GenerateAdImage blocks until closed
	videoSeed  []byte
}

func (f *fakeGenerator) GenerateCampaign(ctx context.Context, input types.InputPayload, language types.TargetLanguage) (*types.CampaignResult, error) {
	if f.campaignErr != nil {
		return nil, f.campaignErr
	}
	return &types.CampaignResult{
		Strategy: types.CampaignStrategy{TargetAudience: "pros", ToneOfVoice: "confident", USP: "stays hot", VisualStyle: "warm"},
		AdCopy:   types.AdCopy{Headline: "Never Cold Again", Hook: "hook", Body: "body", CTA: "Buy"},
		Creative: types.CreativeAssets{ImagePrompt: "a glowing mug", VideoScript: "slow pan"},
		Keywords: []string{"mug"},
		Language: language,
	}, nil
}

func (f *fakeGenerator) GenerateLandingPage(ctx context.Context, campaign types.CampaignResult) (*types.LandingPageContent, error) {
	if f.landingErr != nil {
		return nil, f.landingErr
	}
	return &types.LandingPageContent{Hero: types.HeroSection{Headline: "H1"}}, nil
}

func (f *fakeGenerator) RegenerateAdCopy(ctx context.Context, strategy types.CampaignStrategy, creative types.CreativeAssets) (*types.AdCopy, error) {
	return &types.AdCopy{Headline: "Fresh Take", Hook: "h", Body: "b", CTA: "Go"}, nil
}

func (f *fakeGenerator) GenerateSocialPrompts(ctx context.Context, strategy types.CampaignStrategy, creative types.CreativeAssets) (*types.SocialPrompts, error) {
	return &types.SocialPrompts{TikTok: "ugc cut"}, nil
}

func (f *fakeGenerator) GenerateAdVariations(ctx context.Context, strategy types.CampaignStrategy, copy types.AdCopy) ([]types.AdVariant, error) {
	variants := make([]types.AdVariant, 0, len(types.AllAngles))
	for _, angle := range types.AllAngles {
		variants = append(variants, types.AdVariant{Angle: angle, Headline: "h"})
	}
	return variants, nil
}

func (f *fakeGenerator) GenerateAdImage(ctx context.Context, prompt, aspectRatio, imageSize string) (*gen.Image, error) {
	atomic.AddInt32(&f.imageCalls, 1)
	if f.imageGate != nil {
		<-f.imageGate
	}
	return &gen.Image{Data: []byte("img:" + prompt), MIMEType: "image/png"}, nil
}

func (f *fakeGenerator) GenerateImageVariations(ctx context.Context, prompt, aspectRatio string) ([]gen.Image, error) {
	return []gen.Image{{Data: []byte("v1")}, {Data: []byte("v2")}, {Data: []byte("v3")}}, nil
}

func (f *fakeGenerator) EditAdImage(ctx context.Context, image []byte, instruction string) (*gen.Image, error) {
	return &gen.Image{Data: []byte("edited"), MIMEType: "image/png"}, nil
}

func (f *fakeGenerator) GenerateAdVideo(ctx context.Context, prompt, aspectRatio string, seedImage []byte) (*gen.Video, error) {
	f.videoSeed = seedImage
	return &gen.Video{Data: []byte("clip"), MIMEType: "video/mp4"}, nil
}

func (f *fakeGenerator) GenerateBrandLogo(ctx context.Context, prompt string) (*gen.Image, error) {
	return &gen.Image{Data: []byte("logo"), MIMEType: "image/png"}, nil
}

func (f *fakeGenerator) GenerateSpeech(ctx context.Context, text string) (*gen.Speech, error) {
	return &gen.Speech{Data: []byte("wav:" + text), MIMEType: "audio/wav"}, nil
}

func (f *fakeGenerator) TranscribeAudio(ctx context.Context, audio []byte) (string, error) {
	return "make it warmer", nil
}

func (f *fakeGenerator) ChatWithCampaign(ctx context.Context, campaign types.CampaignResult, chat []types.ChatMessage, message string) (string, error) {
	return fmt.Sprintf("reply to %q after %d turns", message, len(chat)), nil
}

// fakeRepo records appends in memory.
type fakeRepo struct {
	mu        sync.Mutex
	items     []types.HistoryItem
	appendErr error
}

func (r *fakeRepo) Load() ([]types.HistoryItem, error) { return r.items, nil }
func (r *fakeRepo) Append(item types.HistoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	r.items = append(r.items, item)
	return nil
}
func (r *fakeRepo) Delete(id string) error { return nil }
func (r *fakeRepo) Clear() error           { return nil }

func newTestOrchestrator() (*Orchestrator, *fakeGenerator, *fakeRepo) {
	g := &fakeGenerator{}
	repo := &fakeRepo{}
	return New(g, repo), g, repo
}

func TestGenerateSuccess(t *testing.T) {
	o, _, repo := newTestOrchestrator()

	if o.Phase() != PhaseIdle {
		t.Fatalf("initial phase = %s", o.Phase())
	}

	err := o.Generate(context.Background(), types.TextInput("a self-heating mug"), types.LanguageDarija)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if o.Phase() != PhaseSuccess {
		t.Errorf("phase = %s", o.Phase())
	}
	snap := o.Snapshot()
	if snap.Result == nil || snap.Result.Language != types.LanguageDarija {
		t.Error("result not carried into snapshot")
	}
	if snap.LandingPage == nil || snap.LandingPage.Hero.Headline != "H1" {
		t.Error("landing page not carried into snapshot")
	}

	if len(repo.items) != 1 {
		t.Fatalf("history items = %d", len(repo.items))
	}
	if repo.items[0].InputSummary != "a self-heating mug" {
		t.Errorf("summary = %q", repo.items[0].InputSummary)
	}
	if repo.items[0].InputType != types.InputText {
		t.Errorf("input type = %q", repo.items[0].InputType)
	}
}

func TestGenerateCampaignFailurePreservesPriorResult(t *testing.T) {
	o, g, repo := newTestOrchestrator()

	if err := o.Generate(context.Background(), types.TextInput("first product"), types.LanguageEnglish); err != nil {
		t.Fatalf("first Generate failed: %v", err)
	}

	g.campaignErr = fmt.Errorf("provider down")
	err := o.Generate(context.Background(), types.TextInput("second product"), types.LanguageEnglish)
	if err == nil {
		t.Fatal("expected failure")
	}

	if o.Phase() != PhaseFailed {
		t.Errorf("phase = %s", o.Phase())
	}
	snap := o.Snapshot()
	if snap.Result == nil {
		t.Fatal("prior result lost on failed regeneration")
	}
	if len(repo.items) != 1 {
		t.Errorf("failed cycle must not append history, items = %d", len(repo.items))
	}
}

func TestGenerateLandingPageFailureAborts(t *testing.T) {
	o, g, repo := newTestOrchestrator()
	g.landingErr = fmt.Errorf("schema mismatch")

	if err := o.Generate(context.Background(), types.TextInput("product"), types.LanguageEnglish); err == nil {
		t.Fatal("expected failure")
	}
	if o.Phase() != PhaseFailed {
		t.Errorf("phase = %s", o.Phase())
	}
	if len(repo.items) != 0 {
		t.Error("aborted cycle must not append history")
	}
}

func TestGenerateHistoryFailureIsNonFatal(t *testing.T) {
	o, _, repo := newTestOrchestrator()
	repo.appendErr = fmt.Errorf("disk full")

	if err := o.Generate(context.Background(), types.TextInput("product"), types.LanguageEnglish); err != nil {
		t.Fatalf("Generate should survive a history failure, got %v", err)
	}
	if o.Phase() != PhaseSuccess {
		t.Errorf("phase = %s", o.Phase())
	}
}

func TestFollowOnRequiresCampaign(t *testing.T) {
	o, _, _ := newTestOrchestrator()

	if _, err := o.GenerateImage(context.Background(), "1:1", "1K"); err == nil {
		t.Error("GenerateImage should fail without a campaign")
	}
	if _, err := o.GenerateVariants(context.Background()); err == nil {
		t.Error("GenerateVariants should fail without a campaign")
	}
	if _, err := o.Chat(context.Background(), "hi"); err == nil {
		t.Error("Chat should fail without a campaign")
	}
}

func TestConcurrentImageRequestsShareOneCall(t *testing.T) {
	o, g, _ := newTestOrchestrator()
	if err := o.Generate(context.Background(), types.TextInput("product"), types.LanguageEnglish); err != nil {
		t.Fatal(err)
	}

	g.imageGate = make(chan struct{})
	results := make(chan *gen.Image, 2)
	var wg sync.WaitGroup
	run := func() {
		defer wg.Done()
		img, err := o.GenerateImage(context.Background(), "1:1", "1K")
		if err != nil {
			t.Errorf("GenerateImage failed: %v", err)
			return
		}
		results <- img
	}

	wg.Add(1)
	go run()
	// Wait until the first call is inside the generator, then queue a
	// duplicate on the same key before releasing it.
	for atomic.LoadInt32(&g.imageCalls) == 0 {
		time.Sleep(time.Millisecond)
	}
	wg.Add(1)
	go run()
	time.Sleep(20 * time.Millisecond)

	close(g.imageGate)
	wg.Wait()
	close(results)

	if calls := atomic.LoadInt32(&g.imageCalls); calls != 1 {
		t.Errorf("generator called %d times, want 1 (duplicate suppressed)", calls)
	}
	for img := range results {
		if img == nil {
			t.Error("shared call returned nil image")
		}
	}
}

func TestVideoSeedsFromGeneratedImage(t *testing.T) {
	o, g, _ := newTestOrchestrator()
	if err := o.Generate(context.Background(), types.TextInput("product"), types.LanguageEnglish); err != nil {
		t.Fatal(err)
	}

	if _, err := o.GenerateVideo(context.Background(), "16:9"); err != nil {
		t.Fatalf("GenerateVideo failed: %v", err)
	}
	if g.videoSeed != nil {
		t.Error("video should not be seeded before an image exists")
	}

	if _, err := o.GenerateImage(context.Background(), "1:1", "1K"); err != nil {
		t.Fatal(err)
	}
	if _, err := o.GenerateVideo(context.Background(), "16:9"); err != nil {
		t.Fatalf("GenerateVideo failed: %v", err)
	}
	if g.videoSeed == nil {
		t.Error("video should seed from the generated image")
	}
}

func TestEditImageRequiresImage(t *testing.T) {
	o, _, _ := newTestOrchestrator()
	o.Generate(context.Background(), types.TextInput("product"), types.LanguageEnglish)

	if _, err := o.EditImage(context.Background(), "warmer"); err == nil {
		t.Fatal("expected error without a generated image")
	}

	if _, err := o.GenerateImage(context.Background(), "1:1", "1K"); err != nil {
		t.Fatal(err)
	}
	img, err := o.EditImage(context.Background(), "warmer")
	if err != nil {
		t.Fatalf("EditImage failed: %v", err)
	}
	if string(img.Data) != "edited" {
		t.Errorf("image = %q", img.Data)
	}
	if string(o.Snapshot().Image.Data) != "edited" {
		t.Error("edit did not replace the main image slot")
	}
}

func TestChatKeepsTranscript(t *testing.T) {
	o, _, _ := newTestOrchestrator()
	o.Generate(context.Background(), types.TextInput("product"), types.LanguageEnglish)

	reply1, err := o.Chat(context.Background(), "shorter headline?")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if reply1 != `reply to "shorter headline?" after 0 turns` {
		t.Errorf("reply1 = %q", reply1)
	}

	reply2, _ := o.Chat(context.Background(), "and punchier")
	if reply2 != `reply to "and punchier" after 2 turns` {
		t.Errorf("reply2 = %q", reply2)
	}

	log := o.Snapshot().ChatLog
	if len(log) != 4 {
		t.Fatalf("transcript length = %d", len(log))
	}
	if log[0].Role != types.ChatRoleUser || log[1].Role != types.ChatRoleModel {
		t.Error("transcript roles out of order")
	}
}

func TestLoadHistoryItemResetsAssets(t *testing.T) {
	o, _, _ := newTestOrchestrator()
	o.Generate(context.Background(), types.TextInput("product"), types.LanguageEnglish)
	o.GenerateImage(context.Background(), "1:1", "1K")
	o.Chat(context.Background(), "hello")

	saved := types.HistoryItem{
		ID:     "old-campaign",
		Result: types.CampaignResult{AdCopy: types.AdCopy{Headline: "Archived"}},
	}
	o.LoadHistoryItem(saved)

	snap := o.Snapshot()
	if snap.Phase != PhaseSuccess {
		t.Errorf("phase = %s", snap.Phase)
	}
	if snap.Result.AdCopy.Headline != "Archived" {
		t.Errorf("headline = %q", snap.Result.AdCopy.Headline)
	}
	if snap.Image != nil || len(snap.ChatLog) != 0 {
		t.Error("asset slots must reset on history load")
	}
	if snap.LandingPage != nil {
		t.Error("landing page should mirror the saved item")
	}
}

func TestOverridesMergeIntoSnapshotAndSpeech(t *testing.T) {
	o, _, _ := newTestOrchestrator()
	o.Generate(context.Background(), types.TextInput("product"), types.LanguageEnglish)

	cta := "Order Now"
	o.SetCTAOverride(&cta)
	snap := o.Snapshot()
	if snap.AdCopy.CTA != "Order Now" {
		t.Errorf("cta = %q", snap.AdCopy.CTA)
	}
	if snap.Result.AdCopy.CTA != "Buy" {
		t.Error("override must not mutate the generated campaign")
	}

	o.SetAdCopyOverride(&types.AdCopy{Headline: "Manual", Hook: "custom hook", Body: "custom body", CTA: "ignored"})
	snap = o.Snapshot()
	if snap.AdCopy.Headline != "Manual" {
		t.Errorf("headline = %q", snap.AdCopy.Headline)
	}
	if snap.AdCopy.CTA != "Order Now" {
		t.Error("cta override should apply on top of the copy override")
	}

	speech, err := o.Speak(context.Background())
	if err != nil {
		t.Fatalf("Speak failed: %v", err)
	}
	if string(speech.Data) != "wav:custom hook custom body" {
		t.Errorf("speech text = %q", speech.Data)
	}

	if _, err := o.RegenerateCopy(context.Background()); err != nil {
		t.Fatalf("RegenerateCopy failed: %v", err)
	}
	snap = o.Snapshot()
	if snap.AdCopy.Headline != "Fresh Take" {
		t.Error("regeneration should discard overrides")
	}
}

func TestActionErrorSlots(t *testing.T) {
	o, _, _ := newTestOrchestrator()
	o.Generate(context.Background(), types.TextInput("product"), types.LanguageEnglish)

	if err := o.ActionError("image"); err != nil {
		t.Errorf("fresh action slot should be nil, got %v", err)
	}
	if _, err := o.GenerateImage(context.Background(), "1:1", "1K"); err != nil {
		t.Fatal(err)
	}
	if err := o.ActionError("image"); err != nil {
		t.Errorf("successful action should clear its slot, got %v", err)
	}
}
