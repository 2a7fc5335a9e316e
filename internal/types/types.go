// Package types holds the shared campaign domain model.
// It has no dependencies so every other package can import it freely.
package types

// TargetLanguage selects the output language for all public-facing campaign
// text. Creative prompts stay in English regardless (see CreativeAssets).
type TargetLanguage string

const (
	LanguageEnglish TargetLanguage = "English"
	LanguageFrench  TargetLanguage = "Français"
	LanguageArabic  TargetLanguage = "العربية"
	LanguageDarija  TargetLanguage = "Darija (Morocco)"
)

// CampaignStrategy is produced once per generation cycle and read as context
// by nearly every downstream generator. Immutable after creation.
type CampaignStrategy struct {
	TargetAudience string `json:"targetAudience"`
	ToneOfVoice    string `json:"toneOfVoice"`
	USP            string `json:"usp"`
	VisualStyle    string `json:"visualStyle"`
}

// AdCopy is the primary ad text. Regeneration replaces the whole record.
type AdCopy struct {
	Headline string `json:"headline"`
	Hook     string `json:"hook"`
	Body     string `json:"body"`
	CTA      string `json:"cta"`
}

// CreativeAssets are natural-language prompts fed to the image and video
// generators. Always English irrespective of the campaign language, because
// the downstream models are only reliable with English prompts.
type CreativeAssets struct {
	ImagePrompt string `json:"imagePrompt"`
	VideoScript string `json:"videoScript"`
}

// CampaignResult is the aggregate root persisted to history and exported.
type CampaignResult struct {
	Strategy CampaignStrategy `json:"strategy"`
	AdCopy   AdCopy           `json:"adCopy"`
	Creative CreativeAssets   `json:"creative"`
	Keywords []string         `json:"keywords"`
	Language TargetLanguage   `json:"language"`
}

// AdAngle is a persuasive framing for an ad variant. A variation batch always
// contains exactly one variant per angle.
type AdAngle string

const (
	AnglePainProblem AdAngle = "Pain & Problem"
	AngleSocialProof AdAngle = "UGC / Social Proof"
	AngleEducational AdAngle = "Educational / Authority"
	AngleContrarian  AdAngle = "Contrarian / Curiosity"
	AngleOfferFOMO   AdAngle = "Irresistible Offer / FOMO"
)

// AllAngles lists the fixed 5-angle set in canonical order.
var AllAngles = []AdAngle{
	AnglePainProblem,
	AngleSocialProof,
	AngleEducational,
	AngleContrarian,
	AngleOfferFOMO,
}

// AdVariant is one angle-specific rewrite of the ad copy.
type AdVariant struct {
	Angle       AdAngle  `json:"angle"`
	Headline    string   `json:"headline"`
	PrimaryText string   `json:"primaryText"`
	Platforms   []string `json:"platforms"`
}

// SocialPrompts holds per-platform creative directions, replaced wholesale on
// each regeneration.
type SocialPrompts struct {
	InstagramStory string `json:"instagramStory"`
	TikTok         string `json:"tikTok"`
	YouTubeShort   string `json:"youTubeShort"`
}

// TitleDesc is a small title/description pair used by several landing page
// sections.
type TitleDesc struct {
	Title string `json:"title"`
	Desc  string `json:"desc"`
}

// Testimonial is a generated social-proof quote.
type Testimonial struct {
	Name string `json:"name"`
	Role string `json:"role"`
	Text string `json:"text"`
}

// FAQItem is one question/answer pair.
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// HeroSection is the landing page header block.
type HeroSection struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
	CTA         string `json:"cta"`
}

// TrustSection lists brand logos shown under the hero.
type TrustSection struct {
	Title string   `json:"title"`
	Logos []string `json:"logos"`
}

// ItemsSection is a titled list of TitleDesc entries (problem, solution).
type ItemsSection struct {
	Title string      `json:"title"`
	Items []TitleDesc `json:"items"`
}

// StepsSection is a titled list of how-it-works steps.
type StepsSection struct {
	Title string      `json:"title"`
	Steps []TitleDesc `json:"steps"`
}

// SocialProofSection carries generated testimonials.
type SocialProofSection struct {
	Title        string        `json:"title"`
	Testimonials []Testimonial `json:"testimonials"`
}

// PricingSection is the single pricing tier the generator produces.
type PricingSection struct {
	Title    string   `json:"title"`
	Price    string   `json:"price"`
	Period   string   `json:"period"`
	Features []string `json:"features"`
	CTA      string   `json:"cta"`
}

// FAQSection is the question/answer block.
type FAQSection struct {
	Title string    `json:"title"`
	Items []FAQItem `json:"items"`
}

// FooterSection closes the page.
type FooterSection struct {
	Copyright string   `json:"copyright"`
	Links     []string `json:"links"`
}

// LandingPageContent is derived from a CampaignResult immediately after
// campaign generation. Never created independently.
type LandingPageContent struct {
	Hero        HeroSection        `json:"hero"`
	Trust       TrustSection       `json:"trust"`
	Problem     ItemsSection       `json:"problem"`
	Solution    ItemsSection       `json:"solution"`
	HowItWorks  StepsSection       `json:"howItWorks"`
	SocialProof SocialProofSection `json:"socialProof"`
	Pricing     PricingSection     `json:"pricing"`
	FAQ         FAQSection         `json:"faq"`
	Footer      FooterSection      `json:"footer"`
}

// HistoryItem records one successful top-level generation. Never mutated
// after creation.
type HistoryItem struct {
	ID           string              `json:"id"`
	Timestamp    int64               `json:"timestamp"` // epoch milliseconds
	InputSummary string              `json:"inputSummary"`
	InputType    InputType           `json:"inputType"`
	Result       CampaignResult      `json:"result"`
	LandingPage  *LandingPageContent `json:"landingPage,omitempty"`
}

// Chat roles.
const (
	ChatRoleUser  = "user"
	ChatRoleModel = "model"
)

// ChatMessage is one turn of the campaign brainstorming chat.
type ChatMessage struct {
	Role string `json:"role"` // ChatRoleUser or ChatRoleModel
	Text string `json:"text"`
}
