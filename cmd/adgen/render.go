package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"adgen/internal/orchestrator"
	"adgen/internal/types"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// renderCampaign renders the working campaign as terminal markdown.
func renderCampaign(snap orchestrator.Snapshot) string {
	if snap.Result == nil {
		return errorStyle.Render("no campaign loaded")
	}
	result := snap.Result

	var md strings.Builder
	fmt.Fprintf(&md, "# Campaign (%s)\n\n", result.Language)
	md.WriteString("## Strategy\n\n")
	fmt.Fprintf(&md, "- **Audience:** %s\n", result.Strategy.TargetAudience)
	fmt.Fprintf(&md, "- **Tone:** %s\n", result.Strategy.ToneOfVoice)
	fmt.Fprintf(&md, "- **USP:** %s\n", result.Strategy.USP)
	fmt.Fprintf(&md, "- **Visual style:** %s\n\n", result.Strategy.VisualStyle)

	md.WriteString("## Ad Copy\n\n")
	fmt.Fprintf(&md, "**%s**\n\n", snap.AdCopy.Headline)
	fmt.Fprintf(&md, "_%s_\n\n", snap.AdCopy.Hook)
	fmt.Fprintf(&md, "%s\n\n", snap.AdCopy.Body)
	fmt.Fprintf(&md, "CTA: `%s`\n\n", snap.AdCopy.CTA)

	md.WriteString("## Creative Prompts\n\n")
	fmt.Fprintf(&md, "- **Image:** %s\n", result.Creative.ImagePrompt)
	fmt.Fprintf(&md, "- **Video:** %s\n\n", result.Creative.VideoScript)

	if len(result.Keywords) > 0 {
		md.WriteString("## Keywords\n\n")
		fmt.Fprintf(&md, "%s\n\n", strings.Join(result.Keywords, ", "))
	}

	if snap.LandingPage != nil {
		md.WriteString("## Landing Page\n\n")
		fmt.Fprintf(&md, "**%s**\n\n%s\n\n", snap.LandingPage.Hero.Headline, snap.LandingPage.Hero.Subheadline)
		fmt.Fprintf(&md, "Pricing: %s %s %s\n", snap.LandingPage.Pricing.Title, snap.LandingPage.Pricing.Price, snap.LandingPage.Pricing.Period)
	}

	out, err := glamour.Render(md.String(), "dark")
	if err != nil {
		return md.String()
	}
	return out
}

// renderSocial renders the per-platform creative directions.
func renderSocial(social *types.SocialPrompts) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Social Prompts") + "\n\n")
	fmt.Fprintf(&b, "%s\n%s\n\n", headerStyle.Render("Instagram Story"), social.InstagramStory)
	fmt.Fprintf(&b, "%s\n%s\n\n", headerStyle.Render("TikTok"), social.TikTok)
	fmt.Fprintf(&b, "%s\n%s\n", headerStyle.Render("YouTube Short"), social.YouTubeShort)
	return b.String()
}

// renderVariants renders the five-angle variation batch.
func renderVariants(variants []types.AdVariant) string {
	var b strings.Builder
	for _, v := range variants {
		fmt.Fprintf(&b, "%s\n", headerStyle.Render(string(v.Angle)))
		fmt.Fprintf(&b, "  %s\n", v.Headline)
		fmt.Fprintf(&b, "  %s\n", v.PrimaryText)
		fmt.Fprintf(&b, "  %s\n\n", subtleStyle.Render("Platforms: "+strings.Join(v.Platforms, ", ")))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderHistoryLine formats one history listing row.
func renderHistoryLine(item types.HistoryItem) string {
	when := time.UnixMilli(item.Timestamp).Format("2006-01-02 15:04")
	return fmt.Sprintf("%s  %s  %-6s  %s",
		idStyle.Render(item.ID),
		subtleStyle.Render(when),
		item.InputType,
		item.InputSummary)
}
