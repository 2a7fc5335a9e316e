// Package export turns the working campaign state into portable files: a
// standalone JSON document or a zip bundle with the generated binaries.
package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"adgen/internal/logging"
	"adgen/internal/orchestrator"
	"adgen/internal/types"
)

// ErrAssetUnavailable means an export was requested with no campaign loaded.
var ErrAssetUnavailable = errors.New("no campaign to export")

// payload is the JSON export document. AdCopy is the effective copy with any
// manual overrides applied; the generated original stays inside Result.
type payload struct {
	ExportedAt  string                    `json:"exportedAt"`
	Result      types.CampaignResult      `json:"result"`
	AdCopy      types.AdCopy              `json:"adCopy"`
	LandingPage *types.LandingPageContent `json:"landingPage,omitempty"`
	Social      *types.SocialPrompts      `json:"socialPrompts,omitempty"`
	Variants    []types.AdVariant         `json:"adVariations,omitempty"`
}

// ExportJSON renders the snapshot as a JSON document and suggests a
// date-derived filename.
func ExportJSON(snap orchestrator.Snapshot) ([]byte, string, error) {
	if snap.Result == nil {
		return nil, "", ErrAssetUnavailable
	}

	doc := payload{
		ExportedAt:  time.Now().UTC().Format(time.RFC3339),
		Result:      *snap.Result,
		AdCopy:      snap.AdCopy,
		LandingPage: snap.LandingPage,
		Social:      snap.Social,
	}
	if len(snap.Variants) > 0 {
		doc.Variants = snap.Variants
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode export: %w", err)
	}

	name := fmt.Sprintf("campaign_%s.json", time.Now().Format("2006-01-02"))
	logging.Export("json export prepared: %s (%d bytes)", name, len(data))
	return data, name, nil
}

// ExportZip bundles the snapshot into a zip: the campaign document, plain
// text sidecars, and every generated binary that exists. Assets that were
// never generated are omitted; a failure writing an included asset aborts the
// whole bundle.
func ExportZip(snap orchestrator.Snapshot) ([]byte, string, error) {
	if snap.Result == nil {
		return nil, "", ErrAssetUnavailable
	}

	jsonDoc, _, err := ExportJSON(snap)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	type entry struct {
		name string
		data []byte
	}
	entries := []entry{
		{"campaign.json", jsonDoc},
		{"keywords.txt", []byte(strings.Join(snap.Result.Keywords, "\n"))},
	}
	if snap.Social != nil {
		entries = append(entries, entry{"social_prompts.txt", renderSocial(snap.Social)})
	}
	if len(snap.Variants) > 0 {
		entries = append(entries, entry{"ad_variations.txt", renderVariants(snap.Variants)})
	}
	if snap.Image != nil {
		entries = append(entries, entry{"ad_image" + extFor(snap.Image.MIMEType), snap.Image.Data})
	}
	for i, variation := range snap.Variations {
		entries = append(entries, entry{fmt.Sprintf("ad_image_variation_%d%s", i+1, extFor(variation.MIMEType)), variation.Data})
	}
	if snap.Logo != nil {
		entries = append(entries, entry{"brand_logo" + extFor(snap.Logo.MIMEType), snap.Logo.Data})
	}
	if snap.Video != nil {
		entries = append(entries, entry{"ad_video.mp4", snap.Video.Data})
	}
	if snap.Speech != nil {
		entries = append(entries, entry{"voiceover.wav", snap.Speech.Data})
	}

	for _, entry := range entries {
		w, err := zw.Create(entry.name)
		if err != nil {
			zw.Close()
			return nil, "", fmt.Errorf("failed to add %s to bundle: %w", entry.name, err)
		}
		if _, err := w.Write(entry.data); err != nil {
			zw.Close()
			return nil, "", fmt.Errorf("failed to write %s to bundle: %w", entry.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize bundle: %w", err)
	}

	name := fmt.Sprintf("adgen_campaign_%s.zip", time.Now().Format("2006-01-02"))
	logging.Export("zip export prepared: %s (%d files, %d bytes)", name, len(entries), buf.Len())
	return buf.Bytes(), name, nil
}

func renderSocial(social *types.SocialPrompts) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "INSTAGRAM STORY\n%s\n\n", social.InstagramStory)
	fmt.Fprintf(&b, "TIKTOK\n%s\n\n", social.TikTok)
	fmt.Fprintf(&b, "YOUTUBE SHORT\n%s\n", social.YouTubeShort)
	return []byte(b.String())
}

func renderVariants(variants []types.AdVariant) []byte {
	var b strings.Builder
	for i, v := range variants {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[%s]\n", v.Angle)
		fmt.Fprintf(&b, "Headline: %s\n", v.Headline)
		fmt.Fprintf(&b, "Text: %s\n", v.PrimaryText)
		fmt.Fprintf(&b, "Platforms: %s\n", strings.Join(v.Platforms, ", "))
	}
	return []byte(b.String())
}

func extFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
