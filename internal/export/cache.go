package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"adgen/internal/gen"
	"adgen/internal/logging"
	"adgen/internal/orchestrator"
	"adgen/internal/types"
)

// The asset cache keeps one directory per campaign id with the binaries and
// structured sidecars generated so far. Asset commands write it after each
// generation; `export zip` reads it back, so the bundle carries assets from
// earlier invocations, not just the current process.

// AssetDir returns the cache directory for one campaign.
func AssetDir(root, campaignID string) string {
	return filepath.Join(root, campaignID)
}

// SaveAssets writes every asset present in snap into dir, replacing earlier
// versions of the same asset. Empty slots leave the cached file in place, so
// an image run does not erase a cached video.
func SaveAssets(dir string, snap orchestrator.Snapshot) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create asset cache: %w", err)
	}

	write := func(name string, data []byte) error {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return fmt.Errorf("failed to cache %s: %w", name, err)
		}
		return nil
	}

	if snap.Image != nil {
		if err := write("ad_image"+extFor(snap.Image.MIMEType), snap.Image.Data); err != nil {
			return err
		}
	}
	for i, variation := range snap.Variations {
		name := fmt.Sprintf("ad_image_variation_%d%s", i+1, extFor(variation.MIMEType))
		if err := write(name, variation.Data); err != nil {
			return err
		}
	}
	if snap.Logo != nil {
		if err := write("brand_logo"+extFor(snap.Logo.MIMEType), snap.Logo.Data); err != nil {
			return err
		}
	}
	if snap.Video != nil {
		if err := write("ad_video.mp4", snap.Video.Data); err != nil {
			return err
		}
	}
	if snap.Speech != nil {
		if err := write("voiceover.wav", snap.Speech.Data); err != nil {
			return err
		}
	}
	if snap.Social != nil {
		data, err := json.Marshal(snap.Social)
		if err != nil {
			return fmt.Errorf("failed to encode social prompts: %w", err)
		}
		if err := write("social_prompts.json", data); err != nil {
			return err
		}
	}
	if len(snap.Variants) > 0 {
		data, err := json.Marshal(snap.Variants)
		if err != nil {
			return fmt.Errorf("failed to encode ad variations: %w", err)
		}
		if err := write("ad_variations.json", data); err != nil {
			return err
		}
	}

	logging.Export("asset cache updated: %s", dir)
	return nil
}

// LoadAssets fills snap's empty asset slots from a cache directory written by
// SaveAssets. Best effort: a missing directory means nothing was cached, and
// an unreadable or corrupt file is skipped with a warning.
func LoadAssets(dir string, snap *orchestrator.Snapshot) {
	if _, err := os.Stat(dir); err != nil {
		return
	}

	if snap.Image == nil {
		snap.Image = readCachedImage(dir, "ad_image")
	}
	if len(snap.Variations) == 0 {
		for i := 1; ; i++ {
			img := readCachedImage(dir, fmt.Sprintf("ad_image_variation_%d", i))
			if img == nil {
				break
			}
			snap.Variations = append(snap.Variations, *img)
		}
	}
	if snap.Logo == nil {
		snap.Logo = readCachedImage(dir, "brand_logo")
	}
	if snap.Video == nil {
		if data := readCached(dir, "ad_video.mp4"); data != nil {
			snap.Video = &gen.Video{Data: data, MIMEType: "video/mp4"}
		}
	}
	if snap.Speech == nil {
		if data := readCached(dir, "voiceover.wav"); data != nil {
			snap.Speech = &gen.Speech{Data: data, MIMEType: "audio/wav"}
		}
	}
	if snap.Social == nil {
		if data := readCached(dir, "social_prompts.json"); data != nil {
			var social types.SocialPrompts
			if err := json.Unmarshal(data, &social); err != nil {
				logging.ExportWarn("skipping corrupt cached social prompts: %v", err)
			} else {
				snap.Social = &social
			}
		}
	}
	if len(snap.Variants) == 0 {
		if data := readCached(dir, "ad_variations.json"); data != nil {
			var variants []types.AdVariant
			if err := json.Unmarshal(data, &variants); err != nil {
				logging.ExportWarn("skipping corrupt cached ad variations: %v", err)
			} else {
				snap.Variants = variants
			}
		}
	}
}

// readCachedImage tries base against the extensions extFor can produce.
func readCachedImage(dir, base string) *gen.Image {
	for _, c := range []struct{ ext, mime string }{
		{".png", "image/png"},
		{".jpg", "image/jpeg"},
		{".webp", "image/webp"},
	} {
		if data := readCached(dir, base+c.ext); data != nil {
			return &gen.Image{Data: data, MIMEType: c.mime}
		}
	}
	return nil
}

func readCached(dir, name string) []byte {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		if !os.IsNotExist(err) {
			logging.ExportWarn("failed to read cached %s: %v", name, err)
		}
		return nil
	}
	return data
}
