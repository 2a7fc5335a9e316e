package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"adgen/internal/gen"
	"adgen/internal/orchestrator"
	"adgen/internal/types"
)

func assetSnapshot() orchestrator.Snapshot {
	snap := sampleSnapshot()
	snap.Image = &gen.Image{Data: []byte("img"), MIMEType: "image/jpeg"}
	snap.Variations = []gen.Image{
		{Data: []byte("v1"), MIMEType: "image/png"},
		{Data: []byte("v2"), MIMEType: "image/png"},
	}
	snap.Logo = &gen.Image{Data: []byte("logo"), MIMEType: "image/png"}
	snap.Video = &gen.Video{Data: []byte("mp4"), MIMEType: "video/mp4"}
	snap.Speech = &gen.Speech{Data: []byte("wav"), MIMEType: "audio/wav"}
	snap.Social = &types.SocialPrompts{InstagramStory: "ig", TikTok: "tt", YouTubeShort: "yt"}
	snap.Variants = []types.AdVariant{{Angle: types.AnglePainProblem, Headline: "h", PrimaryText: "t", Platforms: []string{"Meta"}}}
	return snap
}

func TestSaveLoadAssetsRoundTrip(t *testing.T) {
	dir := AssetDir(t.TempDir(), "cmp-1")
	if err := SaveAssets(dir, assetSnapshot()); err != nil {
		t.Fatalf("SaveAssets failed: %v", err)
	}

	// A fresh process starts from a bare history snapshot.
	snap := sampleSnapshot()
	LoadAssets(dir, &snap)

	if snap.Image == nil || !bytes.Equal(snap.Image.Data, []byte("img")) {
		t.Fatal("main image not restored")
	}
	if snap.Image.MIMEType != "image/jpeg" {
		t.Errorf("image mime = %q, want image/jpeg back from the .jpg name", snap.Image.MIMEType)
	}
	if len(snap.Variations) != 2 || !bytes.Equal(snap.Variations[1].Data, []byte("v2")) {
		t.Errorf("variations not restored: %d", len(snap.Variations))
	}
	if snap.Logo == nil || snap.Video == nil || snap.Speech == nil {
		t.Fatal("logo, video or speech not restored")
	}
	if snap.Social == nil || snap.Social.TikTok != "tt" {
		t.Error("social prompts not restored")
	}
	if len(snap.Variants) != 1 || snap.Variants[0].Angle != types.AnglePainProblem {
		t.Error("ad variations not restored")
	}
}

func TestCachedAssetsReachTheBundle(t *testing.T) {
	dir := AssetDir(t.TempDir(), "cmp-2")
	if err := SaveAssets(dir, assetSnapshot()); err != nil {
		t.Fatalf("SaveAssets failed: %v", err)
	}

	snap := sampleSnapshot()
	LoadAssets(dir, &snap)
	data, _, err := ExportZip(snap)
	if err != nil {
		t.Fatalf("ExportZip failed: %v", err)
	}

	files := readZip(t, data)
	for _, name := range []string{
		"ad_image.jpg", "ad_image_variation_1.png", "ad_image_variation_2.png",
		"brand_logo.png", "ad_video.mp4", "voiceover.wav",
		"social_prompts.txt", "ad_variations.txt",
	} {
		if _, ok := files[name]; !ok {
			t.Errorf("bundle missing cached asset %s", name)
		}
	}
	if !bytes.Equal(files["ad_video.mp4"], []byte("mp4")) {
		t.Error("cached video bytes did not survive into the bundle")
	}
}

func TestSaveAssetsKeepsOtherCachedFiles(t *testing.T) {
	dir := AssetDir(t.TempDir(), "cmp-3")
	if err := SaveAssets(dir, assetSnapshot()); err != nil {
		t.Fatalf("SaveAssets failed: %v", err)
	}

	// A later image-only run must not erase the cached video.
	imageOnly := sampleSnapshot()
	imageOnly.Image = &gen.Image{Data: []byte("img2"), MIMEType: "image/png"}
	if err := SaveAssets(dir, imageOnly); err != nil {
		t.Fatalf("SaveAssets failed: %v", err)
	}

	snap := sampleSnapshot()
	LoadAssets(dir, &snap)
	if snap.Video == nil || !bytes.Equal(snap.Video.Data, []byte("mp4")) {
		t.Error("earlier cached video lost")
	}
	if snap.Image == nil || !bytes.Equal(snap.Image.Data, []byte("img2")) {
		t.Error("image not updated")
	}
}

func TestLoadAssetsMissingDirIsNoOp(t *testing.T) {
	snap := sampleSnapshot()
	LoadAssets(filepath.Join(t.TempDir(), "nope"), &snap)
	if snap.Image != nil || snap.Video != nil || snap.Social != nil {
		t.Error("empty cache must leave slots empty")
	}
}

func TestLoadAssetsSkipsCorruptSidecar(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "social_prompts.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	snap := sampleSnapshot()
	LoadAssets(dir, &snap)
	if snap.Social != nil {
		t.Error("corrupt sidecar must be skipped, not loaded")
	}
}
