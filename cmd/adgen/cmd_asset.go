package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"adgen/internal/export"
	"adgen/internal/gen"
)

var (
	assetID     string
	assetOut    string
	assetAspect string
	videoAspect string
	assetSize   string
	withImage   bool

	editSource      string
	editInstruction string

	transcribeFile string
)

var assetCmd = &cobra.Command{
	Use:   "asset",
	Short: "Generate follow-on assets for a saved campaign",
	Long: `Loads a saved campaign (latest by default) and runs one follow-on
generation: the main ad image, image variations, a brand logo, the video ad,
a voice-over, social prompts or the five-angle copy variations. Binary
assets are written to the output directory.`,
}

// assetApp loads the app plus the selected campaign.
func assetApp() (*app, error) {
	a, err := newApp(true)
	if err != nil {
		return nil, err
	}
	item, err := findHistoryItem(a, assetID)
	if err != nil {
		a.close()
		return nil, err
	}
	a.campaignID = item.ID
	a.orch.LoadHistoryItem(*item)
	return a, nil
}

// assetDir is the per-campaign cache `export zip` bundles from.
func (a *app) assetDir() string {
	root := filepath.Join(filepath.Dir(a.cfg.History.DatabasePath), "assets")
	return export.AssetDir(root, a.campaignID)
}

// cacheAssets persists the invocation's generated assets for later export.
// Losing the cache costs the zip bundle an asset, not the asset itself.
func cacheAssets(a *app) {
	if err := export.SaveAssets(a.assetDir(), a.orch.Snapshot()); err != nil {
		fmt.Printf("Warning: could not cache assets for export: %v\n", err)
	}
}

func writeAsset(a *app, name string, data []byte) error {
	outDir := assetOut
	if outDir == "" {
		outDir = a.cfg.Export.Directory
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(outDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func extForMIME(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

var assetImageCmd = &cobra.Command{
	Use:   "image",
	Short: "Generate the main ad image",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := assetApp()
		if err != nil {
			return err
		}
		defer a.close()

		fmt.Println("Generating ad image...")
		img, err := a.orch.GenerateImage(cmd.Context(), assetAspect, assetSize)
		if err != nil {
			return err
		}
		cacheAssets(a)
		return writeAsset(a, "ad_image"+extForMIME(img.MIMEType), img.Data)
	},
}

var assetVariationsCmd = &cobra.Command{
	Use:   "variations",
	Short: "Generate three alternative ad images",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := assetApp()
		if err != nil {
			return err
		}
		defer a.close()

		fmt.Println("Generating image variations...")
		images, err := a.orch.GenerateVariations(cmd.Context(), assetAspect)
		if err != nil {
			return err
		}
		cacheAssets(a)
		for i, img := range images {
			name := fmt.Sprintf("ad_image_variation_%d%s", i+1, extForMIME(img.MIMEType))
			if err := writeAsset(a, name, img.Data); err != nil {
				return err
			}
		}
		return nil
	},
}

var assetLogoCmd = &cobra.Command{
	Use:   "logo",
	Short: "Generate a brand logo",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := assetApp()
		if err != nil {
			return err
		}
		defer a.close()

		fmt.Println("Generating brand logo...")
		logo, err := a.orch.GenerateLogo(cmd.Context())
		if err != nil {
			return err
		}
		cacheAssets(a)
		return writeAsset(a, "brand_logo"+extForMIME(logo.MIMEType), logo.Data)
	},
}

var assetVideoCmd = &cobra.Command{
	Use:   "video",
	Short: "Generate the video ad (blocks until ready or timeout)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := assetApp()
		if err != nil {
			return err
		}
		defer a.close()

		if withImage {
			fmt.Println("Generating seed image...")
			if _, err := a.orch.GenerateImage(cmd.Context(), videoAspect, assetSize); err != nil {
				return err
			}
		}

		fmt.Println("Generating video ad (this can take a few minutes)...")
		video, err := a.orch.GenerateVideo(cmd.Context(), videoAspect)
		if err != nil {
			return err
		}
		cacheAssets(a)
		return writeAsset(a, "ad_video.mp4", video.Data)
	},
}

var assetSpeechCmd = &cobra.Command{
	Use:   "speech",
	Short: "Generate a voice-over of the ad copy",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := assetApp()
		if err != nil {
			return err
		}
		defer a.close()

		fmt.Println("Generating voice-over...")
		speech, err := a.orch.Speak(cmd.Context())
		if err != nil {
			return err
		}
		cacheAssets(a)
		return writeAsset(a, "voiceover.wav", speech.Data)
	},
}

var assetSocialCmd = &cobra.Command{
	Use:   "social",
	Short: "Generate per-platform social creative directions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := assetApp()
		if err != nil {
			return err
		}
		defer a.close()

		social, err := a.orch.GenerateSocial(cmd.Context())
		if err != nil {
			return err
		}
		cacheAssets(a)
		fmt.Println(renderSocial(social))
		return nil
	},
}

var assetVariantsCmd = &cobra.Command{
	Use:   "variants",
	Short: "Generate the five-angle ad copy variations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := assetApp()
		if err != nil {
			return err
		}
		defer a.close()

		variants, err := a.orch.GenerateVariants(cmd.Context())
		if err != nil {
			return err
		}
		cacheAssets(a)
		fmt.Println(renderVariants(variants))
		return nil
	},
}

var assetCopyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Regenerate the ad copy",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := assetApp()
		if err != nil {
			return err
		}
		defer a.close()

		copy, err := a.orch.RegenerateCopy(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%s\n\n%s\n\n%s\n\nCTA: %s\n", copy.Headline, copy.Hook, copy.Body, copy.CTA)
		return nil
	},
}

var assetEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Apply a natural-language edit to an image file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if editSource == "" || editInstruction == "" {
			return fmt.Errorf("--source and --instruction are required")
		}

		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.close()

		source, err := os.ReadFile(editSource)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", editSource, err)
		}

		fmt.Println("Editing image...")
		edited, err := gen.NewClient(a.cfg).EditAdImage(cmd.Context(), source, editInstruction)
		if err != nil {
			return err
		}
		return writeAsset(a, "ad_image_edited"+extForMIME(edited.MIMEType), edited.Data)
	},
}

var assetTranscribeCmd = &cobra.Command{
	Use:   "transcribe",
	Short: "Transcribe a recorded audio clip to text",
	RunE: func(cmd *cobra.Command, args []string) error {
		if transcribeFile == "" {
			return fmt.Errorf("--audio is required")
		}

		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.close()

		audio, err := os.ReadFile(transcribeFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", transcribeFile, err)
		}

		text, err := a.orch.Transcribe(cmd.Context(), audio)
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	},
}

func init() {
	assetCmd.PersistentFlags().StringVar(&assetID, "id", "latest", "history item id to work on")
	assetCmd.PersistentFlags().StringVar(&assetOut, "out", "", "output directory (default from config)")
	assetCmd.PersistentFlags().StringVar(&assetAspect, "aspect", "1:1", "aspect ratio (1:1, 16:9, 9:16, 4:3)")
	assetImageCmd.Flags().StringVar(&assetSize, "size", "1K", "image size (1K, 2K)")
	assetVideoCmd.Flags().StringVar(&videoAspect, "aspect", "16:9", "video aspect ratio (16:9, 9:16)")
	assetVideoCmd.Flags().BoolVar(&withImage, "with-image", false, "generate the ad image first and seed the video with it")
	assetVideoCmd.Flags().StringVar(&assetSize, "size", "1K", "seed image size when --with-image is set")
	assetEditCmd.Flags().StringVar(&editSource, "source", "", "image file to edit")
	assetEditCmd.Flags().StringVar(&editInstruction, "instruction", "", "what to change")
	assetTranscribeCmd.Flags().StringVar(&transcribeFile, "audio", "", "audio file to transcribe")

	assetCmd.AddCommand(assetImageCmd, assetVariationsCmd, assetLogoCmd, assetVideoCmd,
		assetSpeechCmd, assetSocialCmd, assetVariantsCmd, assetCopyCmd, assetEditCmd, assetTranscribeCmd)
	rootCmd.AddCommand(assetCmd)
}
