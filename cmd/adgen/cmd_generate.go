package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"adgen/internal/types"
)

var (
	genText     string
	genURL      string
	genImages   []string
	genVideo    string
	genContext  string
	genLanguage string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a full campaign from a product input",
	Long: `Runs the primary generation cycle: campaign strategy, ad copy, creative
prompts and keywords, followed by a matching landing page. The result is
saved to history.

Exactly one input channel is used, in this priority when several are given:
--url, then --image, then --video, then --text.

Examples:
  adgen generate --text "Self-heating ceramic travel mug"
  adgen generate --url https://glowcup.example --context "premium positioning"
  adgen generate --image front.jpg --image side.jpg --lang "Darija (Morocco)"`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genText, "text", "", "product description")
	generateCmd.Flags().StringVar(&genURL, "url", "", "product page URL")
	generateCmd.Flags().StringArrayVar(&genImages, "image", nil, "product image file (repeatable)")
	generateCmd.Flags().StringVar(&genVideo, "video", "", "product video file")
	generateCmd.Flags().StringVar(&genContext, "context", "", "extra context for media/URL inputs")
	generateCmd.Flags().StringVar(&genLanguage, "lang", string(types.LanguageEnglish),
		`output language: "English", "Français", "العربية" or "Darija (Morocco)"`)
	rootCmd.AddCommand(generateCmd)
}

// buildInput assembles the payload from the generate flags, applying the
// channel priority.
func buildInput() (types.InputPayload, error) {
	switch {
	case genURL != "":
		return types.URLInput(genURL, genContext), nil
	case len(genImages) > 0:
		images := make([][]byte, 0, len(genImages))
		for _, path := range genImages {
			data, err := os.ReadFile(path)
			if err != nil {
				return types.InputPayload{}, fmt.Errorf("failed to read image %s: %w", path, err)
			}
			images = append(images, data)
		}
		return types.ImagesInput(images, genContext), nil
	case genVideo != "":
		data, err := os.ReadFile(genVideo)
		if err != nil {
			return types.InputPayload{}, fmt.Errorf("failed to read video %s: %w", genVideo, err)
		}
		return types.VideoInput(data, genContext), nil
	case genText != "":
		return types.TextInput(genText), nil
	default:
		return types.InputPayload{}, fmt.Errorf("provide one of --text, --url, --image or --video")
	}
}

func parseLanguage(s string) (types.TargetLanguage, error) {
	for _, lang := range []types.TargetLanguage{
		types.LanguageEnglish, types.LanguageFrench, types.LanguageArabic, types.LanguageDarija,
	} {
		if s == string(lang) {
			return lang, nil
		}
	}
	return "", fmt.Errorf("unknown language %q", s)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	input, err := buildInput()
	if err != nil {
		return err
	}
	language, err := parseLanguage(genLanguage)
	if err != nil {
		return err
	}

	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Printf("Generating campaign (%s, %s)...\n", input.Kind(), language)
	if err := a.orch.Generate(cmd.Context(), input, language); err != nil {
		return err
	}

	snap := a.orch.Snapshot()
	fmt.Println(renderCampaign(snap))
	fmt.Println(subtleStyle.Render("Saved to history. Use `adgen asset ...` to generate visuals, `adgen export ...` to export."))
	return nil
}
