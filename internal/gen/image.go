package gen

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"adgen/internal/logging"
)

// Image is one generated image with its declared MIME type.
type Image struct {
	Data     []byte
	MIMEType string
}

const variationCount = 3

// GenerateAdImage renders the main ad visual. The prompt is sanitized and
// augmented with a photo-quality suffix before submission.
func (c *Client) GenerateAdImage(ctx context.Context, prompt, aspectRatio, imageSize string) (*Image, error) {
	timer := logging.StartTimer("generator", "GenerateAdImage")

	req := &GenerateRequest{
		Contents: []Content{{Role: "user", Parts: []Part{
			{Text: sanitizePrompt(prompt) + imageQualitySuffix},
		}}},
		GenerationConfig: &GenerationConfig{
			ResponseModalities: []string{"IMAGE"},
			ImageConfig: &ImageConfig{
				AspectRatio: aspectRatio,
				ImageSize:   imageSize,
			},
		},
	}

	resp, err := c.generate(ctx, c.imageModel, req)
	if err != nil {
		timer.Stop()
		return nil, err
	}

	data, mimeType, ok := firstInline(resp)
	if !ok {
		timer.Stop()
		return nil, fmt.Errorf("%w: no image in response", ErrNoCompletion)
	}

	timer.StopWithInfo("aspect=%s bytes=%d", aspectRatio, len(data))
	return &Image{Data: data, MIMEType: mimeType}, nil
}

// EditAdImage applies a natural-language edit instruction to an existing
// image and returns the edited result.
func (c *Client) EditAdImage(ctx context.Context, image []byte, instruction string) (*Image, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("edit requires a source image")
	}

	req := &GenerateRequest{
		Contents: []Content{{Role: "user", Parts: []Part{
			{InlineData: &InlineData{
				MIMEType: http.DetectContentType(image),
				Data:     base64.StdEncoding.EncodeToString(image),
			}},
			{Text: sanitizePrompt(instruction)},
		}}},
		GenerationConfig: &GenerationConfig{
			ResponseModalities: []string{"IMAGE"},
		},
	}

	resp, err := c.generate(ctx, c.imageModel, req)
	if err != nil {
		return nil, err
	}

	data, mimeType, ok := firstInline(resp)
	if !ok {
		return nil, fmt.Errorf("%w: no image in response", ErrNoCompletion)
	}
	return &Image{Data: data, MIMEType: mimeType}, nil
}

// GenerateImageVariations produces exactly three alternative takes on the ad
// visual via batch prediction.
func (c *Client) GenerateImageVariations(ctx context.Context, prompt, aspectRatio string) ([]Image, error) {
	timer := logging.StartTimer("generator", "GenerateImageVariations")

	req := &PredictRequest{
		Instances: []PredictInstance{{Prompt: sanitizePrompt(prompt) + variationQualitySuffix}},
		Parameters: &PredictParameters{
			SampleCount: variationCount,
			AspectRatio: aspectRatio,
		},
	}

	images, err := c.predict(ctx, req)
	if err != nil {
		timer.Stop()
		return nil, err
	}
	if len(images) != variationCount {
		timer.Stop()
		return nil, fmt.Errorf("%w: expected %d variations, got %d", ErrInvalidPayload, variationCount, len(images))
	}

	timer.StopWithInfo("count=%d", len(images))
	return images, nil
}

// GenerateBrandLogo renders a square logo mark for the brand.
func (c *Client) GenerateBrandLogo(ctx context.Context, prompt string) (*Image, error) {
	req := &PredictRequest{
		Instances: []PredictInstance{{Prompt: sanitizePrompt(prompt) + logoSuffix}},
		Parameters: &PredictParameters{
			SampleCount:    1,
			AspectRatio:    "1:1",
			OutputMimeType: "image/png",
		},
	}

	images, err := c.predict(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: no logo in response", ErrNoCompletion)
	}
	return &images[0], nil
}

// predict runs one batch-image prediction call against the Imagen model.
func (c *Client) predict(ctx context.Context, req *PredictRequest) ([]Image, error) {
	url := fmt.Sprintf("%s/models/%s:predict?key=%s", c.baseURL, c.imagenModel, c.apiKey)

	var resp PredictResponse
	if err := c.postJSON(ctx, url, req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("API error: %s", resp.Error.Message)
	}

	images := make([]Image, 0, len(resp.Predictions))
	for _, pred := range resp.Predictions {
		data, err := base64.StdEncoding.DecodeString(pred.BytesBase64Encoded)
		if err != nil {
			return nil, fmt.Errorf("%w: bad image encoding: %v", ErrInvalidPayload, err)
		}
		mimeType := pred.MIMEType
		if mimeType == "" {
			mimeType = "image/png"
		}
		images = append(images, Image{Data: data, MIMEType: mimeType})
	}
	return images, nil
}
