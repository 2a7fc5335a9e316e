package gen

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func inlineImageResponse(data []byte, mimeType string) GenerateResponse {
	resp := textResponse("")
	resp.Candidates[0].Content.Parts = []Part{{InlineData: &InlineData{
		MIMEType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(data),
	}}}
	return resp
}

func TestGenerateAdImage(t *testing.T) {
	pixels := []byte{0x89, 0x50, 0x4E, 0x47}
	var gotReq GenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(inlineImageResponse(pixels, "image/png"))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	img, err := c.GenerateAdImage(context.Background(), "a mug full of violence and coffee", "16:9", "2K")
	if err != nil {
		t.Fatalf("GenerateAdImage failed: %v", err)
	}

	if string(img.Data) != string(pixels) {
		t.Error("image bytes do not round-trip")
	}
	if img.MIMEType != "image/png" {
		t.Errorf("mime = %q", img.MIMEType)
	}

	prompt := gotReq.Contents[0].Parts[0].Text
	if strings.Contains(strings.ToLower(prompt), "violence") {
		t.Errorf("denylisted term survived sanitization: %q", prompt)
	}
	if !strings.Contains(prompt, "studio lighting") {
		t.Errorf("quality suffix missing: %q", prompt)
	}
	if gotReq.GenerationConfig.ImageConfig.AspectRatio != "16:9" {
		t.Errorf("aspect = %q", gotReq.GenerationConfig.ImageConfig.AspectRatio)
	}
	if gotReq.GenerationConfig.ImageConfig.ImageSize != "2K" {
		t.Errorf("size = %q", gotReq.GenerationConfig.ImageConfig.ImageSize)
	}
}

func TestEditAdImageSendsSource(t *testing.T) {
	source := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46, 0x00}
	var gotReq GenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(inlineImageResponse([]byte("edited"), "image/png"))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	img, err := c.EditAdImage(context.Background(), source, "make the background warmer")
	if err != nil {
		t.Fatalf("EditAdImage failed: %v", err)
	}
	if string(img.Data) != "edited" {
		t.Error("edited bytes do not round-trip")
	}

	parts := gotReq.Contents[0].Parts
	if len(parts) != 2 || parts[0].InlineData == nil {
		t.Fatalf("expected image part then text part, got %d parts", len(parts))
	}
	if parts[0].InlineData.MIMEType != "image/jpeg" {
		t.Errorf("detected mime = %q", parts[0].InlineData.MIMEType)
	}
	if parts[1].Text != "make the background warmer" {
		t.Errorf("instruction = %q", parts[1].Text)
	}
}

func TestEditAdImageRequiresSource(t *testing.T) {
	c := newTestClient("http://unused")
	if _, err := c.EditAdImage(context.Background(), nil, "instruction"); err == nil {
		t.Fatal("expected error for missing source image")
	}
}

func predictResponse(count int) PredictResponse {
	var resp PredictResponse
	for i := 0; i < count; i++ {
		resp.Predictions = append(resp.Predictions, struct {
			BytesBase64Encoded string `json:"bytesBase64Encoded"`
			MIMEType           string `json:"mimeType"`
		}{BytesBase64Encoded: base64.StdEncoding.EncodeToString([]byte{byte(i)})})
	}
	return resp
}

func TestGenerateImageVariations(t *testing.T) {
	var gotReq PredictRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":predict") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(predictResponse(3))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	images, err := c.GenerateImageVariations(context.Background(), "a mug", "1:1")
	if err != nil {
		t.Fatalf("GenerateImageVariations failed: %v", err)
	}
	if len(images) != 3 {
		t.Fatalf("got %d variations", len(images))
	}
	if gotReq.Parameters.SampleCount != 3 {
		t.Errorf("sampleCount = %d", gotReq.Parameters.SampleCount)
	}
	if !strings.Contains(gotReq.Instances[0].Prompt, "Alternative composition") {
		t.Errorf("variation suffix missing: %q", gotReq.Instances[0].Prompt)
	}
}

func TestGenerateImageVariationsWrongCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(predictResponse(2))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	if _, err := c.GenerateImageVariations(context.Background(), "a mug", "1:1"); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestGenerateBrandLogo(t *testing.T) {
	var gotReq PredictRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(predictResponse(1))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	logo, err := c.GenerateBrandLogo(context.Background(), "GlowCup wordmark")
	if err != nil {
		t.Fatalf("GenerateBrandLogo failed: %v", err)
	}
	if logo.MIMEType != "image/png" {
		t.Errorf("mime = %q", logo.MIMEType)
	}
	if gotReq.Parameters.AspectRatio != "1:1" {
		t.Errorf("aspect = %q", gotReq.Parameters.AspectRatio)
	}
	if !strings.Contains(gotReq.Instances[0].Prompt, "professional logo design") {
		t.Errorf("logo suffix missing: %q", gotReq.Instances[0].Prompt)
	}
}
