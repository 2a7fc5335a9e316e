package types

import "fmt"

// InputType labels which channel produced a generation.
type InputType string

const (
	InputText  InputType = "TEXT"
	InputImage InputType = "IMAGE"
	InputURL   InputType = "URL"
	InputVideo InputType = "VIDEO"
)

const (
	summaryMaxLen   = 40
	fallbackSummary = "Image/URL Analysis"
)

// InputPayload is the tagged union of the four input channels. Exactly one
// channel is populated, decided once at submission time; the zero value is
// invalid. Construct via TextInput, ImagesInput, URLInput or VideoInput.
type InputPayload struct {
	kind   InputType
	text   string   // context text; primary content for InputText
	images [][]byte // InputImage
	url    string   // InputURL
	video  []byte   // InputVideo
}

// TextInput builds a payload from a plain product description.
func TextInput(text string) InputPayload {
	return InputPayload{kind: InputText, text: text}
}

// ImagesInput builds a payload from product images plus optional context text.
func ImagesInput(images [][]byte, context string) InputPayload {
	return InputPayload{kind: InputImage, images: images, text: context}
}

// URLInput builds a payload from a product page URL plus optional context text.
func URLInput(url, context string) InputPayload {
	return InputPayload{kind: InputURL, url: url, text: context}
}

// VideoInput builds a payload from a product video plus optional context text.
func VideoInput(video []byte, context string) InputPayload {
	return InputPayload{kind: InputVideo, video: video, text: context}
}

// Kind reports which channel is populated.
func (p InputPayload) Kind() InputType { return p.kind }

// Text returns the context text (primary content for InputText).
func (p InputPayload) Text() string { return p.text }

// Images returns the image set for InputImage payloads.
func (p InputPayload) Images() [][]byte { return p.images }

// URL returns the page URL for InputURL payloads.
func (p InputPayload) URL() string { return p.url }

// Video returns the video bytes for InputVideo payloads.
func (p InputPayload) Video() []byte { return p.video }

// Validate reports whether the populated channel actually carries content.
func (p InputPayload) Validate() error {
	switch p.kind {
	case InputText:
		if p.text == "" {
			return fmt.Errorf("text input requires a product description")
		}
	case InputImage:
		if len(p.images) == 0 {
			return fmt.Errorf("image input requires at least one image")
		}
	case InputURL:
		if p.url == "" {
			return fmt.Errorf("url input requires a URL")
		}
	case InputVideo:
		if len(p.video) == 0 {
			return fmt.Errorf("video input requires video bytes")
		}
	default:
		return fmt.Errorf("empty input payload")
	}
	return nil
}

// Summary derives the history label for this payload: the URL for URL inputs,
// a counted label for media inputs, otherwise the raw text. The label is
// truncated to 40 runes with an ellipsis; an empty label falls back to a
// generic one.
func (p InputPayload) Summary() string {
	var s string
	switch p.kind {
	case InputURL:
		s = p.url
	case InputImage:
		context := p.text
		if context == "" {
			context = "Product"
		}
		s = fmt.Sprintf("Image Analysis (%d imgs): %s", len(p.images), context)
	case InputVideo:
		context := p.text
		if context == "" {
			context = "Product"
		}
		s = "Video Analysis: " + context
	default:
		s = p.text
	}
	return truncateSummary(s)
}

func truncateSummary(s string) string {
	if s == "" {
		return fallbackSummary
	}
	runes := []rune(s)
	if len(runes) > summaryMaxLen {
		return string(runes[:summaryMaxLen]) + "..."
	}
	return s
}
