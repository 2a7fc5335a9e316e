package gen

// Request/response structs for the generativelanguage REST API. Only the
// fields this client actually sends or reads are modeled.

// Content represents one role-tagged message in a request.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is a single piece of message content: text or inline media.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData carries base64-encoded media with a declared MIME type.
type InlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// GenerationConfig represents generation parameters.
type GenerationConfig struct {
	Temperature        float64                `json:"temperature,omitempty"`
	MaxOutputTokens    int                    `json:"maxOutputTokens,omitempty"`
	ResponseMimeType   string                 `json:"responseMimeType,omitempty"`
	ResponseSchema     map[string]interface{} `json:"responseSchema,omitempty"`
	ResponseModalities []string               `json:"responseModalities,omitempty"`
	ImageConfig        *ImageConfig           `json:"imageConfig,omitempty"`
	SpeechConfig       *SpeechConfig          `json:"speechConfig,omitempty"`
}

// ImageConfig shapes image output of generateContent image models.
type ImageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
	ImageSize   string `json:"imageSize,omitempty"`
}

// SpeechConfig selects the TTS voice.
type SpeechConfig struct {
	VoiceConfig *VoiceConfig `json:"voiceConfig,omitempty"`
}

// VoiceConfig wraps the prebuilt voice selection.
type VoiceConfig struct {
	PrebuiltVoiceConfig *PrebuiltVoiceConfig `json:"prebuiltVoiceConfig,omitempty"`
}

// PrebuiltVoiceConfig names a provider voice.
type PrebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

// Tool declares a built-in tool for a request.
type Tool struct {
	GoogleSearch *GoogleSearch `json:"googleSearch,omitempty"`
}

// GoogleSearch enables web-search grounding.
type GoogleSearch struct{}

// GenerateRequest is the generateContent request body.
type GenerateRequest struct {
	Contents          []Content         `json:"contents"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
	Tools             []Tool            `json:"tools,omitempty"`
}

// GenerateResponse is the generateContent response body.
type GenerateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []Part `json:"parts"`
			Role  string `json:"role"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	Error *APIError `json:"error,omitempty"`
}

// APIError is the provider error envelope.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// PredictRequest is the Imagen :predict request body.
type PredictRequest struct {
	Instances  []PredictInstance  `json:"instances"`
	Parameters *PredictParameters `json:"parameters,omitempty"`
}

// PredictInstance carries the image prompt.
type PredictInstance struct {
	Prompt string `json:"prompt"`
}

// PredictParameters shapes Imagen output.
type PredictParameters struct {
	SampleCount    int    `json:"sampleCount,omitempty"`
	AspectRatio    string `json:"aspectRatio,omitempty"`
	OutputMimeType string `json:"outputMimeType,omitempty"`
}

// PredictResponse is the Imagen :predict response body.
type PredictResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MIMEType           string `json:"mimeType"`
	} `json:"predictions"`
	Error *APIError `json:"error,omitempty"`
}

// VideoRequest is the Veo :predictLongRunning request body.
type VideoRequest struct {
	Instances  []VideoInstance  `json:"instances"`
	Parameters *VideoParameters `json:"parameters,omitempty"`
}

// VideoInstance carries the video prompt and optional seed image.
type VideoInstance struct {
	Prompt string      `json:"prompt"`
	Image  *VideoImage `json:"image,omitempty"`
}

// VideoImage is the base64 seed frame for image-to-video.
type VideoImage struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MIMEType           string `json:"mimeType"`
}

// VideoParameters shapes Veo output.
type VideoParameters struct {
	SampleCount int    `json:"sampleCount,omitempty"`
	AspectRatio string `json:"aspectRatio,omitempty"`
	Resolution  string `json:"resolution,omitempty"`
}

// Operation is the long-running job envelope returned by submission and by
// status polls.
type Operation struct {
	Name     string    `json:"name"`
	Done     bool      `json:"done"`
	Error    *APIError `json:"error,omitempty"`
	Response *struct {
		GenerateVideoResponse *struct {
			GeneratedSamples []struct {
				Video struct {
					URI string `json:"uri"`
				} `json:"video"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse,omitempty"`
	} `json:"response,omitempty"`
}
