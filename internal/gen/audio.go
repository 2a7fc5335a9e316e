package gen

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"net/http"
	"strings"
)

// Speech is a synthesized voice-over as a playable WAV file.
type Speech struct {
	Data     []byte
	MIMEType string
}

const (
	ttsVoice      = "Kore"
	pcmSampleRate = 24000
)

// GenerateSpeech synthesizes a voice-over for the given text. The provider
// streams raw 24 kHz mono PCM, which is wrapped into a WAV container so the
// result plays anywhere.
func (c *Client) GenerateSpeech(ctx context.Context, text string) (*Speech, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("speech requires text")
	}

	req := &GenerateRequest{
		Contents: []Content{{Role: "user", Parts: []Part{{Text: text}}}},
		GenerationConfig: &GenerationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &SpeechConfig{
				VoiceConfig: &VoiceConfig{
					PrebuiltVoiceConfig: &PrebuiltVoiceConfig{VoiceName: ttsVoice},
				},
			},
		},
	}

	resp, err := c.generate(ctx, c.speechModel, req)
	if err != nil {
		return nil, err
	}

	pcm, _, ok := firstInline(resp)
	if !ok {
		return nil, fmt.Errorf("%w: no audio in response", ErrNoCompletion)
	}
	return &Speech{Data: wrapWAV(pcm, pcmSampleRate), MIMEType: "audio/wav"}, nil
}

// TranscribeAudio converts a recorded audio clip to text.
func (c *Client) TranscribeAudio(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("transcription requires audio")
	}

	req := &GenerateRequest{
		Contents: []Content{{Role: "user", Parts: []Part{
			{InlineData: &InlineData{
				MIMEType: http.DetectContentType(audio),
				Data:     base64.StdEncoding.EncodeToString(audio),
			}},
			{Text: "Transcribe this audio exactly as spoken. Output only the transcription, no commentary."},
		}}},
	}

	resp, err := c.generate(ctx, c.textModel, req)
	if err != nil {
		return "", err
	}

	text := firstText(resp)
	if text == "" {
		return "", ErrNoCompletion
	}
	return text, nil
}

// wrapWAV prefixes raw 16-bit mono PCM with a RIFF/WAVE header.
func wrapWAV(pcm []byte, sampleRate int) []byte {
	const (
		channels      = 1
		bitsPerSample = 16
	)
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	buf := make([]byte, 0, 44+len(pcm))
	buf = append(buf, "RIFF"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+len(pcm)))
	buf = append(buf, "WAVE"...)
	buf = append(buf, "fmt "...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, 1) // PCM format
	buf = binary.LittleEndian.AppendUint16(buf, channels)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(byteRate))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(blockAlign))
	buf = binary.LittleEndian.AppendUint16(buf, bitsPerSample)
	buf = append(buf, "data"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(pcm)))
	buf = append(buf, pcm...)
	return buf
}
