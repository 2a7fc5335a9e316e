package gen

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerateSpeechWrapsWAV(t *testing.T) {
	pcm := make([]byte, 480) // 10ms of 24kHz 16-bit mono
	var gotReq GenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		resp := textResponse("")
		resp.Candidates[0].Content.Parts = []Part{{InlineData: &InlineData{
			MIMEType: "audio/pcm;rate=24000",
			Data:     base64.StdEncoding.EncodeToString(pcm),
		}}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	speech, err := c.GenerateSpeech(context.Background(), "Never drink cold coffee again.")
	if err != nil {
		t.Fatalf("GenerateSpeech failed: %v", err)
	}

	if speech.MIMEType != "audio/wav" {
		t.Errorf("mime = %q", speech.MIMEType)
	}
	if len(speech.Data) != 44+len(pcm) {
		t.Fatalf("wav length = %d, want %d", len(speech.Data), 44+len(pcm))
	}
	if string(speech.Data[:4]) != "RIFF" || string(speech.Data[8:12]) != "WAVE" {
		t.Error("missing RIFF/WAVE header")
	}
	if rate := binary.LittleEndian.Uint32(speech.Data[24:28]); rate != pcmSampleRate {
		t.Errorf("sample rate = %d, want %d", rate, pcmSampleRate)
	}
	if size := binary.LittleEndian.Uint32(speech.Data[40:44]); size != uint32(len(pcm)) {
		t.Errorf("data chunk size = %d, want %d", size, len(pcm))
	}

	if got := gotReq.GenerationConfig.ResponseModalities; len(got) != 1 || got[0] != "AUDIO" {
		t.Errorf("response modalities = %v", got)
	}
	if gotReq.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName != ttsVoice {
		t.Error("voice not selected")
	}
}

func TestGenerateSpeechRequiresText(t *testing.T) {
	c := newTestClient("http://unused")
	if _, err := c.GenerateSpeech(context.Background(), "   "); err == nil {
		t.Fatal("expected error for blank text")
	}
}

func TestTranscribeAudio(t *testing.T) {
	var gotReq GenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(textResponse("make the headline punchier"))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	text, err := c.TranscribeAudio(context.Background(), []byte("fake-audio-bytes"))
	if err != nil {
		t.Fatalf("TranscribeAudio failed: %v", err)
	}
	if text != "make the headline punchier" {
		t.Errorf("transcript = %q", text)
	}
	if gotReq.Contents[0].Parts[0].InlineData == nil {
		t.Error("audio bytes not sent inline")
	}
}
