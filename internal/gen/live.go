package gen

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"adgen/internal/logging"
)

// Live session wire messages for the BidiGenerateContent websocket protocol.
// Input audio is 16 kHz mono PCM; output audio is 24 kHz mono PCM.

type liveSetupMessage struct {
	Setup liveSetup `json:"setup"`
}

type liveSetup struct {
	Model             string            `json:"model"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
}

type liveInputMessage struct {
	RealtimeInput struct {
		MediaChunks []InlineData `json:"mediaChunks"`
	} `json:"realtimeInput"`
}

type liveServerMessage struct {
	SetupComplete *struct{} `json:"setupComplete,omitempty"`
	ServerContent *struct {
		ModelTurn *struct {
			Parts []Part `json:"parts"`
		} `json:"modelTurn,omitempty"`
		Interrupted  bool `json:"interrupted,omitempty"`
		TurnComplete bool `json:"turnComplete,omitempty"`
	} `json:"serverContent,omitempty"`
}

// FrameKind labels what one received live frame carries.
type FrameKind int

const (
	// FrameAudio carries a chunk of 24 kHz PCM model speech.
	FrameAudio FrameKind = iota
	// FrameInterrupt signals the model was cut off by user speech; the
	// caller should drop any queued playback.
	FrameInterrupt
	// FrameTurnComplete signals the model finished its turn.
	FrameTurnComplete
)

// Frame is one unit of model output from a live session.
type Frame struct {
	Kind  FrameKind
	Audio []byte
}

// LiveSession is a duplex voice conversation with the model. Send and Recv
// are safe to drive from separate goroutines; the session is done when Recv
// returns an error.
type LiveSession struct {
	conn *websocket.Conn
}

// Live opens a realtime voice session. The system instruction grounds the
// model in the current campaign the same way the chat operation does.
func (c *Client) Live(ctx context.Context, systemInstruction string) (*LiveSession, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("API key not configured")
	}

	endpoint := liveEndpoint(c.baseURL) + "?key=" + url.QueryEscape(c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("live connect failed: %w", err)
	}

	setup := liveSetupMessage{Setup: liveSetup{
		Model: "models/" + c.liveModel,
		GenerationConfig: &GenerationConfig{
			ResponseModalities: []string{"AUDIO"},
		},
	}}
	if systemInstruction != "" {
		setup.Setup.SystemInstruction = &Content{Parts: []Part{{Text: systemInstruction}}}
	}
	if err := conn.WriteJSON(setup); err != nil {
		conn.Close()
		return nil, fmt.Errorf("live setup failed: %w", err)
	}

	// The server acknowledges setup before any content flows.
	var ack liveServerMessage
	if err := conn.ReadJSON(&ack); err != nil {
		conn.Close()
		return nil, fmt.Errorf("live setup failed: %w", err)
	}
	if ack.SetupComplete == nil {
		conn.Close()
		return nil, fmt.Errorf("live setup rejected")
	}

	logging.Live("session opened model=%s", c.liveModel)
	return &LiveSession{conn: conn}, nil
}

// Send streams one chunk of 16 kHz mono PCM microphone audio to the model.
func (s *LiveSession) Send(pcm []byte) error {
	var msg liveInputMessage
	msg.RealtimeInput.MediaChunks = []InlineData{{
		MIMEType: "audio/pcm;rate=16000",
		Data:     base64.StdEncoding.EncodeToString(pcm),
	}}
	return s.conn.WriteJSON(msg)
}

// Recv blocks for the next model frame. Non-audio server messages that carry
// no signal for the caller are skipped.
func (s *LiveSession) Recv() (Frame, error) {
	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			return Frame{}, err
		}

		var msg liveServerMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			logging.LiveError("unparseable server message: %v", err)
			continue
		}
		if msg.ServerContent == nil {
			continue
		}

		if msg.ServerContent.Interrupted {
			logging.LiveDebug("model interrupted")
			return Frame{Kind: FrameInterrupt}, nil
		}
		if msg.ServerContent.ModelTurn != nil {
			for _, part := range msg.ServerContent.ModelTurn.Parts {
				if part.InlineData == nil || part.InlineData.Data == "" {
					continue
				}
				audio, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
				if err != nil {
					logging.LiveError("bad audio encoding: %v", err)
					continue
				}
				return Frame{Kind: FrameAudio, Audio: audio}, nil
			}
		}
		if msg.ServerContent.TurnComplete {
			return Frame{Kind: FrameTurnComplete}, nil
		}
	}
}

// Close tears the session down.
func (s *LiveSession) Close() error {
	s.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return s.conn.Close()
}

// liveEndpoint derives the websocket endpoint from the REST base URL so test
// servers can intercept both.
func liveEndpoint(baseURL string) string {
	ws := strings.Replace(baseURL, "https://", "wss://", 1)
	ws = strings.Replace(ws, "http://", "ws://", 1)
	ws = strings.TrimSuffix(ws, "/v1beta")
	return ws + "/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"
}
