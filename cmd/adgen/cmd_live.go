package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"adgen/internal/gen"
	"adgen/internal/orchestrator"
)

var (
	liveAudioIn  string
	liveAudioOut string
)

// 100ms of 16 kHz 16-bit mono PCM per input chunk.
const liveChunkSize = 3200

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Hold a realtime voice conversation about a saved campaign",
	Long: `Streams 16 kHz 16-bit mono PCM audio to the model and collects its spoken
replies (24 kHz PCM) into an output file. Audio capture and playback stay
outside adgen: pipe raw PCM in with --audio - (stdin) or point --audio at a
file, e.g.

  arecord -f S16_LE -r 16000 -c 1 -t raw | adgen live --audio -`,
	RunE: runLive,
}

func runLive(cmd *cobra.Command, args []string) error {
	a, err := assetApp()
	if err != nil {
		return err
	}
	defer a.close()

	var in io.Reader
	if liveAudioIn == "" || liveAudioIn == "-" {
		in = os.Stdin
	} else {
		f, err := os.Open(liveAudioIn)
		if err != nil {
			return fmt.Errorf("failed to open audio input: %w", err)
		}
		defer f.Close()
		in = f
	}

	out, err := os.Create(liveAudioOut)
	if err != nil {
		return fmt.Errorf("failed to create audio output: %w", err)
	}
	defer out.Close()

	snap := a.orch.Snapshot()
	session, err := gen.NewClient(a.cfg).Live(cmd.Context(), liveSystemInstruction(snap))
	if err != nil {
		return err
	}
	defer session.Close()
	fmt.Println("Live session open. Streaming audio...")

	// Uplink: stream microphone chunks until the input drains.
	sendDone := make(chan error, 1)
	go func() {
		chunk := make([]byte, liveChunkSize)
		for {
			n, err := io.ReadFull(in, chunk)
			if n > 0 {
				if sendErr := session.Send(chunk[:n]); sendErr != nil {
					sendDone <- sendErr
					return
				}
			}
			if err != nil {
				sendDone <- nil
				return
			}
		}
	}()

	// Downlink: collect model speech until the session ends.
	received := 0
	for {
		select {
		case err := <-sendDone:
			if err != nil {
				return fmt.Errorf("audio send failed: %w", err)
			}
			fmt.Printf("Input drained. Received %d bytes of reply audio in %s\n", received, liveAudioOut)
			return nil
		default:
		}

		frame, err := session.Recv()
		if err != nil {
			fmt.Printf("Session closed. Received %d bytes of reply audio in %s\n", received, liveAudioOut)
			return nil
		}
		switch frame.Kind {
		case gen.FrameAudio:
			if _, err := out.Write(frame.Audio); err != nil {
				return fmt.Errorf("failed to write reply audio: %w", err)
			}
			received += len(frame.Audio)
		case gen.FrameInterrupt:
			fmt.Println(subtleStyle.Render("[model interrupted]"))
		case gen.FrameTurnComplete:
			fmt.Println(subtleStyle.Render("[turn complete]"))
		}
	}
}

// liveSystemInstruction grounds the voice assistant in the loaded campaign.
func liveSystemInstruction(snap orchestrator.Snapshot) string {
	if snap.Result == nil {
		return "You are a helpful marketing voice assistant."
	}
	return fmt.Sprintf(`You are a marketing voice assistant discussing an ad campaign.
Campaign USP: %s. Target audience: %s. Current headline: %q.
Keep spoken answers short and conversational.`,
		snap.Result.Strategy.USP, snap.Result.Strategy.TargetAudience, snap.AdCopy.Headline)
}

func init() {
	liveCmd.Flags().StringVar(&liveAudioIn, "audio", "-", "raw PCM input file, or - for stdin")
	liveCmd.Flags().StringVar(&liveAudioOut, "out", "reply.pcm", "file for the model's reply audio")
	rootCmd.AddCommand(liveCmd)
}
