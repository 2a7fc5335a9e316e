package gen

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"adgen/internal/logging"
)

// Video is a finished video clip.
type Video struct {
	Data     []byte
	MIMEType string
}

// GenerateAdVideo renders the video ad from a script prompt, optionally
// seeded with the campaign image. The prompt is sanitized, truncated and
// suffixed before submission. Blocks until the clip is ready or the
// wall-clock budget runs out.
func (c *Client) GenerateAdVideo(ctx context.Context, prompt, aspectRatio string, seedImage []byte) (*Video, error) {
	timer := logging.StartTimer("generator", "GenerateAdVideo")

	instance := VideoInstance{
		Prompt: truncateVideoPrompt(sanitizePrompt(prompt)) + videoQualitySuffix,
	}
	if len(seedImage) > 0 {
		instance.Image = &VideoImage{
			BytesBase64Encoded: base64.StdEncoding.EncodeToString(seedImage),
			MIMEType:           http.DetectContentType(seedImage),
		}
	}

	job, err := c.submitVideo(ctx, &VideoRequest{
		Instances:  []VideoInstance{instance},
		Parameters: &VideoParameters{SampleCount: 1, AspectRatio: aspectRatio},
	})
	if err != nil {
		timer.Stop()
		return nil, err
	}

	uri, err := job.wait(ctx)
	if err != nil {
		timer.Stop()
		return nil, err
	}

	video, err := c.fetchVideo(ctx, uri)
	if err != nil {
		timer.Stop()
		return nil, err
	}

	timer.StopWithInfo("bytes=%d", len(video.Data))
	return video, nil
}

// videoJob tracks one long-running video operation from submission to
// completion.
type videoJob struct {
	client    *Client
	operation string
	started   time.Time
}

func (c *Client) submitVideo(ctx context.Context, req *VideoRequest) (*videoJob, error) {
	url := fmt.Sprintf("%s/models/%s:predictLongRunning?key=%s", c.baseURL, c.videoModel, c.apiKey)

	var op Operation
	if err := c.postJSON(ctx, url, req, &op); err != nil {
		return nil, err
	}
	if op.Error != nil {
		return nil, fmt.Errorf("API error: %s", op.Error.Message)
	}
	if op.Name == "" {
		return nil, fmt.Errorf("%w: no operation name returned", ErrNoCompletion)
	}

	logging.Generator("video job submitted: %s", op.Name)
	return &videoJob{client: c, operation: op.Name, started: time.Now()}, nil
}

// wait polls the operation until it completes, fails, or the wall-clock
// budget elapses. Timed-out jobs are abandoned, never resumed.
func (j *videoJob) wait(ctx context.Context) (string, error) {
	deadline := j.started.Add(j.client.videoTimeout)
	ticker := time.NewTicker(j.client.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		if time.Now().After(deadline) {
			logging.GeneratorError("video job %s abandoned after %v", j.operation, j.client.videoTimeout)
			return "", ErrVideoTimeout
		}

		op, err := j.poll(ctx)
		if err != nil {
			logging.GeneratorWarn("video poll failed, will retry: %v", err)
			continue
		}
		if !op.Done {
			logging.GeneratorDebug("video job %s still running after %v", j.operation, time.Since(j.started))
			continue
		}

		if op.Error != nil {
			return "", fmt.Errorf("video generation failed: %s", op.Error.Message)
		}
		uri := videoURI(op)
		if uri == "" {
			return "", fmt.Errorf("%w: operation completed without a video", ErrNoCompletion)
		}
		return uri, nil
	}
}

func (j *videoJob) poll(ctx context.Context) (*Operation, error) {
	url := fmt.Sprintf("%s/%s?key=%s", j.client.baseURL, j.operation, j.client.apiKey)
	var op Operation
	if err := j.client.getJSON(ctx, url, &op); err != nil {
		return nil, err
	}
	return &op, nil
}

func videoURI(op *Operation) string {
	if op.Response == nil || op.Response.GenerateVideoResponse == nil {
		return ""
	}
	samples := op.Response.GenerateVideoResponse.GeneratedSamples
	if len(samples) == 0 {
		return ""
	}
	return samples[0].Video.URI
}

// fetchVideo downloads the finished clip from the result URI. The key is
// appended since result URIs require the same credential as the API.
func (c *Client) fetchVideo(ctx context.Context, uri string) (*Video, error) {
	sep := "?"
	if strings.Contains(uri, "?") {
		sep = "&"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri+sep+"key="+c.apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("video download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("video download failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("video download failed: %w", err)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = "video/mp4"
	}
	return &Video{Data: data, MIMEType: mimeType}, nil
}
