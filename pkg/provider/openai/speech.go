package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/tidwall/gjson"

	"github.com/dv-team/chatgpt-go/pkg/types"
)

// SpeechOption configures a text-to-speech request.
type SpeechOption func(*goopenai.CreateSpeechRequest)

func WithVoice(voice string) SpeechOption {
	return func(r *goopenai.CreateSpeechRequest) {
		if voice != "" {
			r.Voice = goopenai.SpeechVoice(voice)
		}
	}
}

func WithSpeed(speed float64) SpeechOption {
	return func(r *goopenai.CreateSpeechRequest) {
		if speed > 0 {
			r.Speed = speed
		}
	}
}

// WithAudioFormat sets the audio container, e.g. "wav" or "mp3".
func WithAudioFormat(format string) SpeechOption {
	return func(r *goopenai.CreateSpeechRequest) {
		if format != "" {
			r.ResponseFormat = goopenai.SpeechResponseFormat(format)
		}
	}
}

func WithInstructions(instructions string) SpeechOption {
	return func(r *goopenai.CreateSpeechRequest) {
		r.Instructions = instructions
	}
}

func WithSpeechModel(model string) SpeechOption {
	return func(r *goopenai.CreateSpeechRequest) {
		if model != "" {
			r.Model = goopenai.SpeechModel(model)
		}
	}
}

// TextToSpeech renders text as audio and returns the encoded bytes.
func (m *ChatModel) TextToSpeech(ctx context.Context, text string, opts ...SpeechOption) ([]byte, error) {
	req := goopenai.CreateSpeechRequest{
		Model:          goopenai.TTSModelGPT4oMini,
		Input:          text,
		Voice:          goopenai.VoiceAlloy,
		ResponseFormat: goopenai.SpeechResponseFormatWav,
		Speed:          1.0,
	}
	for _, o := range opts {
		o(&req)
	}

	resp, err := m.speech.CreateSpeech(ctx, req)
	if err != nil {
		return nil, speechError(err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, &types.NetworkError{Err: err}
	}

	// some proxies answer 200 with an error envelope
	if gjson.ValidBytes(audio) {
		if e := gjson.GetBytes(audio, "error"); e.Exists() {
			msg := e.Get("message").String()
			if msg == "" {
				msg = "Unknown error"
			}
			return nil, fmt.Errorf("openai tts error: %s", msg)
		}
	}

	return audio, nil
}

func speechError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		body, _ := json.Marshal(goopenai.ErrorResponse{Error: apiErr})
		return &types.NetworkError{StatusCode: apiErr.HTTPStatusCode, Body: body, Err: err}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return &types.NetworkError{StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return &types.NetworkError{Err: err}
}
