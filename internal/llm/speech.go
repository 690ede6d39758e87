package llm

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// Speaker turns reply text into audio.
type Speaker interface {
	// Speak returns the encoded audio and its MIME type.
	Speak(ctx context.Context, text string) ([]byte, string, error)
}

const mp3MimeType = "audio/mpeg"

type OpenAISpeaker struct {
	client *openai.Client
	model  string
	voice  string
}

func NewOpenAISpeaker(apiKey, baseURL, model, voice string) *OpenAISpeaker {
	if model == "" {
		model = string(openai.TTSModelGPT4oMini)
	}
	if voice == "" {
		voice = string(openai.VoiceAlloy)
	}
	return &OpenAISpeaker{client: newOpenAIClient(apiKey, baseURL), model: model, voice: voice}
}

func (s *OpenAISpeaker) Speak(ctx context.Context, text string) ([]byte, string, error) {
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.model),
		Input:          text,
		Voice:          openai.SpeechVoice(s.voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, "", mapOpenAIError(err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, "", &ErrProviderUnavailable{Err: fmt.Errorf("read speech body: %w", err)}
	}
	return audio, mp3MimeType, nil
}

// MockSpeaker returns fixed audio, or Err when set.
type MockSpeaker struct {
	Audio []byte
	Err   error
	Calls []string
}

func (m *MockSpeaker) Speak(_ context.Context, text string) ([]byte, string, error) {
	m.Calls = append(m.Calls, text)
	if m.Err != nil {
		return nil, "", m.Err
	}
	return m.Audio, mp3MimeType, nil
}
