package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"preppulse/internal/caching"
	"preppulse/internal/llm"
	"preppulse/internal/repositories"
)

const chatSystemPrompt = "You are PrepPulse AI assistant. Be concise, actionable, and specific for placement prep: " +
	"mock tests, study plans, resume tips. Keep answers under 120 words unless asked for more."

const chatRateWindow = time.Minute

const (
	defaultChatTimeout   = 30 * time.Second
	defaultSpeechTimeout = 20 * time.Second
)

type ChatReply struct {
	Reply string  `json:"reply"`
	Audio *string `json:"audio"`
	Mime  *string `json:"mime"`
}

type ChatService interface {
	// Chat answers message. extra is the client-supplied context: a string or
	// any JSON value. When it is empty the user's latest resume analysis is
	// used instead.
	Chat(ctx context.Context, email, message string, extra any) (*ChatReply, error)
}

type chatService struct {
	provider  llm.Provider
	speaker   llm.Speaker
	resumes   repositories.ResumeRepository
	cacheSvc  caching.CacheService
	rateLimit int

	chatTimeout   time.Duration
	speechTimeout time.Duration
}

// ChatOption configures a ChatService.
type ChatOption func(*chatService)

// WithChatTimeouts bounds the completion and speech calls. Zero keeps the
// default.
func WithChatTimeouts(chat, speech time.Duration) ChatOption {
	return func(s *chatService) {
		if chat > 0 {
			s.chatTimeout = chat
		}
		if speech > 0 {
			s.speechTimeout = speech
		}
	}
}

// NewChatService accepts nil for provider or speaker when they are not
// configured.
func NewChatService(provider llm.Provider, speaker llm.Speaker, resumes repositories.ResumeRepository, cacheSvc caching.CacheService, rateLimit int, opts ...ChatOption) ChatService {
	s := &chatService{
		provider:      provider,
		speaker:       speaker,
		resumes:       resumes,
		cacheSvc:      cacheSvc,
		rateLimit:     rateLimit,
		chatTimeout:   defaultChatTimeout,
		speechTimeout: defaultSpeechTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *chatService) Chat(ctx context.Context, email, message string, extra any) (*ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, invalid("Message is required.")
	}
	if s.provider == nil {
		return nil, ErrAIUnavailable
	}

	if s.rateLimit > 0 {
		limited, err := s.cacheSvc.IsRateLimited(ctx, "chat:"+email, s.rateLimit, chatRateWindow)
		if err != nil {
			// An unreachable limiter does not block chat.
			log.Printf("WARN: chat rate limit check failed: %v", err)
		} else if limited {
			return nil, ErrRateLimited
		}
	}

	contextText := contextString(extra)
	if contextText == "" {
		contextText = s.analysisContext(ctx, email)
	}

	system := chatSystemPrompt
	if contextText != "" {
		system += "\nRelevant context (from resume analysis or user data):\n" + contextText
	}

	genCtx, cancel := context.WithTimeout(ctx, s.chatTimeout)
	resp, err := s.provider.Generate(genCtx, llm.Request{
		System:      system,
		Messages:    llm.UserPrompt(message),
		Format:      llm.FormatText,
		Temperature: 0.4,
	})
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChatFailed, err)
	}

	reply := strings.TrimSpace(resp.Content)
	if reply == "" {
		return nil, fmt.Errorf("%w: empty reply", ErrChatFailed)
	}

	out := &ChatReply{Reply: reply}
	if s.speaker != nil {
		speakCtx, cancel := context.WithTimeout(ctx, s.speechTimeout)
		audio, mime, err := s.speaker.Speak(speakCtx, reply)
		cancel()
		if err != nil {
			log.Printf("WARN: speech synthesis failed: %v", err)
		} else {
			encoded := base64.StdEncoding.EncodeToString(audio)
			out.Audio, out.Mime = &encoded, &mime
		}
	}
	return out, nil
}

func contextString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func (s *chatService) analysisContext(ctx context.Context, email string) string {
	r, err := s.resumes.GetLatest(ctx, email)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			log.Printf("WARN: failed to load resume context for chat: %v", err)
		}
		return ""
	}
	analysis := latestAnalysis(r)
	if analysis == nil {
		return ""
	}
	data, err := json.Marshal(analysis)
	if err != nil {
		return ""
	}
	return string(data)
}
