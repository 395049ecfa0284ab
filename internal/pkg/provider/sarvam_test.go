package provider

import (
	"OneVoice/internal/api/config"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func sarvamServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, config.SarvamConfig) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, config.SarvamConfig{BaseURL: srv.URL, ApiKey: "test-key"}
}

func TestSarvamTranslator(t *testing.T) {
	var gotKey, gotBody string
	_, cfg := sarvamServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotKey = r.Header.Get("api-subscription-key")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"translated_text":"I want coffee"}`))
	})

	tr := NewSarvamTranslator(cfg)
	out, err := tr.Translate(context.Background(), "मुझे कॉफ़ी चाहिए", "en", "hi")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out != "I want coffee" {
		t.Fatalf("unexpected translation %q", out)
	}
	if gotKey != "test-key" {
		t.Fatalf("missing subscription key header, got %q", gotKey)
	}
	// 平台语言码带地区后缀
	if !strings.Contains(gotBody, `"hi-IN"`) || !strings.Contains(gotBody, `"en-IN"`) {
		t.Fatalf("expected region codes in request, got %s", gotBody)
	}
}

func TestSarvamTranslatorUpstreamError(t *testing.T) {
	_, cfg := sarvamServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	tr := NewSarvamTranslator(cfg)
	_, err := tr.Translate(context.Background(), "text", "en", "hi")
	if !errors.Is(err, ErrTranslation) {
		t.Fatalf("expected ErrTranslation, got %v", err)
	}
}

func TestSarvamSpeechToText(t *testing.T) {
	_, cfg := sarvamServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/speech-to-text" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"transcript":"नमस्ते","language_code":"hi-IN"}`))
	})

	stt := NewSarvamSpeechToText(cfg)
	tr, err := stt.Transcribe(context.Background(), []byte("pcm"), "hi")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if tr.Transcript != "नमस्ते" {
		t.Fatalf("unexpected transcript %q", tr.Transcript)
	}
	// 平台语言码收敛回系统语言码
	if tr.Language != "hi" {
		t.Fatalf("expected hi, got %q", tr.Language)
	}
}

func TestSarvamTextToSpeech(t *testing.T) {
	audio := []byte("wav-bytes")
	_, cfg := sarvamServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/text-to-speech" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"audios":["` + base64.StdEncoding.EncodeToString(audio) + `"]}`))
	})

	tts := NewSarvamTextToSpeech(cfg)
	out, err := tts.Synthesize(context.Background(), "hello", "hi")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(out) != string(audio) {
		t.Fatalf("audio payload mismatch")
	}
}

// 空文本约定返回空音频且不发请求
func TestSarvamTextToSpeechEmptyText(t *testing.T) {
	_, cfg := sarvamServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("empty text must not reach the provider")
	})

	tts := NewSarvamTextToSpeech(cfg)
	out, err := tts.Synthesize(context.Background(), "   ", "hi")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil audio, got %v", out)
	}
}

func TestUnconfiguredProviders(t *testing.T) {
	ctx := context.Background()

	if _, err := (UnconfiguredTranslator{}).Translate(ctx, "t", "en", "hi"); !errors.Is(err, ErrTranslation) {
		t.Fatalf("expected ErrTranslation, got %v", err)
	}
	if _, err := (UnconfiguredSpeechToText{}).Transcribe(ctx, []byte("a"), "hi"); !errors.Is(err, ErrSpeechToText) {
		t.Fatalf("expected ErrSpeechToText, got %v", err)
	}
	if _, err := (UnconfiguredTextToSpeech{}).Synthesize(ctx, "t", "hi"); !errors.Is(err, ErrTextToSpeech) {
		t.Fatalf("expected ErrTextToSpeech, got %v", err)
	}
}

func TestSarvamCodeMapping(t *testing.T) {
	if toSarvamCode("hi") != "hi-IN" {
		t.Fatal("hi must map to hi-IN")
	}
	// 表外语言原样透传
	if toSarvamCode("fr") != "fr" {
		t.Fatal("unknown codes pass through")
	}
	if fromSarvamCode("ta-IN") != "ta" {
		t.Fatal("region suffix must be stripped")
	}
}
