package provider

import (
	"OneVoice/internal/api/config"
	"bytes"
	"encoding/base64"
	"strings"
	"time"

	"context"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// sarvamRegionCodes 系统语言码到 Sarvam 平台语言码的映射
var sarvamRegionCodes = map[string]string{
	"hi": "hi-IN",
	"en": "en-IN",
	"bn": "bn-IN",
	"ta": "ta-IN",
	"te": "te-IN",
	"mr": "mr-IN",
	"gu": "gu-IN",
	"kn": "kn-IN",
	"ml": "ml-IN",
	"pa": "pa-IN",
	"ur": "ur-IN",
}

func toSarvamCode(lang string) string {
	if code, ok := sarvamRegionCodes[lang]; ok {
		return code
	}
	return lang
}

func fromSarvamCode(code string) string {
	return strings.ToLower(strings.SplitN(code, "-", 2)[0])
}

func newSarvamHTTP(cfg config.SarvamConfig) *resty.Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.sarvam.ai"
	}
	return resty.New().
		SetBaseURL(baseURL).
		SetHeader("api-subscription-key", cfg.ApiKey).
		SetTimeout(30 * time.Second)
}

// SarvamTranslator Sarvam 文本翻译通道
type SarvamTranslator struct {
	http *resty.Client
}

func NewSarvamTranslator(cfg config.SarvamConfig) *SarvamTranslator {
	return &SarvamTranslator{http: newSarvamHTTP(cfg)}
}

func (s *SarvamTranslator) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	var out struct {
		TranslatedText string `json:"translated_text"`
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"input":                text,
			"source_language_code": toSarvamCode(sourceLang),
			"target_language_code": toSarvamCode(targetLang),
			"model":                "mayura:v1",
		}).
		SetResult(&out).
		Post("/translate")
	if err != nil {
		return "", errors.WithMessage(ErrTranslation, err.Error())
	}
	if resp.IsError() {
		return "", errors.WithMessagef(ErrTranslation, "status %d: %s", resp.StatusCode(), resp.String())
	}
	if out.TranslatedText == "" {
		return "", errors.WithMessage(ErrTranslation, "响应中没有译文")
	}

	return out.TranslatedText, nil
}

// SarvamSpeechToText Sarvam 语音识别通道
type SarvamSpeechToText struct {
	http *resty.Client
}

func NewSarvamSpeechToText(cfg config.SarvamConfig) *SarvamSpeechToText {
	return &SarvamSpeechToText{http: newSarvamHTTP(cfg)}
}

func (s *SarvamSpeechToText) Transcribe(ctx context.Context, audio []byte, languageHint string) (*Transcription, error) {
	var out struct {
		Transcript   string `json:"transcript"`
		LanguageCode string `json:"language_code"`
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetFileReader("file", "audio.wav", bytes.NewReader(audio)).
		SetFormData(map[string]string{
			"model":         "saarika:v2",
			"language_code": toSarvamCode(languageHint),
		}).
		SetResult(&out).
		Post("/speech-to-text")
	if err != nil {
		return nil, errors.WithMessage(ErrSpeechToText, err.Error())
	}
	if resp.IsError() {
		return nil, errors.WithMessagef(ErrSpeechToText, "status %d: %s", resp.StatusCode(), resp.String())
	}

	tr := &Transcription{Transcript: out.Transcript}
	if out.LanguageCode != "" {
		tr.Language = fromSarvamCode(out.LanguageCode)
	}
	return tr, nil
}

// SarvamTextToSpeech Sarvam 语音合成通道
type SarvamTextToSpeech struct {
	http *resty.Client
}

func NewSarvamTextToSpeech(cfg config.SarvamConfig) *SarvamTextToSpeech {
	return &SarvamTextToSpeech{http: newSarvamHTTP(cfg)}
}

func (s *SarvamTextToSpeech) Synthesize(ctx context.Context, text, targetLang string) ([]byte, error) {
	// 空文本约定返回空音频，不算错误
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var out struct {
		Audios []string `json:"audios"`
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"inputs":               []string{text},
			"target_language_code": toSarvamCode(targetLang),
			"model":                "bulbul:v1",
		}).
		SetResult(&out).
		Post("/text-to-speech")
	if err != nil {
		return nil, errors.WithMessage(ErrTextToSpeech, err.Error())
	}
	if resp.IsError() {
		return nil, errors.WithMessagef(ErrTextToSpeech, "status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(out.Audios) == 0 {
		return nil, errors.WithMessage(ErrTextToSpeech, "响应中没有音频")
	}

	audio, err := base64.StdEncoding.DecodeString(out.Audios[0])
	if err != nil {
		return nil, errors.WithMessage(ErrTextToSpeech, "音频解码失败")
	}
	return audio, nil
}
