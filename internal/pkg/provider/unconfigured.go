package provider

import (
	"context"

	"github.com/pkg/errors"
)

// 未配置凭证时注入的占位实现：构造期即确定不可用，
// 首次调用返回确定性错误，避免调用点散落空值判断。

type UnconfiguredTranslator struct{}

func (UnconfiguredTranslator) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	return "", errors.WithMessage(ErrTranslation, "未配置 API 凭证")
}

type UnconfiguredSpeechToText struct{}

func (UnconfiguredSpeechToText) Transcribe(ctx context.Context, audio []byte, languageHint string) (*Transcription, error) {
	return nil, errors.WithMessage(ErrSpeechToText, "未配置 API 凭证")
}

type UnconfiguredTextToSpeech struct{}

func (UnconfiguredTextToSpeech) Synthesize(ctx context.Context, text, targetLang string) ([]byte, error) {
	return nil, errors.WithMessage(ErrTextToSpeech, "未配置 API 凭证")
}
