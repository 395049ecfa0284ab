package provider

import (
	"OneVoice/internal/api/config"
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// LLMTranslator 大模型翻译备选通道，走 OpenAI 兼容接口
type LLMTranslator struct {
	model llms.Model
}

func NewLLMTranslator(cfg config.LLMConfig) (*LLMTranslator, error) {
	llm, err := openai.New(
		openai.WithModel(cfg.Model),
		openai.WithToken(cfg.ApiKey),
		openai.WithBaseURL(cfg.URL),
	)
	if err != nil {
		return nil, fmt.Errorf("大模型翻译通道初始化失败: %w", err)
	}

	return &LLMTranslator{model: llm}, nil
}

func (s *LLMTranslator) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	prompt := fmt.Sprintf(
		"Translate the following text from language %q to language %q. Output only the translation, nothing else.\n\n%s",
		sourceLang, targetLang, text,
	)

	out, err := llms.GenerateFromSinglePrompt(ctx, s.model, prompt)
	if err != nil {
		return "", errors.WithMessage(ErrTranslation, err.Error())
	}

	translated := strings.TrimSpace(out)
	if translated == "" {
		return "", errors.WithMessage(ErrTranslation, "模型返回了空译文")
	}
	return translated, nil
}
