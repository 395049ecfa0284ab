// Package provider 定义投递流水线依赖的外部能力接口与对应实现。
// 所有实现都在启动时构造并注入流水线，流水线内部不读取全局状态。
package provider

import (
	"context"
	"errors"
)

var (
	ErrTranslation  = errors.New("翻译服务调用失败")
	ErrSpeechToText = errors.New("语音识别服务调用失败")
	ErrTextToSpeech = errors.New("语音合成服务调用失败")
	ErrStorage      = errors.New("音频存储服务调用失败")
)

// Translator 文本翻译能力。源语言与目标语言相同时的原样短路由调用方负责，
// 实现无需处理。
type Translator interface {
	Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error)
}

// Transcription 语音识别结果
type Transcription struct {
	Transcript string
	// Language 服务端识别出的源语言（系统语言码），可能为空
	Language string
}

// SpeechToText 语音转写能力，languageHint 为发送者偏好语言
type SpeechToText interface {
	Transcribe(ctx context.Context, audio []byte, languageHint string) (*Transcription, error)
}

// TextToSpeech 语音合成能力。入参文本为空时返回空音频而非错误。
type TextToSpeech interface {
	Synthesize(ctx context.Context, text, targetLang string) ([]byte, error)
}

// AudioStore 不透明音频负载到可访问 URL 的持久化能力
type AudioStore interface {
	Upload(ctx context.Context, audio []byte, keyHint string, contentType string) (string, error)
}
