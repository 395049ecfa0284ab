package dto

import "time"

// SendTextReq 发送文本消息请求体
type SendTextReq struct {
	ConversationID uint64 `json:"conversation_id" binding:"required"`
	Content        string `json:"content" binding:"required"`
}

// SendVoiceReq 发送语音消息请求体，音频走 base64
type SendVoiceReq struct {
	ConversationID uint64 `json:"conversation_id" binding:"required"`
	AudioBase64    string `json:"audio_base64" binding:"required"`
	MimeType       string `json:"mime_type"`
}

// MessageDTO 单个收件人视角的消息明细
type MessageDTO struct {
	ID                 string    `json:"id"`
	ConversationID     uint64    `json:"conversation_id"`
	SenderID           uint64    `json:"sender_id"`
	RecipientID        uint64    `json:"recipient_id"`
	Kind               string    `json:"kind"` // text / voice
	Original           string    `json:"original"`
	Translated         string    `json:"translated"`
	SourceLanguage     string    `json:"source_language"`
	TargetLanguage     string    `json:"target_language"`
	OriginalAudioURL   string    `json:"original_audio_url,omitempty"`
	TranslatedAudioURL string    `json:"translated_audio_url,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// MessageEventDTO 实时扇出事件。网关不按语言过滤，
// 客户端丢弃 target_language 与自己偏好语言不符的事件。
type MessageEventDTO struct {
	Type               string    `json:"type"`
	ID                 string    `json:"id"`
	ConversationID     uint64    `json:"conversation_id"`
	SenderID           uint64    `json:"sender_id"`
	RecipientID        uint64    `json:"recipient_id"`
	Kind               string    `json:"kind"`
	Original           string    `json:"original"`
	Translated         string    `json:"translated"`
	SourceLanguage     string    `json:"source_language"`
	TargetLanguage     string    `json:"target_language"`
	OriginalAudioURL   string    `json:"original_audio_url,omitempty"`
	TranslatedAudioURL string    `json:"translated_audio_url,omitempty"`
	// AudioBase64 合成音频内联负载，收到即可播放，无需二次拉取
	AudioBase64 string    `json:"audio_base64,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// SendResultDTO 发送结果：返回发送者自己语言视角的那一行
type SendResultDTO struct {
	TraceID string      `json:"trace_id"`
	Message *MessageDTO `json:"message"`
}
