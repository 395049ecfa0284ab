package mongo

import (
	"time"
)

// Message MongoDB 消息明细模型。
// 一次发送会为每个会话成员各写入一行，目标语言为该成员当时的偏好语言；
// 两个成员语言相同时也各写一行，客户端按 target_language 过滤自己的消息流。
// 写入后不可变，不支持编辑与删除。
type Message struct {
	ID             string `bson:"_id,omitempty" json:"id"`
	ConversationID uint64 `bson:"conversation_id" json:"conversationId"` // 关联 MySQL 的会话 ID
	SenderID       uint64 `bson:"sender_id" json:"senderId"`
	RecipientID    uint64 `bson:"recipient_id" json:"recipientId"` // 该行对应的收件人
	Kind           string `bson:"kind" json:"kind"`                // text / voice
	Original       string `bson:"original" json:"original"`        // 原文（语音为转写文本）
	Translated     string `bson:"translated" json:"translated"`    // 目标语言译文
	SourceLanguage string `bson:"source_language" json:"sourceLanguage"`
	TargetLanguage string `bson:"target_language" json:"targetLanguage"`
	// 语音消息的音频引用，存储失败时可能缺失
	OriginalAudioURL   string    `bson:"original_audio_url,omitempty" json:"originalAudioUrl,omitempty"`
	TranslatedAudioURL string    `bson:"translated_audio_url,omitempty" json:"translatedAudioUrl,omitempty"`
	TraceID            string    `bson:"trace_id" json:"traceId"` // 本次投递的诊断标识
	CreatedAt          time.Time `bson:"created_at" json:"createdAt"`
}
