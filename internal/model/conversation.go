package model

import "time"

// Conversation 会话主表
type Conversation struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Type int8   `gorm:"not null;default:1" json:"type"` // 1-单聊, 2-群聊
	// PeerKey 单聊为 uid1_uid2（小 ID 在前），保证同一对用户只有一个单聊；群聊为随机键
	PeerKey        string    `gorm:"uniqueIndex;type:varchar(64)" json:"peerKey"`
	Name           string    `gorm:"type:varchar(100)" json:"name"` // 群聊名称
	CreatorID      uint64    `gorm:"not null;default:0" json:"creatorId"`
	LastMsgPreview string    `gorm:"type:varchar(255)" json:"lastMsgPreview"`
	LastSenderID   uint64    `gorm:"not null;default:0" json:"lastSenderId"`
	LastMessageAt  time.Time `gorm:"index" json:"lastMessageAt"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (Conversation) TableName() string { return "conversations" }

// ConversationMember 会话成员表，(conversation_id, user_id) 唯一
type ConversationMember struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uint64    `gorm:"uniqueIndex:idx_conv_user" json:"conversationId"`
	UserID         uint64    `gorm:"uniqueIndex:idx_conv_user;index" json:"userId"`
	Role           int8      `gorm:"not null;default:2" json:"role"` // 1-管理员, 2-普通成员
	JoinedAt       time.Time `json:"joinedAt"`

	Conversation Conversation `gorm:"foreignKey:ConversationID;references:ID" json:"conversation"`
}

func (ConversationMember) TableName() string { return "conversation_members" }

// MemberRecipient 消息扇出时的收件人快照，偏好语言为联表实时读取的当前值
type MemberRecipient struct {
	UserID            uint64 `gorm:"column:user_id"`
	PreferredLanguage string `gorm:"column:preferred_language"`
}
