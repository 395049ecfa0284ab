package dto

import "time"

// CreateDirectReq 创建（或获取）单聊请求体
type CreateDirectReq struct {
	TargetUserID uint64 `json:"target_user_id" binding:"required"`
}

// CreateGroupReq 创建群聊请求体，创建者自动成为管理员
type CreateGroupReq struct {
	Name      string   `json:"name" binding:"required,max=100"`
	MemberIDs []uint64 `json:"member_ids"`
}

// AddMemberReq 群聊添加成员请求体
type AddMemberReq struct {
	UserID uint64 `json:"user_id" binding:"required"`
}

// ConversationIDResp 返回会话 ID
type ConversationIDResp struct {
	ConversationID uint64 `json:"conversation_id"`
}

// ConversationDTO 会话列表项响应
type ConversationDTO struct {
	ConversationID uint64    `json:"conversation_id"`
	Type           int8      `json:"type"`              // 1-单聊, 2-群聊
	Name           string    `json:"name,omitempty"`    // 群聊名称
	PeerID         uint64    `json:"peer_id,omitempty"` // 对手方ID (单聊有效)
	Role           int8      `json:"role"`
	LastMsgPreview string    `json:"last_msg_preview"`
	LastSenderID   uint64    `json:"last_sender_id"`
	LastMessageAt  time.Time `json:"last_message_at"`
}
