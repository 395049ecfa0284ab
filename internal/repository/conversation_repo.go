package repository

import (
	"OneVoice/internal/model"
	"OneVoice/internal/pkg/consts"
	"context"
	"time"

	"gorm.io/gorm"
)

type ConversationRepo interface {
	CreateConversation(ctx context.Context, conv *model.Conversation, members []*model.ConversationMember) error
	GetConversation(ctx context.Context, convID uint64) (*model.Conversation, error)
	GetConversationByPeerKey(ctx context.Context, peerKey string) (*model.Conversation, error)

	IsMember(ctx context.Context, convID uint64, userID uint64) (bool, error)
	IsAdmin(ctx context.Context, convID uint64, userID uint64) (bool, error)
	CountAdmins(ctx context.Context, convID uint64) (int64, error)
	// GetMemberRecipients 联表实时读取成员当前的偏好语言，按加入顺序返回
	GetMemberRecipients(ctx context.Context, convID uint64) ([]*model.MemberRecipient, error)

	AddMember(ctx context.Context, member *model.ConversationMember) error
	RemoveMember(ctx context.Context, convID uint64, userID uint64) (int64, error)

	GetUserConversations(ctx context.Context, userID uint64) ([]*model.ConversationMember, error)
	UpdateLastMessage(ctx context.Context, convID uint64, preview string, senderID uint64) error
}

type conversationRepoImpl struct {
	db *gorm.DB
}

func NewConversationRepo(db *gorm.DB) ConversationRepo {
	return &conversationRepoImpl{db: db}
}

// CreateConversation 开启事务创建会话及初始成员
func (s *conversationRepoImpl) CreateConversation(ctx context.Context, conv *model.Conversation, members []*model.ConversationMember) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		for _, m := range members {
			m.ConversationID = conv.ID
			m.JoinedAt = time.Now()
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetConversation 根据会话 ID 获取会话
func (s *conversationRepoImpl) GetConversation(ctx context.Context, convID uint64) (*model.Conversation, error) {
	var conv model.Conversation
	err := s.db.WithContext(ctx).First(&conv, convID).Error
	return &conv, err
}

// GetConversationByPeerKey 根据会话标识获取会话
func (s *conversationRepoImpl) GetConversationByPeerKey(ctx context.Context, peerKey string) (*model.Conversation, error) {
	var conv model.Conversation
	err := s.db.WithContext(ctx).Where("peer_key = ?", peerKey).First(&conv).Error
	return &conv, err
}

// IsMember 检查用户是否是会话成员
func (s *conversationRepoImpl) IsMember(ctx context.Context, convID uint64, userID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ConversationMember{}).
		Where("conversation_id = ? AND user_id = ?", convID, userID).
		Count(&count).Error
	return count > 0, err
}

// IsAdmin 检查用户是否是会话管理员
func (s *conversationRepoImpl) IsAdmin(ctx context.Context, convID uint64, userID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ConversationMember{}).
		Where("conversation_id = ? AND user_id = ? AND role = ?", convID, userID, consts.RoleAdmin).
		Count(&count).Error
	return count > 0, err
}

// CountAdmins 统计会话当前的管理员数量
func (s *conversationRepoImpl) CountAdmins(ctx context.Context, convID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ConversationMember{}).
		Where("conversation_id = ? AND role = ?", convID, consts.RoleAdmin).
		Count(&count).Error
	return count, err
}

// GetMemberRecipients 扇出目标查询：成员表联用户表取当前偏好语言
func (s *conversationRepoImpl) GetMemberRecipients(ctx context.Context, convID uint64) ([]*model.MemberRecipient, error) {
	var recipients []*model.MemberRecipient
	err := s.db.WithContext(ctx).Table("conversation_members m").
		Select("m.user_id, u.preferred_language").
		Joins("JOIN users u ON u.id = m.user_id").
		Where("m.conversation_id = ?", convID).
		Order("m.id ASC").
		Find(&recipients).Error
	return recipients, err
}

func (s *conversationRepoImpl) AddMember(ctx context.Context, member *model.ConversationMember) error {
	member.JoinedAt = time.Now()
	return s.db.WithContext(ctx).Create(member).Error
}

// RemoveMember 移除成员，返回受影响行数
func (s *conversationRepoImpl) RemoveMember(ctx context.Context, convID uint64, userID uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("conversation_id = ? AND user_id = ?", convID, userID).
		Delete(&model.ConversationMember{})
	return result.RowsAffected, result.Error
}

// GetUserConversations 会话列表，按最近消息时间排序
func (s *conversationRepoImpl) GetUserConversations(ctx context.Context, userID uint64) ([]*model.ConversationMember, error) {
	var members []*model.ConversationMember
	err := s.db.WithContext(ctx).Table("conversation_members m").
		Select("m.*, "+
			"c.id AS `Conversation__id`, c.type AS `Conversation__type`, "+
			"c.peer_key AS `Conversation__peer_key`, c.name AS `Conversation__name`, "+
			"c.creator_id AS `Conversation__creator_id`, "+
			"c.last_msg_preview AS `Conversation__last_msg_preview`, "+
			"c.last_sender_id AS `Conversation__last_sender_id`, "+
			"c.last_message_at AS `Conversation__last_message_at`").
		Joins("JOIN conversations c ON m.conversation_id = c.id").
		Where("m.user_id = ?", userID).
		Order("c.last_message_at DESC").
		Find(&members).Error
	return members, err
}

// UpdateLastMessage 刷新会话的最近消息预览
func (s *conversationRepoImpl) UpdateLastMessage(ctx context.Context, convID uint64, preview string, senderID uint64) error {
	return s.db.WithContext(ctx).Model(&model.Conversation{}).Where("id = ?", convID).
		Updates(map[string]interface{}{
			"last_msg_preview": preview,
			"last_sender_id":   senderID,
			"last_message_at":  time.Now(),
		}).Error
}
