package service

import (
	"OneVoice/internal/api/dto"
	"OneVoice/internal/model"
	"OneVoice/internal/pkg/consts"
	"OneVoice/internal/repository"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ConversationService 会话与成员关系服务接口定义
type ConversationService interface {
	GetOrCreateDirect(ctx context.Context, userID, targetUserID uint64) (uint64, error)
	CreateGroup(ctx context.Context, creatorID uint64, req *dto.CreateGroupReq) (uint64, error)
	AddMember(ctx context.Context, operatorID, convID, userID uint64) error
	RemoveMember(ctx context.Context, operatorID, convID, userID uint64) error
	IsMember(ctx context.Context, convID, userID uint64) (bool, error)
	RequireMember(ctx context.Context, convID, userID uint64) error
	ListConversations(ctx context.Context, userID uint64) ([]*dto.ConversationDTO, error)
}

type conversationServiceImpl struct {
	convRepo repository.ConversationRepo
	userRepo repository.UserRepo
}

func NewConversationService(convRepo repository.ConversationRepo, userRepo repository.UserRepo) ConversationService {
	return &conversationServiceImpl{convRepo: convRepo, userRepo: userRepo}
}

// GetOrCreateDirect 获取或创建单聊。同一对用户无论参数顺序如何，
// 始终命中同一条会话，不会产生重复单聊。
func (s *conversationServiceImpl) GetOrCreateDirect(ctx context.Context, userID, targetUserID uint64) (uint64, error) {
	if targetUserID == 0 || targetUserID == userID {
		return 0, ErrTargetUserInvalid
	}

	target, err := s.userRepo.GetUserById(ctx, targetUserID)
	if err != nil {
		return 0, err
	}
	if target == nil {
		return 0, ErrTargetUserInvalid
	}

	peerKey := directPeerKey(userID, targetUserID)

	conv, err := s.convRepo.GetConversationByPeerKey(ctx, peerKey)
	if err == nil {
		return conv.ID, nil
	}

	newConv := &model.Conversation{
		Type:          consts.ConvTypeDirect,
		PeerKey:       peerKey,
		CreatorID:     userID,
		LastMessageAt: time.Now(),
	}
	members := []*model.ConversationMember{
		{UserID: userID, Role: consts.RoleMember},
		{UserID: targetUserID, Role: consts.RoleMember},
	}

	if err := s.convRepo.CreateConversation(ctx, newConv, members); err != nil {
		// 并发创建时撞唯一索引，回读已有会话
		if conv, err2 := s.convRepo.GetConversationByPeerKey(ctx, peerKey); err2 == nil {
			return conv.ID, nil
		}
		return 0, err
	}
	return newConv.ID, nil
}

// CreateGroup 创建群聊，创建者自动成为管理员
func (s *conversationServiceImpl) CreateGroup(ctx context.Context, creatorID uint64, req *dto.CreateGroupReq) (uint64, error) {
	newConv := &model.Conversation{
		Type:          consts.ConvTypeGroup,
		PeerKey:       "g:" + uuid.New().String(),
		Name:          req.Name,
		CreatorID:     creatorID,
		LastMessageAt: time.Now(),
	}

	members := []*model.ConversationMember{
		{UserID: creatorID, Role: consts.RoleAdmin},
	}
	seen := map[uint64]bool{creatorID: true}
	for _, id := range req.MemberIDs {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		members = append(members, &model.ConversationMember{UserID: id, Role: consts.RoleMember})
	}

	if err := s.convRepo.CreateConversation(ctx, newConv, members); err != nil {
		return 0, err
	}
	return newConv.ID, nil
}

// AddMember 群聊添加成员，仅管理员可操作
func (s *conversationServiceImpl) AddMember(ctx context.Context, operatorID, convID, userID uint64) error {
	if err := s.requireGroupAdmin(ctx, convID, operatorID); err != nil {
		return err
	}

	target, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrTargetUserInvalid
	}

	isMember, err := s.convRepo.IsMember(ctx, convID, userID)
	if err != nil {
		return err
	}
	if isMember {
		return ErrMemberExist
	}

	return s.convRepo.AddMember(ctx, &model.ConversationMember{
		ConversationID: convID,
		UserID:         userID,
		Role:           consts.RoleMember,
	})
}

// RemoveMember 移除群聊成员。成员可以自行退出，移除他人需要管理员权限；
// 无论哪种路径，群里必须始终保留至少一名管理员。
func (s *conversationServiceImpl) RemoveMember(ctx context.Context, operatorID, convID, userID uint64) error {
	if operatorID != userID {
		if err := s.requireGroupAdmin(ctx, convID, operatorID); err != nil {
			return err
		}
	} else {
		conv, err := s.convRepo.GetConversation(ctx, convID)
		if err != nil {
			return ErrConversationNotFound
		}
		if conv.Type != consts.ConvTypeGroup {
			return ErrNotGroup
		}
	}

	targetIsAdmin, err := s.convRepo.IsAdmin(ctx, convID, userID)
	if err != nil {
		return err
	}
	if targetIsAdmin {
		adminCount, err := s.convRepo.CountAdmins(ctx, convID)
		if err != nil {
			return err
		}
		if adminCount <= 1 {
			return ErrLastAdmin
		}
	}

	affected, err := s.convRepo.RemoveMember(ctx, convID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTargetUserInvalid
	}
	return nil
}

func (s *conversationServiceImpl) IsMember(ctx context.Context, convID, userID uint64) (bool, error) {
	return s.convRepo.IsMember(ctx, convID, userID)
}

// RequireMember 成员鉴权门槛，发送与加入房间前都先过这一道，
// 避免为非成员白做翻译/识别等昂贵调用
func (s *conversationServiceImpl) RequireMember(ctx context.Context, convID, userID uint64) error {
	isMember, err := s.convRepo.IsMember(ctx, convID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrNotMember
	}
	return nil
}

// ListConversations 获取会话列表
func (s *conversationServiceImpl) ListConversations(ctx context.Context, userID uint64) ([]*dto.ConversationDTO, error) {
	members, err := s.convRepo.GetUserConversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ConversationDTO, 0, len(members))
	for _, m := range members {
		d := &dto.ConversationDTO{
			ConversationID: m.ConversationID,
			Type:           m.Conversation.Type,
			Name:           m.Conversation.Name,
			Role:           m.Role,
			LastMsgPreview: m.Conversation.LastMsgPreview,
			LastSenderID:   m.Conversation.LastSenderID,
			LastMessageAt:  m.Conversation.LastMessageAt,
		}

		if m.Conversation.Type == consts.ConvTypeDirect {
			peerID, _ := parsePeerID(m.Conversation.PeerKey, userID)
			d.PeerID = peerID
		}
		res = append(res, d)
	}
	return res, nil
}

func (s *conversationServiceImpl) requireGroupAdmin(ctx context.Context, convID, userID uint64) error {
	conv, err := s.convRepo.GetConversation(ctx, convID)
	if err != nil {
		return ErrConversationNotFound
	}
	if conv.Type != consts.ConvTypeGroup {
		return ErrNotGroup
	}

	isAdmin, err := s.convRepo.IsAdmin(ctx, convID, userID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return ErrNotAdmin
	}
	return nil
}

// directPeerKey 单聊唯一键，小 ID 在前保证无序对唯一
func directPeerKey(userID, targetUserID uint64) string {
	if userID < targetUserID {
		return fmt.Sprintf("%d_%d", userID, targetUserID)
	}
	return fmt.Sprintf("%d_%d", targetUserID, userID)
}

func parsePeerID(peerKey string, currentUserID uint64) (uint64, error) {
	var u1, u2 uint64
	_, err := fmt.Sscanf(peerKey, "%d_%d", &u1, &u2)
	if err != nil {
		return 0, err
	}
	if u1 == currentUserID {
		return u2, nil
	}
	return u1, nil
}
