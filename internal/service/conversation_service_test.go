package service

import (
	"OneVoice/internal/api/dto"
	"OneVoice/internal/model"
	"OneVoice/internal/pkg/consts"
	"context"
	"errors"
	"testing"
)

// memConvRepo 内存版会话仓储，peer_key 唯一约束与行为对齐 MySQL 实现
type memConvRepo struct {
	nextID  uint64
	convs   map[uint64]*model.Conversation
	byKey   map[string]*model.Conversation
	members map[uint64][]*model.ConversationMember
}

func newMemConvRepo() *memConvRepo {
	return &memConvRepo{
		nextID:  1,
		convs:   map[uint64]*model.Conversation{},
		byKey:   map[string]*model.Conversation{},
		members: map[uint64][]*model.ConversationMember{},
	}
}

func (r *memConvRepo) CreateConversation(ctx context.Context, conv *model.Conversation, members []*model.ConversationMember) error {
	if _, exists := r.byKey[conv.PeerKey]; exists {
		return errors.New("Duplicate entry for key 'peer_key'")
	}
	conv.ID = r.nextID
	r.nextID++
	r.convs[conv.ID] = conv
	r.byKey[conv.PeerKey] = conv
	for _, m := range members {
		m.ConversationID = conv.ID
		r.members[conv.ID] = append(r.members[conv.ID], m)
	}
	return nil
}

func (r *memConvRepo) GetConversation(ctx context.Context, convID uint64) (*model.Conversation, error) {
	conv, ok := r.convs[convID]
	if !ok {
		return nil, errors.New("record not found")
	}
	return conv, nil
}

func (r *memConvRepo) GetConversationByPeerKey(ctx context.Context, peerKey string) (*model.Conversation, error) {
	conv, ok := r.byKey[peerKey]
	if !ok {
		return nil, errors.New("record not found")
	}
	return conv, nil
}

func (r *memConvRepo) IsMember(ctx context.Context, convID uint64, userID uint64) (bool, error) {
	for _, m := range r.members[convID] {
		if m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memConvRepo) IsAdmin(ctx context.Context, convID uint64, userID uint64) (bool, error) {
	for _, m := range r.members[convID] {
		if m.UserID == userID && m.Role == consts.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (r *memConvRepo) CountAdmins(ctx context.Context, convID uint64) (int64, error) {
	var n int64
	for _, m := range r.members[convID] {
		if m.Role == consts.RoleAdmin {
			n++
		}
	}
	return n, nil
}

func (r *memConvRepo) GetMemberRecipients(ctx context.Context, convID uint64) ([]*model.MemberRecipient, error) {
	var out []*model.MemberRecipient
	for _, m := range r.members[convID] {
		out = append(out, &model.MemberRecipient{UserID: m.UserID, PreferredLanguage: "en"})
	}
	return out, nil
}

func (r *memConvRepo) AddMember(ctx context.Context, member *model.ConversationMember) error {
	r.members[member.ConversationID] = append(r.members[member.ConversationID], member)
	return nil
}

func (r *memConvRepo) RemoveMember(ctx context.Context, convID uint64, userID uint64) (int64, error) {
	list := r.members[convID]
	for i, m := range list {
		if m.UserID == userID {
			r.members[convID] = append(list[:i], list[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *memConvRepo) GetUserConversations(ctx context.Context, userID uint64) ([]*model.ConversationMember, error) {
	var out []*model.ConversationMember
	for convID, list := range r.members {
		for _, m := range list {
			if m.UserID == userID {
				cp := *m
				cp.Conversation = *r.convs[convID]
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

func (r *memConvRepo) UpdateLastMessage(ctx context.Context, convID uint64, preview string, senderID uint64) error {
	return nil
}

func newConvService() (ConversationService, *memConvRepo) {
	repo := newMemConvRepo()
	users := &fakeUserRepo{users: map[uint64]*model.User{
		1: {ID: 1, Username: "asha"},
		2: {ID: 2, Username: "bob"},
		3: {ID: 3, Username: "charu"},
	}}
	return NewConversationService(repo, users), repo
}

func TestGetOrCreateDirectIsIdempotent(t *testing.T) {
	svc, _ := newConvService()
	ctx := context.Background()

	id1, err := svc.GetOrCreateDirect(ctx, 1, 2)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	// 参数顺序颠倒也命中同一条会话
	id2, err := svc.GetOrCreateDirect(ctx, 2, 1)
	if err != nil {
		t.Fatalf("reverse order: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("direct conversation must be unique per pair: %d vs %d", id1, id2)
	}
}

func TestGetOrCreateDirectRejectsSelfAndUnknown(t *testing.T) {
	svc, _ := newConvService()
	ctx := context.Background()

	if _, err := svc.GetOrCreateDirect(ctx, 1, 1); !errors.Is(err, ErrTargetUserInvalid) {
		t.Fatalf("self chat must be rejected, got %v", err)
	}
	if _, err := svc.GetOrCreateDirect(ctx, 1, 42); !errors.Is(err, ErrTargetUserInvalid) {
		t.Fatalf("unknown target must be rejected, got %v", err)
	}
}

func TestCreateGroupCreatorBecomesAdmin(t *testing.T) {
	svc, repo := newConvService()
	ctx := context.Background()

	// 成员列表里重复带上创建者自己，不应产生重复成员行
	convID, err := svc.CreateGroup(ctx, 1, &dto.CreateGroupReq{Name: "trip", MemberIDs: []uint64{1, 2, 2, 3}})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	if len(repo.members[convID]) != 3 {
		t.Fatalf("expected 3 members, got %d", len(repo.members[convID]))
	}
	isAdmin, _ := repo.IsAdmin(ctx, convID, 1)
	if !isAdmin {
		t.Fatal("creator must be admin")
	}
}

func TestRemoveMemberLastAdminProtected(t *testing.T) {
	svc, _ := newConvService()
	ctx := context.Background()

	convID, err := svc.CreateGroup(ctx, 1, &dto.CreateGroupReq{Name: "trip", MemberIDs: []uint64{2, 3}})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	// 唯一管理员不能退群也不能被移除
	if err := svc.RemoveMember(ctx, 1, convID, 1); !errors.Is(err, ErrLastAdmin) {
		t.Fatalf("expected ErrLastAdmin, got %v", err)
	}
	// 普通成员可以自行退出
	if err := svc.RemoveMember(ctx, 2, convID, 2); err != nil {
		t.Fatalf("self leave: %v", err)
	}
	// 非管理员不能移除他人
	if err := svc.RemoveMember(ctx, 3, convID, 1); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}
	// 管理员移除普通成员
	if err := svc.RemoveMember(ctx, 1, convID, 3); err != nil {
		t.Fatalf("admin remove: %v", err)
	}
}

func TestAddMemberRules(t *testing.T) {
	svc, _ := newConvService()
	ctx := context.Background()

	convID, err := svc.CreateGroup(ctx, 1, &dto.CreateGroupReq{Name: "trip", MemberIDs: []uint64{2}})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	if err := svc.AddMember(ctx, 2, convID, 3); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("non-admin add must fail, got %v", err)
	}
	if err := svc.AddMember(ctx, 1, convID, 3); err != nil {
		t.Fatalf("admin add: %v", err)
	}
	if err := svc.AddMember(ctx, 1, convID, 3); !errors.Is(err, ErrMemberExist) {
		t.Fatalf("duplicate add must fail, got %v", err)
	}
	if err := svc.AddMember(ctx, 1, convID, 42); !errors.Is(err, ErrTargetUserInvalid) {
		t.Fatalf("unknown user add must fail, got %v", err)
	}

	// 单聊不允许加人
	directID, err := svc.GetOrCreateDirect(ctx, 1, 2)
	if err != nil {
		t.Fatalf("direct: %v", err)
	}
	if err := svc.AddMember(ctx, 1, directID, 3); !errors.Is(err, ErrNotGroup) {
		t.Fatalf("direct add must fail with ErrNotGroup, got %v", err)
	}
}
