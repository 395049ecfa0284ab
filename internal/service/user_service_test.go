package service

import (
	"OneVoice/internal/api/dto"
	"OneVoice/internal/model"
	"context"
	"errors"
	"testing"
)

// memUserRepo 内存版用户仓储，username 唯一
type memUserRepo struct {
	nextID uint64
	users  map[uint64]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{nextID: 1, users: map[uint64]*model.User{}}
}

func (r *memUserRepo) GetUserById(ctx context.Context, id uint64) (*model.User, error) {
	return r.users[id], nil
}

func (r *memUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) UpdatePreferredLanguage(ctx context.Context, id uint64, lang string) error {
	if u, ok := r.users[id]; ok {
		u.PreferredLanguage = lang
	}
	return nil
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	err := svc.Register(ctx, &dto.RegisterReq{Username: "asha", Password: "secret123", PreferredLanguage: "hi"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	// 重复用户名
	err = svc.Register(ctx, &dto.RegisterReq{Username: "asha", Password: "other"})
	if !errors.Is(err, ErrUserExist) {
		t.Fatalf("expected ErrUserExist, got %v", err)
	}

	resp, err := svc.Login(ctx, &dto.LoginReq{Username: "asha", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected token")
	}
	if resp.User.PreferredLanguage != "hi" {
		t.Fatalf("expected hi, got %q", resp.User.PreferredLanguage)
	}

	if _, err = svc.Login(ctx, &dto.LoginReq{Username: "asha", Password: "wrong"}); !errors.Is(err, ErrPasswordIncorrect) {
		t.Fatalf("expected ErrPasswordIncorrect, got %v", err)
	}
	if _, err = svc.Login(ctx, &dto.LoginReq{Username: "ghost", Password: "x"}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRegisterDefaultsLanguage(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	if err := svc.Register(ctx, &dto.RegisterReq{Username: "bob", Password: "secret123"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	u, _ := repo.GetUserByUsername(ctx, "bob")
	if u.PreferredLanguage != "en" {
		t.Fatalf("expected default en, got %q", u.PreferredLanguage)
	}
	if u.Nickname != "bob" {
		t.Fatalf("nickname should default to username, got %q", u.Nickname)
	}
}

func TestUpdatePreferredLanguage(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	if err := svc.Register(ctx, &dto.RegisterReq{Username: "charu", Password: "secret123"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	u, _ := repo.GetUserByUsername(ctx, "charu")

	if err := svc.UpdatePreferredLanguage(ctx, u.ID, "ta"); err != nil {
		t.Fatalf("UpdatePreferredLanguage: %v", err)
	}
	info, err := svc.GetUserInfo(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUserInfo: %v", err)
	}
	if info.PreferredLanguage != "ta" {
		t.Fatalf("expected ta, got %q", info.PreferredLanguage)
	}

	if err := svc.UpdatePreferredLanguage(ctx, 999, "ta"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
