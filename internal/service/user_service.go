package service

import (
	"OneVoice/internal/api/dto"
	"OneVoice/internal/model"
	"OneVoice/internal/pkg/consts"
	"OneVoice/internal/pkg/security"
	"OneVoice/internal/repository"
	"context"

	"github.com/jinzhu/copier"
)

// UserService 用户服务接口定义
type UserService interface {
	Register(ctx context.Context, req *dto.RegisterReq) error
	Login(ctx context.Context, req *dto.LoginReq) (*dto.LoginResp, error)
	GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error)
	UpdatePreferredLanguage(ctx context.Context, id uint64, lang string) error
}

type UserServiceImpl struct {
	userRepo repository.UserRepo
}

func NewUserService(userRepo repository.UserRepo) UserService {
	return &UserServiceImpl{userRepo: userRepo}
}

func (s *UserServiceImpl) Register(ctx context.Context, req *dto.RegisterReq) error {
	findUser, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return err
	}
	if findUser != nil {
		return ErrUserExist
	}

	hashed, err := security.HashPassword(req.Password)
	if err != nil {
		return err
	}

	lang := req.PreferredLanguage
	if lang == "" {
		lang = consts.DefaultLanguage
	}
	nickname := req.Nickname
	if nickname == "" {
		nickname = req.Username
	}

	user := &model.User{
		Username:          req.Username,
		Password:          hashed,
		Nickname:          nickname,
		PreferredLanguage: lang,
	}
	return s.userRepo.CreateUser(ctx, user)
}

func (s *UserServiceImpl) Login(ctx context.Context, req *dto.LoginReq) (*dto.LoginResp, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err = security.CheckPasswordHash(req.Password, user.Password); err != nil {
		return nil, ErrPasswordIncorrect
	}

	token, err := security.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResp{Token: token, User: s.toUserDTO(user)}, nil
}

func (s *UserServiceImpl) GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.toUserDTO(user), nil
}

// UpdatePreferredLanguage 修改偏好语言，发送端实时读取，下一条消息即生效
func (s *UserServiceImpl) UpdatePreferredLanguage(ctx context.Context, id uint64, lang string) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return s.userRepo.UpdatePreferredLanguage(ctx, id, lang)
}

func (s *UserServiceImpl) toUserDTO(user *model.User) *dto.UserDTO {
	out := &dto.UserDTO{}
	_ = copier.Copy(out, user)
	return out
}
