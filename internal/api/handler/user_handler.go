package handler

import (
	"OneVoice/internal/api/dto"
	"OneVoice/internal/pkg/response"
	"OneVoice/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

func (s *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	err := c.ShouldBind(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = s.userSvc.Register(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	err := c.ShouldBind(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	resp, err := s.userSvc.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

func (s *UserHandler) GetUserInfo(c *gin.Context) {
	userID := c.GetUint64("user_id")
	userDTO, err := s.userSvc.GetUserInfo(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, userDTO)
}

// UpdateLanguage 修改偏好语言，下一条收到的消息即按新语言投递
func (s *UserHandler) UpdateLanguage(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.UpdateLanguageReq
	err := c.ShouldBind(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = s.userSvc.UpdatePreferredLanguage(c.Request.Context(), userID, req.PreferredLanguage)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
