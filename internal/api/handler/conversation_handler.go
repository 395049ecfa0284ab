package handler

import (
	"OneVoice/internal/api/dto"
	"OneVoice/internal/pkg/response"
	"OneVoice/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ConversationHandler struct {
	convSvc service.ConversationService
}

func NewConversationHandler(convSvc service.ConversationService) *ConversationHandler {
	return &ConversationHandler{convSvc: convSvc}
}

// CreateDirect 获取或创建单聊，重复调用返回同一会话
func (s *ConversationHandler) CreateDirect(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.CreateDirectReq
	err := c.ShouldBind(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	convID, err := s.convSvc.GetOrCreateDirect(c.Request.Context(), userID, req.TargetUserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ConversationIDResp{ConversationID: convID})
}

func (s *ConversationHandler) CreateGroup(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.CreateGroupReq
	err := c.ShouldBind(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	convID, err := s.convSvc.CreateGroup(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ConversationIDResp{ConversationID: convID})
}

func (s *ConversationHandler) AddMember(c *gin.Context) {
	userID := c.GetUint64("user_id")
	convID, err := parseConvID(c)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.AddMemberReq
	if err = c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	err = s.convSvc.AddMember(c.Request.Context(), userID, convID, req.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ConversationHandler) RemoveMember(c *gin.Context) {
	userID := c.GetUint64("user_id")
	convID, err := parseConvID(c)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	err = s.convSvc.RemoveMember(c.Request.Context(), userID, convID, targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ConversationHandler) ListConversations(c *gin.Context) {
	userID := c.GetUint64("user_id")
	list, err := s.convSvc.ListConversations(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func parseConvID(c *gin.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("conversation_id"), 10, 64)
}
