package handler

import (
	"OneVoice/internal/api/dto"
	"OneVoice/internal/pkg/response"
	"OneVoice/internal/service"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	deliverySvc service.DeliveryService
}

func NewMessageHandler(deliverySvc service.DeliveryService) *MessageHandler {
	return &MessageHandler{deliverySvc: deliverySvc}
}

// SendText 发送文本消息，同步等待整条流水线完成
func (s *MessageHandler) SendText(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.SendTextReq
	err := c.ShouldBind(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	res, err := s.deliverySvc.SendText(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// SendVoice 发送语音消息，音频以 base64 随请求体上送
func (s *MessageHandler) SendVoice(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.SendVoiceReq
	err := c.ShouldBind(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	res, err := s.deliverySvc.SendVoice(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetHistory 拉取历史消息，按读者当前偏好语言过滤，游标向前翻页
func (s *MessageHandler) GetHistory(c *gin.Context) {
	userID := c.GetUint64("user_id")
	convID, err := strconv.ParseUint(c.Query("conversation_id"), 10, 64)
	if err != nil || convID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	before := time.Now()
	if raw := c.Query("before"); raw != "" {
		ts, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		before = time.UnixMilli(ts)
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	list, err := s.deliverySvc.GetHistory(c.Request.Context(), userID, convID, before, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}
