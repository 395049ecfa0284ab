package handler

import (
	"OneVoice/internal/pkg/consts"
	"OneVoice/internal/pkg/redis"
	"OneVoice/internal/pkg/response"
	"OneVoice/internal/pkg/security"
	"OneVoice/internal/service"
	"context"
	"errors"
	log "log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsCommand 客户端上行控制帧，JOIN/LEAVE 动态调整订阅的会话
type wsCommand struct {
	Type           string `json:"type"` // JOIN / LEAVE
	ConversationID uint64 `json:"conversation_id"`
}

// wsAck 控制帧的应答，错误时附带原因
type wsAck struct {
	Type           string `json:"type"` // JOINED / LEFT / ERROR
	ConversationID uint64 `json:"conversation_id"`
	Message        string `json:"message,omitempty"`
}

type WsHandler struct {
	convSvc service.ConversationService
}

func NewWsHandler(convSvc service.ConversationService) *WsHandler {
	return &WsHandler{convSvc: convSvc}
}

// Connect 建立实时网关连接。连接后默认订阅用户已参与的全部会话，
// 客户端可再发 JOIN/LEAVE 帧调整。JOIN 前先做成员校验，非成员拿到 ERROR 应答。
func (s *WsHandler) Connect(c *gin.Context) {
	// 鉴权
	token := c.Query("token")
	if token == "" {
		response.Error(c, service.UnauthorizedError)
		return
	}
	claims, err := security.ValidateToken(token)
	if err != nil {
		log.Warn("WS 鉴权失败", "err", err)
		response.Error(c, service.UnauthorizedError)
		return
	}
	userID := claims.UserID

	// 升级 Websocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WS 协议升级失败", "err", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	// 订阅用户参与的所有会话频道
	list, err := s.convSvc.ListConversations(context.Background(), userID)
	if err != nil {
		log.Error("获取会话列表失败", "userID", userID, "err", err)
		return
	}
	var channels []string
	for _, conv := range list {
		channels = append(channels, convChannel(conv.ConversationID))
	}

	pubsub := redis.Subscribe(context.Background(), channels...)
	defer func() {
		_ = pubsub.Close()
	}()

	log.Info("用户 WS 连接已建立", "userID", userID, "channels", len(channels))

	stopChan := make(chan struct{})
	cmdChan := make(chan *wsCommand, 8)

	// 读循环：解析控制帧，并监听客户端主动断开
	go func() {
		defer close(stopChan)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var cmd wsCommand
			if err := json.Unmarshal(data, &cmd); err != nil || cmd.ConversationID == 0 {
				continue
			}
			select {
			case cmdChan <- &cmd:
			case <-stopChan:
				return
			}
		}
	}()

	// 写循环：conn 的写操作全部集中在这里
	redisCh := pubsub.Channel()
	for {
		select {
		case msg := <-redisCh:
			if err := writeFrame(conn, []byte(msg.Payload)); err != nil {
				log.Error("WS 推送失败", "userID", userID, "err", err)
				return
			}
		case cmd := <-cmdChan:
			ack := s.handleCommand(c.Request.Context(), pubsub, userID, cmd)
			payload, _ := json.Marshal(ack)
			if err := writeFrame(conn, payload); err != nil {
				log.Error("WS 应答失败", "userID", userID, "err", err)
				return
			}
		case <-stopChan:
			log.Info("用户 WS 连接已断开", "userID", userID)
			return
		}
	}
}

// handleCommand 处理 JOIN/LEAVE。入房先过成员门槛，LEAVE 不做校验
func (s *WsHandler) handleCommand(ctx context.Context, pubsub *redis.PubSub, userID uint64, cmd *wsCommand) *wsAck {
	channel := convChannel(cmd.ConversationID)

	switch cmd.Type {
	case "JOIN":
		if err := s.convSvc.RequireMember(ctx, cmd.ConversationID, userID); err != nil {
			msg := err.Error()
			if !errors.Is(err, service.ErrNotMember) {
				msg = service.UnExpectedError.Error()
			}
			return &wsAck{Type: "ERROR", ConversationID: cmd.ConversationID, Message: msg}
		}
		if err := pubsub.Subscribe(ctx, channel); err != nil {
			return &wsAck{Type: "ERROR", ConversationID: cmd.ConversationID, Message: service.UnExpectedError.Error()}
		}
		return &wsAck{Type: "JOINED", ConversationID: cmd.ConversationID}
	case "LEAVE":
		if err := pubsub.Unsubscribe(ctx, channel); err != nil {
			return &wsAck{Type: "ERROR", ConversationID: cmd.ConversationID, Message: service.UnExpectedError.Error()}
		}
		return &wsAck{Type: "LEFT", ConversationID: cmd.ConversationID}
	default:
		return &wsAck{Type: "ERROR", ConversationID: cmd.ConversationID, Message: service.ErrParamInvalid.Error()}
	}
}

func writeFrame(conn *websocket.Conn, payload []byte) error {
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, payload)
}

func convChannel(convID uint64) string {
	return consts.IMConversationKey + strconv.FormatUint(convID, 10)
}
