package api

import (
	"OneVoice/internal/api/middleware"
	"OneVoice/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		userGroup := apiGroup.Group("/user")
		{
			// 无需登录即可访问的接口
			userGroup.POST("/login", group.UserHandler.Login)
			userGroup.POST("/register", group.UserHandler.Register)

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.GET("/info", group.UserHandler.GetUserInfo)
				authGroup.PUT("/language", group.UserHandler.UpdateLanguage)
			}
		}

		convGroup := apiGroup.Group("/conversations")
		convGroup.Use(middleware.AuthMiddleware())
		{
			convGroup.GET("/list", group.ConversationHandler.ListConversations)
			convGroup.POST("/direct", group.ConversationHandler.CreateDirect)
			convGroup.POST("/group", group.ConversationHandler.CreateGroup)
			convGroup.POST("/:conversation_id/members", group.ConversationHandler.AddMember)
			convGroup.DELETE("/:conversation_id/members/:user_id", group.ConversationHandler.RemoveMember)
		}

		imGroup := apiGroup.Group("/im")
		{
			// WS 升级请求带不了 Header，鉴权走 query token
			imGroup.GET("", group.WSHandler.Connect)
			authGroup := imGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/send/text", group.MessageHandler.SendText)
				authGroup.POST("/send/voice", group.MessageHandler.SendVoice)
				authGroup.GET("/history", group.MessageHandler.GetHistory)
			}
		}
	}

	return r
}
