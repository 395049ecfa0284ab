package wire

import (
	"OneVoice/internal/api"
	"OneVoice/internal/api/config"
	"OneVoice/internal/api/handler"
	"OneVoice/internal/job"
	"OneVoice/internal/pkg/cron"
	"OneVoice/internal/pkg/langdetect"
	"OneVoice/internal/pkg/mongo"
	"OneVoice/internal/pkg/provider"
	"OneVoice/internal/pkg/redis"
	"OneVoice/internal/repository"
	"OneVoice/internal/service"
	log "log/slog"

	"github.com/gin-gonic/gin"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router  *gin.Engine
	DB      *gorm.DB
	CronMgr *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongodriver.Database, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	convRepo := repository.NewConversationRepo(db)
	msgRepo := mongo.NewMessageRepo(mongoDB)

	translator, err := buildTranslator(cfg)
	if err != nil {
		return nil, err
	}
	stt, tts := buildSpeech(cfg)
	audioStore := provider.NewMinioAudioStore()
	bus := redis.NewEventBus()

	userService := service.NewUserService(userRepo)
	convService := service.NewConversationService(convRepo, userRepo)
	deliveryService := service.NewDeliveryService(
		convRepo, userRepo, msgRepo,
		translator, stt, tts, audioStore,
		bus, langdetect.Detect,
	)

	handlers := &api.HandlersGroup{
		UserHandler:         handler.NewUserHandler(userService),
		ConversationHandler: handler.NewConversationHandler(convService),
		MessageHandler:      handler.NewMessageHandler(deliveryService),
		WSHandler:           handler.NewWsHandler(convService),
	}

	router := api.SetupRouter(handlers)

	cronMgr := cron.NewCronManager(job.NewAudioCleanupJob(cfg.Voice.RetentionDays))

	return &ApplicationContainer{
		Router:  router,
		DB:      db,
		CronMgr: cronMgr,
	}, nil
}

// buildTranslator 按配置选择翻译通道，缺凭证时降级为占位实现
func buildTranslator(cfg *config.Config) (provider.Translator, error) {
	switch cfg.Translation.Provider {
	case "llm":
		if cfg.LLM.ApiKey == "" {
			log.Warn("大模型翻译通道未配置凭证，翻译功能不可用")
			return provider.UnconfiguredTranslator{}, nil
		}
		return provider.NewLLMTranslator(cfg.LLM)
	default:
		if cfg.Sarvam.ApiKey == "" {
			log.Warn("Sarvam 翻译通道未配置凭证，翻译功能不可用")
			return provider.UnconfiguredTranslator{}, nil
		}
		return provider.NewSarvamTranslator(cfg.Sarvam), nil
	}
}

func buildSpeech(cfg *config.Config) (provider.SpeechToText, provider.TextToSpeech) {
	if cfg.Sarvam.ApiKey == "" {
		log.Warn("Sarvam 语音通道未配置凭证，语音消息不可用")
		return provider.UnconfiguredSpeechToText{}, provider.UnconfiguredTextToSpeech{}
	}
	return provider.NewSarvamSpeechToText(cfg.Sarvam), provider.NewSarvamTextToSpeech(cfg.Sarvam)
}
