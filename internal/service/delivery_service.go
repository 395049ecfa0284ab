package service

import (
	"OneVoice/internal/api/dto"
	"OneVoice/internal/model"
	"OneVoice/internal/pkg/consts"
	"OneVoice/internal/pkg/logger"
	"OneVoice/internal/pkg/mongo"
	"OneVoice/internal/pkg/provider"
	"OneVoice/internal/repository"
	"context"
	"encoding/base64"
	"fmt"
	log "log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// DeliveryService 消息投递流水线：一条入站消息按会话成员扇出，
// 逐收件人翻译（语音还要合成），每人落一行记录，再各推一条实时事件。
// 任一外部依赖失败则整次发送失败，错误携带阶段标签与 TraceID。
type DeliveryService interface {
	SendText(ctx context.Context, senderID uint64, req *dto.SendTextReq) (*dto.SendResultDTO, error)
	SendVoice(ctx context.Context, senderID uint64, req *dto.SendVoiceReq) (*dto.SendResultDTO, error)
	GetHistory(ctx context.Context, userID, convID uint64, before time.Time, pageSize int) ([]*dto.MessageDTO, error)
}

// EventBus 流水线的输出通道，实时网关是独立的消费者。
// 推送即忘：流水线不等待任何客户端确认。
type EventBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// DetectFunc 源语言探测函数，无法判定时返回 fallback
type DetectFunc func(text, fallback string) string

type DeliveryServiceImpl struct {
	convRepo   repository.ConversationRepo
	userRepo   repository.UserRepo
	msgRepo    mongo.MessageRepo
	translator provider.Translator
	stt        provider.SpeechToText
	tts        provider.TextToSpeech
	audioStore provider.AudioStore
	bus        EventBus
	detect     DetectFunc
}

// NewDeliveryService 所有外部能力在此一次性注入，流水线内部不读全局状态
func NewDeliveryService(
	convRepo repository.ConversationRepo,
	userRepo repository.UserRepo,
	msgRepo mongo.MessageRepo,
	translator provider.Translator,
	stt provider.SpeechToText,
	tts provider.TextToSpeech,
	audioStore provider.AudioStore,
	bus EventBus,
	detect DetectFunc,
) DeliveryService {
	return &DeliveryServiceImpl{
		convRepo:   convRepo,
		userRepo:   userRepo,
		msgRepo:    msgRepo,
		translator: translator,
		stt:        stt,
		tts:        tts,
		audioStore: audioStore,
		bus:        bus,
		detect:     detect,
	}
}

// SendText 文本投递：校验 -> 成员解析 -> 源语言探测 -> 逐人翻译(同语言原样短路)
// -> 逐人落库 -> 逐人推事件
func (s *DeliveryServiceImpl) SendText(ctx context.Context, senderID uint64, req *dto.SendTextReq) (*dto.SendResultDTO, error) {
	traceID := traceIDFrom(ctx)

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, s.fail(ctx, StageValidate, traceID, ErrEmptyMessage)
	}

	sender, members, err := s.resolveMembers(ctx, req.ConversationID, senderID)
	if err != nil {
		return nil, s.fail(ctx, StageMembership, traceID, err)
	}

	// 探测失败回退到发送者偏好语言
	sourceLang := s.detect(content, sender.PreferredLanguage)

	now := time.Now()
	rows := make([]*mongo.Message, len(members))
	g, gctx := errgroup.WithContext(ctx)
	for i, m := range members {
		i, m := i, m
		g.Go(func() error {
			translated, err := s.translateFor(gctx, content, sourceLang, m.PreferredLanguage)
			if err != nil {
				return err
			}
			rows[i] = &mongo.Message{
				ID:             primitive.NewObjectID().Hex(),
				ConversationID: req.ConversationID,
				SenderID:       senderID,
				RecipientID:    m.UserID,
				Kind:           consts.MessageKindText,
				Original:       content,
				Translated:     translated,
				SourceLanguage: sourceLang,
				TargetLanguage: m.PreferredLanguage,
				TraceID:        traceID,
				CreatedAt:      now,
			}
			return nil
		})
	}
	// 并发分支里第一个错误胜出，其余分支结果丢弃
	if err := g.Wait(); err != nil {
		return nil, s.fail(ctx, StageTranslate, traceID, err)
	}

	if err := s.persistRows(ctx, rows); err != nil {
		return nil, s.fail(ctx, StagePersist, traceID, err)
	}

	s.emitRows(ctx, req.ConversationID, rows, nil)
	_ = s.convRepo.UpdateLastMessage(ctx, req.ConversationID, content, senderID)

	return s.toSendResult(traceID, rows, senderID), nil
}

// SendVoice 语音投递：校验 -> 原始音频入库 -> 转写 -> 成员解析 ->
// 逐人翻译+合成+上传(先全部暂存) -> 逐人落库 -> 逐人推事件。
// 转写服务给出的源语言优先，文本探测仅作兜底。
func (s *DeliveryServiceImpl) SendVoice(ctx context.Context, senderID uint64, req *dto.SendVoiceReq) (*dto.SendResultDTO, error) {
	traceID := traceIDFrom(ctx)

	if req.AudioBase64 == "" {
		return nil, s.fail(ctx, StageValidate, traceID, ErrEmptyAudio)
	}
	audio, err := base64.StdEncoding.DecodeString(req.AudioBase64)
	if err != nil {
		return nil, s.fail(ctx, StageValidate, traceID, ErrParamInvalid)
	}
	if len(audio) == 0 {
		return nil, s.fail(ctx, StageValidate, traceID, ErrEmptyAudio)
	}

	sender, members, err := s.resolveMembers(ctx, req.ConversationID, senderID)
	if err != nil {
		return nil, s.fail(ctx, StageMembership, traceID, err)
	}

	contentType := req.MimeType
	if contentType == "" {
		contentType = "audio/wav"
	}

	// 原始音频的上传与转写是全员共享的工作，各做一次
	originalURL, err := s.audioStore.Upload(ctx, audio,
		fmt.Sprintf("%d/%s_original", req.ConversationID, traceID), contentType)
	if err != nil {
		return nil, s.fail(ctx, StageStoreOriginal, traceID, err)
	}

	tr, err := s.stt.Transcribe(ctx, audio, sender.PreferredLanguage)
	if err != nil {
		return nil, s.fail(ctx, StageSpeechToText, traceID, err)
	}
	transcript := strings.TrimSpace(tr.Transcript)
	if transcript == "" {
		return nil, s.fail(ctx, StageSpeechToText, traceID, ErrEmptyTranscript)
	}
	sourceLang := tr.Language
	if sourceLang == "" {
		sourceLang = s.detect(transcript, sender.PreferredLanguage)
	}

	// 翻译/合成/上传先全部暂存，任何一个收件人失败都不落任何行
	now := time.Now()
	rows := make([]*mongo.Message, len(members))
	audios := make([][]byte, len(members))
	g, gctx := errgroup.WithContext(ctx)
	for i, m := range members {
		i, m := i, m
		g.Go(func() error {
			translated, err := s.translateFor(gctx, transcript, sourceLang, m.PreferredLanguage)
			if err != nil {
				return &StageError{Stage: StageTranslate, TraceID: traceID, Err: err}
			}

			synth, err := s.tts.Synthesize(gctx, translated, m.PreferredLanguage)
			if err != nil {
				return &StageError{Stage: StageTextToSpeech, TraceID: traceID, Err: err}
			}

			var translatedURL string
			if len(synth) > 0 {
				// 对象键按收件人区分，并发上传互不覆盖
				translatedURL, err = s.audioStore.Upload(gctx, synth,
					fmt.Sprintf("%d/%s_%d", req.ConversationID, traceID, m.UserID), "audio/wav")
				if err != nil {
					return &StageError{Stage: StageStoreTranslated, TraceID: traceID, Err: err}
				}
			}

			rows[i] = &mongo.Message{
				ID:                 primitive.NewObjectID().Hex(),
				ConversationID:     req.ConversationID,
				SenderID:           senderID,
				RecipientID:        m.UserID,
				Kind:               consts.MessageKindVoice,
				Original:           transcript,
				Translated:         translated,
				SourceLanguage:     sourceLang,
				TargetLanguage:     m.PreferredLanguage,
				OriginalAudioURL:   originalURL,
				TranslatedAudioURL: translatedURL,
				TraceID:            traceID,
				CreatedAt:          now,
			}
			audios[i] = synth
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, s.failStaged(ctx, traceID, err)
	}

	if err := s.persistRows(ctx, rows); err != nil {
		return nil, s.fail(ctx, StagePersist, traceID, err)
	}

	s.emitRows(ctx, req.ConversationID, rows, audios)
	_ = s.convRepo.UpdateLastMessage(ctx, req.ConversationID, "[语音] "+transcript, senderID)

	return s.toSendResult(traceID, rows, senderID), nil
}

// GetHistory 历史消息：只返回目标语言等于读者当前偏好语言的行
func (s *DeliveryServiceImpl) GetHistory(ctx context.Context, userID, convID uint64, before time.Time, pageSize int) ([]*dto.MessageDTO, error) {
	if err := s.requireMember(ctx, convID, userID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	rows, err := s.msgRepo.GetHistory(ctx, convID, user.PreferredLanguage, before, pageSize)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.MessageDTO, 0, len(rows))
	for _, row := range rows {
		res = append(res, toMessageDTO(row))
	}
	return res, nil
}

// resolveMembers 发送前置：发送者鉴权 + 成员快照（含实时偏好语言）。
// 发送者也在收件列表里，多端回显靠自己语言的那一行。
func (s *DeliveryServiceImpl) resolveMembers(ctx context.Context, convID, senderID uint64) (*model.User, []*model.MemberRecipient, error) {
	if err := s.requireMember(ctx, convID, senderID); err != nil {
		return nil, nil, err
	}

	sender, err := s.userRepo.GetUserById(ctx, senderID)
	if err != nil {
		return nil, nil, err
	}
	if sender == nil {
		return nil, nil, ErrUserNotFound
	}

	members, err := s.convRepo.GetMemberRecipients(ctx, convID)
	if err != nil {
		return nil, nil, err
	}
	return sender, members, nil
}

func (s *DeliveryServiceImpl) requireMember(ctx context.Context, convID, userID uint64) error {
	isMember, err := s.convRepo.IsMember(ctx, convID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrNotMember
	}
	return nil
}

// translateFor 目标语言与源语言一致时原样返回，不触发翻译调用
func (s *DeliveryServiceImpl) translateFor(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if targetLang == sourceLang {
		return text, nil
	}
	return s.translator.Translate(ctx, text, targetLang, sourceLang)
}

// persistRows 逐行写入，行序与成员序一致。
// 中途失败时已写入的行不做补偿回滚，错误原样上抛。
func (s *DeliveryServiceImpl) persistRows(ctx context.Context, rows []*mongo.Message) error {
	for _, row := range rows {
		if err := s.msgRepo.SaveMessage(ctx, row); err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}
	return nil
}

// emitRows 向会话频道逐行推送扇出事件。推送即忘，失败只记日志不中断
func (s *DeliveryServiceImpl) emitRows(ctx context.Context, convID uint64, rows []*mongo.Message, audios [][]byte) {
	channel := consts.IMConversationKey + strconv.FormatUint(convID, 10)

	for i, row := range rows {
		event := &dto.MessageEventDTO{Type: "MESSAGE"}
		_ = copier.Copy(event, row)
		if audios != nil && len(audios[i]) > 0 {
			event.AudioBase64 = base64.StdEncoding.EncodeToString(audios[i])
		}

		data, err := json.Marshal(event)
		if err != nil {
			log.ErrorContext(ctx, "扇出事件序列化失败", "messageID", row.ID, "err", err)
			continue
		}
		if err := s.bus.Publish(ctx, channel, data); err != nil {
			log.WarnContext(ctx, "实时事件推送失败", "messageID", row.ID, "err", err)
		}
	}
}

func (s *DeliveryServiceImpl) toSendResult(traceID string, rows []*mongo.Message, senderID uint64) *dto.SendResultDTO {
	res := &dto.SendResultDTO{TraceID: traceID}
	for _, row := range rows {
		if row.RecipientID == senderID {
			res.Message = toMessageDTO(row)
			break
		}
	}
	return res
}

// fail 统一的失败出口：记日志并打上阶段标签
func (s *DeliveryServiceImpl) fail(ctx context.Context, stage, traceID string, err error) error {
	log.ErrorContext(ctx, "消息投递失败", "stage", stage, "trace_id", traceID, "err", err)
	return &StageError{Stage: stage, TraceID: traceID, Err: err}
}

// failStaged 并发分支已经打好阶段标签时直接透传
func (s *DeliveryServiceImpl) failStaged(ctx context.Context, traceID string, err error) error {
	if se, ok := err.(*StageError); ok {
		log.ErrorContext(ctx, "消息投递失败", "stage", se.Stage, "trace_id", se.TraceID, "err", se.Err)
		return se
	}
	return s.fail(ctx, StageTranslate, traceID, err)
}

func toMessageDTO(row *mongo.Message) *dto.MessageDTO {
	out := &dto.MessageDTO{}
	_ = copier.Copy(out, row)
	return out
}

// traceIDFrom 沿用请求链路上的 TraceID，没有则新发一个
func traceIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(logger.TraceIDKey).(string); ok && id != "" {
		return id
	}
	return uuid.New().String()
}
