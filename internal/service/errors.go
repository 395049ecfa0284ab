package service

import (
	"OneVoice/internal/pkg/provider"
	"errors"
	"fmt"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid         = errors.New("参数错误")
	ErrUserNotFound         = errors.New("用户不存在")
	ErrUserExist            = errors.New("用户名已存在")
	ErrPasswordIncorrect    = errors.New("密码错误")
	ErrConversationNotFound = errors.New("会话不存在")
	ErrNotGroup             = errors.New("该操作仅支持群聊")
	ErrNotMember            = errors.New("不是会话成员")
	ErrNotAdmin             = errors.New("需要管理员权限")
	ErrMemberExist          = errors.New("用户已在会话中")
	ErrLastAdmin            = errors.New("群聊至少需要保留一名管理员")
	ErrTargetUserInvalid    = errors.New("目标用户无效")
	ErrEmptyMessage         = errors.New("消息内容不能为空")
	ErrEmptyAudio           = errors.New("语音内容不能为空")
	ErrEmptyTranscript      = errors.New("未识别到语音内容")
	ErrPersistence          = errors.New("消息持久化失败")
	UnauthorizedError       = errors.New("权限不足")
	UnExpectedError         = errors.New("系统异常，请稍后重试")
)

// ErrorMap 业务错误到响应码的映射，查找方需用 errors.Is 匹配包装链
var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	ErrUserNotFound:         NotFound,
	ErrUserExist:            BadRequest,
	ErrPasswordIncorrect:    Unauthorized,
	ErrConversationNotFound: NotFound,
	ErrNotGroup:             BadRequest,
	ErrNotMember:            Unauthorized,
	ErrNotAdmin:             Unauthorized,
	ErrMemberExist:          BadRequest,
	ErrLastAdmin:            BadRequest,
	ErrTargetUserInvalid:    BadRequest,
	ErrEmptyMessage:         BadRequest,
	ErrEmptyAudio:           BadRequest,
	ErrEmptyTranscript:      BadRequest,
	ErrPersistence:          InternalServerError,
	UnauthorizedError:       Unauthorized,
	UnExpectedError:         InternalServerError,

	provider.ErrTranslation:  InternalServerError,
	provider.ErrSpeechToText: InternalServerError,
	provider.ErrTextToSpeech: InternalServerError,
	provider.ErrStorage:      InternalServerError,
}

// 投递流水线阶段标签，失败时随错误返回给调用方
const (
	StageValidate        = "validate"
	StageMembership      = "membership"
	StageDetect          = "detect"
	StageTranslate       = "translate"
	StageSpeechToText    = "stt"
	StageTextToSpeech    = "tts"
	StageStoreOriginal   = "storage:original"
	StageStoreTranslated = "storage:translated"
	StagePersist         = "persist"
	StageEmit            = "emit"
)

// StageError 标记一次投递在哪个阶段失败，并携带 TraceID 供排查。
// 通过 Unwrap 暴露底层业务错误，响应层据此映射状态码。
type StageError struct {
	Stage   string
	TraceID string
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("投递失败于 %s 阶段: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
