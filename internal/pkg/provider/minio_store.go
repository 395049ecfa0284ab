package provider

import (
	"OneVoice/internal/pkg/consts"
	"OneVoice/internal/pkg/minio"
	"bytes"
	"context"

	"github.com/pkg/errors"
)

// MinioAudioStore 基于 MinIO 的音频对象存储
type MinioAudioStore struct{}

func NewMinioAudioStore() *MinioAudioStore {
	return &MinioAudioStore{}
}

// Upload 上传音频并返回可访问 URL。keyHint 由调用方保证唯一，
// 同一条语音消息对不同收件人的并发上传互不冲突。
func (s *MinioAudioStore) Upload(ctx context.Context, audio []byte, keyHint string, contentType string) (string, error) {
	if len(audio) == 0 {
		return "", errors.WithMessage(ErrStorage, "音频负载为空")
	}
	if contentType == "" {
		contentType = "audio/wav"
	}

	objectName := consts.AudioObjectPrefix + keyHint
	if _, err := minio.UploadFile(ctx, objectName, bytes.NewReader(audio), int64(len(audio)), contentType); err != nil {
		return "", errors.WithMessage(ErrStorage, err.Error())
	}

	return minio.GetPublicURL(objectName), nil
}
