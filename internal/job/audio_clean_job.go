package job

import (
	"OneVoice/internal/pkg/consts"
	"OneVoice/internal/pkg/minio"
	"context"
	log "log/slog"
	"time"
)

// AudioCleanupJob 按保留期清理对象存储中的语音文件。
// 消息记录里的音频 URL 不回收，过期后客户端拉取到 404 属预期行为。
type AudioCleanupJob struct {
	retentionDays int
}

func NewAudioCleanupJob(retentionDays int) *AudioCleanupJob {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &AudioCleanupJob{retentionDays: retentionDays}
}

func (s *AudioCleanupJob) Run() {
	ctx := context.Background()
	log.Info("start audio cleanup job", "retention_days", s.retentionDays)

	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	count, err := minio.RemoveObjectsBefore(ctx, consts.AudioObjectPrefix, cutoff)
	if err != nil {
		log.Error("audio cleanup job failed", "err", err)
		return
	}

	if count > 0 {
		log.Info("audio cleanup job finished", "cleaned_count", count)
	}
}
