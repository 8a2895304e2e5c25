package worker

import (
	"context"
	"time"

	ideationsvc "content_pilot/internal/api/ideation/service"
	"content_pilot/internal/logger"
)

// RetentionSweepWorker quét định kỳ toàn bộ owner và áp giới hạn rejected ideas.
// Là lưới an toàn cho retention hook: hook có thể bị bỏ lỡ khi tiến trình
// restart giữa chừng, sweep đảm bảo giới hạn cuối cùng vẫn được giữ.
type RetentionSweepWorker struct {
	retention *ideationsvc.RetentionService
	interval  time.Duration // Khoảng thời gian giữa các lần quét
}

// NewRetentionSweepWorker tạo mới RetentionSweepWorker
func NewRetentionSweepWorker(retention *ideationsvc.RetentionService, interval time.Duration) *RetentionSweepWorker {
	if interval < time.Minute {
		interval = time.Hour // Mặc định 1 giờ
	}
	return &RetentionSweepWorker{
		retention: retention,
		interval:  interval,
	}
}

// Start chạy vòng lặp quét định kỳ cho tới khi context bị hủy.
// Mỗi tick được bọc recover để panic không làm chết worker.
func (w *RetentionSweepWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval": w.interval.String(),
	}).Info("🧹 [RETENTION_SWEEP] Starting Retention Sweep Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("🧹 [RETENTION_SWEEP] Retention Sweep Worker stopped")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(map[string]interface{}{
							"panic": r,
						}).Error("🧹 [RETENTION_SWEEP] Panic khi quét retention, sẽ tiếp tục ở lần chạy tiếp theo")
					}
				}()

				deleted, err := w.retention.EnforceAll(ctx)
				if err != nil {
					log.WithError(err).Error("🧹 [RETENTION_SWEEP] Failed to enforce rejected caps")
					return
				}

				if deleted > 0 {
					log.WithFields(map[string]interface{}{
						"deletedCount": deleted,
					}).Info("🧹 [RETENTION_SWEEP] Trimmed rejected ideas")
				}
				// Nếu deleted = 0, không log (giảm log noise)
			}()
		}
	}
}
