package worker

import (
	"context"
	"time"

	ideationsvc "content_pilot/internal/api/ideation/service"
	"content_pilot/internal/logger"
)

// ProcessingReleaseWorker giải phóng các document kẹt ở trạng thái processing.
// Nếu server restart giữa một lần sinh ý tưởng, document sẽ kẹt vĩnh viễn ở
// processing và không thể chạy lại. Worker này chuyển chúng sang failed sau
// timeout; kết quả của lần chạy mồ côi đó chấp nhận mất.
type ProcessingReleaseWorker struct {
	documentService *ideationsvc.ContentDocumentService
	interval        time.Duration // Khoảng thời gian giữa các lần chạy
	timeoutSeconds  int64         // Timeout để coi document là stuck (giây)
}

// NewProcessingReleaseWorker tạo mới ProcessingReleaseWorker
func NewProcessingReleaseWorker(interval time.Duration, timeoutSeconds int64) (*ProcessingReleaseWorker, error) {
	documentService, err := ideationsvc.NewContentDocumentService()
	if err != nil {
		return nil, err
	}

	// Set defaults
	if interval < 30*time.Second {
		interval = 1 * time.Minute // Mặc định 1 phút
	}
	if timeoutSeconds < 60 {
		timeoutSeconds = 600 // Mặc định 10 phút
	}

	return &ProcessingReleaseWorker{
		documentService: documentService,
		interval:        interval,
		timeoutSeconds:  timeoutSeconds,
	}, nil
}

// Start chạy vòng lặp release định kỳ cho tới khi context bị hủy.
func (w *ProcessingReleaseWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval":       w.interval.String(),
		"timeoutSeconds": w.timeoutSeconds,
	}).Info("🔄 [PROCESSING_RELEASE] Starting Processing Release Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("🔄 [PROCESSING_RELEASE] Processing Release Worker stopped")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(map[string]interface{}{
							"panic": r,
						}).Error("🔄 [PROCESSING_RELEASE] Panic khi release stuck documents, sẽ tiếp tục ở lần chạy tiếp theo")
					}
				}()

				releasedCount, err := w.documentService.ReleaseStuckProcessing(ctx, w.timeoutSeconds)
				if err != nil {
					log.WithError(err).Error("🔄 [PROCESSING_RELEASE] Failed to release stuck documents")
					return
				}

				if releasedCount > 0 {
					log.WithFields(map[string]interface{}{
						"releasedCount":  releasedCount,
						"timeoutSeconds": w.timeoutSeconds,
					}).Warn("🔄 [PROCESSING_RELEASE] Released stuck documents, kết quả lần chạy dở bị mất")
				}
			}()
		}
	}
}
