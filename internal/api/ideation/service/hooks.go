package ideationsvc

import (
	"context"

	"content_pilot/internal/api/events"
	ideationmodels "content_pilot/internal/api/ideation/models"
	"content_pilot/internal/global"
	"content_pilot/internal/logger"
)

// RegisterRetentionHook đăng ký event handler áp giới hạn rejected ideas ngay khi
// một ý tưởng chuyển sang trạng thái rejected, thay vì chờ sweep định kỳ.
// Handler chạy trong goroutine riêng của event bus nên không chặn request.
func RegisterRetentionHook(retention *RetentionService) {
	events.OnDataChanged(func(ctx context.Context, e events.DataChangeEvent) {
		if e.CollectionName != global.ColNames.ContentIdeas {
			return
		}
		if e.Operation != events.OpUpdate {
			return
		}
		if events.GetStringField(e.Document, "Status") != ideationmodels.IdeaStatusRejected {
			return
		}

		ownerID := events.GetOwnerIDFromDocument(e.Document)
		if ownerID.IsZero() {
			return
		}

		// Request context có thể đã kết thúc, dùng Background cho tác vụ nền
		if _, err := retention.EnforceRejectedCap(context.Background(), ownerID); err != nil {
			logger.GetAppLogger().WithError(err).WithFields(map[string]interface{}{
				"ownerId": ownerID.Hex(),
			}).Error("🧹 [RETENTION] Hook failed to enforce rejected cap")
		}
	})
}
