package ideationsvc

import (
	"context"

	ideationmodels "content_pilot/internal/api/ideation/models"
	"content_pilot/internal/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RejectedIdeaStore là phần store mà retention cần: đếm, liệt kê cũ nhất trước,
// xóa theo danh sách ID và duyệt các owner đang có ý tưởng rejected.
// ContentIdeaService thỏa mãn interface này.
type RejectedIdeaStore interface {
	CountRejectedByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error)
	ListRejectedOldestFirst(ctx context.Context, ownerID primitive.ObjectID, limit int64) ([]ideationmodels.ContentIdea, error)
	DeleteByIds(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	ListOwnersWithRejected(ctx context.Context) ([]primitive.ObjectID, error)
}

// RetentionService giữ số ý tưởng rejected của mỗi owner trong giới hạn cho phép.
// Khi vượt giới hạn, các ý tưởng rejected cũ nhất bị xóa trước.
type RetentionService struct {
	ideas RejectedIdeaStore
	cap   int64
}

// NewRetentionService tạo mới RetentionService với giới hạn cap cho mỗi owner
func NewRetentionService(ideas RejectedIdeaStore, cap int64) *RetentionService {
	if cap <= 0 {
		cap = 100
	}
	return &RetentionService{ideas: ideas, cap: cap}
}

// EnforceRejectedCap xóa các ý tưởng rejected cũ nhất vượt quá giới hạn của owner.
// Idempotent: chạy lại khi số lượng đã trong giới hạn là no-op.
// Trả về số bản ghi đã xóa.
func (s *RetentionService) EnforceRejectedCap(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	count, err := s.ideas.CountRejectedByOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	if count <= s.cap {
		return 0, nil
	}

	excess := count - s.cap
	oldest, err := s.ideas.ListRejectedOldestFirst(ctx, ownerID, excess)
	if err != nil {
		return 0, err
	}

	ids := make([]primitive.ObjectID, 0, len(oldest))
	for _, idea := range oldest {
		ids = append(ids, idea.ID)
	}

	deleted, err := s.ideas.DeleteByIds(ctx, ids)
	if err != nil {
		return 0, err
	}

	logger.GetAppLogger().WithFields(map[string]interface{}{
		"ownerId":      ownerID.Hex(),
		"deletedCount": deleted,
		"cap":          s.cap,
	}).Info("🧹 [RETENTION] Trimmed rejected ideas over cap")

	return deleted, nil
}

// EnforceAll duyệt tất cả owner đang có ý tưởng rejected và áp giới hạn cho từng owner.
// Best-effort: lỗi ở một owner chỉ log rồi tiếp tục owner kế tiếp.
func (s *RetentionService) EnforceAll(ctx context.Context) (int64, error) {
	owners, err := s.ideas.ListOwnersWithRejected(ctx)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, ownerID := range owners {
		deleted, err := s.EnforceRejectedCap(ctx, ownerID)
		if err != nil {
			logger.GetAppLogger().WithError(err).WithFields(map[string]interface{}{
				"ownerId": ownerID.Hex(),
			}).Error("🧹 [RETENTION] Failed to enforce rejected cap for owner")
			continue
		}
		total += deleted
	}
	return total, nil
}
