package ideationsvc

import (
	"context"
	"fmt"
	"strings"

	basesvc "content_pilot/internal/api/base/service"
	ideationmodels "content_pilot/internal/api/ideation/models"
	"content_pilot/internal/common"
	"content_pilot/internal/global"
	"content_pilot/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BusinessContextService là service quản lý business context của các owner
type BusinessContextService struct {
	*basesvc.BaseServiceMongoImpl[ideationmodels.BusinessContext]
}

// NewBusinessContextService tạo mới BusinessContextService
func NewBusinessContextService() (*BusinessContextService, error) {
	collection, exist := global.RegistryCollections.Get(global.ColNames.BusinessContexts)
	if !exist {
		return nil, fmt.Errorf("failed to get business_contexts collection: %v", common.ErrNotFound)
	}
	return &BusinessContextService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[ideationmodels.BusinessContext](collection),
	}, nil
}

// GetByOwner lấy business context của owner.
func (s *BusinessContextService) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) (ideationmodels.BusinessContext, error) {
	return s.FindOne(ctx, bson.M{"ownerId": ownerID}, nil)
}

// UpsertByOwner tạo hoặc cập nhật business context của owner (mỗi owner một bản ghi).
func (s *BusinessContextService) UpsertByOwner(ctx context.Context, ownerID primitive.ObjectID, data *basesvc.UpdateData) (ideationmodels.BusinessContext, error) {
	if data.Set == nil {
		data.Set = make(map[string]interface{})
	}
	data.Set["ownerId"] = ownerID
	return s.Upsert(ctx, bson.M{"ownerId": ownerID}, data)
}

// SummaryForOwner trả về chuỗi tóm tắt business context dùng làm ngữ cảnh sinh ý tưởng.
// Best-effort: owner chưa có context hoặc truy vấn lỗi đều trả về chuỗi rỗng,
// pipeline vẫn chạy tiếp không có ngữ cảnh.
func (s *BusinessContextService) SummaryForOwner(ctx context.Context, ownerID primitive.ObjectID) string {
	bc, err := s.GetByOwner(ctx, ownerID)
	if err != nil {
		if err != common.ErrNotFound {
			logger.GetAppLogger().WithError(err).WithFields(map[string]interface{}{
				"ownerId": ownerID.Hex(),
			}).Warn("💡 [IDEATION] Không lấy được business context, tiếp tục không có ngữ cảnh")
		}
		return ""
	}

	parts := []string{}
	if bc.Industry != "" {
		parts = append(parts, "Industry: "+bc.Industry)
	}
	if bc.TargetAudience != "" {
		parts = append(parts, "Target audience: "+bc.TargetAudience)
	}
	if bc.BrandVoice != "" {
		parts = append(parts, "Brand voice: "+bc.BrandVoice)
	}
	if bc.Goals != "" {
		parts = append(parts, "Goals: "+bc.Goals)
	}
	return strings.Join(parts, "\n")
}
