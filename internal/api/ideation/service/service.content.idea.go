package ideationsvc

import (
	"context"
	"fmt"

	basesvc "content_pilot/internal/api/base/service"
	ideationmodels "content_pilot/internal/api/ideation/models"
	"content_pilot/internal/common"
	"content_pilot/internal/generation"
	"content_pilot/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ContentIdeaService là service quản lý các ý tưởng nội dung
type ContentIdeaService struct {
	*basesvc.BaseServiceMongoImpl[ideationmodels.ContentIdea]
}

// NewContentIdeaService tạo mới ContentIdeaService
func NewContentIdeaService() (*ContentIdeaService, error) {
	collection, exist := global.RegistryCollections.Get(global.ColNames.ContentIdeas)
	if !exist {
		return nil, fmt.Errorf("failed to get content_ideas collection: %v", common.ErrNotFound)
	}
	return &ContentIdeaService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[ideationmodels.ContentIdea](collection),
	}, nil
}

// BulkInsertPending lưu một loạt ý tưởng thô thành bản ghi pending cho document.
// Danh sách drafts rỗng là hợp lệ và không ghi gì vào database.
func (s *ContentIdeaService) BulkInsertPending(ctx context.Context, ownerID, docID primitive.ObjectID, drafts []generation.IdeaDraft) ([]ideationmodels.ContentIdea, error) {
	if len(drafts) == 0 {
		return []ideationmodels.ContentIdea{}, nil
	}

	ideas := make([]ideationmodels.ContentIdea, 0, len(drafts))
	for _, draft := range drafts {
		ideas = append(ideas, ideationmodels.ContentIdea{
			DocumentID:  docID,
			OwnerID:     ownerID,
			Title:       draft.Title,
			Description: draft.Description,
			Angle:       draft.Angle,
			Status:      ideationmodels.IdeaStatusPending,
		})
	}

	inserted, err := s.InsertMany(ctx, ideas)
	if err != nil {
		return nil, common.NewError(common.ErrCodeDatabaseWrite, "Không thể lưu các ý tưởng được sinh ra", common.StatusInternalServerError, err)
	}
	return inserted, nil
}

// Reject chuyển một ý tưởng của owner sang trạng thái rejected.
func (s *ContentIdeaService) Reject(ctx context.Context, ownerID, ideaID primitive.ObjectID) (ideationmodels.ContentIdea, error) {
	filter := bson.M{"_id": ideaID, "ownerId": ownerID}
	update := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status": ideationmodels.IdeaStatusRejected,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return s.FindOneAndUpdate(ctx, filter, update, opts)
}

// CountRejectedByOwner đếm số ý tưởng rejected của một owner.
func (s *ContentIdeaService) CountRejectedByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	return s.CountDocuments(ctx, bson.M{
		"ownerId": ownerID,
		"status":  ideationmodels.IdeaStatusRejected,
	})
}

// ListRejectedOldestFirst lấy các ý tưởng rejected cũ nhất của owner, giới hạn limit bản ghi.
// Xếp theo createdAt tăng dần, tie-break theo _id để thứ tự ổn định.
func (s *ContentIdeaService) ListRejectedOldestFirst(ctx context.Context, ownerID primitive.ObjectID, limit int64) ([]ideationmodels.ContentIdea, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(limit)
	return s.Find(ctx, bson.M{
		"ownerId": ownerID,
		"status":  ideationmodels.IdeaStatusRejected,
	}, opts)
}

// DeleteByIds xóa các ý tưởng theo danh sách ID.
func (s *ContentIdeaService) DeleteByIds(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// ListOwnersWithRejected lấy danh sách owner đang có ý tưởng rejected.
// Dùng bởi retention sweep worker để duyệt từng owner.
func (s *ContentIdeaService) ListOwnersWithRejected(ctx context.Context) ([]primitive.ObjectID, error) {
	values, err := s.Distinct(ctx, "ownerId", bson.M{"status": ideationmodels.IdeaStatusRejected})
	if err != nil {
		return nil, err
	}

	owners := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if id, ok := v.(primitive.ObjectID); ok {
			owners = append(owners, id)
		}
	}
	return owners, nil
}
