package ideationsvc

import (
	"context"
	"fmt"
	"time"

	basesvc "content_pilot/internal/api/base/service"
	ideationmodels "content_pilot/internal/api/ideation/models"
	"content_pilot/internal/common"
	"content_pilot/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ContentDocumentService là service quản lý content documents và trạng thái ideation
type ContentDocumentService struct {
	*basesvc.BaseServiceMongoImpl[ideationmodels.ContentDocument]
}

// NewContentDocumentService tạo mới ContentDocumentService
func NewContentDocumentService() (*ContentDocumentService, error) {
	collection, exist := global.RegistryCollections.Get(global.ColNames.ContentDocuments)
	if !exist {
		return nil, fmt.Errorf("failed to get content_documents collection: %v", common.ErrNotFound)
	}
	return &ContentDocumentService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[ideationmodels.ContentDocument](collection),
	}, nil
}

// ClaimProcessing chiếm quyền xử lý document bằng conditional update nguyên tử.
// Chỉ thành công khi document tồn tại, thuộc về owner và không ở trạng thái processing.
// Trả về common.ErrAlreadyProcessing nếu document đang được xử lý,
// common.ErrNotFound nếu document không tồn tại hoặc không thuộc owner.
func (s *ContentDocumentService) ClaimProcessing(ctx context.Context, ownerID, docID primitive.ObjectID) (ideationmodels.ContentDocument, error) {
	var zero ideationmodels.ContentDocument

	now := time.Now().UnixMilli()
	filter := bson.M{
		"_id":            docID,
		"ownerId":        ownerID,
		"ideationStatus": bson.M{"$ne": ideationmodels.IdeationStatusProcessing},
	}
	update := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"ideationStatus":      ideationmodels.IdeationStatusProcessing,
			"processingStartedAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	doc, err := s.FindOneAndUpdate(ctx, filter, update, opts)
	if err == nil {
		return doc, nil
	}
	if err != common.ErrNotFound {
		return zero, err
	}

	// Phân biệt: document không tồn tại hay đang bị xử lý
	exists, existsErr := s.DocumentExists(ctx, bson.M{"_id": docID, "ownerId": ownerID})
	if existsErr != nil {
		return zero, existsErr
	}
	if exists {
		return zero, common.ErrAlreadyProcessing
	}
	return zero, common.ErrNotFound
}

// FinishSuccess chuyển document sang trạng thái completed sau một lần chạy thành công.
// hasIdeas luôn được suy ra từ ideasCount để giữ bất biến hasIdeas == (ideasCount > 0).
func (s *ContentDocumentService) FinishSuccess(ctx context.Context, docID primitive.ObjectID, ideasCount int) error {
	update := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"ideationStatus": ideationmodels.IdeationStatusCompleted,
			"hasIdeas":       ideasCount > 0,
			"ideasCount":     ideasCount,
		},
		Unset: map[string]interface{}{
			"processingStartedAt": "",
			"lastIdeationError":   "",
		},
	}
	_, err := s.UpdateById(ctx, docID, update)
	return err
}

// FinishFailure chuyển document sang trạng thái failed kèm lý do.
// Kết quả của lần chạy thành công trước đó (hasIdeas, ideasCount) được giữ nguyên.
func (s *ContentDocumentService) FinishFailure(ctx context.Context, docID primitive.ObjectID, reason string) error {
	update := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"ideationStatus":    ideationmodels.IdeationStatusFailed,
			"lastIdeationError": reason,
		},
		Unset: map[string]interface{}{
			"processingStartedAt": "",
		},
	}
	_, err := s.UpdateById(ctx, docID, update)
	return err
}

// GetIdeationStatus lấy snapshot trạng thái ideation của một document.
// Document chưa từng chạy pipeline trả về trạng thái idle mặc định.
func (s *ContentDocumentService) GetIdeationStatus(ctx context.Context, ownerID, docID primitive.ObjectID) (*IdeationStatusResult, error) {
	doc, err := s.FindOne(ctx, bson.M{"_id": docID, "ownerId": ownerID}, nil)
	if err != nil {
		return nil, err
	}

	status := doc.IdeationStatus
	if status == "" {
		status = ideationmodels.IdeationStatusIdle
	}

	return &IdeationStatusResult{
		DocumentID: doc.ID,
		Status:     status,
		HasIdeas:   doc.HasIdeas,
		IdeasCount: doc.IdeasCount,
		LastError:  doc.LastIdeationError,
	}, nil
}

// ReleaseStuckProcessing chuyển các document kẹt ở trạng thái processing quá lâu
// sang failed. Dùng bởi background worker để thu hồi các lần chạy mồ côi
// (server restart giữa chừng). Kết quả sinh ý tưởng của lần chạy đó chấp nhận mất.
func (s *ContentDocumentService) ReleaseStuckProcessing(ctx context.Context, timeoutSeconds int64) (int64, error) {
	cutoff := time.Now().Add(-time.Duration(timeoutSeconds) * time.Second).UnixMilli()
	filter := bson.M{
		"ideationStatus":      ideationmodels.IdeationStatusProcessing,
		"processingStartedAt": bson.M{"$lt": cutoff},
	}
	update := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"ideationStatus":    ideationmodels.IdeationStatusFailed,
			"lastIdeationError": "processing timed out",
		},
		Unset: map[string]interface{}{
			"processingStartedAt": "",
		},
	}
	return s.UpdateMany(ctx, filter, update, nil)
}

// IdeationStatusResult là snapshot trạng thái ideation trả về cho client
type IdeationStatusResult struct {
	DocumentID primitive.ObjectID `json:"documentId"`
	Status     string             `json:"status"`
	HasIdeas   bool               `json:"hasIdeas"`
	IdeasCount int                `json:"ideasCount"`
	LastError  string             `json:"lastError,omitempty"`
}
