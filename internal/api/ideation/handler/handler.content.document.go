package ideationhdl

import (
	"context"
	"fmt"

	basehdl "content_pilot/internal/api/base/handler"
	basesvc "content_pilot/internal/api/base/service"
	ideationdto "content_pilot/internal/api/ideation/dto"
	ideationmodels "content_pilot/internal/api/ideation/models"
	ideationsvc "content_pilot/internal/api/ideation/service"
	"content_pilot/internal/common"
	"content_pilot/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentDocumentHandler xử lý các request liên quan đến content documents
// và pipeline sinh ý tưởng trên chúng
type ContentDocumentHandler struct {
	*basehdl.BaseHandler[ideationmodels.ContentDocument, ideationdto.ContentDocumentCreateInput, ideationdto.ContentDocumentUpdateInput]
	DocumentService *ideationsvc.ContentDocumentService
	Pipeline        *ideationsvc.IdeationPipeline
}

// NewContentDocumentHandler tạo mới ContentDocumentHandler
func NewContentDocumentHandler(pipeline *ideationsvc.IdeationPipeline) (*ContentDocumentHandler, error) {
	documentService, err := ideationsvc.NewContentDocumentService()
	if err != nil {
		return nil, fmt.Errorf("failed to create content document service: %v", err)
	}
	hdl := &ContentDocumentHandler{
		DocumentService: documentService,
		Pipeline:        pipeline,
	}
	hdl.BaseHandler = basehdl.NewBaseHandler[ideationmodels.ContentDocument, ideationdto.ContentDocumentCreateInput, ideationdto.ContentDocumentUpdateInput](
		documentService.BaseServiceMongoImpl,
		mapDocumentCreate,
		mapDocumentUpdate,
	)
	return hdl, nil
}

// mapDocumentCreate chuyển DTO tạo mới sang model
func mapDocumentCreate(input *ideationdto.ContentDocumentCreateInput) (*ideationmodels.ContentDocument, error) {
	docType := input.Type
	if docType == "" {
		docType = ideationmodels.DocumentTypeDocument
	}
	return &ideationmodels.ContentDocument{
		Title:   input.Title,
		Content: input.Content,
		Type:    docType,
		Purpose: input.Purpose,
	}, nil
}

// mapDocumentUpdate chuyển DTO cập nhật sang UpdateData, chỉ set các field có giá trị
func mapDocumentUpdate(input *ideationdto.ContentDocumentUpdateInput) (*basesvc.UpdateData, error) {
	update := &basesvc.UpdateData{Set: map[string]interface{}{}}
	if input.Title != nil {
		update.Set["title"] = *input.Title
	}
	if input.Content != nil {
		update.Set["content"] = *input.Content
	}
	if input.Type != nil {
		update.Set["type"] = *input.Type
	}
	if input.Purpose != nil {
		update.Set["purpose"] = *input.Purpose
	}
	if len(update.Set) == 0 {
		return nil, common.NewError(common.ErrCodeValidationInput, "Không có trường nào để cập nhật", common.StatusBadRequest, nil)
	}
	return update, nil
}

// GenerateIdeas chạy pipeline sinh ý tưởng cho document.
// Mặc định pipeline chạy đồng bộ trong request: claim trạng thái, sanitize
// nội dung, gọi dịch vụ sinh ý tưởng và lưu kết quả.
// Với ?mode=background pipeline chạy nền, trả về 202 ngay; client theo dõi
// tiến trình qua GET /documents/:id/ideation-status.
// @Router /documents/:id/generate-ideas [post]
func (h *ContentDocumentHandler) GenerateIdeas(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		docID, err := primitive.ObjectIDFromHex(h.GetIDFromContext(c))
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "ID không hợp lệ", common.StatusBadRequest, err))
			return nil
		}

		ownerID, err := h.GetOwnerID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		if c.Query("mode") == "background" {
			// Request context kết thúc ngay sau khi trả 202, pipeline cần context riêng
			go func() {
				if _, err := h.Pipeline.Run(context.Background(), ownerID, docID); err != nil {
					logger.GetAppLogger().WithError(err).WithFields(map[string]interface{}{
						"documentId": docID.Hex(),
						"ownerId":    ownerID.Hex(),
					}).Error("💡 [IDEATION] Background pipeline run failed")
				}
			}()
			basehdl.HandleAccepted(c, fiber.Map{"documentId": docID.Hex()})
			return nil
		}

		result, err := h.Pipeline.Run(c.Context(), ownerID, docID)
		h.HandleResponse(c, result, err)
		return nil
	})
}

// GetIdeationStatus trả về trạng thái pipeline của document.
// Document chưa từng chạy pipeline trả về trạng thái idle.
// @Router /documents/:id/ideation-status [get]
func (h *ContentDocumentHandler) GetIdeationStatus(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		docID, err := primitive.ObjectIDFromHex(h.GetIDFromContext(c))
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "ID không hợp lệ", common.StatusBadRequest, err))
			return nil
		}

		ownerID, err := h.GetOwnerID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		status, err := h.DocumentService.GetIdeationStatus(c.Context(), ownerID, docID)
		h.HandleResponse(c, status, err)
		return nil
	})
}
