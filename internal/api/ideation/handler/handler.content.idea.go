package ideationhdl

import (
	"fmt"

	basehdl "content_pilot/internal/api/base/handler"
	basesvc "content_pilot/internal/api/base/service"
	ideationdto "content_pilot/internal/api/ideation/dto"
	ideationmodels "content_pilot/internal/api/ideation/models"
	ideationsvc "content_pilot/internal/api/ideation/service"
	"content_pilot/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentIdeaHandler xử lý các request liên quan đến ý tưởng nội dung
type ContentIdeaHandler struct {
	*basehdl.BaseHandler[ideationmodels.ContentIdea, ideationdto.ContentIdeaCreateInput, ideationdto.ContentIdeaUpdateInput]
	IdeaService *ideationsvc.ContentIdeaService
}

// NewContentIdeaHandler tạo mới ContentIdeaHandler
func NewContentIdeaHandler() (*ContentIdeaHandler, error) {
	ideaService, err := ideationsvc.NewContentIdeaService()
	if err != nil {
		return nil, fmt.Errorf("failed to create content idea service: %v", err)
	}
	hdl := &ContentIdeaHandler{
		IdeaService: ideaService,
	}
	hdl.BaseHandler = basehdl.NewBaseHandler[ideationmodels.ContentIdea, ideationdto.ContentIdeaCreateInput, ideationdto.ContentIdeaUpdateInput](
		ideaService.BaseServiceMongoImpl,
		mapIdeaCreate,
		mapIdeaUpdate,
	)
	return hdl, nil
}

// mapIdeaCreate chuyển DTO tạo mới sang model, ý tưởng tạo thủ công cũng bắt đầu ở pending
func mapIdeaCreate(input *ideationdto.ContentIdeaCreateInput) (*ideationmodels.ContentIdea, error) {
	docID, err := primitive.ObjectIDFromHex(input.DocumentID)
	if err != nil {
		return nil, common.NewError(common.ErrCodeValidationInput, "documentId không hợp lệ", common.StatusBadRequest, err)
	}
	return &ideationmodels.ContentIdea{
		DocumentID:  docID,
		Title:       input.Title,
		Description: input.Description,
		Angle:       input.Angle,
		Notes:       input.Notes,
		Status:      ideationmodels.IdeaStatusPending,
	}, nil
}

// mapIdeaUpdate chuyển DTO cập nhật sang UpdateData, chỉ set các field có giá trị
func mapIdeaUpdate(input *ideationdto.ContentIdeaUpdateInput) (*basesvc.UpdateData, error) {
	update := &basesvc.UpdateData{Set: map[string]interface{}{}}
	if input.Title != nil {
		update.Set["title"] = *input.Title
	}
	if input.Description != nil {
		update.Set["description"] = *input.Description
	}
	if input.Angle != nil {
		update.Set["angle"] = *input.Angle
	}
	if input.Notes != nil {
		update.Set["notes"] = *input.Notes
	}
	if input.Status != nil {
		update.Set["status"] = *input.Status
	}
	if len(update.Set) == 0 {
		return nil, common.NewError(common.ErrCodeValidationInput, "Không có trường nào để cập nhật", common.StatusBadRequest, nil)
	}
	return update, nil
}

// Reject chuyển ý tưởng sang trạng thái rejected.
// Retention hook sẽ tự áp giới hạn rejected ideas cho owner sau khi update thành công.
// @Router /ideas/:id/reject [post]
func (h *ContentIdeaHandler) Reject(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		ideaID, err := primitive.ObjectIDFromHex(h.GetIDFromContext(c))
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "ID không hợp lệ", common.StatusBadRequest, err))
			return nil
		}

		ownerID, err := h.GetOwnerID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		idea, err := h.IdeaService.Reject(c.Context(), ownerID, ideaID)
		h.HandleResponse(c, idea, err)
		return nil
	})
}
