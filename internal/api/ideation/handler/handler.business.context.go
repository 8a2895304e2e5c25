package ideationhdl

import (
	"fmt"

	basehdl "content_pilot/internal/api/base/handler"
	basesvc "content_pilot/internal/api/base/service"
	ideationdto "content_pilot/internal/api/ideation/dto"
	ideationmodels "content_pilot/internal/api/ideation/models"
	ideationsvc "content_pilot/internal/api/ideation/service"

	"github.com/gofiber/fiber/v3"
)

// BusinessContextHandler xử lý các request liên quan đến business context của owner
type BusinessContextHandler struct {
	*basehdl.BaseHandler[ideationmodels.BusinessContext, ideationdto.BusinessContextUpsertInput, ideationdto.BusinessContextUpsertInput]
	ContextService *ideationsvc.BusinessContextService
}

// NewBusinessContextHandler tạo mới BusinessContextHandler
func NewBusinessContextHandler() (*BusinessContextHandler, error) {
	contextService, err := ideationsvc.NewBusinessContextService()
	if err != nil {
		return nil, fmt.Errorf("failed to create business context service: %v", err)
	}
	hdl := &BusinessContextHandler{
		ContextService: contextService,
	}
	hdl.BaseHandler = basehdl.NewBaseHandler[ideationmodels.BusinessContext, ideationdto.BusinessContextUpsertInput, ideationdto.BusinessContextUpsertInput](
		contextService.BaseServiceMongoImpl,
		nil,
		mapBusinessContextUpdate,
	)
	return hdl, nil
}

// mapBusinessContextUpdate chuyển DTO sang UpdateData cho upsert
func mapBusinessContextUpdate(input *ideationdto.BusinessContextUpsertInput) (*basesvc.UpdateData, error) {
	return &basesvc.UpdateData{Set: map[string]interface{}{
		"industry":       input.Industry,
		"targetAudience": input.TargetAudience,
		"brandVoice":     input.BrandVoice,
		"goals":          input.Goals,
	}}, nil
}

// Get trả về business context của owner trong context.
// @Router /business-context [get]
func (h *BusinessContextHandler) Get(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		ownerID, err := h.GetOwnerID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		bc, err := h.ContextService.GetByOwner(c.Context(), ownerID)
		h.HandleResponse(c, bc, err)
		return nil
	})
}

// Upsert tạo hoặc cập nhật business context của owner trong context.
// @Router /business-context [put]
func (h *BusinessContextHandler) Upsert(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		ownerID, err := h.GetOwnerID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		input := new(ideationdto.BusinessContextUpsertInput)
		if err := h.ParseRequestBody(c, input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		update, err := mapBusinessContextUpdate(input)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		bc, err := h.ContextService.UpsertByOwner(c.Context(), ownerID, update)
		h.HandleResponse(c, bc, err)
		return nil
	})
}
