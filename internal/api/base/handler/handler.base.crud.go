package basehdl

import (
	"content_pilot/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
)

// ====================================
// CRUD ENDPOINTS
// ====================================

// InsertOne xử lý request tạo mới một bản ghi.
// Flow: parse body → validate DTO → MapCreate sang model → gán ownerId từ context → insert.
func (h *BaseHandler[T, CreateInput, UpdateInput]) InsertOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		input := new(CreateInput)
		if err := h.ParseRequestBody(c, input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		if h.MapCreate == nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeInternalServer, "Handler chưa khai báo MapCreate", common.StatusInternalServerError, nil))
			return nil
		}
		model, err := h.MapCreate(input)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		// Gán owner từ context nếu model có phân quyền dữ liệu
		if h.hasOwnerIDField() {
			ownerID, err := h.GetOwnerID(c)
			if err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
			h.setOwnerID(model, ownerID)
		}

		data, err := h.BaseService.InsertOne(c.Context(), *model)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// FindOneById xử lý request lấy một bản ghi theo ID, có kiểm tra quyền sở hữu.
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindOneById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		idStr := h.GetIDFromContext(c)
		id, err := primitive.ObjectIDFromHex(idStr)
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "ID không hợp lệ", common.StatusBadRequest, err))
			return nil
		}

		if err := h.validateOwnerAccess(c, idStr); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := h.BaseService.FindOneById(c.Context(), id)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// FindOne xử lý request lấy một bản ghi theo filter từ query string.
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.processFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		scopedFilter, err := h.applyOwnerFilter(c, bson.M(filter))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		rawOpts, err := h.processMongoOptions(c, true)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		opts, _ := rawOpts.(*mongoopts.FindOneOptions)

		data, err := h.BaseService.FindOne(c.Context(), scopedFilter, opts)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// Find xử lý request lấy danh sách bản ghi theo filter, không phân trang.
func (h *BaseHandler[T, CreateInput, UpdateInput]) Find(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.processFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		scopedFilter, err := h.applyOwnerFilter(c, bson.M(filter))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		rawOpts, err := h.processMongoOptions(c, false)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		opts, _ := rawOpts.(*mongoopts.FindOptions)

		data, err := h.BaseService.Find(c.Context(), scopedFilter, opts)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// FindWithPagination xử lý request lấy danh sách bản ghi có phân trang.
// Hỗ trợ query params: filter, options (projection/sort), page, limit.
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindWithPagination(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.processFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		scopedFilter, err := h.applyOwnerFilter(c, bson.M(filter))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		rawOpts, err := h.processMongoOptions(c, false)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		opts, _ := rawOpts.(*mongoopts.FindOptions)

		page, limit := h.ParsePagination(c)

		data, err := h.BaseService.FindWithPagination(c.Context(), scopedFilter, page, limit, opts)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// UpdateById xử lý request cập nhật một bản ghi theo ID.
// Flow: parse body → validate DTO → MapUpdate sang UpdateData → kiểm tra quyền sở hữu → update.
func (h *BaseHandler[T, CreateInput, UpdateInput]) UpdateById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		idStr := h.GetIDFromContext(c)
		id, err := primitive.ObjectIDFromHex(idStr)
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "ID không hợp lệ", common.StatusBadRequest, err))
			return nil
		}

		input := new(UpdateInput)
		if err := h.ParseRequestBody(c, input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		if h.MapUpdate == nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeInternalServer, "Handler chưa khai báo MapUpdate", common.StatusInternalServerError, nil))
			return nil
		}
		update, err := h.MapUpdate(input)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		if err := h.validateOwnerAccess(c, idStr); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := h.BaseService.UpdateById(c.Context(), id, update)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// DeleteById xử lý request xóa một bản ghi theo ID, có kiểm tra quyền sở hữu.
func (h *BaseHandler[T, CreateInput, UpdateInput]) DeleteById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		idStr := h.GetIDFromContext(c)
		id, err := primitive.ObjectIDFromHex(idStr)
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "ID không hợp lệ", common.StatusBadRequest, err))
			return nil
		}

		if err := h.validateOwnerAccess(c, idStr); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err = h.BaseService.DeleteById(c.Context(), id)
		h.HandleResponse(c, nil, err)
		return nil
	})
}

// CountDocuments xử lý request đếm số bản ghi theo filter.
func (h *BaseHandler[T, CreateInput, UpdateInput]) CountDocuments(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.processFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		scopedFilter, err := h.applyOwnerFilter(c, bson.M(filter))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		count, err := h.BaseService.CountDocuments(c.Context(), scopedFilter)
		h.HandleResponse(c, fiber.Map{"count": count}, err)
		return nil
	})
}

// Distinct xử lý request lấy danh sách giá trị duy nhất của một trường.
func (h *BaseHandler[T, CreateInput, UpdateInput]) Distinct(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		fieldName := c.Query("field", "")
		if fieldName == "" {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Thiếu tham số field", common.StatusBadRequest, nil))
			return nil
		}
		if containsString(h.filterOptions.DeniedFields, fieldName) {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "Trường này không được phép truy vấn", common.StatusBadRequest, nil))
			return nil
		}

		filter, err := h.processFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		scopedFilter, err := h.applyOwnerFilter(c, bson.M(filter))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		values, err := h.BaseService.Distinct(c.Context(), fieldName, scopedFilter)
		h.HandleResponse(c, values, err)
		return nil
	})
}
