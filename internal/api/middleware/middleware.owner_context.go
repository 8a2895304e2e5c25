package middleware

import (
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"content_pilot/internal/common"
)

// OwnerContext middleware đọc X-Owner-ID từ header và lưu vào request context.
// Mọi dữ liệu trong hệ thống đều thuộc về một owner, các handler dựa vào
// owner_id trong context để scope truy vấn và gán quyền sở hữu khi tạo mới.
func OwnerContext() fiber.Handler {
	return func(c fiber.Ctx) error {
		ownerIDStr := c.Get("X-Owner-ID")
		if ownerIDStr == "" {
			return HandleErrorResponse(c, common.NewError(
				common.ErrCodeValidationInput,
				"Thiếu header X-Owner-ID",
				common.StatusUnauthorized,
				nil,
			))
		}

		ownerID, err := primitive.ObjectIDFromHex(ownerIDStr)
		if err != nil {
			return HandleErrorResponse(c, common.NewError(
				common.ErrCodeValidationInput,
				"X-Owner-ID không phải ObjectID hợp lệ",
				common.StatusUnauthorized,
				err,
			))
		}

		c.Locals("owner_id", ownerID.Hex())
		return c.Next()
	}
}
