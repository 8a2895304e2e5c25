package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BusinessContext lưu thông tin doanh nghiệp của một owner, dùng làm ngữ cảnh
// khi sinh ý tưởng. Mỗi owner có tối đa một bản ghi.
type BusinessContext struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"` // ID của business context

	// ===== PROFILE =====
	Industry       string `json:"industry,omitempty" bson:"industry,omitempty"`             // Ngành nghề kinh doanh
	TargetAudience string `json:"targetAudience,omitempty" bson:"targetAudience,omitempty"` // Đối tượng khách hàng mục tiêu
	BrandVoice     string `json:"brandVoice,omitempty" bson:"brandVoice,omitempty"`         // Giọng điệu thương hiệu
	Goals          string `json:"goals,omitempty" bson:"goals,omitempty"`                   // Mục tiêu nội dung

	// ===== OWNER =====
	OwnerID primitive.ObjectID `json:"ownerId" bson:"ownerId" index:"unique"` // Mỗi owner chỉ có một business context

	// ===== METADATA =====
	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Thời gian tạo
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Thời gian cập nhật
}
