package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IdeaStatus định nghĩa vòng đời của một ý tưởng nội dung
const (
	IdeaStatusPending    = "pending"    // Mới sinh ra, chưa được review
	IdeaStatusUnreviewed = "unreviewed" // Đã xem qua nhưng chưa quyết định
	IdeaStatusApproved   = "approved"   // Đã được duyệt để viết bài
	IdeaStatusDrafted    = "drafted"    // Đã có bản nháp
	IdeaStatusReady      = "ready"      // Bản nháp đã sẵn sàng xuất bản
	IdeaStatusPublished  = "published"  // Đã xuất bản
	IdeaStatusRejected   = "rejected"   // Bị loại, chịu giới hạn retention
	IdeaStatusArchived   = "archived"   // Lưu trữ, không hiển thị mặc định
)

// ContentIdea đại diện cho một ý tưởng nội dung được sinh ra từ một document.
type ContentIdea struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"` // ID của ý tưởng

	// ===== SOURCE =====
	DocumentID primitive.ObjectID `json:"documentId" bson:"documentId" index:"single:1;compound:ownerId_documentId"` // Document nguồn sinh ra ý tưởng

	// ===== CONTENT =====
	Title       string `json:"title" bson:"title"`                     // Tiêu đề ý tưởng
	Description string `json:"description" bson:"description"`         // Mô tả chi tiết ý tưởng
	Angle       string `json:"angle,omitempty" bson:"angle,omitempty"` // Góc tiếp cận nội dung (tùy chọn)
	Notes       string `json:"notes,omitempty" bson:"notes,omitempty"` // Ghi chú tự do của người review

	// ===== STATUS =====
	Status string `json:"status" bson:"status" index:"single:1;compound:ownerId_status" default:"pending"` // Trạng thái: pending, unreviewed, approved, drafted, ready, published, rejected, archived

	// ===== OWNER =====
	OwnerID primitive.ObjectID `json:"ownerId" bson:"ownerId" index:"single:1;compound:ownerId_documentId;compound:ownerId_status"` // Owner sở hữu dữ liệu (phân quyền)

	// ===== METADATA =====
	CreatedAt int64 `json:"createdAt" bson:"createdAt" index:"single:1"` // Thời gian tạo, dùng để xếp hạng retention
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`                  // Thời gian cập nhật
}
