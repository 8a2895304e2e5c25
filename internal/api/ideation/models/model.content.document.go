package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IdeationStatus định nghĩa các trạng thái của pipeline sinh ý tưởng trên một document
const (
	IdeationStatusIdle       = "idle"       // Chưa từng chạy hoặc đã reset
	IdeationStatusProcessing = "processing" // Đang chạy pipeline
	IdeationStatusCompleted  = "completed"  // Lần chạy gần nhất thành công
	IdeationStatusFailed     = "failed"     // Lần chạy gần nhất thất bại
)

// DocumentType định nghĩa các loại tài liệu nguồn
const (
	DocumentTypeTranscript = "transcript" // Bản ghi cuộc họp, cuộc gọi
	DocumentTypeDocument   = "document"   // Tài liệu văn bản thông thường
	DocumentTypeNewsletter = "newsletter" // Bản tin
	DocumentTypeOther      = "other"      // Loại khác
)

// ContentDocument đại diện cho một tài liệu nguồn dùng để sinh ý tưởng nội dung.
// Mỗi document thuộc về một owner và giữ trạng thái ideation của lần chạy gần nhất.
type ContentDocument struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"` // ID của document

	// ===== CONTENT =====
	Title   string `json:"title" bson:"title"`                         // Tiêu đề document
	Content string `json:"content" bson:"content"`                     // Nội dung gốc (có thể chứa markup)
	Type    string `json:"type" bson:"type" default:"document"`        // Loại tài liệu: transcript, document, newsletter, other
	Purpose string `json:"purpose,omitempty" bson:"purpose,omitempty"` // Mục đích sử dụng tài liệu (tùy chọn)

	// ===== IDEATION STATE =====
	IdeationStatus      string `json:"ideationStatus" bson:"ideationStatus" index:"single:1;compound:ownerId_ideationStatus" default:"idle"` // Trạng thái pipeline: idle, processing, completed, failed
	HasIdeas            bool   `json:"hasIdeas" bson:"hasIdeas" default:"false"`                                   // Đã có ý tưởng được sinh ra chưa (luôn = ideasCount > 0)
	IdeasCount          int    `json:"ideasCount" bson:"ideasCount" default:"0"`                                   // Số ý tưởng của lần chạy thành công gần nhất
	ProcessingStartedAt *int64 `json:"processingStartedAt,omitempty" bson:"processingStartedAt,omitempty"`         // Thời điểm bắt đầu xử lý (UnixMilli), dùng để phát hiện stuck
	LastIdeationError   string `json:"lastIdeationError,omitempty" bson:"lastIdeationError,omitempty"`             // Lý do thất bại của lần chạy gần nhất

	// ===== OWNER =====
	OwnerID primitive.ObjectID `json:"ownerId" bson:"ownerId" index:"single:1;compound:ownerId_ideationStatus"` // Owner sở hữu dữ liệu (phân quyền)

	// ===== METADATA =====
	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Thời gian tạo
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Thời gian cập nhật
}
