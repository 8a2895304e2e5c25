package ideationdto

// ContentIdeaCreateInput dữ liệu đầu vào khi tạo ý tưởng thủ công
type ContentIdeaCreateInput struct {
	DocumentID  string `json:"documentId" validate:"required,exists=content_documents"`
	Title       string `json:"title" validate:"required,no_xss" maxLength:"500"`
	Description string `json:"description" validate:"no_xss"`
	Angle       string `json:"angle,omitempty" validate:"omitempty,no_xss"`
	Notes       string `json:"notes,omitempty" validate:"omitempty,no_xss"`
}

// ContentIdeaUpdateInput dữ liệu đầu vào khi cập nhật ý tưởng
type ContentIdeaUpdateInput struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,no_xss" maxLength:"500"`
	Description *string `json:"description,omitempty" validate:"omitempty,no_xss"`
	Angle       *string `json:"angle,omitempty" validate:"omitempty,no_xss"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,no_xss"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=pending unreviewed approved drafted ready published rejected archived"`
}
