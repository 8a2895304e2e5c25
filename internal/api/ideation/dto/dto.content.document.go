package ideationdto

// ContentDocumentCreateInput dữ liệu đầu vào khi tạo content document
type ContentDocumentCreateInput struct {
	Title   string `json:"title" validate:"required,no_xss" maxLength:"500"`
	Content string `json:"content"`
	Type    string `json:"type,omitempty" validate:"omitempty,oneof=transcript document newsletter other"`
	Purpose string `json:"purpose,omitempty" validate:"omitempty,no_xss" maxLength:"500"`
}

// ContentDocumentUpdateInput dữ liệu đầu vào khi cập nhật content document
type ContentDocumentUpdateInput struct {
	Title   *string `json:"title,omitempty" validate:"omitempty,no_xss" maxLength:"500"`
	Content *string `json:"content,omitempty"`
	Type    *string `json:"type,omitempty" validate:"omitempty,oneof=transcript document newsletter other"`
	Purpose *string `json:"purpose,omitempty" validate:"omitempty,no_xss" maxLength:"500"`
}

// ContentDocumentIDParams params từ URL chứa ID của document
type ContentDocumentIDParams struct {
	ID string `uri:"id" validate:"required"`
}
