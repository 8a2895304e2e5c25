package ideationdto

// BusinessContextUpsertInput dữ liệu đầu vào khi tạo/cập nhật business context của owner
type BusinessContextUpsertInput struct {
	Industry       string `json:"industry,omitempty" validate:"omitempty,no_xss" maxLength:"200"`
	TargetAudience string `json:"targetAudience,omitempty" validate:"omitempty,no_xss" maxLength:"500"`
	BrandVoice     string `json:"brandVoice,omitempty" validate:"omitempty,no_xss" maxLength:"500"`
	Goals          string `json:"goals,omitempty" validate:"omitempty,no_xss" maxLength:"1000"`
}
