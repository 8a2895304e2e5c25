package ideationsvc

import (
	"regexp"
	"strings"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// SanitizeContent loại bỏ toàn bộ markup dạng <...> và chuẩn hóa whitespace.
// Hàm là total function: mọi input đều cho ra kết quả, không bao giờ lỗi.
// Input không có markup được trả về nguyên vẹn (sau khi chuẩn hóa whitespace).
func SanitizeContent(content string) string {
	stripped := tagPattern.ReplaceAllString(content, " ")
	collapsed := whitespacePattern.ReplaceAllString(stripped, " ")
	return strings.TrimSpace(collapsed)
}
