// Package ideationsvc - Test SanitizeContent: strip markup + chuẩn hóa whitespace.
package ideationsvc

import "testing"

func TestSanitizeContent(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strip html tags",
			input: "<p>Hello</p> <b>World</b>",
			want:  "Hello World",
		},
		{
			name:  "plain text giữ nguyên",
			input: "Hello World",
			want:  "Hello World",
		},
		{
			name:  "chuỗi rỗng",
			input: "",
			want:  "",
		},
		{
			name:  "chỉ có markup",
			input: "<div><br/><span></span></div>",
			want:  "",
		},
		{
			name:  "chỉ có whitespace",
			input: "   \n\t  ",
			want:  "",
		},
		{
			name:  "tag có attributes",
			input: `<a href="https://example.com" target="_blank">link</a>`,
			want:  "link",
		},
		{
			name:  "collapse whitespace nhiều loại",
			input: "a\n\n  b\tc",
			want:  "a b c",
		},
		{
			name:  "tag liền kề không dính chữ",
			input: "trước<br>sau",
			want:  "trước sau",
		},
		{
			name:  "trim đầu cuối",
			input: "  <h1>Tiêu đề</h1>  ",
			want:  "Tiêu đề",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SanitizeContent(tc.input)
			if got != tc.want {
				t.Errorf("SanitizeContent(%q) = %q, muốn %q", tc.input, got, tc.want)
			}
		})
	}
}

// Sanitize là total function: gọi lại lần hai trên output phải cho cùng kết quả
func TestSanitizeContent_Idempotent(t *testing.T) {
	inputs := []string{
		"<p>Hello</p> <b>World</b>",
		"plain text",
		"  nhiều   khoảng   trắng  ",
	}
	for _, in := range inputs {
		once := SanitizeContent(in)
		twice := SanitizeContent(once)
		if once != twice {
			t.Errorf("SanitizeContent không idempotent với %q: lần 1 %q, lần 2 %q", in, once, twice)
		}
	}
}
