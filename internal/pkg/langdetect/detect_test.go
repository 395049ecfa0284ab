package langdetect

import "testing"

// 用文字系统独占的语言做断言，探测结果是确定的
func TestDetectScriptLanguages(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"नमस्ते, आप कैसे हैं? मुझे बताइए", "hi"},
		{"Καλημέρα σας, τι κάνετε σήμερα;", "el"},
		{"안녕하세요 오늘 날씨가 좋네요", "ko"},
		{"שלום לך, מה שלומך היום", "he"},
		{"สวัสดีครับ วันนี้อากาศดีมาก", "th"},
	}
	for _, tc := range cases {
		if got := Detect(tc.text, "en"); got != tc.want {
			t.Errorf("Detect(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestDetectShortTextFallsBack(t *testing.T) {
	if got := Detect("ok", "hi"); got != "hi" {
		t.Errorf("short text must fall back, got %q", got)
	}
	if got := Detect("   ", "ta"); got != "ta" {
		t.Errorf("blank text must fall back, got %q", got)
	}
}

func TestDetectUnknownFallsBack(t *testing.T) {
	// 数字串探测不出语言
	if got := Detect("12345 67890 24680", "en"); got != "en" {
		t.Errorf("undetectable text must fall back, got %q", got)
	}
}
