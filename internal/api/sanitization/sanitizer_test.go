package sanitization

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"<b>", "&lt;b&gt;"},
		{"<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{`Tom & "Jerry"`, "Tom &amp; &quot;Jerry&quot;"},
		{"it's", "it&#039;s"},
		{"&lt;", "&amp;lt;"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeHTML(tt.in))
		})
	}
}

func TestEscapeHTMLIsSinglePass(t *testing.T) {
	once := EscapeHTML("<b>")
	assert.Equal(t, "&lt;b&gt;", once)
	assert.Equal(t, "&amp;lt;b&amp;gt;", EscapeHTML(once))
}
