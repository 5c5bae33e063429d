package session

import (
	"strings"
	"testing"

	"ai-helpdesk-be/internal/constant"

	"github.com/stretchr/testify/assert"
)

func TestTitleFromFirstMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "short message is kept verbatim",
			message: "What is the leave policy?",
			want:    "What is the leave policy?",
		},
		{
			name:    "long message is truncated with ellipsis",
			message: strings.Repeat("a", 80),
			want:    strings.Repeat("a", constant.SessionTitleMaxLen) + "...",
		},
		{
			name:    "exactly at the limit stays untouched",
			message: strings.Repeat("b", constant.SessionTitleMaxLen),
			want:    strings.Repeat("b", constant.SessionTitleMaxLen),
		},
		{
			name:    "empty message stays empty",
			message: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleFromFirstMessage(tt.message, constant.SessionTitleMaxLen))
		})
	}
}

func TestTitleFromFirstMessageRuneSafe(t *testing.T) {
	message := strings.Repeat("日", 60)
	title := TitleFromFirstMessage(message, constant.SessionTitleMaxLen)

	assert.Equal(t, strings.Repeat("日", constant.SessionTitleMaxLen)+"...", title)
	for _, r := range title {
		assert.NotEqual(t, '�', r, "truncation must not split a rune")
	}
}
