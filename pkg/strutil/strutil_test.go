package strutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "빈 문자열", in: "", want: ""},
		{name: "3자 이하", in: "abc", want: "***"},
		{name: "12자 이하", in: "ck_1234", want: "ck_1***"},
		{name: "긴 키", in: "ck_1234567890abcd", want: "ck_1***abcd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mask(tt.in))
		})
	}
}
