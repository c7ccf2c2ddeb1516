package shell

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReplaceEnvVars(t *testing.T) {
	t.Setenv("RTMP_HOST", "10.0.0.1")
	t.Setenv("RTMP_EMPTY", "")

	tests := []struct {
		text   string
		expect string
	}{
		{"rtmp://${RTMP_HOST}/live", "rtmp://10.0.0.1/live"},
		{"rtmp://${RTMP_HOST:localhost}/live", "rtmp://10.0.0.1/live"},
		{"rtmp://${RTMP_MISSING:localhost}/live", "rtmp://localhost/live"},
		{"rtmp://${RTMP_MISSING}/live", "rtmp://${RTMP_MISSING}/live"},
		{"key: ${RTMP_EMPTY:default}", "key: "},
		{"url: ${RTMP_MISSING:rtmp://a:1935/b}", "url: rtmp://a:1935/b"},
		{"no vars", "no vars"},
	}

	for _, test := range tests {
		require.Equal(t, test.expect, ReplaceEnvVars(test.text))
	}
}
