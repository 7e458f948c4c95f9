package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantDebug bool
		wantErr   bool
	}{
		{name: "default level is info", level: "", wantDebug: false},
		{name: "debug level", level: "debug", wantDebug: true},
		{name: "case and spaces", level: " DEBUG ", wantDebug: true},
		{name: "unknown level", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			var buf bytes.Buffer

			l, err := New(Options{Level: tt.level, Writer: &buf})
			if tt.wantErr {
				req.Error(err)
				return
			}
			req.NoError(err)

			l.Debug().Msg("debug line")
			l.Info().Str("component", "test").Msg("info line")

			lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
			if tt.wantDebug {
				req.Len(lines, 2)
			} else {
				req.Len(lines, 1)
			}

			var entry map[string]any
			req.NoError(json.Unmarshal(lines[len(lines)-1], &entry))
			req.Equal("info line", entry["message"])
			req.Equal("test", entry["component"])
		})
	}
}

func TestOpenFile(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "nested", "chatpanel.log")

	f, err := OpenFile(path)
	req.NoError(err)
	defer f.Close()

	l, err := New(Options{Writer: f})
	req.NoError(err)
	l.Info().Msg("written")

	req.FileExists(path)
}
