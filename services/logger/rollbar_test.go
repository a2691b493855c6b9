package logsvc

import (
	"bytes"
	"log"
	"reflect"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/gradespark/core"
)

func newTestLogger(debug bool) (*RollbarLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Debug: debug, TestMode: true}), &buf
}

func TestRollbarLogger_prepare(t *testing.T) {
	logger, _ := newTestLogger(false)
	err := errors.New("boom")

	tests := []struct {
		name string
		args []interface{}
		want []interface{}
	}{
		{name: "message only", want: []interface{}{"msg"}},
		{name: "error", args: []interface{}{err}, want: []interface{}{"msg", err}},
		{
			name: "maps are merged",
			args: []interface{}{map[string]interface{}{"a": 1}, map[string]interface{}{"b": 2}},
			want: []interface{}{"msg", map[string]interface{}{"a": 1, "b": 2}},
		},
		{
			name: "other values go to args",
			args: []interface{}{err, "x", 3},
			want: []interface{}{"msg", err, map[string]interface{}{"args": []interface{}{"x", 3}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := logger.prepare("msg", tt.args); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("prepare() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRollbarLogger_levels(t *testing.T) {
	logger, buf := newTestLogger(false)
	logger.Debug("hidden")
	logger.Info("started", map[string]interface{}{"port": 8765})
	logger.Warn("careful")
	logger.Error("failed", errors.New("boom"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug entry printed outside debug mode: %q", out)
	}
	for _, want := range []string{"INFO: started", "map[port:8765]", "WARN: careful", "ERROR: failed", "boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}

	logger, buf = newTestLogger(true)
	logger.Debug("shown")
	if !strings.Contains(buf.String(), "DEBUG: shown") {
		t.Errorf("debug entry not printed in debug mode: %q", buf.String())
	}
}
