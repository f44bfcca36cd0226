package cli

import (
	"testing"

	"github.com/ardnew/aprop/log"
)

func TestLogConfig_Scan(t *testing.T) {
	saved := log.Default()
	t.Cleanup(func() { log.SetDefault(saved) })

	tests := []struct {
		name   string
		args   []string
		want   logConfig
		wantLv log.Level
	}{
		{
			name:   "separate_values",
			args:   []string{"resolve", "--log-level", "debug", "--log-format", "text", "x"},
			want:   logConfig{Level: "debug", Format: "text"},
			wantLv: log.LevelDebug,
		},
		{
			name:   "assigned_values",
			args:   []string{"--log-level=trace", "--log-caller", "--no-log-pretty"},
			want:   logConfig{Level: "trace", Caller: true},
			wantLv: log.LevelTrace,
		},
		{
			name:   "negated_assignment",
			args:   []string{"--log-level=warn", "--no-log-caller=false", "--log-pretty=false"},
			want:   logConfig{Level: "warn", Caller: true},
			wantLv: log.LevelWarn,
		},
		{
			name:   "stops_at_terminator",
			args:   []string{"--log-level=error", "--", "--log-level=debug"},
			want:   logConfig{Level: "error"},
			wantLv: log.LevelError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f logConfig

			f.scan(tt.args)

			if f != tt.want {
				t.Errorf("scan() = %+v, want %+v", f, tt.want)
			}

			if lv := log.Default().Level(); lv != tt.wantLv {
				t.Errorf("level = %v, want %v", lv, tt.wantLv)
			}
		})
	}
}
