package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/riskibarqy/pitch-booking/internal/config"
	"github.com/riskibarqy/pitch-booking/internal/platform/logging"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "pitch-booking-api",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestInitUptrace_EnabledWithoutDSNIsNoop(t *testing.T) {
	shutdown, err := InitUptrace(config.Config{UptraceEnabled: true, UptraceDSN: "  "}, nil)
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestStart_AllDisabled(t *testing.T) {
	rt, err := Start(config.Config{ServiceName: "pitch-booking-api"}, logging.NewNop())
	if err != nil {
		t.Fatalf("start observability: %v", err)
	}
	if rt.pprof != nil {
		t.Fatalf("expected no pprof server when disabled")
	}
	if err := rt.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown observability: %v", err)
	}
}

func TestRuntime_NilShutdown(t *testing.T) {
	var rt *Runtime
	if err := rt.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown nil runtime: %v", err)
	}
}

func TestPprofMux_ServesIndex(t *testing.T) {
	rec := httptest.NewRecorder()
	newPprofMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from pprof index, got %d", rec.Code)
	}
}

func TestServiceAttributes_DescribeLineupSource(t *testing.T) {
	cfg := config.Config{
		AppEnv:             config.EnvStage,
		ServiceName:        "pitch-booking-api",
		ServiceVersion:     "1.4.0",
		LineupSource:       config.SourceAPI,
		BookingAPIBaseURL:  "https://booking.example.com/api",
		EditorHistoryLimit: 10,
		EditorSyncWorkers:  16,
		CacheEnabled:       true,
	}

	got := map[string]string{}
	for _, kv := range serviceAttributes(cfg) {
		got[string(kv.Key)] = kv.Value.Emit()
	}
	want := map[string]string{
		"service.namespace":    "pitch-booking",
		"lineup.source":        "api",
		"lineup.history_limit": "10",
		"lineup.cache_enabled": "true",
		"booking_api.host":     "booking.example.com",
	}
	for key, value := range want {
		if got[key] != value {
			t.Fatalf("attribute %s=%q want=%q (all=%v)", key, got[key], value, got)
		}
	}

	tags := profileTags(cfg)
	if tags["lineup_source"] != "api" || tags["lineup_sync_workers"] != "16" || tags["lineup_nats_notices"] != "false" || tags["env"] != config.EnvStage {
		t.Fatalf("unexpected profile tags: %v", tags)
	}
	for key := range tags {
		if strings.Contains(key, ".") {
			t.Fatalf("profile tag %q contains a dot", key)
		}
	}
}

func TestServiceAttributes_MemorySourceHasNoAPIHost(t *testing.T) {
	for _, kv := range serviceAttributes(config.Config{LineupSource: config.SourceMemory}) {
		if kv.Key == "booking_api.host" {
			t.Fatalf("did not expect booking_api.host for memory source")
		}
	}
}

func TestUptraceDisabledReason(t *testing.T) {
	tests := map[string]config.Config{
		"UPTRACE_ENABLED=false": {UptraceEnabled: false, UptraceDSN: "https://t@api.uptrace.dev"},
		"UPTRACE_DSN empty":     {UptraceEnabled: true, UptraceDSN: " "},
		"":                      {UptraceEnabled: true, UptraceDSN: "https://t@api.uptrace.dev"},
	}
	for want, cfg := range tests {
		if got := uptraceDisabledReason(cfg); got != want {
			t.Fatalf("uptraceDisabledReason()=%q want=%q", got, want)
		}
	}
}
