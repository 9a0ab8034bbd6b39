package observability

import (
	"net/url"
	"strconv"

	"github.com/riskibarqy/pitch-booking/internal/config"
	"go.opentelemetry.io/otel/attribute"
)

const serviceNamespace = "pitch-booking"

// serviceAttributes describe how this instance edits lineups. Traces and
// profiles carry the same set so they can be joined per source.
func serviceAttributes(cfg config.Config) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("service.namespace", serviceNamespace),
		attribute.String("lineup.source", cfg.LineupSource),
		attribute.Int("lineup.history_limit", cfg.EditorHistoryLimit),
		attribute.Int("lineup.sync_workers", cfg.EditorSyncWorkers),
		attribute.Bool("lineup.cache_enabled", cfg.CacheEnabled),
		attribute.Bool("lineup.nats_notices", cfg.NATSEnabled),
	}
	if cfg.LineupSource == config.SourceAPI {
		if u, err := url.Parse(cfg.BookingAPIBaseURL); err == nil && u.Host != "" {
			attrs = append(attrs, attribute.String("booking_api.host", u.Host))
		}
	}
	return attrs
}

// profileTags flattens serviceAttributes for pyroscope, which only takes
// string tags. Dots are not valid in tag names.
func profileTags(cfg config.Config) map[string]string {
	tags := map[string]string{
		"env":     cfg.AppEnv,
		"service": cfg.ServiceName,
		"version": cfg.ServiceVersion,
	}
	for _, kv := range serviceAttributes(cfg) {
		key := tagKey(string(kv.Key))
		switch kv.Value.Type() {
		case attribute.BOOL:
			tags[key] = strconv.FormatBool(kv.Value.AsBool())
		case attribute.INT64:
			tags[key] = strconv.FormatInt(kv.Value.AsInt64(), 10)
		default:
			tags[key] = kv.Value.AsString()
		}
	}
	return tags
}

func tagKey(key string) string {
	out := []byte(key)
	for i, c := range out {
		if c == '.' {
			out[i] = '_'
		}
	}
	return string(out)
}
