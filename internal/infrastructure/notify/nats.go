package notify

import (
	"context"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/nats-io/nats.go"
	"github.com/riskibarqy/pitch-booking/internal/platform/logging"
	"go.opentelemetry.io/otel/trace"
)

const DefaultNATSSubject = "pitch-booking.lineup.notices"

// Publisher is the subset of *nats.Conn used by the notifier.
type Publisher interface {
	Publish(subject string, data []byte) error
}

type natsEvent struct {
	Notice
	TraceID string `json:"trace_id,omitempty"`
}

type NATSNotifier struct {
	sink
	pub     Publisher
	subject string
	logger  *logging.Logger
}

func NewNATSNotifier(pub Publisher, subject string, logger *logging.Logger) *NATSNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = DefaultNATSSubject
	}

	n := &NATSNotifier{pub: pub, subject: subject, logger: logger}
	n.sink = sink{now: time.Now, emit: n.publish}
	return n
}

// ConnectNATS dials the server with reconnects enabled.
func ConnectNATS(url, name string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, crerr.Wrapf(err, "connect nats url=%s", url)
	}
	return conn, nil
}

// publish never fails the caller; notices are best effort.
func (n *NATSNotifier) publish(ctx context.Context, notice Notice) {
	event := natsEvent{Notice: notice}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		event.TraceID = sc.TraceID().String()
	}

	data, err := sonic.Marshal(event)
	if err != nil {
		n.logger.WarnContext(ctx, "marshal lineup notice failed", "error", err)
		return
	}
	if err := n.pub.Publish(n.subject, data); err != nil {
		n.logger.WarnContext(ctx, "publish lineup notice failed", "subject", n.subject, "error", err)
	}
}
