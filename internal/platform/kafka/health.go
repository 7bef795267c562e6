package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// HealthChecker reports whether any seed broker accepts TCP connections. It
// does not need a client, so readiness works before the producer connects.
type HealthChecker struct {
	brokers []string
	timeout time.Duration
}

// NewHealthChecker parses a comma-separated broker list.
func NewHealthChecker(brokers string) *HealthChecker {
	h := &HealthChecker{timeout: 5 * time.Second}
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			h.brokers = append(h.brokers, b)
		}
	}
	return h
}

// Check returns nil once one broker is reachable. It satisfies health.CheckFunc.
func (h *HealthChecker) Check(ctx context.Context) error {
	if len(h.brokers) == 0 {
		return errors.New("kafka brokers not configured")
	}

	dialer := net.Dialer{Timeout: h.timeout}
	var lastErr error
	for _, broker := range h.brokers {
		conn, err := dialer.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}
		_ = conn.Close()
		return nil
	}
	return fmt.Errorf("no kafka brokers reachable: %w", lastErr)
}
