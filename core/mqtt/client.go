// Package mqtt declares how finished month summaries are pushed to broker
// subscribers such as wall dashboards.
package mqtt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kilianp07/examgrid/core/model"
)

// ErrNotConnected is returned when publishing without a broker connection.
var ErrNotConnected = errors.New("mqtt client not connected")

// Publisher sends a month summary to its retained topic.
type Publisher interface {
	PublishSummary(ctx context.Context, s model.Summary) error
}

// DefaultPrefix is used when no topic prefix is configured.
const DefaultPrefix = "examgrid"

// SummaryTopic returns <prefix>/summary/<year>-<month>, month zero-padded.
func SummaryTopic(prefix string, year, month int) string {
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s/summary/%04d-%02d", prefix, year, month)
}
