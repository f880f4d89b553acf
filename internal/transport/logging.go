// SPDX-License-Identifier: MIT
package transport

import (
	"encoding/json"

	applog "audiotrim/internal/log"
)

// LoggingTransport implements the Transport interface by logging each event
// at debug level.
type LoggingTransport struct{}

// NewLoggingTransport creates a new LoggingTransport instance.
func NewLoggingTransport() *LoggingTransport {
	return &LoggingTransport{}
}

// Send logs the event as JSON, or with %+v when it cannot be marshaled.
func (lt *LoggingTransport) Send(data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		applog.Debugf("event (%T): %+v", data, data)
		return nil
	}
	applog.Debugf("event: %s", jsonData)
	return nil
}

// Close is a no-op for LoggingTransport.
func (lt *LoggingTransport) Close() error {
	return nil
}

var _ Transport = (*LoggingTransport)(nil)
