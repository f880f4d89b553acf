// SPDX-License-Identifier: MIT
package server

import (
	"time"

	applog "audiotrim/internal/log"
)

// TrimEvent is published for every trim request, successful or not.
type TrimEvent struct {
	ID     string    `json:"id"`
	Time   time.Time `json:"time"`
	Source string    `json:"source"`
	Start  float64   `json:"start"`
	End    float64   `json:"end"`
	Frames int       `json:"frames"`
	Bytes  int       `json:"bytes"`
	Status int       `json:"status"`
	Error  string    `json:"error,omitempty"`
}

func (s *Server) publish(ev TrimEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Send(ev); err != nil {
		applog.Warnf("server: publish trim event %s: %v", ev.ID, err)
	}
}
