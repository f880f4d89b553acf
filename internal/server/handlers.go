// SPDX-License-Identifier: MIT
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"strconv"
	"time"

	applog "audiotrim/internal/log"
	"audiotrim/internal/pcm"
	"audiotrim/internal/presets"
	"audiotrim/internal/spectrum"
	"audiotrim/internal/trim"
	"audiotrim/internal/wav"
	"audiotrim/internal/waveform"
)

// Trim results used as the metrics label.
const (
	resultOK            = "ok"
	resultBadRequest    = "bad_request"
	resultUnknownPreset = "unknown_preset"
	resultTooLarge      = "too_large"
	resultDecodeError   = "decode_error"
	resultInvalidWindow = "invalid_window"
	resultEmptySignal   = "empty_signal"
	resultInternal      = "internal_error"
)

// InfoResponse describes an uploaded WAV file.
type InfoResponse struct {
	SampleRate      int     `json:"sample_rate"`
	Channels        int     `json:"channels"`
	Frames          int     `json:"frames"`
	DurationSeconds float64 `json:"duration_seconds"`
	Peak            float64 `json:"peak"`
	RMS             float64 `json:"rms"`
	DominantHz      float64 `json:"dominant_hz"`
}

// apiError pairs an HTTP status with the message and metrics label.
type apiError struct {
	status int
	result string
	err    error
}

func (e *apiError) Error() string { return e.err.Error() }

func newAPIError(status int, result string, err error) *apiError {
	return &apiError{status: status, result: result, err: err}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startTime).Round(time.Second).String(),
	})
}

// handleTrim implements POST /api/trim. The body is the WAV file; the window
// comes from start/end query parameters, a named preset, or both (explicit
// bounds override the preset).
func (s *Server) handleTrim(w http.ResponseWriter, r *http.Request) {
	began := time.Now()
	q := r.URL.Query()
	ev := TrimEvent{ID: s.newID(), Time: began.UTC(), Source: q.Get("name")}

	out, win, apiErr := s.trimRequest(w, r)
	elapsed := time.Since(began).Seconds()
	ev.Start, ev.End = win.Start, win.End

	if apiErr != nil {
		ev.Status, ev.Error = apiErr.status, apiErr.Error()
		s.metrics.RecordTrim(apiErr.result, elapsed, 0, 0)
		s.publish(ev)
		applog.Infof("server: trim %s rejected: %v", ev.ID, apiErr)
		writeError(w, apiErr.status, apiErr.Error())
		return
	}

	name := trim.OutputName(ev.Source, win)
	ev.Status, ev.Frames, ev.Bytes = http.StatusOK, out.Frames, len(out.Bytes)
	s.metrics.RecordTrim(resultOK, elapsed, len(out.Bytes), float64(out.Frames)/float64(out.SampleRate))
	s.publish(ev)

	h := w.Header()
	h.Set("Content-Type", out.MIMEType)
	h.Set("Content-Length", strconv.Itoa(len(out.Bytes)))
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	h.Set("X-Trim-ID", ev.ID)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.Bytes); err != nil {
		applog.Warnf("server: trim %s: write response: %v", ev.ID, err)
	}
}

func (s *Server) trimRequest(w http.ResponseWriter, r *http.Request) (*trim.Output, trim.Window, *apiError) {
	q := r.URL.Query()
	var win trim.Window
	haveEnd := false

	if name := q.Get("preset"); name != "" {
		if s.presets == nil {
			return nil, win, newAPIError(http.StatusNotFound, resultUnknownPreset, errors.New("presets are disabled"))
		}
		p, err := s.presets.Get(r.Context(), name)
		if errors.Is(err, presets.ErrNotFound) {
			return nil, win, newAPIError(http.StatusNotFound, resultUnknownPreset, fmt.Errorf("unknown preset %q", name))
		}
		if err != nil {
			return nil, win, newAPIError(http.StatusInternalServerError, resultInternal, err)
		}
		win, haveEnd = p.Window, true
	}

	if v := q.Get("start"); v != "" {
		f, err := parseSeconds("start", v)
		if err != nil {
			return nil, win, newAPIError(http.StatusBadRequest, resultBadRequest, err)
		}
		win.Start = f
	}
	if v := q.Get("end"); v != "" {
		f, err := parseSeconds("end", v)
		if err != nil {
			return nil, win, newAPIError(http.StatusBadRequest, resultBadRequest, err)
		}
		win.End, haveEnd = f, true
	}

	sig, apiErr := s.decodeBody(w, r)
	if apiErr != nil {
		return nil, win, apiErr
	}
	if !haveEnd {
		win.End = sig.Seconds()
	}

	out, err := trim.Trim(sig, win)
	switch {
	case err == nil:
		return out, win, nil
	case errors.Is(err, trim.ErrInvalidWindow):
		return nil, win, newAPIError(http.StatusBadRequest, resultInvalidWindow, err)
	case errors.Is(err, trim.ErrEmptySignal):
		return nil, win, newAPIError(http.StatusBadRequest, resultEmptySignal, err)
	default:
		return nil, win, newAPIError(http.StatusInternalServerError, resultInternal, err)
	}
}

// handleInfo implements POST /api/info.
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	sig, apiErr := s.decodeBody(w, r)
	if apiErr != nil {
		writeError(w, apiErr.status, apiErr.Error())
		return
	}

	stats := waveform.Measure(sig)
	writeJSON(w, http.StatusOK, InfoResponse{
		SampleRate:      sig.SampleRate,
		Channels:        sig.NumChannels(),
		Frames:          sig.Frames(),
		DurationSeconds: sig.Seconds(),
		Peak:            stats.Peak,
		RMS:             stats.RMS,
		DominantHz:      spectrum.NewAnalyzer(spectrum.DefaultSize).Dominant(sig),
	})
}

// decodeBody reads at most MaxUploadBytes of the request body and decodes it
// as WAV.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request) (*pcm.Signal, *apiError) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, newAPIError(http.StatusRequestEntityTooLarge, resultTooLarge,
				fmt.Errorf("upload exceeds %d bytes", tooLarge.Limit))
		}
		return nil, newAPIError(http.StatusBadRequest, resultBadRequest, fmt.Errorf("read body: %w", err))
	}

	sig, err := wav.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, newAPIError(http.StatusUnsupportedMediaType, resultDecodeError, err)
	}
	return sig, nil
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	if !s.presetsEnabled(w) {
		return
	}
	list, err := s.presets.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if list == nil {
		list = []presets.Preset{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	if !s.presetsEnabled(w) {
		return
	}
	p, err := s.presets.Get(r.Context(), r.PathValue("name"))
	if err != nil {
		writePresetError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handlePutPreset stores the JSON window {"start":..,"end":..} under the
// path name.
func (s *Server) handlePutPreset(w http.ResponseWriter, r *http.Request) {
	if !s.presetsEnabled(w) {
		return
	}

	var win trim.Window
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&win); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid window: %v", err))
		return
	}

	p, err := s.presets.Save(r.Context(), presets.Preset{Name: r.PathValue("name"), Window: win})
	if err != nil {
		writePresetError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	if !s.presetsEnabled(w) {
		return
	}
	if err := s.presets.Delete(r.Context(), r.PathValue("name")); err != nil {
		writePresetError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) presetsEnabled(w http.ResponseWriter) bool {
	if s.presets == nil {
		writeError(w, http.StatusServiceUnavailable, "presets are disabled")
		return false
	}
	return true
}

func writePresetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, presets.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, presets.ErrInvalidPreset):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func parseSeconds(name, v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s must be a finite number of seconds, got %q", name, v)
	}
	return f, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		applog.Warnf("server: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
