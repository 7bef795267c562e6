package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"broker/pkg/requestcontext"
)

type mockEmitter struct {
	events    []Event
	shouldErr bool
}

func (m *mockEmitter) Emit(_ context.Context, event Event) error {
	if m.shouldErr {
		return errors.New("emit failed")
	}
	m.events = append(m.events, event)
	return nil
}

// LoggerSuite covers enrichment from the request context and the paths where
// either sink is missing or failing.
type LoggerSuite struct {
	suite.Suite
	emitter *mockEmitter
	logger  *Logger
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerSuite))
}

func (s *LoggerSuite) SetupTest() {
	s.emitter = &mockEmitter{}
	textLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	s.logger = NewLogger(textLogger, s.emitter)
}

func (s *LoggerSuite) TestLogEnrichesFromContext() {
	at := time.Date(2026, 4, 1, 8, 30, 0, 0, time.UTC)
	ctx := requestcontext.WithRequestID(context.Background(), "req-12345")
	ctx = requestcontext.WithTime(ctx, at)

	s.logger.Log(ctx, EventAccreditationIssued, Event{AccreditationID: "acc-1"})

	s.Require().Len(s.emitter.events, 1)
	got := s.emitter.events[0]
	s.Equal("accreditation_issued", got.Action)
	s.Equal("req-12345", got.RequestID)
	s.True(at.Equal(got.Timestamp))
	s.Equal("acc-1", got.AccreditationID)
}

func (s *LoggerSuite) TestLogKeepsExplicitFields() {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithRequestID(context.Background(), "req-ctx")

	s.logger.Log(ctx, EventConsentAnswered, Event{
		AccreditationID: "acc-1",
		Timestamp:       at,
		RequestID:       "req-explicit",
		Decision:        DecisionDenied,
	})

	s.Require().Len(s.emitter.events, 1)
	s.Equal("req-explicit", s.emitter.events[0].RequestID)
	s.True(at.Equal(s.emitter.events[0].Timestamp))
	s.Equal(DecisionDenied, s.emitter.events[0].Decision)
}

func (s *LoggerSuite) TestTextLogMasksPersonalIdentifiers() {
	var buf bytes.Buffer
	l := NewLogger(slog.New(slog.NewJSONHandler(&buf, nil)), s.emitter)

	l.Log(context.Background(), EventAccreditationIssued, Event{
		AccreditationID: "acc-1",
		Requestor:       "991825827",
		Subject:         "01019010046",
	})

	var line map[string]any
	s.Require().NoError(json.Unmarshal(buf.Bytes(), &line))
	s.Equal("991825827", line["requestor"])
	s.Equal("010190*****", line["subject"])
	s.NotContains(buf.String(), "01019010046")

	s.Require().Len(s.emitter.events, 1)
	s.Equal("01019010046", s.emitter.events[0].Subject)
}

func (s *LoggerSuite) TestLogSwallowsEmitError() {
	s.emitter.shouldErr = true

	s.NotPanics(func() {
		s.logger.Log(context.Background(), EventAccreditationDeleted, Event{AccreditationID: "acc-1"})
	})
	s.Empty(s.emitter.events)
}

func (s *LoggerSuite) TestMissingSinks() {
	s.Run("nil emitter", func() {
		l := NewLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})), nil)
		s.NotPanics(func() {
			l.Log(context.Background(), EventDataRetrieved, Event{AccreditationID: "acc-1"})
		})
	})

	s.Run("nil text logger still emits", func() {
		emitter := &mockEmitter{}
		NewLogger(nil, emitter).Log(context.Background(), EventDataRetrieved, Event{AccreditationID: "acc-1"})
		s.Len(emitter.events, 1)
	})

	s.Run("nil logger", func() {
		var l *Logger
		s.NotPanics(func() {
			l.Log(context.Background(), EventDataRetrieved, Event{AccreditationID: "acc-1"})
		})
	})
}
