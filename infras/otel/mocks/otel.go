// Package mocks provides an in-memory tracer that records spans instead of exporting them.
package mocks

import (
	"context"
	"sync"

	"hostel/infras/otel"
)

// Recorder implements otel.Otel and keeps every span it opened.
type Recorder struct {
	mu    sync.Mutex
	spans []*Span
}

func NewOtel() *Recorder {
	return &Recorder{}
}

// NewScope implements otel.Otel.
func (r *Recorder) NewScope(ctx context.Context, scopeName, spanName string) (context.Context, otel.Scope) {
	span := &Span{Scope: scopeName, Name: spanName, Attributes: map[string]any{}}

	r.mu.Lock()
	r.spans = append(r.spans, span)
	r.mu.Unlock()

	return ctx, span
}

// SpanNames lists recorded span names in opening order.
func (r *Recorder) SpanNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.spans))
	for _, span := range r.spans {
		names = append(names, span.Name)
	}

	return names
}

// Errors returns every error traced on any span.
func (r *Recorder) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, span := range r.spans {
		errs = append(errs, span.Errors...)
	}

	return errs
}

// Span is a recorded otel.Scope.
type Span struct {
	Scope      string
	Name       string
	Events     []string
	Attributes map[string]any
	Errors     []error
	Ended      bool
}

func (s *Span) End() {
	s.Ended = true
}

func (s *Span) TraceError(err error) {
	s.Errors = append(s.Errors, err)
}

func (s *Span) TraceIfError(err error) {
	if err != nil {
		s.TraceError(err)
	}
}

func (s *Span) AddEvent(name string) {
	s.Events = append(s.Events, name)
}

func (s *Span) SetAttribute(key string, value any) {
	s.Attributes[key] = value
}

func (s *Span) SetAttributes(attributes map[string]any) {
	for key, value := range attributes {
		s.Attributes[key] = value
	}
}

// NewScope returns a detached span for code that needs a bare otel.Scope.
func NewScope() otel.Scope {
	return &Span{Attributes: map[string]any{}}
}
