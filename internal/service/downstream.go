package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"obsdemo/internal/config"
	"obsdemo/internal/logging"
)

// DownstreamService performs one outbound HTTP call so the demo can show
// client spans propagating trace context to a downstream collaborator.
type DownstreamService interface {
	// Call issues a GET against the configured URL and returns the
	// downstream status code.
	Call(ctx context.Context) (int, error)
}

type downstreamService struct {
	client *http.Client
	url    string
	log    *logging.Logger
	tracer trace.Tracer
}

// NewDownstreamService constructs a DownstreamService whose client is
// instrumented with otelhttp, producing a child span per outbound request.
func NewDownstreamService(cfg config.DownstreamConfig, log *logging.Logger) DownstreamService {
	client := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   time.Duration(cfg.TimeoutSec) * time.Second,
	}
	return newDownstreamService(client, cfg.URL, log)
}

func newDownstreamService(client *http.Client, url string, log *logging.Logger) DownstreamService {
	return &downstreamService{
		client: client,
		url:    url,
		log:    log,
		tracer: otel.Tracer("obsdemo/service"),
	}
}

func (s *downstreamService) Call(ctx context.Context) (int, error) {
	ctx, span := s.tracer.Start(ctx, "call_downstream", trace.WithAttributes(
		attribute.String("downstream.url", s.url),
	))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return 0, fmt.Errorf("build downstream request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error(ctx, "downstream_error", err, nil)
		return 0, fmt.Errorf("downstream call failed: %w", err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	span.SetAttributes(attribute.Int("downstream.status_code", resp.StatusCode))
	return resp.StatusCode, nil
}
