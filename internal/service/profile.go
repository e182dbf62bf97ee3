package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime/pprof"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"obsdemo/internal/logging"
	"obsdemo/internal/storage"
)

const (
	ProfileKindCPU  = "cpu"
	ProfileKindHeap = "heap"

	maxProfileSeconds = 60
	presignExpiry     = 15 * time.Minute
)

var (
	ErrUnknownProfileKind = errors.New("unknown profile kind")
	ErrSecondsOutOfRange  = errors.New("seconds must be between 1 and 60")
	ErrProfileInProgress  = errors.New("a cpu profile is already being captured")
)

// ProfileResult describes a captured profile stored in object storage.
type ProfileResult struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// ProfileService captures pprof profiles of the running process and ships
// them to object storage, returning a presigned download URL.
type ProfileService interface {
	// Capture records a profile of the given kind. seconds applies to cpu
	// profiles only.
	Capture(ctx context.Context, kind string, seconds int) (*ProfileResult, error)
}

type profileService struct {
	store  storage.Storage
	log    *logging.Logger
	tracer trace.Tracer
}

// NewProfileService constructs a ProfileService backed by the given storage.
func NewProfileService(store storage.Storage, log *logging.Logger) ProfileService {
	return &profileService{
		store:  store,
		log:    log,
		tracer: otel.Tracer("obsdemo/service"),
	}
}

func (s *profileService) Capture(ctx context.Context, kind string, seconds int) (*ProfileResult, error) {
	ctx, span := s.tracer.Start(ctx, "profile_capture", trace.WithAttributes(
		attribute.String("profile.kind", kind),
		attribute.Int("profile.seconds", seconds),
	))
	defer span.End()

	var buf bytes.Buffer
	switch kind {
	case ProfileKindCPU:
		if seconds < 1 || seconds > maxProfileSeconds {
			return nil, ErrSecondsOutOfRange
		}
		if err := pprof.StartCPUProfile(&buf); err != nil {
			// StartCPUProfile fails when another capture is running.
			return nil, fmt.Errorf("%w: %v", ErrProfileInProgress, err)
		}
		select {
		case <-time.After(time.Duration(seconds) * time.Second):
		case <-ctx.Done():
			pprof.StopCPUProfile()
			return nil, ctx.Err()
		}
		pprof.StopCPUProfile()
	case ProfileKindHeap:
		if err := pprof.WriteHeapProfile(&buf); err != nil {
			return nil, fmt.Errorf("write heap profile: %w", err)
		}
	default:
		return nil, ErrUnknownProfileKind
	}

	id := uuid.NewString()
	key := fmt.Sprintf("profiles/%s-%s.pprof", id, kind)

	info, err := s.store.Put(ctx, key, &buf, storage.PutObjectOptions{
		Size:        int64(buf.Len()),
		ContentType: "application/octet-stream",
		Metadata: map[string]string{
			"profile-kind": kind,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload profile: %w", err)
	}

	url, err := s.store.PresignGet(ctx, key, presignExpiry)
	if err != nil {
		// Without a URL the upload is unreachable; remove it again.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("presign profile: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("presign profile: %w", err)
	}

	s.log.Info(ctx, "profile_captured", map[string]any{
		"profile_id": id,
		"kind":       kind,
		"size":       info.Size,
	})

	return &ProfileResult{
		ID:   id,
		Key:  key,
		Size: info.Size,
		URL:  url,
	}, nil
}
