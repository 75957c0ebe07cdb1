package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/treeboard/internal/domain"
)

// DoctorInput contains the parameters for the health check.
type DoctorInput struct {
	Timeout time.Duration // 0 = no extra deadline
}

// DoctorOutput describes the configured backend and whether it answered.
// Fields are ordered to minimize memory padding.
type DoctorOutput struct {
	Err     error // nil when the backend is healthy
	Backend string
	Target  string // URL or file path the backend talks to
	Latency time.Duration
}

// Doctor is the use case for checking the remote backend.
type Doctor struct {
	remote domain.Remote
	config *domain.Config
	clock  domain.Clock
}

// NewDoctor creates a new Doctor use case. remote may be nil for the "none" backend.
func NewDoctor(remote domain.Remote, cfg *domain.Config, clock domain.Clock) *Doctor {
	return &Doctor{remote: remote, config: cfg, clock: clock}
}

// Execute runs the health check. A failing backend is reported in the output,
// not as an error.
func (uc *Doctor) Execute(ctx context.Context, in DoctorInput) (*DoctorOutput, error) {
	out := &DoctorOutput{Backend: uc.config.Remote.Backend}
	switch out.Backend {
	case domain.BackendHTTP:
		out.Target = uc.config.Remote.URL
	case domain.BackendFile:
		out.Target = uc.config.Store.Path
	case domain.BackendGit:
		out.Target = "refs/" + uc.config.Store.Namespace + "/board"
	}
	if uc.remote == nil {
		return out, nil
	}

	if in.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, in.Timeout)
		defer cancel()
	}
	start := uc.clock.Now()
	if err := uc.remote.Health(ctx); err != nil {
		out.Err = fmt.Errorf("health check: %w", err)
	}
	out.Latency = uc.clock.Now().Sub(start)
	return out, nil
}
