package remotesync

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/runoshun/treeboard/internal/domain"
)

// NoticeLevel classifies a user-visible notice.
type NoticeLevel int

const (
	NoticeError   NoticeLevel = iota // A remote call failed
	NoticeWarning                    // Local and remote state may have diverged
)

// Notice is a transient message for the user.
type Notice struct {
	Time    time.Time
	Message string
	Level   NoticeLevel
}

// Reporter is the error sink for best-effort remote calls. Every failure is logged;
// failures reported with notify and all consistency warnings are also forwarded to
// the notifier, if one is set.
// Fields are ordered to minimize memory padding.
type Reporter struct {
	clock    domain.Clock
	logger   *slog.Logger
	notifier func(Notice)
	failures int
	warnings int
	mu       sync.Mutex
}

var _ domain.ErrorReporter = (*Reporter)(nil)

// NewReporter creates a Reporter.
func NewReporter(logger *slog.Logger, clock domain.Clock) *Reporter {
	return &Reporter{
		logger: logger.With("component", "sync"),
		clock:  clock,
	}
}

// SetNotifier sets the function that receives notices. nil disables notices.
func (r *Reporter) SetNotifier(fn func(Notice)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifier = fn
}

// Report records a failed remote operation.
func (r *Reporter) Report(op string, err error, notify bool) {
	r.logger.Warn("remote call failed", "op", op, "error", err)
	r.mu.Lock()
	r.failures++
	fn := r.notifier
	r.mu.Unlock()
	if notify && fn != nil {
		fn(Notice{Time: r.clock.Now(), Level: NoticeError, Message: fmt.Sprintf("%s failed: %v", op, err)})
	}
}

// Warn records a consistency warning.
func (r *Reporter) Warn(msg string) {
	r.logger.Warn(msg)
	r.mu.Lock()
	r.warnings++
	fn := r.notifier
	r.mu.Unlock()
	if fn != nil {
		fn(Notice{Time: r.clock.Now(), Level: NoticeWarning, Message: msg})
	}
}

// Counts returns the number of failures and warnings recorded so far.
func (r *Reporter) Counts() (failures, warnings int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failures, r.warnings
}
