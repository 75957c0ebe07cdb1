package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/runoshun/treeboard/internal/infra/logging"
)

// ErrNoLogFile is returned when logging goes to stderr or is disabled.
var ErrNoLogFile = errors.New("no log file configured")

// ShowLogsInput contains the parameters for showing the application log.
type ShowLogsInput struct {
	Lines int // Number of lines to display from the end (0 = all)
}

// ShowLogsOutput contains the log content.
type ShowLogsOutput struct {
	LogPath string // Path to the log file
	Content string // Log file content
}

// ShowLogs is the use case for viewing the application log.
type ShowLogs struct {
	path string
}

// NewShowLogs creates a new ShowLogs use case.
func NewShowLogs(path string) *ShowLogs {
	return &ShowLogs{path: path}
}

// Execute reads and returns the log content.
func (uc *ShowLogs) Execute(_ context.Context, in ShowLogsInput) (*ShowLogsOutput, error) {
	if uc.path == "" || uc.path == logging.StderrPath {
		return nil, ErrNoLogFile
	}

	content, err := os.ReadFile(uc.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ShowLogsOutput{LogPath: uc.path}, nil
		}
		return nil, fmt.Errorf("read log file: %w", err)
	}

	// If lines is specified, get only the last N lines
	result := strings.TrimRight(string(content), "\n")
	if in.Lines > 0 {
		lines := strings.Split(result, "\n")
		if len(lines) > in.Lines {
			lines = lines[len(lines)-in.Lines:]
		}
		result = strings.Join(lines, "\n")
	}

	return &ShowLogsOutput{
		LogPath: uc.path,
		Content: result,
	}, nil
}
