// Package executor runs external programs for the CLI.
package executor

import (
	"io"
	"os"
	"os/exec"

	"github.com/runoshun/treeboard/internal/domain"
)

// Client implements domain.CommandExecutor.
type Client struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// Ensure Client implements domain.CommandExecutor interface.
var _ domain.CommandExecutor = (*Client)(nil)

// NewClient creates a client attached to the process terminal.
func NewClient() *Client {
	return &Client{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
}

// NewClientWithIO creates a client attached to the given streams.
func NewClientWithIO(stdin io.Reader, stdout, stderr io.Writer) *Client {
	return &Client{stdin: stdin, stdout: stdout, stderr: stderr}
}

// ExecuteInteractive runs a command with the client's streams and waits for it.
func (c *Client) ExecuteInteractive(cmd *domain.ExecCommand) error {
	// #nosec G204 - the program is the user's own editor setting
	execCmd := exec.Command(cmd.Program, cmd.Args...)
	if cmd.Dir != "" {
		execCmd.Dir = cmd.Dir
	}
	execCmd.Stdin = c.stdin
	execCmd.Stdout = c.stdout
	execCmd.Stderr = c.stderr
	return execCmd.Run()
}
