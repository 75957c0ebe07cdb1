package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/runoshun/treeboard/internal/app"
	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/usecase"
	"github.com/spf13/cobra"
)

// errUnhealthy is returned by doctor when the backend did not answer.
var errUnhealthy = errors.New("backend is unhealthy")

// newDoctorCommand creates the doctor command.
func newDoctorCommand(c *app.Container) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the configured backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.DoctorUseCase().Execute(cmd.Context(), usecase.DoctorInput{Timeout: timeout})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printField(w, "Backend", out.Backend)
			printField(w, "Target", out.Target)
			switch {
			case out.Backend == domain.BackendNone:
				printField(w, "Status", "in-memory only, nothing is persisted")
			case out.Err != nil:
				printField(w, "Status", highPrioStyle.Render("unreachable"))
				printField(w, "Error", out.Err.Error())
				return errUnhealthy
			default:
				printField(w, "Status", statusStyles[domain.StatusDone].Render("ok")+fmt.Sprintf(" (%s)", out.Latency.Round(time.Millisecond)))
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Health check timeout")
	return cmd
}

// newLogsCommand creates the logs command.
func newLogsCommand(c *app.Container) *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the application log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowLogsUseCase().Execute(cmd.Context(), usecase.ShowLogsInput{Lines: lines})
			if err != nil {
				return err
			}
			if out.Content == "" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s is empty\n", out.LogPath)
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Content)
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines from the end (0 = all)")
	return cmd
}
