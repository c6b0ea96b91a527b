package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <job-id> [job-id ...]",
		Short: "Destroy jobs on the service and forget them locally",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer l.Close()

			for _, jobID := range args {
				name, err := analysisFromJobID(jobID)
				if err != nil {
					return err
				}
				client, err := newAnalysisClient(name)
				if err != nil {
					return err
				}
				if err := client.CreateJob(jobID).Remove(ctx); err != nil {
					return fmt.Errorf("removing %s: %w", jobID, err)
				}
				if err := l.Delete(ctx, jobID); err != nil {
					logger.Warn("forgetting job", "job", jobID, "error", err)
				}
				fmt.Printf("Removed %s\n", jobID)
			}
			return nil
		},
	}
}
