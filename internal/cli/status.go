package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "status <job-id>",
		Short: "Check the status of a submitted job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID := args[0]
			name, err := analysisFromJobID(jobID)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			// A remembered location overrides the defaults so status
			// queries hit the service the job was submitted to.
			if l, err := openLedger(ctx); err == nil {
				if rec, err := l.Get(ctx, jobID); err == nil && rec != nil {
					if flagLocation == "" && rec.Location != "" {
						flagLocation = rec.Location
					}
					if flagAccess == "" && rec.Access != "" {
						flagAccess = rec.Access
					}
				}
				l.Close()
			}

			// Status queries must not destroy the job.
			flagKeep = true
			client, err := newAnalysisClient(name)
			if err != nil {
				return err
			}
			job := client.CreateJob(jobID)

			if wait {
				if err := job.Wait(ctx); err != nil {
					return err
				}
			}
			state, err := job.Status(ctx)
			if err != nil {
				return fmt.Errorf("querying status: %w", err)
			}
			recordJob(ctx, job, client.Config())

			fmt.Printf("Job:    %s\n", jobID)
			fmt.Printf("State:  %s\n", state)

			times, err := job.Times(ctx)
			if err != nil {
				logger.Debug("job times unavailable", "job", jobID, "error", err)
				return nil
			}
			if !times.Created.IsZero() {
				fmt.Printf("Created: %s\n", times.Created.Format("2006-01-02 15:04:05"))
			}
			if !times.Ended.IsZero() {
				fmt.Printf("Ended:   %s\n", times.Ended.Format("2006-01-02 15:04:05"))
			}
			if elapsed, ok := times.Elapsed(); ok {
				fmt.Printf("Took:    %s\n", elapsed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "Block until the job reaches a terminal state")
	return cmd
}

// jobs command lives here too: both are views over the ledger.

func newJobsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List jobs remembered in the local ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer l.Close()

			records, err := l.List(ctx)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No jobs remembered.")
				return nil
			}
			for _, rec := range records {
				fmt.Printf("%-45s %-12s %s\n", rec.JobID, rec.State, humanize.Time(rec.Updated))
			}
			return nil
		},
	}
}
