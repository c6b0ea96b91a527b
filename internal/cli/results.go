package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newResultsCmd() *cobra.Command {
	var template string
	var stdout bool

	cmd := &cobra.Command{
		Use:   "results <job-id> [result ...]",
		Short: "Retrieve results of a finished job",
		Long: "Fetch results of a finished job and save them to files. With no\n" +
			"result names every result is saved. --stdout prints a single\n" +
			"named result to standard output instead.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID := args[0]
			names := args[1:]
			name, err := analysisFromJobID(jobID)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			// Results retrieval must not destroy the job either; that
			// stays an explicit "soaplab remove".
			flagKeep = true
			client, err := newAnalysisClient(name)
			if err != nil {
				return err
			}
			job := client.CreateJob(jobID)

			if stdout {
				if len(names) != 1 {
					return fmt.Errorf("--stdout needs exactly one result name")
				}
				value, err := job.Result(ctx, names[0])
				if err != nil {
					return err
				}
				_, err = os.Stdout.Write(value)
				return err
			}

			selector := map[string]string{}
			if len(names) == 0 {
				selector["?"] = "@" + template
			} else {
				for _, n := range names {
					selector[n] = template
				}
			}
			saved, err := job.Results(ctx, selector)
			if err != nil {
				return err
			}
			for result, file := range saved {
				fmt.Printf("%s -> %v\n", result, file)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&template, "template", "$ANALYSIS_*_$RESULT", "Filename template for saved results")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print a single result to standard output")
	return cmd
}
