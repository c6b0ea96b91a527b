package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var inputsFile string
	var save string

	cmd := &cobra.Command{
		Use:   "run <analysis> [name=value ...]",
		Short: "Run an analysis and wait for its results",
		Long: "Submit inputs to the named analysis, poll until the job finishes\n" +
			"and retrieve its results. Inputs come from name=value arguments\n" +
			"and an optional YAML file; \"@path\" values are read from files.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			descriptors, err := collectInputs(inputsFile, args[1:])
			if err != nil {
				return err
			}

			client, err := newAnalysisClient(name)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			job, err := client.WaitFor(ctx, descriptors...)
			if err != nil {
				return fmt.Errorf("running %s: %w", name, err)
			}
			defer job.Close()
			recordJob(ctx, job, client.Config())

			state := job.LastStatus()
			fmt.Printf("Job:    %s\n", job.ID())
			fmt.Printf("State:  %s\n", state)
			if times, err := job.Times(ctx); err == nil {
				if elapsed, ok := times.Elapsed(); ok {
					fmt.Printf("Took:   %s\n", elapsed)
				}
			}

			selector := map[string]string{"?": "@" + save}
			saved, err := job.Results(ctx, selector)
			if err != nil {
				return fmt.Errorf("retrieving results: %w", err)
			}
			fmt.Println("Results:")
			for result, file := range saved {
				fmt.Printf("  %s -> %v\n", result, file)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputsFile, "inputs", "i", "", "Input values file (YAML)")
	cmd.Flags().StringVar(&save, "save", "$ANALYSIS_*_$RESULT", "Filename template for saved results")
	return cmd
}
