package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSubmitCmd() *cobra.Command {
	var inputsFile string

	cmd := &cobra.Command{
		Use:   "submit <analysis> [name=value ...]",
		Short: "Submit an analysis job without waiting",
		Long: "Submit inputs to the named analysis and return immediately. The\n" +
			"job ID is remembered in the local ledger; use \"soaplab status\"\n" +
			"and \"soaplab results\" to follow up. Submitted jobs are kept on\n" +
			"the service as if --keep was given.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			descriptors, err := collectInputs(inputsFile, args[1:])
			if err != nil {
				return err
			}

			// Detached jobs must survive this process.
			flagKeep = true
			client, err := newAnalysisClient(name)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			job, err := client.Run(ctx, descriptors...)
			if err != nil {
				return fmt.Errorf("submitting to %s: %w", name, err)
			}
			recordJob(ctx, job, client.Config())

			fmt.Println(job.ID())
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputsFile, "inputs", "i", "", "Input values file (YAML)")
	return cmd
}
