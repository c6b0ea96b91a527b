package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/me/soaplab/pkg/analysis"
)

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <analysis>",
		Short: "Show an analysis and its declared inputs and results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAnalysisClient(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			meta, err := client.Describe(ctx)
			if err != nil {
				return fmt.Errorf("describing %s: %w", args[0], err)
			}
			fmt.Printf("Analysis: %s\n", meta.Name)
			if meta.Type != "" {
				fmt.Printf("Type:     %s\n", meta.Type)
			}
			if meta.Version != "" {
				fmt.Printf("Version:  %s\n", meta.Version)
			}
			if meta.Description != "" {
				fmt.Printf("About:    %s\n", meta.Description)
			}
			if meta.Supplier != "" {
				fmt.Printf("Supplier: %s\n", meta.Supplier)
			}
			for key, value := range meta.Extras {
				fmt.Printf("%s: %s\n", key, value)
			}

			inputs, err := client.InputSpec(ctx)
			if err != nil {
				return err
			}
			fmt.Println("Inputs:")
			printParams(inputs)

			results, err := client.ResultSpec(ctx)
			if err != nil {
				return err
			}
			fmt.Println("Results:")
			printParams(results)
			return nil
		},
	}
}

func printParams(params []analysis.ParamSpec) {
	if len(params) == 0 {
		fmt.Println("  (none declared)")
		return
	}
	for _, p := range params {
		var notes []string
		if p.Mandatory {
			notes = append(notes, "mandatory")
		}
		if p.Default != "" {
			notes = append(notes, "default "+p.Default)
		}
		if len(p.AllowedValues) > 0 {
			notes = append(notes, "one of "+strings.Join(p.AllowedValues, "|"))
		}
		line := fmt.Sprintf("  - %s (%s)", p.Name, p.Type)
		if len(notes) > 0 {
			line += ": " + strings.Join(notes, ", ")
		}
		fmt.Println(line)
	}
}
