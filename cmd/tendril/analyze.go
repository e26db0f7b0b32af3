package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/internal/presentation/tui"
	"github.com/aretw0/tendril/pkg/adapters/yamlscene"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the scene's selection and print its component groups",
	Run: func(cmd *cobra.Command, args []string) {
		scenePath, _ := cmd.Flags().GetString("scene")
		plain, _ := cmd.Flags().GetBool("plain")

		scene, vars, err := yamlscene.Load(scenePath)
		if err != nil {
			fmt.Printf("Error loading scene: %v\n", err)
			os.Exit(1)
		}

		engine := tendril.New(scene, vars, tendril.WithLogger(logging.NewNop()))
		result, err := engine.Analyze(cmd.Context())
		if err != nil {
			fmt.Printf("Analysis failed: %v\n", err)
			os.Exit(1)
		}

		report := tui.AnalysisReport(result)
		if plain {
			fmt.Print(report)
			return
		}

		tui.PrintBanner()
		render := tui.NewRenderer()
		out, err := render(report)
		if err != nil {
			fmt.Print(report)
			return
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().Bool("plain", false, "Print raw markdown without terminal styling")
}
