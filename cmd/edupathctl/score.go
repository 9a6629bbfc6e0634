package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"edupath/internal/domain"
	"edupath/internal/recommend"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score an answer file offline and print the recommendation as JSON",
	RunE:  runScore,
}

var (
	scoreAnswersFile     string
	scoreRequireComplete bool
	scoreAcademicID      string
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreAnswersFile, "answers", "a", "", "JSON file mapping question id to a value or list of values")
	scoreCmd.Flags().BoolVar(&scoreRequireComplete, "require-complete", false, "Fail when an active question has no answer")
	scoreCmd.Flags().StringVar(&scoreAcademicID, "academic-question", "", "Question id that sets the academic tier")
	_ = scoreCmd.MarkFlagRequired("answers")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	raw, err := os.ReadFile(scoreAnswersFile)
	if err != nil {
		return fmt.Errorf("read answers: %w", err)
	}
	var answers domain.AnswerSet
	if err := json.Unmarshal(raw, &answers); err != nil {
		return fmt.Errorf("decode answers: %w", err)
	}

	engine, cat, err := loadEngine(scoreAcademicID)
	if err != nil {
		return err
	}
	out, err := engine.Recommend(recommend.Input{
		Bank:            cat.Questions,
		Answers:         answers,
		Inventory:       cat.Inventory,
		RequireComplete: scoreRequireComplete,
	})
	if err != nil {
		return err
	}
	for _, d := range out.Diagnostics {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: skipped %s\n", d)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out.Result)
}
