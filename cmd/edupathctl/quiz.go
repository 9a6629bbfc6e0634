package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"edupath/internal/domain"
	"edupath/internal/recommend"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Run the assessment in the terminal and print the recommendation",
	Long:  "Walks the question bank with the quiz state machine. Enter option numbers (comma separated for multi-select), 'b' to go back or 'q' to quit.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		engine, cat, err := loadEngine("")
		if err != nil {
			return err
		}
		return runQuiz(cmd.InOrStdin(), cmd.OutOrStdout(), engine, cat.Questions, cat.Inventory)
	},
}

var errQuizAborted = errors.New("quiz aborted")

func init() {
	rootCmd.AddCommand(quizCmd)
}

// runQuiz maneja el loop interactivo; separado del comando para poder testearlo.
func runQuiz(in io.Reader, out io.Writer, engine *recommend.Engine, bank domain.QuestionBank, inv domain.Inventory) error {
	reader := bufio.NewReader(in)
	quiz := recommend.NewQuiz(bank)

	var (
		result  *domain.RecommendationResult
		evalErr error
	)
	quiz.OnComplete = func(answers domain.AnswerSet) {
		output, err := engine.Recommend(recommend.Input{Bank: bank, Answers: answers, Inventory: inv, RequireComplete: true})
		if err != nil {
			evalErr = err
			return
		}
		result = &output.Result
	}

	for !quiz.Completed() {
		current, ok := quiz.Current()
		if !ok {
			return errors.New("question bank has no active questions")
		}
		printQuestion(out, quiz.Index()+1, len(quiz.Active()), current)

		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || strings.TrimSpace(line) == "") {
			return errQuizAborted
		}
		line = strings.TrimSpace(line)

		switch strings.ToLower(line) {
		case "q":
			return errQuizAborted
		case "b":
			if err := quiz.Previous(); err != nil {
				fmt.Fprintf(out, "! %v\n", err)
			}
			continue
		}

		value, err := parseSelection(current, line)
		if err != nil {
			fmt.Fprintf(out, "! %v\n", err)
			continue
		}
		if err := quiz.Answer(current.ID, value); err != nil {
			fmt.Fprintf(out, "! %v\n", err)
			continue
		}
		if _, err := quiz.Next(); err != nil {
			fmt.Fprintf(out, "! %v\n", err)
		}
	}

	if evalErr != nil {
		return evalErr
	}
	printResult(out, *result)
	return nil
}

// parseSelection convierte "2" o "1,3" en valores de opcion.
func parseSelection(q domain.Question, line string) (domain.AnswerValue, error) {
	if line == "" {
		return domain.AnswerValue{}, errors.New("choose an option")
	}
	parts := strings.Split(line, ",")
	if q.Type == domain.QuestionSingle && len(parts) > 1 {
		return domain.AnswerValue{}, errors.New("choose a single option")
	}
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 1 || n > len(q.Options) {
			return domain.AnswerValue{}, fmt.Errorf("invalid option %q", strings.TrimSpace(p))
		}
		values = append(values, q.Options[n-1].Value)
	}
	if q.Type == domain.QuestionSingle {
		return domain.Single(values[0]), nil
	}
	return domain.Multiple(values...), nil
}

func printQuestion(out io.Writer, n, total int, q domain.Question) {
	fmt.Fprintf(out, "\n[%d/%d] %s\n", n, total, q.Prompt)
	for i, opt := range q.Options {
		fmt.Fprintf(out, "  %d) %s\n", i+1, opt.Label)
	}
	if q.Type == domain.QuestionMultiple {
		fmt.Fprint(out, "Select one or more (e.g. 1,3): ")
		return
	}
	fmt.Fprint(out, "Select: ")
}

func printResult(out io.Writer, r domain.RecommendationResult) {
	fmt.Fprintf(out, "\n===== Recommended stream: %s =====\n", r.Stream)
	if r.AcademicTier != "" {
		fmt.Fprintf(out, "Academic tier: %s\n", r.AcademicTier)
	}
	fmt.Fprintln(out, "Colleges:")
	for _, c := range r.Colleges {
		fmt.Fprintf(out, "  - %s (%s, %s)\n", c.Name, c.District, c.State)
	}
	fmt.Fprintln(out, "Courses:")
	for _, c := range r.Courses {
		fmt.Fprintf(out, "  - %s (%.0f%% match)\n", c.Course.Name, c.MatchScore)
	}
	fmt.Fprintln(out, "Scholarships:")
	for _, s := range r.Scholarships {
		fmt.Fprintf(out, "  - %s\n", s.Name)
	}
	scores, _ := json.Marshal(r.StreamScores)
	fmt.Fprintf(out, "Stream scores: %s\n", scores)
}
