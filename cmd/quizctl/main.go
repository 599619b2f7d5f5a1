// cmd/quizctl/main.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"persona-quiz/internal/common/config"
	"persona-quiz/internal/common/database"
	"persona-quiz/internal/common/logger"
	"persona-quiz/internal/persona"
	"persona-quiz/internal/submissions"
	"persona-quiz/pkg/catalog"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "quizctl",
		Short:        "Persona quiz maintenance tool",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (defaults to ./configs)")

	loadConfig := func() (*config.Config, error) {
		if configPath != "" {
			return config.LoadFromFile(configPath)
		}
		return config.Load()
	}

	root.AddCommand(
		newMigrateCommand(loadConfig),
		newScoreCommand(),
		newPersonasCommand(),
		newValidateCommand(),
	)
	return root
}

func newMigrateCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the submissions table and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			log := logger.NewStructured(cfg.Logging.Level, "console", "stderr")

			db, err := database.Open(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			store := submissions.NewSQLStore(db.DB, db.Dialect, log)
			if err := store.EnsureSchema(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema ready (%s)\n", db.Dialect)
			return nil
		},
	}
}

func newScoreCommand() *cobra.Command {
	var (
		answersJSON string
		file        string
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score an answer set and print the winning persona",
		Long:  "Reads a JSON object of question id to answer from --answers, --file or stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readAnswers(answersJSON, file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			var answers map[string]string
			if err := json.Unmarshal(raw, &answers); err != nil {
				return fmt.Errorf("decode answers: %w", err)
			}
			return printScores(cmd.OutOrStdout(), answers)
		},
	}
	cmd.Flags().StringVar(&answersJSON, "answers", "", `Answers as JSON, e.g. '{"q1":"Koala Chill"}'`)
	cmd.Flags().StringVar(&file, "file", "", "Read answers JSON from a file")
	return cmd
}

func readAnswers(inline, file string, stdin io.Reader) ([]byte, error) {
	switch {
	case inline != "":
		return []byte(inline), nil
	case file != "":
		return os.ReadFile(file)
	default:
		return io.ReadAll(stdin)
	}
}

func printScores(w io.Writer, answers map[string]string) error {
	scores := persona.ComputeScores(answers)
	winner := persona.PickWinner(scores)

	fmt.Fprintf(w, "persona: %s (%s)\n\n", winner, persona.Slug(winner))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PERSONA\tSCORE\t")
	for _, p := range persona.TieBreakOrder() {
		marker := ""
		if p == winner {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", p, scores[p], marker)
	}
	return tw.Flush()
}

func newPersonasCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "personas",
		Short: "List personas in tie-break order",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tSLUG\tPERSONA\tPARTNER")
			for _, profile := range persona.Profiles() {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", profile.Persona.Rank()+1, profile.Slug, profile.Persona, profile.Partner)
			}
			return tw.Flush()
		},
	}
}

func newValidateCommand() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a question catalog file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog %s is valid: %d questions (%s)\n",
				path, len(cat.Questions), strings.Join(cat.IDs(), ", "))
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "configs/questions.json", "Path to catalog file")
	return cmd
}
