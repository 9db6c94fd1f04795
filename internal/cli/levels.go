package cli

import (
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sdlc-quest/internal/catalog"
)

type levelInfo struct {
	Number    int    `yaml:"number"`
	Title     string `yaml:"title"`
	Subjects  int    `yaml:"subjects"`
	FirstTry  int    `yaml:"firstTryBonus"`
	Retry     int    `yaml:"retryBonus"`
	TimeLimit int    `yaml:"timeLimit,omitempty"`
	PerSecond int    `yaml:"timeBonusPerSecond,omitempty"`
}

// NewLevelsCmd prints the built-in level catalog.
func NewLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "Print the built-in level catalog as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printLevels(cmd.OutOrStdout())
		},
	}
}

func printLevels(w io.Writer) error {
	var out []levelInfo
	for _, l := range catalog.Levels() {
		out = append(out, levelInfo{
			Number:    l.Number,
			Title:     l.Title,
			Subjects:  len(l.Subjects),
			FirstTry:  l.FirstTryBonus,
			Retry:     l.RetryBonus,
			TimeLimit: l.TimeLimit,
			PerSecond: l.TimeBonusPerSecond,
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(map[string]any{"levels": out})
}
