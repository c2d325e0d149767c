package main

import (
	"encoding/json"
	"fmt"
	"io"

	"admitcast/internal/college"
	"admitcast/internal/logging"
	"admitcast/internal/predict"
	"admitcast/internal/profile"

	"github.com/spf13/cobra"
)

var (
	predictCollege    string
	predictGPA        string
	predictWeighted   string
	predictSAT        string
	predictACT        string
	predictAP         string
	predictActivities string
	jsonOutput        bool
)

// predictCmd scores one profile without the wizard
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Estimate admission odds for one college",
	Long: `Scores a profile given on the command line against one college.

Example:
  admit predict --college UCB --gpa 4.0 --sat 1550 --seed 7`,
	Args: cobra.NoArgs,
	RunE: runPredict,
}

type predictOutput struct {
	College college.College `json:"college"`
	Profile profile.Profile `json:"profile"`
	Result  predict.Result  `json:"result"`
}

func runPredict(cmd *cobra.Command, args []string) error {
	deps, closeCache := buildDeps(cmd.Context())
	defer closeCache()

	col, err := deps.Catalog.Get(predictCollege)
	if err != nil {
		return err
	}

	b := profile.NewBuilder()
	b.SetAcademics(profile.AcademicsForm{GPA: predictGPA, WeightedGPA: predictWeighted, APCourses: predictAP}.Parse())
	b.SetScores(profile.ScoresForm{SATScore: predictSAT, ACTScore: predictACT}.Parse())
	b.SetExtracurriculars(profile.ExtracurricularsForm{Activities: predictActivities}.Parse())
	p := b.Profile()

	res := deps.Predictor.Predict(col, p)
	logging.Get(logging.CategoryPredict).Debugw("prediction",
		"college", col.ID, "probability", res.Probability, "deterministic", predict.Deterministic(col, p))

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(predictOutput{College: col, Profile: p, Result: res})
	}
	printResult(out, col, res)
	return nil
}

func printResult(w io.Writer, col college.College, res predict.Result) {
	fmt.Fprintf(w, "%s: %s (%s)\n\n", col.Name, res.Percent(), res.Category)
	for _, f := range res.OrderedFactors() {
		fmt.Fprintf(w, "  %-18s %+6.1f\n", f.Name, f.Weight)
	}
	fmt.Fprintf(w, "\n%s\n", res.Advice)
}
