package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/oprisk/pkg/cli"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	var buf bytes.Buffer
	argv := append([]string{"oprisk", "--log-level", "error"}, args...)
	err := cli.RunWithWriter(context.Background(), argv, "test", &buf)
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestGenerate_SeedIsDeterministic(t *testing.T) {
	args := []string{"generate", "-n", "20", "--seed", "42", "--start", "2024-01-01", "--end", "2024-06-30"}

	first, err := runApp(t, args...)
	gt.NoError(t, err).Required()
	second, err := runApp(t, args...)
	gt.NoError(t, err).Required()

	gt.Value(t, first).Equal(second)
	lines := strings.Split(strings.TrimSpace(first), "\n")
	gt.Array(t, lines).Length(21)
	gt.String(t, lines[0]).Contains("Loss_Amount")
}

func TestGenerate_ToFileThenValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.csv")
	_, err := runApp(t, "generate", "-n", "30", "--seed", "1", "--basel", "-o", path)
	gt.NoError(t, err).Required()

	out, err := runApp(t, "validate", "--strict", path)
	gt.NoError(t, err).Required()

	var result struct {
		Valid bool `json:"valid"`
	}
	gt.NoError(t, json.Unmarshal([]byte(out), &result)).Required()
	gt.Bool(t, result.Valid).True()
}

func TestGenerate_InvalidArguments(t *testing.T) {
	_, err := runApp(t, "generate", "--format", "xml")
	gt.Value(t, err).NotNil()

	_, err = runApp(t, "generate", "--start", "yesterday")
	gt.Error(t, err).Is(model.ErrInvalidArgument)

	_, err = runApp(t, "generate", "--start", "2024-06-01", "--end", "2024-01-01")
	gt.Error(t, err).Is(model.ErrInvalidWindow)
}

func TestGenerate_Head(t *testing.T) {
	args := []string{"generate", "-n", "20", "--seed", "7"}
	full, err := runApp(t, args...)
	gt.NoError(t, err).Required()
	preview, err := runApp(t, append(args, "--head", "5")...)
	gt.NoError(t, err).Required()

	fullLines := strings.Split(strings.TrimSpace(full), "\n")
	previewLines := strings.Split(strings.TrimSpace(preview), "\n")
	gt.Array(t, previewLines).Length(6)
	gt.Value(t, previewLines).Equal(fullLines[:6])

	_, err = runApp(t, append(args, "--head=-1")...)
	gt.Error(t, err).Is(model.ErrInvalidArgument)
}

func TestGenerate_ThenSummarize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.csv")
	_, err := runApp(t, "generate", "-n", "30", "--seed", "3", "-o", path)
	gt.NoError(t, err).Required()

	out, err := runApp(t, "summarize", path)
	gt.NoError(t, err).Required()

	var summary struct {
		EventCountPerType map[string]int `json:"event_count_per_type"`
	}
	gt.NoError(t, json.Unmarshal([]byte(out), &summary)).Required()
	var count int
	for category, n := range summary.EventCountPerType {
		gt.Array(t, []string{"RC1", "RC2", "RC3"}).Has(category)
		count += n
	}
	gt.Number(t, count).Equal(30)

	// an explicit column is not replaced
	_, err = runApp(t, "summarize", "--category-column", model.ColumnBaselEventType, path)
	gt.Error(t, err).Is(model.ErrMissingColumn)
}

const sampleEvents = `Loss_Amount,Basel_Event_Type
100,Fraud
200,Fraud
300,System Failure
400,Fraud
500,System Failure
`

func TestSummarize(t *testing.T) {
	path := writeFile(t, "events.csv", sampleEvents)

	out, err := runApp(t, "summarize", path)
	gt.NoError(t, err).Required()

	var summary struct {
		TotalLossAmount          float64            `json:"total_loss_amount"`
		AverageLossAmount        float64            `json:"average_loss_amount"`
		EventCountPerType        map[string]int     `json:"event_count_per_type"`
		AverageLossAmountPerType map[string]float64 `json:"average_loss_amount_per_type"`
	}
	gt.NoError(t, json.Unmarshal([]byte(out), &summary)).Required()
	gt.Value(t, summary.TotalLossAmount).Equal(1500.0)
	gt.Value(t, summary.AverageLossAmount).Equal(300.0)
	gt.Value(t, summary.EventCountPerType["Fraud"]).Equal(3)
	gt.Value(t, summary.EventCountPerType["System Failure"]).Equal(2)
	gt.Value(t, summary.AverageLossAmountPerType["System Failure"]).Equal(400.0)
}

func TestSummarize_Extras(t *testing.T) {
	path := writeFile(t, "events.csv", sampleEvents)

	out, err := runApp(t, "summarize", "--totals-by", "Basel_Event_Type", "--describe", "Loss_Amount", "-f", "yaml", path)
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains("summary:")
	gt.String(t, out).Contains("totals:")
	gt.String(t, out).Contains("stats:")
}

func TestSummarize_Filters(t *testing.T) {
	path := writeFile(t, "events.csv", sampleEvents)

	totalOf := func(t *testing.T, args ...string) float64 {
		t.Helper()
		out, err := runApp(t, append(append([]string{"summarize"}, args...), path)...)
		gt.NoError(t, err).Required()
		var summary struct {
			TotalLossAmount float64 `json:"total_loss_amount"`
		}
		gt.NoError(t, json.Unmarshal([]byte(out), &summary)).Required()
		return summary.TotalLossAmount
	}

	gt.Value(t, totalOf(t, "--category", "Fraud")).Equal(700.0)
	gt.Value(t, totalOf(t, "--min-loss", "250", "--max-loss", "450")).Equal(700.0)
	gt.Value(t, totalOf(t, "--head", "2")).Equal(300.0)
	gt.Value(t, totalOf(t, "--category", "System Failure", "--head", "1")).Equal(300.0)

	_, err := runApp(t, "summarize", "--min-loss", "5", "--max-loss", "1", path)
	gt.Error(t, err).Is(model.ErrInvalidArgument)

	_, err = runApp(t, "summarize", "--from", "2024-01-01", path)
	gt.Error(t, err).Is(model.ErrMissingColumn)

	_, err = runApp(t, "summarize", "--to", "someday", path)
	gt.Error(t, err).Is(model.ErrInvalidArgument)
}

func TestSummarize_Errors(t *testing.T) {
	_, err := runApp(t, "summarize")
	gt.Error(t, err).Is(model.ErrInvalidArgument)

	path := writeFile(t, "events.csv", "Amount\n1\n")
	_, err = runApp(t, "summarize", path)
	gt.Error(t, err).Is(model.ErrSchema)

	_, err = runApp(t, "summarize", "-f", "csv", path)
	gt.Error(t, err).Is(model.ErrInvalidArgument)
}

func TestValidate_Invalid(t *testing.T) {
	path := writeFile(t, "events.csv", sampleEvents)

	out, err := runApp(t, "validate", path)
	gt.Error(t, err).Is(cli.ErrValidationFailed)
	gt.String(t, out).Contains(`"valid": false`)

	_, err = runApp(t, "validate", "--strict", path)
	gt.Error(t, err).Is(cli.ErrValidationFailed)
}

func TestResidual(t *testing.T) {
	testCases := map[string]struct {
		inherent      string
		effectiveness string
		want          types.RiskLevel
	}{
		"high with effective controls": {"High", "Effective", types.RiskLevelLow},
		"high partially":               {"High", "Partially Effective", types.RiskLevelMedium},
		"high ineffective":             {"High", "Ineffective", types.RiskLevelHigh},
		"medium ineffective":           {"Medium", "Ineffective", types.RiskLevelMedium},
		"low ineffective":              {"Low", "Ineffective", types.RiskLevelLow},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			out, err := runApp(t, "residual", "--inherent", tc.inherent, "--effectiveness", tc.effectiveness)
			gt.NoError(t, err).Required()
			gt.Value(t, strings.TrimSpace(out)).Equal("Residual risk: " + tc.want.String())
		})
	}
}

func TestResidual_Invalid(t *testing.T) {
	_, err := runApp(t, "residual", "--inherent", "Severe", "--effectiveness", "Effective")
	gt.Error(t, err).Is(model.ErrInvalidArgument)

	_, err = runApp(t, "residual", "--inherent", "High", "--effectiveness", "Effective", "--approach", "Fancy")
	gt.Error(t, err).Is(model.ErrInvalidApproach)
}

func TestMatrix(t *testing.T) {
	out, err := runApp(t, "matrix", "--approach", "Weighted")
	gt.NoError(t, err).Required()

	lines := strings.Split(strings.TrimSpace(out), "\n")
	gt.Array(t, lines).Length(4)
	gt.String(t, lines[0]).Contains("Partially Effective")
	gt.Bool(t, strings.HasPrefix(lines[1], "High")).True()
	gt.Bool(t, strings.HasPrefix(lines[3], "Low")).True()
}

const assessConfig = `
[[assessment.units]]
name = "Payments"
inherent_risk = "High"
controls = [{ description = "Dual approval", type = "Preventative", effectiveness = "Effective" }]

[[assessment.units]]
name = "Treasury"
inherent_risk = "Medium"
control_effectiveness = "Ineffective"
`

func TestAssess(t *testing.T) {
	path := writeFile(t, "oprisk.toml", assessConfig)

	out, err := runApp(t, "--config", path, "assess")
	gt.NoError(t, err).Required()

	var report struct {
		Assessments []struct {
			UnitName     string          `json:"unit_name"`
			ResidualRisk types.RiskLevel `json:"residual_risk"`
		} `json:"assessments"`
		Summary struct {
			Units        int `json:"units"`
			ReducedUnits int `json:"reduced_units"`
		} `json:"summary"`
	}
	gt.NoError(t, json.Unmarshal([]byte(out), &report)).Required()

	gt.Array(t, report.Assessments).Length(2)
	gt.Value(t, report.Assessments[0].UnitName).Equal("Payments")
	gt.Value(t, report.Assessments[0].ResidualRisk).Equal(types.RiskLevelLow)
	gt.Value(t, report.Assessments[1].ResidualRisk).Equal(types.RiskLevelMedium)
	gt.Number(t, report.Summary.Units).Equal(2)
	gt.Number(t, report.Summary.ReducedUnits).Equal(1)
}

func TestAssess_NoUnits(t *testing.T) {
	_, err := runApp(t, "assess")
	gt.Error(t, err).Is(model.ErrInvalidArgument)
}

func TestServe_InvalidSweepInterval(t *testing.T) {
	_, err := runApp(t, "serve", "--sweep-interval", "0s")
	gt.Error(t, err).Is(model.ErrInvalidArgument)

	_, err = runApp(t, "serve", "--sweep-interval=-1s")
	gt.Error(t, err).Is(model.ErrInvalidArgument)
}
