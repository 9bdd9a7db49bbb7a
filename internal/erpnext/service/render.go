package service

import (
	"bytes"
	"html/template"

	analysisdomain "github.com/wattlens/wattlens/internal/analysis/domain"
)

// Fixed section order: summary, consumption analysis, recommendations,
// anomalies. The body must be byte-for-byte deterministic for a given
// analysis.
const reportTemplate = `<div style="font-family: Arial, sans-serif;">
<h3>Electricity Bill Analysis Report</h3>
<p><strong>Analysis Date:</strong> {{.AnalysisDate}}</p>
<h4>Bill Summary</h4>
<ul>
<li><strong>Billing Period:</strong> {{orNA .Summary.BillingPeriod}}</li>
<li><strong>Total Amount:</strong> {{orNA .Summary.TotalAmount}}</li>
<li><strong>Units Consumed:</strong> {{orNA .Summary.UnitsConsumed}}</li>
<li><strong>Rate per Unit:</strong> {{orNA .Summary.RatePerUnit}}</li>
</ul>
<h4>Consumption Analysis</h4>
<ul>
<li><strong>Efficiency Rating:</strong> {{orNA .Consumption.EfficiencyRating}}</li>
<li><strong>Consumption Trend:</strong> {{orNA .Consumption.ConsumptionTrend}}</li>
<li><strong>Peak Usage Period:</strong> {{orNA .Consumption.PeakUsagePeriod}}</li>
</ul>
<h4>Key Recommendations</h4>
<ol>{{range .Recommendations}}<li>{{.}}</li>{{end}}</ol>
{{if .Anomalies}}<h4>Anomalies Detected</h4>
<ul>{{range .Anomalies}}<li>{{.}}</li>{{end}}</ul>
{{end}}</div>`

const rawTextTemplate = `<div style="font-family: monospace; white-space: pre-wrap;">{{.}}</div>`

var (
	reportTpl = template.Must(template.New("report").Funcs(template.FuncMap{
		"orNA": orNA,
	}).Parse(reportTemplate))
	rawTextTpl = template.Must(template.New("raw").Parse(rawTextTemplate))
)

type reportInput struct {
	AnalysisDate    string
	Summary         analysisdomain.BillSummary
	Consumption     analysisdomain.ConsumptionAnalysis
	Recommendations []string
	Anomalies       []string
}

func renderReport(analysis analysisdomain.BillAnalysis) (string, error) {
	var buf bytes.Buffer
	err := reportTpl.Execute(&buf, reportInput{
		AnalysisDate:    analysis.AnalysisDate.UTC().Format("2006-01-02 15:04"),
		Summary:         analysis.Summary(),
		Consumption:     analysis.Consumption(),
		Recommendations: analysis.Recommendations,
		Anomalies:       analysis.Anomalies,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderRawText(rawText string) (string, error) {
	var buf bytes.Buffer
	if err := rawTextTpl.Execute(&buf, rawText); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}
