package analysis

import (
	"fmt"
	"strings"

	"github.com/petrolens/petrolens/internal/models"
)

// ComposeInsights assembles a structured narrative from the other stage
// outputs. The recommendation lists are static template text keyed by
// audience; nothing here is computed beyond counts and formatting.
func ComposeInsights(profile *models.ProfileResult, changePoints []models.ChangePoint, segments []models.Segment, correlation *models.CorrelationReport) *models.InsightsReport {
	return &models.InsightsReport{
		ExecutiveSummary: executiveSummary(profile, changePoints, correlation),
		KeyFindings:      keyFindings(profile, changePoints, correlation),
		Recommendations:  recommendations(),
		RiskAssessment:   riskAssessment(),
		Limitations:      limitations(),
	}
}

func executiveSummary(profile *models.ProfileResult, changePoints []models.ChangePoint, correlation *models.CorrelationReport) string {
	matched := 0
	meanImpact := 0.0
	if correlation != nil {
		meanImpact = correlation.StatisticalTests.MeanImpact
		for _, m := range correlation.Matches {
			if m.MatchedEvent != nil {
				matched++
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "This analysis examined %d daily Brent oil price observations spanning %.1f years. ",
		profile.BasicStats.TotalObservations, profile.BasicStats.DateRangeYears)
	fmt.Fprintf(&b, "The study identified %d significant structural changes in oil price dynamics, "+
		"with %d change points occurring near major geopolitical or economic events. ",
		len(changePoints), matched)
	fmt.Fprintf(&b, "Price changes during event periods averaged %.1f%% movements. ", meanImpact)
	b.WriteString("These insights provide guidance for investment strategies, risk management, " +
		"and policy development in the energy sector.")
	return b.String()
}

func keyFindings(profile *models.ProfileResult, changePoints []models.ChangePoint, correlation *models.CorrelationReport) []string {
	findings := []string{}

	if !profile.Stationarity.IsStationary {
		findings = append(findings,
			"Brent oil prices are non-stationary, indicating persistent trends and structural changes over time.")
	}
	if len(changePoints) > 0 {
		findings = append(findings,
			fmt.Sprintf("Detected %d structural change points in price dynamics.", len(changePoints)))
	}
	if correlation != nil && correlation.StatisticalTests.TTest != nil && correlation.StatisticalTests.TTest.Significant {
		findings = append(findings,
			"Geopolitical and economic events have statistically significant impacts on oil prices.")
	}
	if profile.VolatilityAnalysis.VolatilityClustering.HighVolatilityPeriods > 0 {
		findings = append(findings,
			"Oil prices exhibit volatility clustering, with periods of high volatility followed by similar periods.")
	}
	return findings
}

func recommendations() map[string][]string {
	return map[string][]string{
		"investors": {
			"Implement dynamic hedging strategies that adjust to volatility regimes",
			"Monitor geopolitical events in oil-producing regions closely",
			"Diversify energy portfolios to reduce exposure to oil price volatility",
			"Use change point analysis for portfolio rebalancing decisions",
		},
		"policymakers": {
			"Develop strategic petroleum reserves to buffer against supply shocks",
			"Implement policies that reduce dependence on oil imports",
			"Monitor and respond to geopolitical developments in key oil regions",
			"Consider oil price volatility in economic planning and forecasting",
		},
		"energy_companies": {
			"Implement flexible pricing strategies that adapt to market conditions",
			"Develop scenario planning based on historical event impacts",
			"Invest in technologies that reduce operational costs during price volatility",
			"Strengthen supply chain resilience against geopolitical disruptions",
		},
	}
}

func riskAssessment() map[string]string {
	return map[string]string{
		"high_volatility_periods": "Oil prices show significant volatility clustering, increasing risk during turbulent periods.",
		"geopolitical_sensitivity": "Prices are highly sensitive to geopolitical events, particularly in oil-producing regions.",
		"structural_changes":       "Frequent structural changes in price dynamics make long-term forecasting challenging.",
		"event_timing":             "The timing and magnitude of event impacts are difficult to predict accurately.",
	}
}

func limitations() []string {
	return []string{
		"Correlation does not imply causation - events may not directly cause price changes",
		"The analysis assumes that detected change points are related to external events",
		"Historical patterns may not predict future behavior in changing market conditions",
		"Event selection is subjective and may miss important but less-publicized events",
		"The analysis focuses on Brent oil prices and may not apply to other oil benchmarks",
	}
}
