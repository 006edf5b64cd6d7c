package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/oasguard/oasguard/contract"
	"github.com/oasguard/oasguard/spec"
)

// recordedRequest is one half of a recorded exchange.
type recordedRequest struct {
	Method  string            `json:"method"`
	Path    string            `json:"path"`
	Query   string            `json:"query,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    string            `json:"body,omitempty"`
}

// recordedResponse is the other half of a recorded exchange.
type recordedResponse struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    string            `json:"body,omitempty"`
}

// recordedExchange pairs a request with the response it received.
// The response is optional; request-only records are checked one-sided.
type recordedExchange struct {
	Request  recordedRequest   `json:"request"`
	Response *recordedResponse `json:"response,omitempty"`
}

// exchangeReport is the outcome of checking one exchange.
type exchangeReport struct {
	Index       int      `json:"index" yaml:"index"`
	Method      string   `json:"method" yaml:"method"`
	Path        string   `json:"path" yaml:"path"`
	MatchedPath string   `json:"matched_path,omitempty" yaml:"matched_path,omitempty"`
	Valid       bool     `json:"valid" yaml:"valid"`
	Violations  []string `json:"violations,omitempty" yaml:"violations,omitempty"`
	Warnings    []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// checkSummary is the aggregate outcome across all exchanges.
type checkSummary struct {
	Exchanges  int              `json:"exchanges" yaml:"exchanges"`
	Valid      int              `json:"valid" yaml:"valid"`
	Invalid    int              `json:"invalid" yaml:"invalid"`
	Violations int              `json:"violations" yaml:"violations"`
	Reports    []exchangeReport `json:"reports" yaml:"reports"`
}

// CheckCommand builds the check command: validate recorded HTTP exchanges
// against an OpenAPI contract.
func CheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <exchanges-file>",
		Short: "Check recorded HTTP exchanges against an OpenAPI 3.0 contract",
		Long: `Check recorded HTTP exchanges against an OpenAPI 3.0 contract.

The exchanges file is a JSON array of records, each pairing a request with
an optional response:

  [
    {
      "request":  {"method": "GET", "path": "/users", "query": "limit=10",
                   "headers": {"X-Request-ID": "r1"}},
      "response": {"status": 200, "headers": {"Content-Type": "application/json"},
                   "body": "{\"users\": []}"}
    }
  ]

The command exits non-zero when any exchange violates the contract.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Spec == "" {
				return fmt.Errorf("spec file is required (use --spec or the config file)")
			}

			doc, err := spec.Load(spec.WithFilePath(cfg.Spec))
			if err != nil {
				return fmt.Errorf("loading spec: %w", err)
			}

			validator, err := contract.New(doc)
			if err != nil {
				return err
			}
			validator.StrictMode = cfg.Strict
			validator.IncludeWarnings = !cfg.NoWarnings
			if cfg.MaxBodySize > 0 {
				validator.SetMaxBodySize(cfg.MaxBodySize)
			}

			exchanges, err := readExchanges(args[0])
			if err != nil {
				return err
			}

			summary := checkExchanges(validator, cfg, exchanges)

			if cfg.Format == FormatText {
				printCheckSummary(cmd, summary)
			} else {
				out, err := MarshalStructured(summary, cfg.Format)
				if err != nil {
					return err
				}
				cmd.Println(string(out))
			}

			if summary.Invalid > 0 {
				return fmt.Errorf("%d of %d exchanges violate the contract", summary.Invalid, summary.Exchanges)
			}
			return nil
		},
	}

	BindCheckFlags(cmd)
	return cmd
}

// readExchanges parses the recorded exchange file.
func readExchanges(path string) ([]recordedExchange, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading exchanges file: %w", err)
	}
	var exchanges []recordedExchange
	if err := json.Unmarshal(data, &exchanges); err != nil {
		return nil, fmt.Errorf("parsing exchanges file: %w", err)
	}
	if len(exchanges) == 0 {
		return nil, fmt.Errorf("exchanges file %s contains no records", path)
	}
	return exchanges, nil
}

// checkExchanges validates every recorded exchange and aggregates the
// outcomes.
func checkExchanges(validator *contract.Validator, cfg *Config, exchanges []recordedExchange) checkSummary {
	summary := checkSummary{Exchanges: len(exchanges)}

	for i, exchange := range exchanges {
		report := exchangeReport{
			Index:  i,
			Method: exchange.Request.Method,
			Path:   exchange.Request.Path,
			Valid:  true,
		}

		query, err := url.ParseQuery(exchange.Request.Query)
		if err != nil {
			report.Valid = false
			report.Violations = append(report.Violations, fmt.Sprintf("invalid query string: %v", err))
			summary.Invalid++
			summary.Violations++
			summary.Reports = append(summary.Reports, report)
			continue
		}

		headers := toHeader(exchange.Request.Headers)
		reqResult := validator.ValidateRequestData(
			exchange.Request.Method, exchange.Request.Path,
			query, headers, []byte(exchange.Request.Body),
		)
		report.MatchedPath = reqResult.MatchedPath
		collectIssues(&report, reqResult.Violations, reqResult.Warnings)

		if exchange.Response != nil {
			req := &http.Request{
				Method: exchange.Request.Method,
				URL:    &url.URL{Path: exchange.Request.Path},
				Header: headers,
			}
			respResult := validator.ValidateResponseData(
				req, exchange.Response.Status,
				toHeader(exchange.Response.Headers), []byte(exchange.Response.Body),
			)
			collectIssues(&report, respResult.Violations, respResult.Warnings)
		}

		report.Valid = len(report.Violations) == 0
		if report.Valid {
			summary.Valid++
		} else {
			summary.Invalid++
		}
		summary.Violations += len(report.Violations)
		summary.Reports = append(summary.Reports, report)
	}

	return summary
}

// collectIssues renders violations and warnings into the report.
func collectIssues(report *exchangeReport, violations, warnings []contract.Violation) {
	for _, v := range violations {
		report.Violations = append(report.Violations, v.String())
	}
	for _, w := range warnings {
		report.Warnings = append(report.Warnings, w.String())
	}
}

// toHeader converts a flat header map to http.Header.
func toHeader(headers map[string]string) http.Header {
	h := http.Header{}
	for name, value := range headers {
		h.Set(name, value)
	}
	return h
}

func printCheckSummary(cmd *cobra.Command, summary checkSummary) {
	for _, report := range summary.Reports {
		status := "OK"
		if !report.Valid {
			status = "FAIL"
		}
		cmd.Printf("[%d] %s %s %s\n", report.Index, status, report.Method, report.Path)
		for _, v := range report.Violations {
			cmd.Printf("      %s\n", v)
		}
		for _, w := range report.Warnings {
			cmd.Printf("      %s\n", w)
		}
	}
	cmd.Printf("\n%d exchanges: %d valid, %d invalid, %d violations\n",
		summary.Exchanges, summary.Valid, summary.Invalid, summary.Violations)
}
