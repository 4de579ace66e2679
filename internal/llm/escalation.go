package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/peterkacmarik/dockify/internal/classifier"
	"github.com/peterkacmarik/dockify/internal/model"
)

// Defaults for the text-generation endpoint.
const (
	DefaultEndpoint            = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel               = "gemini-2.0-flash"
	DefaultEscalationThreshold = 0.75
	defaultTimeout             = 30 * time.Second
)

// Config configures the escalation adapter.
type Config struct {
	Enabled             bool
	Endpoint            string
	APIKey              string
	Model               string
	EscalationThreshold float64
	Timeout             time.Duration
}

// Adapter escalates low-confidence analyses to an external
// text-generation service. Best effort only: every failure is logged and
// the heuristic result stays authoritative.
type Adapter struct {
	cfg    Config
	client *http.Client
}

// NewAdapter creates the adapter, filling in endpoint/model/threshold
// defaults.
func NewAdapter(cfg Config) *Adapter {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.EscalationThreshold <= 0 {
		cfg.EscalationThreshold = DefaultEscalationThreshold
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Adapter{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Enhance replaces the heuristic columns wholesale when the service
// returns a usable mapping. No-op when disabled or when the heuristic
// confidence already clears the threshold.
func (a *Adapter) Enhance(ctx context.Context, result *model.AnalysisResult) {
	if a == nil || !a.cfg.Enabled {
		return
	}
	if result.OverallConfidence >= a.cfg.EscalationThreshold {
		return
	}

	columns, overall, err := a.analyze(ctx, result.FileSummary)
	if err != nil {
		// Soft failure: keep the heuristic result, never surface to the user.
		log.Printf("llm escalation skipped: %v", err)
		return
	}
	if len(columns) == 0 {
		log.Printf("llm escalation skipped: response contained no columns")
		return
	}

	result.DetectedColumns = columns
	if overall > 0 {
		result.OverallConfidence = overall
	}
	result.AIEnhanced = true
	result.Actions = classifier.RegenerateActions(columns)
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

type columnResponse struct {
	DetectedColumns   []model.DetectedColumn `json:"detected_columns"`
	OverallConfidence float64                `json:"overall_confidence"`
}

// analyze issues one generateContent call and strictly parses the JSON
// column mapping out of the reply.
func (a *Adapter) analyze(ctx context.Context, summary model.FileSummary) ([]model.DetectedColumn, float64, error) {
	prompt, err := buildPrompt(summary)
	if err != nil {
		return nil, 0, err
	}

	body, err := json.Marshal(generateRequest{
		Contents: []generateContent{{Parts: []generatePart{{Text: prompt}}}},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", a.cfg.Endpoint, a.cfg.Model, a.cfg.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, 0, fmt.Errorf("text-generation request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, 0, fmt.Errorf("quota exceeded (429)")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, 0, fmt.Errorf("text-generation status %d: %s", resp.StatusCode, respBody)
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return nil, 0, fmt.Errorf("parsing response envelope: %w", err)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return nil, 0, fmt.Errorf("no content in response")
	}

	text := stripFences(genResp.Candidates[0].Content.Parts[0].Text)
	var parsed columnResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, 0, fmt.Errorf("parsing column mapping: %w (response: %s)", err, text)
	}
	return parsed.DetectedColumns, parsed.OverallConfidence, nil
}

// stripFences removes a surrounding markdown code fence if present.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// buildPrompt renders the compact data sample with the structured-output
// instruction.
func buildPrompt(summary model.FileSummary) (string, error) {
	sample, err := json.MarshalIndent(summary.SampleRows, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling sample rows: %w", err)
	}
	rows := len(summary.SampleRows)

	return fmt.Sprintf(`Analyze this CSV/Excel data snippet to map columns to: sku, quantity, description, price.

Data (First %d rows):
%s

Return JSON only:
{
  "detected_columns": [
    { "column_index": number, "header": string, "suggested_field": "sku"|"quantity"|"description"|"price"|null, "confidence": number, "reason": string[] }
  ],
  "overall_confidence": number
}`, rows, sample), nil
}
