// Package gemini is the risk oracle client: it forwards carbon-risk, claim
// and credit questions to the Gemini API and strictly decodes the structured
// verdicts at the boundary. When no API key is configured the client runs in
// offline mode and serves fixed canned verdicts after a simulated delay,
// which is part of the observable contract for offline and test operation.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ecoinsure/internal/config"
	"ecoinsure/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultOfflineDelay = 2 * time.Second
)

type apiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// Client is the risk oracle. With one or more API keys it fans requests out
// across them with round-robin failover; with none it serves canned verdicts.
type Client struct {
	selector     *ClientSelector
	timeout      time.Duration
	offlineDelay time.Duration
}

func NewClient(ctx context.Context, cfg config.GeminiConfig) (*Client, error) {
	if len(cfg.APIKeys) == 0 {
		slog.Warn("No Gemini API key configured, oracle running in offline mode with canned verdicts")
		return NewOfflineClient(defaultOfflineDelay), nil
	}

	clients := make([]apiClient, 0, len(cfg.APIKeys))
	for i, key := range cfg.APIKeys {
		client, err := genai.NewClient(ctx, option.WithAPIKey(key))
		if err != nil {
			return nil, fmt.Errorf("genai client %d init failed: %w", i, err)
		}
		model := client.GenerativeModel(cfg.ModelName)
		model.ResponseMIMEType = "application/json"
		clients = append(clients, apiClient{client: client, model: model})
	}

	slog.Info("Oracle client initialized", "model", cfg.ModelName, "key_count", len(clients))

	return &Client{
		selector:     NewClientSelector(clients),
		timeout:      defaultTimeout,
		offlineDelay: defaultOfflineDelay,
	}, nil
}

// NewOfflineClient returns a client that never calls the remote API.
func NewOfflineClient(delay time.Duration) *Client {
	return &Client{timeout: defaultTimeout, offlineDelay: delay}
}

func (c *Client) offline() bool {
	return c.selector == nil
}

// AssessCarbonRisk requests a risk verdict for a company's emission profile.
func (c *Client) AssessCarbonRisk(ctx context.Context, companyName, industry string, records []models.CarbonRecord, supplyChain []models.SupplyChainNode) (*models.RiskAssessment, error) {
	if c.offline() {
		if err := c.simulateDelay(ctx); err != nil {
			return nil, err
		}
		return fallbackRiskAssessment(), nil
	}

	prompt, err := buildCarbonRiskPrompt(companyName, industry, records, supplyChain)
	if err != nil {
		return nil, err
	}

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return decodeRiskAssessment([]byte(text))
}

// AnalyzeClaim requests a claim pre-review verdict.
func (c *Client) AnalyzeClaim(ctx context.Context, description, evidenceText string) (*models.ClaimVerdict, error) {
	if c.offline() {
		if err := c.simulateDelay(ctx); err != nil {
			return nil, err
		}
		return fallbackClaimVerdict(), nil
	}

	text, err := c.generate(ctx, buildClaimAnalysisPrompt(description, evidenceText))
	if err != nil {
		return nil, err
	}
	return decodeClaimVerdict([]byte(text))
}

// AssessGreenCredit requests a carbon credit rating and suggested rate for a
// loan application.
func (c *Client) AssessGreenCredit(ctx context.Context, companyName string, amount float64, purpose string) (*models.CreditVerdict, error) {
	if c.offline() {
		if err := c.simulateDelay(ctx); err != nil {
			return nil, err
		}
		return fallbackCreditVerdict(), nil
	}

	text, err := c.generate(ctx, buildGreenCreditPrompt(companyName, amount, purpose))
	if err != nil {
		return nil, err
	}
	return decodeCreditVerdict([]byte(text))
}

// generate sends the prompt with failover across keys and returns the raw
// response text with any markdown JSON fencing stripped.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var text string
	err := c.selector.TryAllClients(func(ac *apiClient, clientIdx int) error {
		resp, err := ac.model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return errors.New("no content returned")
		}
		part, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
		if !ok {
			return fmt.Errorf("response part is not text, received %T", resp.Candidates[0].Content.Parts[0])
		}
		text = stripJSONFence(string(part))
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return "", fmt.Errorf("%w: %v", ErrOracleTimeout, err)
		case errors.Is(ctx.Err(), context.Canceled):
			// The initiating workflow was abandoned; the response is
			// discarded without touching any store.
			return "", ctx.Err()
		default:
			return "", fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
		}
	}
	return text, nil
}

// simulateDelay mimics remote latency in offline mode while still honoring
// cancellation.
func (c *Client) simulateDelay(ctx context.Context) error {
	if c.offlineDelay <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(c.offlineDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// stripJSONFence removes a markdown ```json wrapper if the model added one
// despite the JSON response instruction.
func stripJSONFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func decodeRiskAssessment(data []byte) (*models.RiskAssessment, error) {
	var a models.RiskAssessment
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracleMalformed, err)
	}
	switch {
	case !models.ValidRiskLevel(a.RiskLevel):
		return nil, fmt.Errorf("%w: unknown risk level %q", ErrOracleMalformed, a.RiskLevel)
	case a.RiskScore < 0 || a.RiskScore > 100:
		return nil, fmt.Errorf("%w: risk score %v out of range", ErrOracleMalformed, a.RiskScore)
	case a.PremiumModifier <= 0:
		return nil, fmt.Errorf("%w: non-positive premium modifier %v", ErrOracleMalformed, a.PremiumModifier)
	case a.Reasoning == "":
		return nil, fmt.Errorf("%w: missing reasoning", ErrOracleMalformed)
	case a.ProjectedSavings < 0:
		return nil, fmt.Errorf("%w: negative projected savings", ErrOracleMalformed)
	}
	return &a, nil
}

func decodeClaimVerdict(data []byte) (*models.ClaimVerdict, error) {
	var v models.ClaimVerdict
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracleMalformed, err)
	}
	switch {
	case !models.ValidRecommendedAction(v.RecommendedAction):
		return nil, fmt.Errorf("%w: unknown recommended action %q", ErrOracleMalformed, v.RecommendedAction)
	case v.Confidence < 0 || v.Confidence > 100:
		return nil, fmt.Errorf("%w: confidence %v out of range", ErrOracleMalformed, v.Confidence)
	case v.Reason == "":
		return nil, fmt.Errorf("%w: missing reason", ErrOracleMalformed)
	}
	return &v, nil
}

func decodeCreditVerdict(data []byte) (*models.CreditVerdict, error) {
	var v models.CreditVerdict
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracleMalformed, err)
	}
	switch {
	case !models.ValidCreditRating(v.CarbonCreditRating):
		return nil, fmt.Errorf("%w: unknown credit rating %q", ErrOracleMalformed, v.CarbonCreditRating)
	case v.SuggestedInterestRate <= 0:
		return nil, fmt.Errorf("%w: non-positive interest rate %v", ErrOracleMalformed, v.SuggestedInterestRate)
	case v.Analysis == "":
		return nil, fmt.Errorf("%w: missing analysis", ErrOracleMalformed)
	}
	return &v, nil
}
