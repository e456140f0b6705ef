// Gemini implementation of [Analyst] and [Scout]
//
// Calls the Generative Language REST API directly; the response is expected
// to be a JSON array of candidate objects per the analyzer prompt.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/aria/internal/models"
	"github.com/desertthunder/aria/internal/shared"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-2.5-flash"
)

// The analyst prompt instructs the model to emit these decision strings.
const (
	decisionLike = "LIKE_IMMEDIATELY"
	decisionAdd  = "ADD_TO_PLAYLIST"
	decisionSkip = "IGNORE"
)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// analystVerdict is the per-album object the prompt asks the model to emit.
type analystVerdict struct {
	Artist         string `json:"artist"`
	Album          string `json:"album"`
	RelevanceScore int    `json:"relevance_score"`
	Decision       string `json:"decision"`
	Reasoning      string `json:"reasoning"`
}

// GeminiService implements the Analyst interface against the Generative
// Language API.
type GeminiService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiService creates a new Gemini analyst client.
func NewGeminiService(apiKey, model string) (*GeminiService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini api_key required", shared.ErrMissingCredentials)
	}
	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiService{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultGeminiBaseURL,
		httpClient: http.DefaultClient,
	}, nil
}

// SetBaseURL overrides the API base URL. Used by tests.
func (g *GeminiService) SetBaseURL(u string) { g.baseURL = u }

// generate sends one completion request and returns the model's text.
func (g *GeminiService) generate(ctx context.Context, systemPrompt, userText string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: userText}}},
		},
	}
	if systemPrompt != "" {
		reqBody.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("gemini API error: status %d", resp.StatusCode)
	}

	var gr geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty completion", shared.ErrAnalystResponse)
	}

	return gr.Candidates[0].Content.Parts[0].Text, nil
}

// Analyze sends the prompt and page text to the model and maps the returned
// verdicts to candidates. Verdicts with an IGNORE (or unknown) decision are
// dropped; only FAVORITE and COLLECT candidates come back.
func (g *GeminiService) Analyze(ctx context.Context, systemPrompt, pageText string) ([]models.Candidate, error) {
	text, err := g.generate(ctx, systemPrompt, pageText)
	if err != nil {
		return nil, err
	}

	verdicts, err := parseVerdicts(text)
	if err != nil {
		return nil, err
	}

	candidates := make([]models.Candidate, 0, len(verdicts))
	for _, v := range verdicts {
		tag, ok := mapDecision(v.Decision)
		if !ok {
			continue
		}
		candidates = append(candidates, models.Candidate{
			Artist:         v.Artist,
			Title:          v.Album,
			Decision:       tag,
			RelevanceScore: v.RelevanceScore,
			Rationale:      v.Reasoning,
		})
	}

	return candidates, nil
}

// DiscoverSources asks the model for new harvest sources. The discovery
// prompt instructs it to emit a JSON array of {website, url} objects.
func (g *GeminiService) DiscoverSources(ctx context.Context, systemPrompt, currentSources string) ([]models.SourceSuggestion, error) {
	text, err := g.generate(ctx, systemPrompt, currentSources)
	if err != nil {
		return nil, err
	}

	var suggestions []models.SourceSuggestion
	if err := json.Unmarshal([]byte(stripFences(text)), &suggestions); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAnalystResponse, err)
	}

	return suggestions, nil
}

// stripFences removes the markdown fences the model sometimes wraps around
// its JSON.
func stripFences(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

func parseVerdicts(text string) ([]analystVerdict, error) {
	var verdicts []analystVerdict
	if err := json.Unmarshal([]byte(stripFences(text)), &verdicts); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAnalystResponse, err)
	}

	return verdicts, nil
}

func mapDecision(decision string) (models.DecisionTag, bool) {
	switch strings.ToUpper(strings.TrimSpace(decision)) {
	case decisionLike:
		return models.DecisionFavorite, true
	case decisionAdd:
		return models.DecisionCollect, true
	default:
		return "", false
	}
}
