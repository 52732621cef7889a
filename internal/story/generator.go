package story

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pbaille/courtlog/internal/domain"
)

const (
	defaultEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultModel    = "gpt-3.5-turbo"
	defaultTimeout  = 30 * time.Second

	systemPrompt = "You are a tennis performance analyst who writes engaging match diary entries."

	// unableSentinel is returned when the API answers successfully but
	// carries no usable text. Intentionally not the template: only
	// transport and API failures fall back.
	unableSentinel = "Unable to generate story."
)

// Options configures a Generator. An empty APIKey means the remote
// call is skipped entirely and every story comes from the template.
type Options struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
}

// Generator turns a match record into a narrative string, via the
// OpenAI chat completions API when configured, via the deterministic
// template otherwise.
type Generator struct {
	apiKey   string
	model    string
	endpoint string
	timeout  time.Duration
	client   *http.Client
	log      zerolog.Logger
}

// New creates a Generator from the given options.
func New(opts Options, log zerolog.Logger) *Generator {
	g := &Generator{
		apiKey:   opts.APIKey,
		model:    opts.Model,
		endpoint: defaultEndpoint,
		timeout:  opts.Timeout,
		client:   opts.Client,
		log:      log,
	}
	if g.model == "" {
		g.model = defaultModel
	}
	if opts.BaseURL != "" {
		g.endpoint = strings.TrimSuffix(opts.BaseURL, "/") + "/v1/chat/completions"
	}
	if g.timeout <= 0 {
		g.timeout = defaultTimeout
	}
	if g.client == nil {
		g.client = http.DefaultClient
	}
	return g
}

// Generate returns a story for the match. It never fails outward: with
// no API key it returns the template directly, and any error from the
// remote call falls back to the template as well.
func (g *Generator) Generate(ctx context.Context, m domain.Match) string {
	if g.apiKey == "" {
		g.log.Debug().Msg("no API key configured, using template story")
		return Template(m)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.complete(ctx, buildPrompt(m))
	if err != nil {
		g.log.Warn().Err(err).Str("match_id", m.ID).Msg("story generation failed, using template")
		return Template(m)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return unableSentinel
	}
	return text
}

func buildPrompt(m domain.Match) string {
	var sb strings.Builder

	sb.WriteString("Write a compelling match diary entry for a tennis match. ")
	sb.WriteString("Incorporate all the details provided below into a narrative story format. ")
	sb.WriteString("The story should be engaging, personal, and capture the essence of the match experience.\n\n")

	sb.WriteString("Match Details:\n")
	fmt.Fprintf(&sb, "- Opponent: %s\n", m.OpponentName)
	fmt.Fprintf(&sb, "- Opponent Level: %s\n", m.OpponentLevel)
	fmt.Fprintf(&sb, "- Date: %s\n", promptDate(m.Date))
	fmt.Fprintf(&sb, "- Result: %s\n", m.Result)
	fmt.Fprintf(&sb, "- Court Surface: %s\n", m.CourtSurface)
	fmt.Fprintf(&sb, "- Energy Level: %s\n", m.EnergyRating)
	fmt.Fprintf(&sb, "- Confidence Level: %s\n", m.ConfidenceRating)
	fmt.Fprintf(&sb, "- Strengths Today: %s\n", listOr(m.Strengths, "None specified"))
	fmt.Fprintf(&sb, "- Weaknesses Today: %s\n", listOr(m.Weaknesses, "None specified"))
	fmt.Fprintf(&sb, "- Key Moment 1: %s\n", m.KeyMoment1)
	fmt.Fprintf(&sb, "- Key Moment 2: %s\n", m.KeyMoment2)

	sb.WriteString(`
Write a match diary entry that:
1. Starts with an introduction setting the scene
2. Describes the match details and opponent
3. Analyzes performance (strengths, weaknesses, energy, confidence)
4. Highlights the key moments
5. Concludes with reflections on the match

Make it personal, engaging, and around 200-300 words.`)

	return sb.String()
}

func listOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

func promptDate(date string) string {
	t, err := time.Parse("2006-01-02", domain.DateOnly(date))
	if err != nil {
		return date
	}
	return t.Format("January 2, 2006")
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (g *Generator) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   500,
		Temperature: 0.7,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResp chatResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("api error: %s", apiResp.Error.Message)
	}

	if len(apiResp.Choices) == 0 {
		return "", nil
	}

	return apiResp.Choices[0].Message.Content, nil
}
