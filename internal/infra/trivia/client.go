package trivia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"inno-quiz-service/internal/domain"
)

// DefaultBaseURL is the public Open Trivia DB endpoint.
const DefaultBaseURL = "https://opentdb.com"

const defaultTimeout = 10 * time.Second

// Upstream response codes.
const (
	codeSuccess      = 0
	codeNoResults    = 1
	codeInvalidParam = 2
)

// Client talks to the Open Trivia DB HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client; an empty baseURL means DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type questionsResponse struct {
	ResponseCode *int `json:"response_code"`
	Results      []struct {
		Question         string   `json:"question"`
		CorrectAnswer    string   `json:"correct_answer"`
		IncorrectAnswers []string `json:"incorrect_answers"`
	} `json:"results"`
}

type categoriesResponse struct {
	TriviaCategories []struct {
		ID   *int   `json:"id"`
		Name string `json:"name"`
	} `json:"trivia_categories"`
}

// Questions fetches questions and turns them into drafts: entities are
// unescaped, options list the incorrect answers followed by the correct one,
// and every question is worth one point.
func (c *Client) Questions(ctx context.Context, query domain.TriviaQuery) ([]domain.QuestionDraft, error) {
	params := url.Values{}
	params.Set("amount", strconv.Itoa(query.Amount))
	if query.Category != 0 {
		params.Set("category", strconv.Itoa(query.Category))
	}
	if query.Difficulty != "" {
		params.Set("difficulty", query.Difficulty)
	}
	if query.Type != "" {
		params.Set("type", query.Type)
	}

	var resp questionsResponse
	if err := c.getJSON(ctx, "/api.php?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.ResponseCode == nil {
		return nil, errors.New("Invalid response: missing response_code")
	}
	switch *resp.ResponseCode {
	case codeSuccess:
	case codeNoResults:
		return nil, errors.New("No results found with the specified parameters")
	case codeInvalidParam:
		return nil, errors.New("Invalid parameter in the API request")
	default:
		return nil, fmt.Errorf("Unknown error code: %d", *resp.ResponseCode)
	}

	drafts := make([]domain.QuestionDraft, 0, len(resp.Results))
	for _, r := range resp.Results {
		correct := html.UnescapeString(r.CorrectAnswer)
		options := make([]string, 0, len(r.IncorrectAnswers)+1)
		for _, a := range r.IncorrectAnswers {
			options = append(options, html.UnescapeString(a))
		}
		options = append(options, correct)
		drafts = append(drafts, domain.QuestionDraft{
			Text:          html.UnescapeString(r.Question),
			Options:       options,
			CorrectAnswer: correct,
			Points:        domain.DefaultQuestionPoints,
		})
	}
	return drafts, nil
}

// Categories lists upstream categories with ids rendered as strings.
func (c *Client) Categories(ctx context.Context) ([]domain.TriviaCategory, error) {
	var resp categoriesResponse
	if err := c.getJSON(ctx, "/api_category.php", &resp); err != nil {
		return nil, err
	}
	if resp.TriviaCategories == nil {
		return nil, errors.New("Invalid response: missing trivia_categories")
	}

	categories := make([]domain.TriviaCategory, 0, len(resp.TriviaCategories))
	for _, cat := range resp.TriviaCategories {
		if cat.ID == nil {
			return nil, errors.New("Invalid response: category without id")
		}
		categories = append(categories, domain.TriviaCategory{
			ID:   strconv.Itoa(*cat.ID),
			Name: cat.Name,
		})
	}
	return categories, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("HTTP error: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP error: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("HTTP error: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("Invalid response: %w", err)
	}
	return nil
}
