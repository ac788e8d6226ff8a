package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"gametracker/pkg/logger"
	"gametracker/pkg/models"
)

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Client talks to the games backend. It never retries and sets no timeout of
// its own; cancellation comes from the caller's context.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

func New(baseURL string, httpClient *http.Client, log *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log,
	}
}

func (c *Client) ListGames(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	if err := c.do(ctx, http.MethodGet, "/juegos", nil, &games); err != nil {
		return nil, err
	}
	return games, nil
}

func (c *Client) GetGame(ctx context.Context, id string) (*models.Game, error) {
	var game models.Game
	if err := c.do(ctx, http.MethodGet, "/juegos/"+url.PathEscape(id), nil, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (c *Client) CreateGame(ctx context.Context, input models.GameInput) (*models.Game, error) {
	var game models.Game
	if err := c.do(ctx, http.MethodPost, "/juegos", input, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (c *Client) UpdateGame(ctx context.Context, id string, input models.GameInput) (*models.Game, error) {
	var game models.Game
	if err := c.do(ctx, http.MethodPut, "/juegos/"+url.PathEscape(id), input, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (c *Client) DeleteGame(ctx context.Context, id string) (map[string]interface{}, error) {
	var confirmation map[string]interface{}
	if err := c.do(ctx, http.MethodDelete, "/juegos/"+url.PathEscape(id), nil, &confirmation); err != nil {
		return nil, err
	}
	return confirmation, nil
}

// ListReviews lists every review, or only the reviews of gameID when it is
// not empty.
func (c *Client) ListReviews(ctx context.Context, gameID string) ([]models.Review, error) {
	path := "/resenas"
	if gameID != "" {
		path += "?" + url.Values{"juegoId": []string{gameID}}.Encode()
	}
	var reviews []models.Review
	if err := c.do(ctx, http.MethodGet, path, nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *Client) GetReview(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	if err := c.do(ctx, http.MethodGet, "/resenas/"+url.PathEscape(id), nil, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (c *Client) CreateReview(ctx context.Context, input models.ReviewInput) (*models.Review, error) {
	var review models.Review
	if err := c.do(ctx, http.MethodPost, "/resenas", input, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (c *Client) UpdateReview(ctx context.Context, id string, input models.ReviewInput) (*models.Review, error) {
	var review models.Review
	if err := c.do(ctx, http.MethodPut, "/resenas/"+url.PathEscape(id), input, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (c *Client) DeleteReview(ctx context.Context, id string) (map[string]interface{}, error) {
	var confirmation map[string]interface{}
	if err := c.do(ctx, http.MethodDelete, "/resenas/"+url.PathEscape(id), nil, &confirmation); err != nil {
		return nil, err
	}
	return confirmation, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	err := c.roundTrip(ctx, method, path, body, out)
	if err != nil {
		c.log.Error("backend request failed",
			slog.String("method", method),
			slog.String("path", path),
			logger.Err(err))
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(data)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read: %w", method, path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}
