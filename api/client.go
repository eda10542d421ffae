package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// ServerError is a business error reported by the backend (duplicate
// username, wrong password, ...). Its message is shown to the user verbatim.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string { return e.Message }

// Client talks JSON over HTTP to the book/user backend. Deliberately no
// request timeout: a hung request leaves its screen loading until the user
// navigates away, matching the rest of the fail-soft behavior.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(baseURL string, log *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		log:        log,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("path", path), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var payload struct {
			Error string `json:"error"`
		}
		msg := fmt.Sprintf("unexpected status: %d", resp.StatusCode)
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
			msg = payload.Error
		}
		return &ServerError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// ListBooks fetches one section's books. The caller treats the result as a
// fresh mirror of server state; nothing is cached.
func (c *Client) ListBooks(ctx context.Context, userID int64, section Section) ([]Book, error) {
	var books []Book
	if err := c.do(ctx, http.MethodGet, section.path(userID), nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// Counts fetches per-status totals.
func (c *Client) Counts(ctx context.Context, userID int64) (Counts, error) {
	var counts Counts
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/books/%d/counts", userID), nil, &counts)
	return counts, err
}

// RatingSummary fetches the rating histogram and average.
func (c *Client) RatingSummary(ctx context.Context, userID int64) (RatingSummary, error) {
	var summary RatingSummary
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/books/%d/rating_summary", userID), nil, &summary)
	return summary, err
}

func (c *Client) finishedCount(ctx context.Context, endpoint string, userID int64) (int, error) {
	var payload struct {
		Count int `json:"count"`
	}
	path := fmt.Sprintf("%s?user_id=%d", endpoint, userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return 0, err
	}
	return payload.Count, nil
}

// FinishedThisMonth counts books finished in the current calendar month.
func (c *Client) FinishedThisMonth(ctx context.Context, userID int64) (int, error) {
	return c.finishedCount(ctx, "/books/finished_this_month", userID)
}

// FinishedThisYear counts books finished in the current calendar year.
func (c *Client) FinishedThisYear(ctx context.Context, userID int64) (int, error) {
	return c.finishedCount(ctx, "/books/finished_this_year", userID)
}

// AddBook creates a book. The response body is not the new source of truth;
// callers refetch the affected section and counts afterwards.
func (c *Client) AddBook(ctx context.Context, book Book) error {
	return c.do(ctx, http.MethodPost, "/addbook", book, nil)
}

// EditBook replaces a book's fields by id. Same refetch-after contract as
// AddBook.
func (c *Client) EditBook(ctx context.Context, book Book) error {
	return c.do(ctx, http.MethodPost, "/editbook", book, nil)
}

// DeleteBook removes a book owned by userID.
func (c *Client) DeleteBook(ctx context.Context, bookID, userID int64) error {
	body := map[string]int64{"book_id": bookID, "user_id": userID}
	return c.do(ctx, http.MethodPost, "/deletebook", body, nil)
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	UserID int64 `json:"user_id"`
}

// Login exchanges credentials for a user id. Server errors ("Invalid
// credentials") come back as *ServerError.
func (c *Client) Login(ctx context.Context, username, password string) (int64, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/login", credentials{username, password}, &resp); err != nil {
		return 0, err
	}
	return resp.UserID, nil
}

// Register creates an account and returns the new user id.
func (c *Client) Register(ctx context.Context, username, password string) (int64, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/register", credentials{username, password}, &resp); err != nil {
		return 0, err
	}
	return resp.UserID, nil
}

// Username fetches the display name for a user id.
func (c *Client) Username(ctx context.Context, userID int64) (string, error) {
	var payload struct {
		Username string `json:"username"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/username/%d", userID), nil, &payload); err != nil {
		return "", err
	}
	return payload.Username, nil
}

// SetUsername renames the account. A 409 for a taken name surfaces verbatim.
func (c *Client) SetUsername(ctx context.Context, userID int64, username string) (string, error) {
	body := map[string]string{"username": username}
	var payload struct {
		Username string `json:"username"`
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/username/%d", userID), body, &payload); err != nil {
		return "", err
	}
	return payload.Username, nil
}

// ChangePassword swaps the password after the backend verifies the current
// one.
func (c *Client) ChangePassword(ctx context.Context, userID int64, current, newPassword string) error {
	body := map[string]any{
		"user_id":          userID,
		"current_password": current,
		"new_password":     newPassword,
	}
	return c.do(ctx, http.MethodPost, "/change_password", body, nil)
}

// BaseURL reports the configured backend, mostly for logging.
func (c *Client) BaseURL() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return c.baseURL
	}
	return u.String()
}
