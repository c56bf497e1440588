// Package client is a typed client for the diet journal HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/atinyakov/DietJournal/internal/models"
)

// APIError is returned when the server answers with a non-2xx status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}

// Client talks to a journal server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for baseURL. A nil httpClient gets a 10 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// BaseURL returns the server address the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// LoginResult is the server's answer to a login or user check.
type LoginResult struct {
	UserID       int64         `json:"user_id"`
	Username     string        `json:"username"`
	IsNew        bool          `json:"is_new"`
	CurrentStage *models.Stage `json:"current_stage"`
}

// StageInput describes a stage to open.
type StageInput struct {
	UserID        int64   `json:"user_id"`
	StageType     string  `json:"stage_type"`
	StartDate     string  `json:"start_date"`
	InitialWeight float64 `json:"initial_weight"`
}

// EntryInput is one day's record to save.
type EntryInput struct {
	UserID      int64              `json:"user_id"`
	StageID     int64              `json:"stage_id"`
	EntryDate   string             `json:"entry_date"`
	DailyParams models.DailyParams `json:"daily_params"`
	Meals       []models.Meal      `json:"meals"`
}

// Login logs in as username, registering it on first use.
func (c *Client) Login(ctx context.Context, username string) (*LoginResult, error) {
	var out LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{"username": username}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Check returns the user with userID and their open stage.
func (c *Client) Check(ctx context.Context, userID int64) (*LoginResult, error) {
	var out LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/check", map[string]int64{"user_id": userID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateStage opens a stage and returns its id.
func (c *Client) CreateStage(ctx context.Context, in StageInput) (int64, error) {
	var out struct {
		StageID int64 `json:"stage_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/stage/create", in, &out); err != nil {
		return 0, err
	}
	return out.StageID, nil
}

// CompleteStage closes the user's stage.
func (c *Client) CompleteStage(ctx context.Context, userID, stageID int64) error {
	body := map[string]int64{"user_id": userID, "stage_id": stageID}
	return c.do(ctx, http.MethodPost, "/api/stage/complete", body, nil)
}

// CurrentStage returns the user's open stage, or nil.
func (c *Client) CurrentStage(ctx context.Context, userID int64) (*models.Stage, error) {
	var out struct {
		Stage *models.Stage `json:"stage"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/stage/current/"+id(userID), nil, &out); err != nil {
		return nil, err
	}
	return out.Stage, nil
}

// SaveEntry stores a day's record and returns the entry id.
func (c *Client) SaveEntry(ctx context.Context, in EntryInput) (int64, error) {
	if in.Meals == nil {
		in.Meals = []models.Meal{}
	}
	var out struct {
		EntryID int64 `json:"entry_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/entry/save", in, &out); err != nil {
		return 0, err
	}
	return out.EntryID, nil
}

// GetEntry returns the user's entry for date, or nil.
func (c *Client) GetEntry(ctx context.Context, userID int64, date string) (*models.Entry, error) {
	q := url.Values{"user_id": {id(userID)}, "date": {date}}
	var out struct {
		Entry *models.Entry `json:"entry"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/entry/get?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Entry, nil
}

// History returns up to limit recent entries; 0 uses the server default.
func (c *Client) History(ctx context.Context, userID int64, limit int) ([]models.Entry, error) {
	var out struct {
		Entries []models.Entry `json:"entries"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/entry/history/"+id(userID)+window("limit", limit), nil, &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}

// AddProduct adds a product to the user's catalog and returns its id.
func (c *Client) AddProduct(ctx context.Context, userID int64, name string, caloriesPer100g float64) (int64, error) {
	body := struct {
		UserID          int64   `json:"user_id"`
		ProductName     string  `json:"product_name"`
		CaloriesPer100g float64 `json:"calories_per_100g"`
	}{userID, name, caloriesPer100g}
	var out struct {
		ProductID int64 `json:"product_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/products/add", body, &out); err != nil {
		return 0, err
	}
	return out.ProductID, nil
}

// ListProducts returns the user's whole catalog.
func (c *Client) ListProducts(ctx context.Context, userID int64) ([]models.Product, error) {
	var out struct {
		Products []models.Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/products/list/"+id(userID), nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// SearchProducts returns catalog products whose name contains query.
func (c *Client) SearchProducts(ctx context.Context, userID int64, query string) ([]models.Product, error) {
	q := url.Values{"query": {query}}
	var out struct {
		Products []models.Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/products/search/"+id(userID)+"?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// GenerateReport renders the report for date and returns its server path,
// e.g. /reports/report_1_2025-01-02.html.
func (c *Client) GenerateReport(ctx context.Context, userID int64, date, format string) (string, error) {
	body := map[string]any{"user_id": userID, "date": date, "format": format}
	var out struct {
		ReportURL string `json:"report_url"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/report/generate", body, &out); err != nil {
		return "", err
	}
	return out.ReportURL, nil
}

// DownloadReport copies the report at reportURL, as returned by
// GenerateReport, into w.
func (c *Client) DownloadReport(ctx context.Context, reportURL string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+reportURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	return nil
}

// WeightStats returns weight figures of the last days entries, newest first.
func (c *Client) WeightStats(ctx context.Context, userID int64, days int) ([]models.WeightStat, error) {
	var out struct {
		Stats []models.WeightStat `json:"stats"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/stats/weight/"+id(userID)+window("days", days), nil, &out); err != nil {
		return nil, err
	}
	return out.Stats, nil
}

// WeightSummary aggregates the same window as WeightStats.
func (c *Client) WeightSummary(ctx context.Context, userID int64, days int) (*models.WeightSummary, error) {
	var out struct {
		Summary *models.WeightSummary `json:"summary"`
	}
	path := "/api/stats/weight/" + id(userID) + "/summary" + window("days", days)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Summary, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	return nil
}

func apiError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var env envelope
	msg := string(bytes.TrimSpace(data))
	if json.Unmarshal(data, &env) == nil && env.Error != "" {
		msg = env.Error
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func window(name string, n int) string {
	if n <= 0 {
		return ""
	}
	return "?" + name + "=" + strconv.Itoa(n)
}
