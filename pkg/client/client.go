// Package client is a Go client for the FollowUp REST API. Every call
// returns the decoded data of the response envelope, or an *APIError when
// the server answers with success=false.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultTimeout = 30 * time.Second

// FieldError is one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a non-success envelope.
type APIError struct {
	Status  int
	Message string
	Errors  []FieldError
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("followup: %d %s", e.Status, e.Message)
	}
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return fmt.Sprintf("followup: %d %s (%s)", e.Status, e.Message, strings.Join(parts, "; "))
}

// NotFound reports whether err is a 404 answer.
func NotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type envelope[T any] struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    T            `json:"data"`
	Count   *int         `json:"count"`
	Total   *int         `json:"total"`
	Errors  []FieldError `json:"errors"`
}

type Client struct {
	http *resty.Client
}

// New returns a client for the API mounted at baseURL, e.g.
// "http://localhost:8000/api".
func New(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(DefaultTimeout).
			SetHeader("Accept", "application/json"),
	}
}

// SetToken sends token as a bearer credential on every request.
func (c *Client) SetToken(token string) *Client {
	c.http.SetAuthToken(token)
	return c
}

// call sends one request and unwraps the envelope.
func call[T any](ctx context.Context, c *Client, method, path string, body interface{}, query map[string]string) (*envelope[T], error) {
	var env envelope[T]
	req := c.http.R().
		SetContext(ctx).
		SetResult(&env).
		SetError(&env)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = resp.Status()
		}
		return nil, &APIError{Status: resp.StatusCode(), Message: msg, Errors: env.Errors}
	}
	return &env, nil
}

func idPath(format string, ids ...int64) string {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return fmt.Sprintf(format, args...)
}

// Incidents returns one page of incidents, newest first, and the total count.
func (c *Client) Incidents(ctx context.Context, page, limit int) ([]Incident, int, error) {
	query := map[string]string{}
	if page > 0 {
		query["page"] = strconv.Itoa(page)
	}
	if limit > 0 {
		query["limit"] = strconv.Itoa(limit)
	}
	env, err := call[[]Incident](ctx, c, http.MethodGet, "/incidents", nil, query)
	if err != nil {
		return nil, 0, err
	}
	total := len(env.Data)
	if env.Total != nil {
		total = *env.Total
	}
	return env.Data, total, nil
}

func (c *Client) Incident(ctx context.Context, id int64) (*Incident, error) {
	env, err := call[*Incident](ctx, c, http.MethodGet, idPath("/incidents/%d", id), nil, nil)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) CreateIncident(ctx context.Context, in CreateIncident) (*Incident, error) {
	env, err := call[*Incident](ctx, c, http.MethodPost, "/incidents", in, nil)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) UpdateIncident(ctx context.Context, id int64, in UpdateIncident) (*Incident, error) {
	env, err := call[*Incident](ctx, c, http.MethodPut, idPath("/incidents/%d", id), in, nil)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// DeleteIncident also removes the incident's follow-ups.
func (c *Client) DeleteIncident(ctx context.Context, id int64) error {
	_, err := call[struct{}](ctx, c, http.MethodDelete, idPath("/incidents/%d", id), nil, nil)
	return err
}

func (c *Client) PatientIncidents(ctx context.Context, patientID int64) ([]Incident, error) {
	env, err := call[[]Incident](ctx, c, http.MethodGet, idPath("/patients/%d/incidents", patientID), nil, nil)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) Suivis(ctx context.Context, incidentID int64) ([]Suivi, error) {
	env, err := call[[]Suivi](ctx, c, http.MethodGet, idPath("/incidents/%d/suivis", incidentID), nil, nil)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) AddSuivi(ctx context.Context, incidentID int64, in CreateSuivi) (*Suivi, error) {
	env, err := call[*Suivi](ctx, c, http.MethodPost, idPath("/incidents/%d/suivis", incidentID), in, nil)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) DeleteSuivi(ctx context.Context, incidentID, suiviID int64) error {
	_, err := call[struct{}](ctx, c, http.MethodDelete, idPath("/incidents/%d/suivis/%d", incidentID, suiviID), nil, nil)
	return err
}

// Patients lists every patient, or those matching q on name or e-mail.
func (c *Client) Patients(ctx context.Context, q string) ([]Patient, error) {
	var query map[string]string
	if q != "" {
		query = map[string]string{"q": q}
	}
	env, err := call[[]Patient](ctx, c, http.MethodGet, "/patients", nil, query)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) Patient(ctx context.Context, id int64) (*Patient, error) {
	env, err := call[*Patient](ctx, c, http.MethodGet, idPath("/patients/%d", id), nil, nil)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// ExportIncidents downloads the incident registry as an XLSX workbook.
func (c *Client) ExportIncidents(ctx context.Context) ([]byte, error) {
	var env envelope[struct{}]
	resp, err := c.http.R().SetContext(ctx).SetError(&env).Get("/incidents/export")
	if err != nil {
		return nil, fmt.Errorf("GET /incidents/export: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{Status: resp.StatusCode(), Message: env.Message, Errors: env.Errors}
	}
	return resp.Body(), nil
}
