// Package upstream implements the HTTP client for the remote thesis API.
// It owns bearer-token injection, JSON codec, error mapping and the 401
// interception rule: an unauthorized answer clears the whole portal
// session unless the path belongs to the topic-registration allow-list,
// whose callers handle the error locally.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/uniportal/thesis-portal/internal/api/metrics"
	"github.com/uniportal/thesis-portal/internal/core/domain"
	"github.com/uniportal/thesis-portal/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// exempt401Paths lists the upstream paths whose 401 answers must NOT blow
// away the session. A student mid-registration hitting a transient
// authorization hiccup stays on the page and sees a local error instead
// of being kicked to login.
var exempt401Paths = []string{
	"/thesis/register-topic",
	"/thesis/available-topics",
	"/thesis/my-registrations",
}

// Client talks to the thesis API. It implements ports.AuthAPI,
// ports.TopicAPI, ports.ReportAPI and ports.AccountAPI.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// --- ports.AuthAPI ---

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Success     bool         `json:"success"`
	AccessToken string       `json:"access_token"`
	User        *domain.User `json:"user"`
	Message     string       `json:"message"`
}

func (c *Client) Login(ctx context.Context, in ports.LoginInput) (string, *domain.User, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", "", loginRequest{Username: in.Username, Password: in.Password}, &resp)
	if err != nil {
		// A 401 at login means bad credentials, not an expired session.
		if errors.Is(err, domain.ErrSessionExpired) || errors.Is(err, domain.ErrUpstreamUnauthorized) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if resp.AccessToken == "" {
		return "", nil, domain.ErrInvalidCredentials
	}
	return resp.AccessToken, resp.User, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
}

func (c *Client) Profile(ctx context.Context, token string) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// --- ports.TopicAPI ---

type topicPageResponse struct {
	Topics []domain.Topic `json:"topics"`
	Total  int            `json:"total"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
}

func (c *Client) AvailableTopics(ctx context.Context, token string, search ports.TopicSearch) (*ports.TopicPage, error) {
	path := "/thesis/available-topics?page=" + strconv.Itoa(max(search.Page, 1)) +
		"&limit=" + strconv.Itoa(max(search.Limit, 1))
	if search.TeacherName != "" {
		path += "&teacherName=" + queryEscape(search.TeacherName)
	}
	if search.TopicName != "" {
		path += "&topicName=" + queryEscape(search.TopicName)
	}

	var resp topicPageResponse
	if err := c.do(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return nil, err
	}
	return &ports.TopicPage{Topics: resp.Topics, Total: resp.Total, Page: resp.Page, Limit: resp.Limit}, nil
}

func (c *Client) ProposedTopics(ctx context.Context, token string) ([]domain.Topic, error) {
	var topics []domain.Topic
	if err := c.do(ctx, http.MethodGet, "/thesis/proposed-topics", token, nil, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

type proposeTopicRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

func (c *Client) ProposeTopic(ctx context.Context, token string, in ports.ProposeTopicInput) (*domain.Topic, error) {
	var topic domain.Topic
	req := proposeTopicRequest{Title: in.Title, Description: in.Description}
	if err := c.do(ctx, http.MethodPost, "/thesis/proposed-topics", token, req, &topic); err != nil {
		return nil, err
	}
	return &topic, nil
}

type registerTopicRequest struct {
	ThesisRoundID int    `json:"thesisRoundId"`
	InstructorID  int    `json:"instructorId"`
	Notes         string `json:"notes,omitempty"`
}

type registerTopicResponse struct {
	Registration domain.Registration `json:"registration"`
	Message      string              `json:"message"`
}

func (c *Client) RegisterTopic(ctx context.Context, token string, in ports.RegisterTopicInput) (*domain.Registration, error) {
	req := registerTopicRequest{ThesisRoundID: in.ThesisRoundID, InstructorID: in.InstructorID, Notes: in.Notes}
	var resp registerTopicResponse
	if err := c.do(ctx, http.MethodPost, "/thesis/register-topic", token, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Registration, nil
}

func (c *Client) MyRegistrations(ctx context.Context, token string) ([]domain.Registration, error) {
	var regs []domain.Registration
	if err := c.do(ctx, http.MethodGet, "/thesis/my-registrations", token, nil, &regs); err != nil {
		return nil, err
	}
	return regs, nil
}

func (c *Client) StudentRegistrations(ctx context.Context, token string) ([]domain.RegistrationDetail, error) {
	// The API has answered both a bare array and a {"data": [...]}
	// envelope across revisions; accept either.
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/thesis/student-registrations", token, nil, &raw); err != nil {
		return nil, err
	}

	var regs []domain.RegistrationDetail
	if err := json.Unmarshal(raw, &regs); err == nil {
		return regs, nil
	}
	var envelope struct {
		Data []domain.RegistrationDetail `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: unexpected student-registrations payload", domain.ErrUpstreamUnavailable)
	}
	return envelope.Data, nil
}

type approveRegistrationRequest struct {
	RegistrationID int    `json:"registrationId"`
	IsApproved     bool   `json:"isApproved"`
	Notes          string `json:"notes,omitempty"`
}

type approveRegistrationResponse struct {
	Message      string              `json:"message"`
	Registration domain.Registration `json:"registration"`
}

func (c *Client) ApproveRegistration(ctx context.Context, token string, in ports.ApproveRegistrationInput) (*domain.Registration, error) {
	req := approveRegistrationRequest{RegistrationID: in.RegistrationID, IsApproved: in.IsApproved, Notes: in.Notes}
	var resp approveRegistrationResponse
	if err := c.do(ctx, http.MethodPost, "/thesis/approve-registration", token, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Registration, nil
}

// --- ports.ReportAPI ---

func (c *Client) Reports(ctx context.Context, token string) ([]domain.Report, error) {
	var reports []domain.Report
	if err := c.do(ctx, http.MethodGet, "/thesis/reports", token, nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

type submitReportRequest struct {
	Week          int    `json:"week"`
	Content       string `json:"content"`
	AttachmentURL string `json:"attachmentUrl,omitempty"`
}

func (c *Client) SubmitReport(ctx context.Context, token string, in ports.SubmitReportInput) (*domain.Report, error) {
	req := submitReportRequest{Week: in.Week, Content: in.Content, AttachmentURL: in.AttachmentURL}
	var report domain.Report
	if err := c.do(ctx, http.MethodPost, "/thesis/reports", token, req, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// --- ports.AccountAPI ---

func (c *Client) ListAccounts(ctx context.Context, token string) ([]domain.User, error) {
	var users []domain.User
	if err := c.do(ctx, http.MethodGet, "/users", token, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

type createAccountRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	FullName string   `json:"fullName,omitempty"`
	Roles    []string `json:"roles"`
}

func (c *Client) CreateAccount(ctx context.Context, token string, in ports.CreateAccountInput) (*domain.User, error) {
	req := createAccountRequest{Email: in.Email, Password: in.Password, FullName: in.FullName, Roles: in.Roles}
	var u domain.User
	if err := c.do(ctx, http.MethodPost, "/users", token, req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

type updateRolesRequest struct {
	Roles []string `json:"roles"`
}

func (c *Client) UpdateRoles(ctx context.Context, token string, userID string, roles []string) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, http.MethodPut, "/users/"+userID+"/roles", token, updateRolesRequest{Roles: roles}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Ping reports transport-level reachability of the thesis API for the
// readiness probe. Any HTTP answer counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	return resp.Body.Close()
}

// --- transport ---

// do performs one round-trip: encode body, inject the bearer token,
// record metrics, map the status code to a domain error, decode out.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	endpoint := endpointLabel(path)
	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, statusClass(resp.StatusCode)).Inc()

	if err := c.mapStatus(resp, path); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", domain.ErrUpstreamUnavailable, path, err)
	}
	return nil
}

// mapStatus converts a non-2xx answer into a domain error. 401 handling
// is the interception rule documented on exempt401Paths.
func (c *Client) mapStatus(resp *http.Response, path string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	msg := upstreamMessage(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if is401Exempt(path) {
			c.log.Warn().Str("path", path).Msg("upstream 401 on exempt path, handled locally")
			return fmt.Errorf("%w: %s", domain.ErrUpstreamUnauthorized, msg)
		}
		return domain.ErrSessionExpired
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return domain.ErrUserExists
	case resp.StatusCode >= 500:
		c.log.Error().Str("path", path).Int("status", resp.StatusCode).Msg("thesis API failure")
		return fmt.Errorf("%w: status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	default:
		return fmt.Errorf("%w: status %d: %s", domain.ErrUpstreamUnavailable, resp.StatusCode, msg)
	}
}

func is401Exempt(path string) bool {
	for _, p := range exempt401Paths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// upstreamMessage extracts the API's {"message": ...} error body when
// present; body read errors yield an empty message.
func upstreamMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 4096)).Decode(&payload); err != nil {
		return ""
	}
	return payload.Message
}

// endpointLabel strips the query string so metrics stay low-cardinality.
func endpointLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}

func statusClass(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "other"
	}
}

func queryEscape(s string) string {
	return url.QueryEscape(s)
}
