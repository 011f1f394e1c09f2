package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/nexus-hq/nexus-attendance/internal/config"
	"github.com/nexus-hq/nexus-attendance/internal/logger"
	"github.com/nexus-hq/nexus-attendance/models"
)

type httpBackendAdapter struct {
	client *resty.Client
	logger *logger.Logger

	mu    sync.RWMutex
	token string
}

// NewHTTPBackendAdapter constructs the HTTP/REST implementation of
// [BackendAdapter] for remote mode. It normalises and validates the base URL
// from apiCfg.BaseURL and configures the underlying resty client with the
// resolved base URL and request timeout.
//
// Returns an error if apiCfg.BaseURL is empty or cannot be parsed as a valid
// URL.
func NewHTTPBackendAdapter(apiCfg config.API, log *logger.Logger) (BackendAdapter, error) {
	baseURL, err := normalizeBaseURL(apiCfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend base url: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(apiCfg.RequestTimeout)

	return &httpBackendAdapter{client: client, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [BackendAdapter]. It stores token (whitespace-trimmed)
// for use in the Authorization header of all subsequent authenticated
// requests.
func (h *httpBackendAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [BackendAdapter].
func (h *httpBackendAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Login implements [BackendAdapter]. It POSTs the credentials to
// POST /auth/login and on success stores the returned access token via
// SetToken. The Remember flag never leaves the client.
func (h *httpBackendAdapter) Login(ctx context.Context, creds models.Credentials) (models.User, string, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.LoginRequest{Email: creds.Email, Password: creds.Password}).
		Post("/auth/login")
	if err != nil {
		return models.User{}, "", fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, "", err
	}

	var body models.LoginResponse
	if err = json.Unmarshal(resp.Body(), &body); err != nil {
		return models.User{}, "", fmt.Errorf("%w: decode login response: %v", ErrMalformedResponse, err)
	}

	h.SetToken(body.AccessToken)
	return body.User.ToUser(), body.AccessToken, nil
}

// Register implements [BackendAdapter]. It POSTs the registration form to
// POST /auth/register, then performs the implicit login with the same
// credentials. The backend expects an employee_id, which the client
// synthesizes.
func (h *httpBackendAdapter) Register(ctx context.Context, data models.RegisterData) (models.User, string, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.RegisterRequest{
			Email:      data.Email,
			Password:   data.Password,
			FirstName:  data.FirstName,
			LastName:   data.LastName,
			EmployeeID: newEmployeeID(),
			Department: data.Department,
			Position:   data.Position,
			Phone:      data.Phone,
		}).
		Post("/auth/register")
	if err != nil {
		return models.User{}, "", fmt.Errorf("register request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, "", err
	}

	var body models.RegisterResponse
	if err = json.Unmarshal(resp.Body(), &body); err != nil {
		return models.User{}, "", fmt.Errorf("%w: decode register response: %v", ErrMalformedResponse, err)
	}

	return h.Login(ctx, models.Credentials{Email: data.Email, Password: data.Password})
}

// CurrentUser implements [BackendAdapter]. It GETs /auth/me with the stored
// bearer token.
func (h *httpBackendAdapter) CurrentUser(ctx context.Context) (models.User, error) {
	resp, err := h.authedRequest(ctx).Get("/auth/me")
	if err != nil {
		return models.User{}, fmt.Errorf("current user request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	var body models.CurrentUserResponse
	if err = json.Unmarshal(resp.Body(), &body); err != nil {
		return models.User{}, fmt.Errorf("%w: decode current user response: %v", ErrMalformedResponse, err)
	}

	return body.User.ToUser(), nil
}

// Logout implements [BackendAdapter]. It POSTs /auth/logout with the stored
// bearer token; the response body is ignored.
func (h *httpBackendAdapter) Logout(ctx context.Context) error {
	resp, err := h.authedRequest(ctx).Post("/auth/logout")
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}

	return mapHTTPError(resp)
}

// CheckIn implements [BackendAdapter]. It POSTs the check-in metadata to
// POST /api/check-in.
func (h *httpBackendAdapter) CheckIn(ctx context.Context, meta models.CheckInMeta) (models.CheckInResponse, error) {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.CheckInRequest{
			Location: meta.Location,
			DeviceID: meta.DeviceID,
			Method:   meta.Method,
		}).
		Post("/api/check-in")
	if err != nil {
		return models.CheckInResponse{}, fmt.Errorf("check-in request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.CheckInResponse{}, err
	}

	var body models.CheckInResponse
	if err = json.Unmarshal(resp.Body(), &body); err != nil {
		return models.CheckInResponse{}, fmt.Errorf("%w: decode check-in response: %v", ErrMalformedResponse, err)
	}

	return body, nil
}

// CheckOut implements [BackendAdapter]. It POSTs to
// POST /api/check-out/{id}.
func (h *httpBackendAdapter) CheckOut(ctx context.Context, attendanceID string) (models.CheckOutResponse, error) {
	resp, err := h.authedRequest(ctx).
		SetPathParam("id", attendanceID).
		Post("/api/check-out/{id}")
	if err != nil {
		return models.CheckOutResponse{}, fmt.Errorf("check-out request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.CheckOutResponse{}, err
	}

	var body models.CheckOutResponse
	if err = json.Unmarshal(resp.Body(), &body); err != nil {
		return models.CheckOutResponse{}, fmt.Errorf("%w: decode check-out response: %v", ErrMalformedResponse, err)
	}

	return body, nil
}

// History implements [BackendAdapter]. It GETs /api/attendance with limit and
// skip query parameters and converts the wire records to the domain model.
func (h *httpBackendAdapter) History(ctx context.Context, limit, skip int) ([]models.AttendanceRecord, error) {
	resp, err := h.authedRequest(ctx).
		SetQueryParam("limit", fmt.Sprint(limit)).
		SetQueryParam("skip", fmt.Sprint(skip)).
		Get("/api/attendance")
	if err != nil {
		return nil, fmt.Errorf("history request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var body models.HistoryResponse
	if err = json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("%w: decode history response: %v", ErrMalformedResponse, err)
	}

	records := make([]models.AttendanceRecord, 0, len(body.Records))
	for _, r := range body.Records {
		records = append(records, r.ToRecord())
	}

	return records, nil
}

// Users implements [BackendAdapter]. It GETs /api/users (admin only).
func (h *httpBackendAdapter) Users(ctx context.Context) ([]models.User, error) {
	resp, err := h.authedRequest(ctx).Get("/api/users")
	if err != nil {
		return nil, fmt.Errorf("users request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var body models.UsersResponse
	if err = json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("%w: decode users response: %v", ErrMalformedResponse, err)
	}

	users := make([]models.User, 0, len(body.Users))
	for _, u := range body.Users {
		users = append(users, u.ToUser())
	}

	return users, nil
}

// Stats implements [BackendAdapter]. It GETs /api/stats (admin only).
func (h *httpBackendAdapter) Stats(ctx context.Context) (models.DashboardStats, error) {
	resp, err := h.authedRequest(ctx).Get("/api/stats")
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("stats request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.DashboardStats{}, err
	}

	var body models.StatsResponse
	if err = json.Unmarshal(resp.Body(), &body); err != nil {
		return models.DashboardStats{}, fmt.Errorf("%w: decode stats response: %v", ErrMalformedResponse, err)
	}

	return models.FromBackendStats(body.Stats), nil
}

func (h *httpBackendAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
