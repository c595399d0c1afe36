package shiprocket

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

const (
	defaultBaseURL = "https://apiv2.shiprocket.in/v1/external"
	defaultTimeout = 30 * time.Second
)

const responseBodyReadLimit int64 = 1024

var (
	errEmailRequired    = errors.New("shiprocket email is required")
	errPasswordRequired = errors.New("shiprocket password is required")
)

// Client talks to the Shiprocket external API. Every operation logs in first;
// tokens are never reused between calls.
type Client struct {
	httpClient *http.Client
	baseURL    string
	email      string
	password   string
	timeout    time.Duration
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the Shiprocket API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithTimeout bounds every request, whichever HTTP client ends up in use.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// NewClient builds the Shiprocket client given account credentials.
func NewClient(email, password string, opts ...Option) (*Client, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errEmailRequired
	}
	if password == "" {
		return nil, errPasswordRequired
	}

	client := &Client{
		email:      email,
		password:   password,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if client.timeout > 0 {
		// copy so a caller supplied client is left untouched
		hc := *client.httpClient
		hc.Timeout = client.timeout
		client.httpClient = &hc
	}
	return client, nil
}

// CreateOrderResponse is the subset of the adhoc order response we keep.
type CreateOrderResponse struct {
	OrderID    ID     `json:"order_id"`
	ShipmentID ID     `json:"shipment_id"`
	Status     string `json:"status"`
}

// Authenticate exchanges the account credentials for a bearer token.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "shiprocket client not configured")
	}
	body := map[string]string{"email": c.email, "password": c.password}

	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "auth/login", "", body, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "shiprocket login returned no token")
	}
	return resp.Token, nil
}

// CreateOrder registers an adhoc order and returns the carrier's ids.
func (c *Client) CreateOrder(ctx context.Context, payload OrderPayload) (*CreateOrderResponse, error) {
	token, err := c.Authenticate(ctx)
	if err != nil {
		return nil, err
	}
	var resp CreateOrderResponse
	if err := c.do(ctx, http.MethodPost, "orders/create/adhoc", token, payload, &resp); err != nil {
		return nil, err
	}
	if resp.OrderID.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "shiprocket order response missing order_id")
	}
	return &resp, nil
}

// PrintInvoice requests invoice generation for the given carrier order ids.
func (c *Client) PrintInvoice(ctx context.Context, ids ...ID) (json.RawMessage, error) {
	if len(ids) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one order id is required")
	}
	token, err := c.Authenticate(ctx)
	if err != nil {
		return nil, err
	}
	var resp json.RawMessage
	if err := c.do(ctx, http.MethodPost, "orders/print/invoice", token, map[string][]ID{"ids": ids}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// TrackShipment returns the raw tracking document for a shipment.
func (c *Client) TrackShipment(ctx context.Context, shipmentID ID) (json.RawMessage, error) {
	if shipmentID.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipment id is required")
	}
	token, err := c.Authenticate(ctx)
	if err != nil {
		return nil, err
	}
	path := "courier/track/shipment/" + url.PathEscape(shipmentID.String())
	var resp json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CancelOrders cancels carrier orders by id.
func (c *Client) CancelOrders(ctx context.Context, ids ...ID) error {
	if len(ids) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one order id is required")
	}
	token, err := c.Authenticate(ctx)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "orders/cancel", token, map[string][]ID{"ids": ids}, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal shiprocket request")
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build shiprocket request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute shiprocket request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		cause := &pkgerrors.ProviderError{Provider: "shiprocket", Status: resp.StatusCode, Body: string(msg)}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, cause, "shiprocket "+path+" failed")
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode shiprocket response")
	}
	return nil
}

func (c *Client) buildURL(path string) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}
