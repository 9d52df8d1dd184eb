// Package gateway talks to the external shipment backend. It owns the HTTP
// transport and reconciles the backend's loosely typed JSON into the payload
// types declared in ports.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/dmlogistics/portal/internal/core/domain"
	"github.com/dmlogistics/portal/internal/core/ports"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20

	pathShipmentByTracking = "/shipments/tracking/%s"
	pathShipmentStatus     = "/shipments/status/%s"
	pathAllShipments       = "/shipments"
	pathRecentShipments    = "/shipments/recent"
	pathCreateShipment     = "/shipments"
	pathUpdateStatus       = "/shipments/%s/status"
	pathHealth             = "/health"
)

// TransportError is one failed backend call: no response, a non-2xx status,
// or a body that could not be read as JSON.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("backend %s: status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("backend %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() []error { return []error{domain.ErrTransport, e.Err} }

// Client implements ports.BackendGateway over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

var _ ports.BackendGateway = (*Client)(nil)

// NewClient builds a client for baseURL. A nil httpClient gets one with
// timeout (defaultTimeout when timeout <= 0).
func NewClient(baseURL string, timeout time.Duration, httpClient *http.Client, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: baseURL, http: httpClient, logger: logger}
}

func (c *Client) ShipmentByTracking(ctx context.Context, trackingID string) (*ports.ShipmentSnapshot, error) {
	const endpoint = "shipment_by_tracking"
	body, _, err := c.do(ctx, endpoint, http.MethodGet, fmt.Sprintf(pathShipmentByTracking, url.PathEscape(trackingID)), nil, true)
	if err != nil {
		return nil, err
	}
	snap, err := decodeSnapshot(body)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	return snap, nil
}

func (c *Client) ShipmentStatus(ctx context.Context, trackingID string) (*ports.StatusPayload, error) {
	const endpoint = "shipment_status"
	body, _, err := c.do(ctx, endpoint, http.MethodGet, fmt.Sprintf(pathShipmentStatus, url.PathEscape(trackingID)), nil, true)
	if err != nil {
		return nil, err
	}
	payload, err := decodeStatus(body)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	return payload, nil
}

func (c *Client) AllShipments(ctx context.Context) ([]ports.FlatShipment, error) {
	const endpoint = "all_shipments"
	body, _, err := c.do(ctx, endpoint, http.MethodGet, pathAllShipments, nil, true)
	if err != nil {
		return nil, err
	}
	list, err := decodeFlatList(body)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	return list, nil
}

func (c *Client) RecentShipments(ctx context.Context, email string) ([]ports.NestedShipment, error) {
	const endpoint = "recent_shipments"
	path := pathRecentShipments + "?" + url.Values{"email": {email}}.Encode()
	body, _, err := c.do(ctx, endpoint, http.MethodGet, path, nil, true)
	if err != nil {
		return nil, err
	}
	list, err := decodeNestedList(body)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	return list, nil
}

func (c *Client) CreateShipment(ctx context.Context, input ports.CreateShipmentInput) (*ports.MutationResult, error) {
	return c.mutate(ctx, "create_shipment", pathCreateShipment, createRequestFrom(input))
}

func (c *Client) UpdateStatus(ctx context.Context, trackingID string, input ports.StatusUpdateInput) (*ports.MutationResult, error) {
	req := statusRequest{
		Status:      input.Status,
		Location:    input.Location,
		Coordinates: input.Coordinates,
		Note:        input.Note,
	}
	return c.mutate(ctx, "update_status", fmt.Sprintf(pathUpdateStatus, url.PathEscape(trackingID)), req)
}

// Ping checks that the backend answers its health route.
func (c *Client) Ping(ctx context.Context) error {
	_, _, err := c.do(ctx, "health", http.MethodGet, pathHealth, nil, true)
	return err
}

// Name and Check adapt the client to the readiness probe.
func (c *Client) Name() string { return "backend" }

func (c *Client) Check(ctx context.Context) error { return c.Ping(ctx) }

// mutate posts payload and reads the {success, error} envelope. 4xx answers
// carry a rejection reason and are returned as a result, not an error.
func (c *Client) mutate(ctx context.Context, endpoint, path string, payload any) (*ports.MutationResult, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	body, status, err := c.do(ctx, endpoint, http.MethodPost, path, raw, false)
	if err != nil {
		return nil, err
	}
	res, err := decodeMutation(body, status < 300)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, StatusCode: status, Err: err}
	}
	return res, nil
}

// do performs one request. Server errors and transport failures are always
// errors; client errors are errors only when strict is set.
func (c *Client) do(ctx context.Context, endpoint, method, path string, payload []byte, strict bool) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, &TransportError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: err}
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("method", method).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("backend call")

	if resp.StatusCode >= 500 || (strict && resp.StatusCode >= 300) {
		return nil, resp.StatusCode, &TransportError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", http.StatusText(resp.StatusCode)),
		}
	}
	return body, resp.StatusCode, nil
}
