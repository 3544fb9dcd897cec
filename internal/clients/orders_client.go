package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/tavola/backoffice/internal/models"
	"github.com/tavola/backoffice/pkg/circuitbreaker"
	"github.com/tavola/backoffice/pkg/errors"
	"github.com/tavola/backoffice/pkg/logger"
	"github.com/tavola/backoffice/pkg/retry"
)

// OrdersClient talks to the back-office orders API on behalf of the board.
// Calls are retried on transient failures and guarded by a circuit breaker.
type OrdersClient struct {
	baseURL     string
	httpClient  *http.Client
	logger      logger.Logger
	retryConfig *retry.RetryConfig
	breaker     *circuitbreaker.CircuitBreaker
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// NewOrdersClient creates a new OrdersClient
func NewOrdersClient(baseURL string, timeout time.Duration, logger logger.Logger) *OrdersClient {
	httpClient := &http.Client{
		Timeout: timeout,
	}

	retryConfig := &retry.RetryConfig{
		MaxAttempts: 3,
		BackoffStrategy: &retry.ExponentialBackoff{
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Multiplier:      1.5,
			JitterFactor:    0.2,
		},
		Logger: logger,
		RetryableErrors: []error{
			errors.ErrTimeout,
			errors.ErrTemporaryFailure,
			errors.ErrServiceUnavailable,
		},
	}

	breaker := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 5,
		ResetTimeout:     30 * time.Second,
		HalfOpenMaxCalls: 1,
	})

	return &OrdersClient{
		baseURL:     baseURL,
		httpClient:  httpClient,
		logger:      logger,
		retryConfig: retryConfig,
		breaker:     breaker,
	}
}

// ListOrders fetches all orders from the API
func (c *OrdersClient) ListOrders(ctx context.Context) ([]*models.Order, error) {
	url := fmt.Sprintf("%s/api/v1/orders", c.baseURL)

	var orders []*models.Order

	retryFunc := func() error {
		data, err := c.doRequest(ctx, http.MethodGet, url, nil)

		if err != nil {
			return err
		}

		orders = nil

		if err := json.Unmarshal(data, &orders); err != nil {
			return errors.NewInternalError(fmt.Sprintf("failed to parse orders: %v", err))
		}

		return nil
	}

	if err := retry.Retry(ctx, retryFunc, c.retryConfig); err != nil {
		c.logger.Error("Failed to list orders after retries", "error", err)
		return nil, err
	}

	return orders, nil
}

// UpdateOrderStatus asks the API to move an order to a new pipeline stage and
// returns the updated order as the server recorded it.
func (c *OrdersClient) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, error) {
	url := fmt.Sprintf("%s/api/v1/orders/%s/status", c.baseURL, orderID)

	payload, err := json.Marshal(map[string]string{"status": string(status)})

	if err != nil {
		return nil, errors.NewInternalError(fmt.Sprintf("failed to marshal request: %v", err))
	}

	var order *models.Order

	retryFunc := func() error {
		data, err := c.doRequest(ctx, http.MethodPatch, url, payload)

		if err != nil {
			return err
		}

		order = &models.Order{}

		if err := json.Unmarshal(data, order); err != nil {
			return errors.NewInternalError(fmt.Sprintf("failed to parse order: %v", err))
		}

		return nil
	}

	if err := retry.Retry(ctx, retryFunc, c.retryConfig); err != nil {
		c.logger.Error("Failed to update order status after retries",
			"error", err,
			"orderID", orderID,
			"status", status)
		return nil, err
	}

	return order, nil
}

// doRequest performs one HTTP exchange through the circuit breaker and
// unwraps the response envelope.
func (c *OrdersClient) doRequest(ctx context.Context, method, url string, body []byte) (json.RawMessage, error) {
	if !c.breaker.Allow() {
		return nil, errors.NewAppError(
			errors.ErrServiceUnavailable,
			"orders API circuit breaker is open",
			http.StatusServiceUnavailable,
			true,
		)
	}

	var reader io.Reader

	if body != nil {
		reader = bytes.NewBuffer(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)

	if err != nil {
		return nil, errors.NewInternalError(fmt.Sprintf("failed to create request: %v", err))
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)

	if err != nil {
		c.breaker.Failure()

		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, errors.NewTimeoutError("orders API request timed out")
		}

		return nil, errors.NewTemporaryError(fmt.Sprintf("failed to reach orders API: %v", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)

	if err != nil {
		c.breaker.Failure()
		return nil, errors.NewInternalError(fmt.Sprintf("failed to read response body: %v", err))
	}

	if resp.StatusCode >= 400 {
		return nil, c.errorFromStatus(resp.StatusCode, data)
	}

	var envelope apiEnvelope

	if err := json.Unmarshal(data, &envelope); err != nil {
		c.breaker.Failure()
		return nil, errors.NewInternalError(fmt.Sprintf("failed to parse response envelope: %v", err))
	}

	if !envelope.Success {
		c.breaker.Failure()
		return nil, errors.NewTemporaryError(envelope.Error)
	}

	c.breaker.Success()
	return envelope.Data, nil
}

// errorFromStatus maps an HTTP error status to an AppError. Server-side
// failures count against the breaker, client errors do not.
func (c *OrdersClient) errorFromStatus(statusCode int, body []byte) error {
	message := fmt.Sprintf("orders API returned status %d", statusCode)

	var envelope apiEnvelope

	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		message = envelope.Error
	}

	switch {
	case statusCode == http.StatusNotFound:
		c.breaker.Success()
		return errors.NewNotFoundError(message)
	case statusCode == http.StatusRequestTimeout || statusCode == http.StatusGatewayTimeout:
		c.breaker.Failure()
		return errors.NewTimeoutError(message)
	case statusCode == http.StatusServiceUnavailable || statusCode == http.StatusInternalServerError:
		c.breaker.Failure()
		return errors.NewTemporaryError(message)
	case statusCode == http.StatusTooManyRequests:
		c.breaker.Success()
		return errors.NewRateLimitedError(message)
	default:
		c.breaker.Success()
		return errors.NewAppError(errors.ErrInternal, message, statusCode, false)
	}
}
