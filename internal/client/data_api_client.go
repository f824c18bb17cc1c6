package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"portfolio_checker/internal/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ValuationSource resolves the current market value of a wallet's open
// positions.
type ValuationSource interface {
	FetchPositionsValue(ctx context.Context, address string) (decimal.Decimal, error)
}

// DataAPIClient is the ValuationSource backed by the Polymarket data API.
type DataAPIClient struct {
	client    *fasthttp.Client
	baseURL   string
	timeout   time.Duration
	userAgent string
	logger    *zap.Logger
}

// NewDataAPIClient creates a new DataAPIClient.
func NewDataAPIClient(baseURL string, timeout time.Duration, userAgent string, logger *zap.Logger) *DataAPIClient {
	return &DataAPIClient{
		client:    &fasthttp.Client{},
		baseURL:   strings.TrimRight(baseURL, "/"),
		timeout:   timeout,
		userAgent: userAgent,
		logger:    logger.Named("DataAPIClient"),
	}
}

// FetchPositionsValue issues one GET to /value?user={address}. A non-success
// HTTP status means "no position" and resolves to zero; so does a body whose
// value field is missing, null or non-numeric. Only transport failures and
// bodies that match neither the array nor the object shape are errors.
func (c *DataAPIClient) FetchPositionsValue(ctx context.Context, address string) (decimal.Decimal, error) {
	requestURL := fmt.Sprintf("%s/value?user=%s", c.baseURL, address)

	c.logger.Debug("Requesting positions value", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetUserAgent(c.userAgent)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			c.logger.Error("Failed to execute request to data API", zap.String("url", requestURL), zap.Error(err))
			return decimal.Zero, fmt.Errorf("%w: request to %s: %v", entity.ErrUpstreamUnavailable, requestURL, err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			c.logger.Error("Failed to execute request to data API (with default timeout)", zap.String("url", requestURL), zap.Error(err))
			return decimal.Zero, fmt.Errorf("%w: request to %s with default timeout: %v", entity.ErrUpstreamUnavailable, requestURL, err)
		}
	}

	rawBody := resp.Body()

	if resp.StatusCode() < fasthttp.StatusOK || resp.StatusCode() >= fasthttp.StatusMultipleChoices {
		// The data API answers non-2xx for wallets without positions; that is
		// a zero value, not a failure.
		c.logger.Debug("Data API returned non-success status, treating as no position",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()))
		return decimal.Zero, nil
	}

	return extractValue(rawBody, requestURL)
}

// extractValue pulls the value field out of a response body that may be either
// a JSON array of objects or a single JSON object.
func extractValue(rawBody []byte, requestURL string) (decimal.Decimal, error) {
	var items []map[string]interface{}
	if err := json.Unmarshal(rawBody, &items); err == nil {
		for _, item := range items {
			if v, found := item["value"]; found {
				return valueToDecimal(v), nil
			}
		}
		return decimal.Zero, nil
	}

	var object map[string]interface{}
	if err := json.Unmarshal(rawBody, &object); err != nil {
		return decimal.Zero, fmt.Errorf("%w: response from %s is neither array nor object: %v", entity.ErrMalformedResponse, requestURL, err)
	}
	if v, found := object["value"]; found {
		return valueToDecimal(v), nil
	}
	return decimal.Zero, nil
}

// valueToDecimal maps null and non-numeric values to zero.
func valueToDecimal(v interface{}) decimal.Decimal {
	f, ok := v.(float64)
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}
