package prices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultEndpointURL serves the rolling window of latest hourly spot prices.
	DefaultEndpointURL = "https://api.porssisahko.net/v1/latest-prices.json"

	// DefaultRequestTimeout bounds a single price fetch.
	DefaultRequestTimeout = 30 * time.Second

	requestCreationErrorTemplateConstant  = "unable to create price request: %w"
	requestExecutionErrorTemplateConstant = "unable to fetch prices from %s: %w"
	unexpectedStatusErrorTemplateConstant = "price endpoint %s returned status %d"
	responseReadErrorTemplateConstant     = "unable to read price response: %w"
	payloadDecodeErrorTemplateConstant    = "unable to decode price payload: %w"
	emptyPayloadErrorMessageConstant      = "price payload contains no price periods"
	pricesFetchedMessageConstant          = "fetched spot prices"
	logFieldEndpointConstant              = "endpoint"
	logFieldPricePeriodCountConstant      = "price_period_count"
)

// Client fetches spot prices over HTTP.
type Client struct {
	httpClient  *http.Client
	endpointURL string
	logger      *zap.Logger
}

// NewClient constructs a price client for the provided endpoint.
func NewClient(endpointURL string, requestTimeout time.Duration, logger *zap.Logger) *Client {
	if len(endpointURL) == 0 {
		endpointURL = DefaultEndpointURL
	}
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient:  &http.Client{Timeout: requestTimeout},
		endpointURL: endpointURL,
		logger:      logger,
	}
}

// FetchLatestPrices retrieves the latest price sheet and returns it together with the raw payload bytes.
func (client *Client) FetchLatestPrices(executionContext context.Context) (PriceSheet, []byte, error) {
	request, requestError := http.NewRequestWithContext(executionContext, http.MethodGet, client.endpointURL, nil)
	if requestError != nil {
		return PriceSheet{}, nil, fmt.Errorf(requestCreationErrorTemplateConstant, requestError)
	}

	response, responseError := client.httpClient.Do(request)
	if responseError != nil {
		return PriceSheet{}, nil, fmt.Errorf(requestExecutionErrorTemplateConstant, client.endpointURL, responseError)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return PriceSheet{}, nil, fmt.Errorf(unexpectedStatusErrorTemplateConstant, client.endpointURL, response.StatusCode)
	}

	payloadBytes, readError := io.ReadAll(response.Body)
	if readError != nil {
		return PriceSheet{}, nil, fmt.Errorf(responseReadErrorTemplateConstant, readError)
	}

	var priceSheet PriceSheet
	if decodeError := json.Unmarshal(payloadBytes, &priceSheet); decodeError != nil {
		return PriceSheet{}, nil, fmt.Errorf(payloadDecodeErrorTemplateConstant, decodeError)
	}
	if len(priceSheet.Prices) == 0 {
		return PriceSheet{}, nil, errors.New(emptyPayloadErrorMessageConstant)
	}

	client.logger.Info(
		pricesFetchedMessageConstant,
		zap.String(logFieldEndpointConstant, client.endpointURL),
		zap.Int(logFieldPricePeriodCountConstant, len(priceSheet.Prices)),
	)

	return priceSheet, payloadBytes, nil
}
