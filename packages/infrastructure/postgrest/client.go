// Client of PostgREST (Supabase REST API).
package postgrest

import (
	"bytes"
	"context"
	"errors"
	"flashauction/packages/common/encoding/json"
	Error "flashauction/packages/common/errors"
	"flashauction/packages/common/logger"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

var clientLogger = logger.NewSource("POSTGREST", logger.Default)

type Config struct {
	URL    string
	APIKey string
	// Timeout of a single request
	Timeout time.Duration
	// Used instead of default client if not nil
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*Response]
}

type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// Error body of PostgREST
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// PostgREST error code for ".single()" results with zero or many rows
const singleRowMismatchCode = "PGRST116"

func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("PostgREST URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
	}

	c.breaker = gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        "PostgREST",
		Interval:    time.Second * 10,
		Timeout:     time.Second * 20,
		MaxRequests: 5,
		// Faults reported by the store itself (bad filters, RLS, constraints)
		// don't mean that it's unavailable.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			if errors.Is(err, errServerSide) {
				return false
			}
			if errors.Is(err, context.Canceled) {
				return true
			}
			_, isStoreErr := Error.AsStore(err)
			return isStoreErr
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			clientLogger.Warning("Circuit breaker state changed: "+from.String()+" -> "+to.String(), nil)
		},
	})

	return c, nil
}

// Normalizes token to "Bearer <token>" form.
func bearer(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		return "Bearer " + strings.TrimSpace(token[7:])
	}
	return "Bearer " + token
}

// If authToken is empty, then API key is used as bearer token.
func (c *Client) setHeaders(req *http.Request, authToken string) {
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}

	if auth := bearer(authToken); auth != "" {
		req.Header.Set("Authorization", auth)
	} else if c.apiKey != "" {
		req.Header.Set("Authorization", bearer(c.apiKey))
	}

	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
}

func storeError(res *Response) *Error.Store {
	body, err := json.DecodeBytes[errorBody](res.Body)
	if err != nil || (body.Code == "" && body.Message == "") {
		return Error.NewStoreError(strconv.Itoa(res.StatusCode), http.StatusText(res.StatusCode))
	}

	message := body.Message
	if body.Details != "" {
		message += " (" + body.Details + ")"
	}

	storeErr := Error.NewStoreError(body.Code, message)
	storeErr.NotFound = body.Code == singleRowMismatchCode

	return storeErr
}

var errServerSide = errors.New("PostgREST server error")

func (c *Client) send(req *http.Request) (*Response, error) {
	clientLogger.Trace(req.Method+" "+req.URL.Path+"?"+req.URL.RawQuery, nil)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	response := &Response{
		StatusCode: res.StatusCode,
		Body:       body,
		Headers:    res.Header,
	}

	if res.StatusCode >= 500 {
		return nil, errors.Join(errServerSide, storeError(response))
	}
	if res.StatusCode >= 400 {
		return nil, storeError(response)
	}

	return response, nil
}

// Sends request through circuit breaker.
// Returns *Error.Store if PostgREST responded with error,
// Error.StatusServiceUnavailable if breaker is open.
func (c *Client) do(req *http.Request) (*Response, error) {
	res, err := c.breaker.Execute(func() (*Response, error) {
		return c.send(req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			clientLogger.Error("Request has been blocked by circuit breaker", err.Error(), nil)
			return nil, Error.StatusServiceUnavailable
		}
		if errors.Is(err, errServerSide) {
			if storeErr, ok := Error.AsStore(err); ok {
				return nil, storeErr
			}
		}
		return nil, err
	}

	return res, nil
}

func (c *Client) newRequest(
	ctx context.Context,
	method string,
	path string,
	params url.Values,
	body any,
) (*http.Request, error) {
	reqURL := c.baseURL + "/rest/v1/" + path
	if len(params) != 0 {
		reqURL += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Encode(body)
		if err != nil {
			return nil, errors.New("failed to encode request body: " + err.Error())
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// Calls stored procedure fn with params on behalf of the token's owner.
func (c *Client) RPC(ctx context.Context, fn string, params any, authToken string) (*Response, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "rpc/"+fn, nil, params)
	if err != nil {
		return nil, err
	}

	c.setHeaders(req, authToken)

	return c.do(req)
}

func (c *Client) From(table string) *QueryBuilder {
	return &QueryBuilder{
		client: c,
		table:  table,
		params: url.Values{},
	}
}

// Decodes response body into T.
func Decode[T any](res *Response) (T, error) {
	return json.DecodeBytes[T](res.Body)
}
