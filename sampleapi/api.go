package sampleapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

type SampleResult struct {
	Duration  string  `json:"duration"`
	Items     []int64 `json:"items"`
	Truncated bool    `json:"truncated"`
}

// ApiError is returned when the service answers with a non-2xx status.
type ApiError struct {
	Status  int
	Message string `json:"error"`
}

func (err *ApiError) Error() string {
	return fmt.Sprintf("sample api returned status %d: %s", err.Status, err.Message)
}

type HttpClient interface {
	Do(*http.Request) (*http.Response, error)
}

type Printer interface {
	Println(...interface{})
}

type Client struct {
	Logger     Printer
	baseUrl    *url.URL
	httpClient HttpClient
}

func NewClient(httpClient HttpClient, baseUrl string) (*Client, error) {
	parsed, err := url.Parse(baseUrl)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseUrl:    parsed,
		httpClient: httpClient,
	}, nil
}

type SampleConfig struct {
	// Seed makes the sample reproducible, zero lets the server choose.
	Seed   uint64
	Random bool
	Limit  int

	// Offset drops all values smaller than it from the result.
	Offset int64
}

func (cl *Client) Sample(population, size int64, config SampleConfig) (*SampleResult, error) {
	uri := cl.baseUrl.ResolveReference(&url.URL{Path: "/sample"})

	// build uri paramters from config
	values := url.Values{}
	{
		values.Set("population", strconv.FormatInt(population, 10))
		values.Set("size", strconv.FormatInt(size, 10))

		if config.Seed > 0 {
			values.Set("seed", strconv.FormatUint(config.Seed, 10))
		}

		if config.Random {
			values.Set("random", "true")
		}

		if config.Limit > 0 {
			values.Set("limit", strconv.Itoa(config.Limit))
		}

		if config.Offset > 0 {
			values.Set("offset", strconv.FormatInt(config.Offset, 10))
		}

		uri.RawQuery = values.Encode()
	}

	if cl.Logger != nil {
		cl.Logger.Println("Query sample api with url: ", uri.String())
	}

	request, err := http.NewRequest("GET", uri.String(), nil)
	if err != nil {
		return nil, err
	}

	response, err := cl.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	// defer cleanup of the response body/connection
	defer func() {
		io.Copy(io.Discard, response.Body)
		response.Body.Close()
	}()

	if response.StatusCode/100 != 2 {
		apiError := &ApiError{Status: response.StatusCode}
		if err := json.NewDecoder(response.Body).Decode(apiError); err != nil {
			apiError.Message = response.Status
		}

		return nil, apiError
	}

	result := &SampleResult{}
	if err := json.NewDecoder(response.Body).Decode(result); err != nil {
		return nil, err
	}

	return result, nil
}
