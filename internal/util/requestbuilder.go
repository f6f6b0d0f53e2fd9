package util

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

type RequestBuilder struct {
	ctx         context.Context
	method      string
	url         string
	headers     map[string]string
	body        []byte
	queryParams url.Values
}

func NewRequestBuilder(ctx context.Context, method, url string) *RequestBuilder {
	return &RequestBuilder{
		ctx:         ctx,
		method:      method,
		url:         url,
		headers:     make(map[string]string),
		queryParams: make(map[string][]string),
	}
}

func (b *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	b.headers[key] = value
	return b
}

func (b *RequestBuilder) WithBody(body []byte) *RequestBuilder {
	b.body = body
	return b
}

/* WithJSON marshals v as the body and sets the content type. */
func (b *RequestBuilder) WithJSON(v any) (*RequestBuilder, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}
	b.body = body
	b.headers["Content-Type"] = "application/json"
	return b, nil
}

func (b *RequestBuilder) WithQueryParam(key, value string) *RequestBuilder {
	b.queryParams.Add(key, value)
	return b
}

func (b *RequestBuilder) Build() (*http.Request, error) {
	urlWithParams := b.url
	if len(b.queryParams) > 0 {
		urlWithParams += "?" + b.queryParams.Encode()
	}
	req, err := http.NewRequestWithContext(
		b.ctx, b.method, urlWithParams, bytes.NewReader(b.body),
	)
	if err != nil {
		return nil, err
	}
	for key, value := range b.headers {
		req.Header.Set(key, value)
	}
	return req, nil
}
