// Package lambdaproxy serves API Gateway proxy events through the same fiber
// application the HTTP server runs.
package lambdaproxy

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

type Proxy struct {
	handler http.Handler
}

func New(app *fiber.App) *Proxy {
	return &Proxy{handler: adaptor.FiberApp(app)}
}

// Handle is the lambda.Start entry point. Malformed events produce a 400
// response rather than an invocation error so API Gateway does not retry.
func (proxy *Proxy) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	request, err := newHTTPRequest(ctx, event)
	if err != nil {
		log.Printf("lambdaproxy: rejected event %s %s: %v", event.HTTPMethod, event.Path, err)
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"error":"invalid_request"}`,
		}, nil
	}

	writer := newResponseWriter()
	proxy.handler.ServeHTTP(writer, request)
	return writer.proxyResponse(), nil
}

func newHTTPRequest(ctx context.Context, event events.APIGatewayProxyRequest) (*http.Request, error) {
	method := strings.ToUpper(strings.TrimSpace(event.HTTPMethod))
	if method == "" {
		return nil, fmt.Errorf("missing http method")
	}
	path := event.Path
	if path == "" {
		path = "/"
	}

	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, fmt.Errorf("decode body: %w", err)
		}
		body = decoded
	}

	target := &url.URL{Path: path, RawQuery: eventQuery(event).Encode()}
	request, err := http.NewRequestWithContext(ctx, method, target.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	for key, values := range event.MultiValueHeaders {
		for _, value := range values {
			request.Header.Add(key, value)
		}
	}
	for key, value := range event.Headers {
		if request.Header.Get(key) == "" {
			request.Header.Set(key, value)
		}
	}
	// The fiber adaptor reads the server-side request fields, which
	// NewRequest leaves empty.
	request.RequestURI = target.RequestURI()
	request.Host = "lambda"
	if host := request.Header.Get("Host"); host != "" {
		request.Host = host
	}
	request.RemoteAddr = "0.0.0.0:0"
	if sourceIP := event.RequestContext.Identity.SourceIP; sourceIP != "" {
		request.RemoteAddr = net.JoinHostPort(sourceIP, "0")
	}
	request.ContentLength = int64(len(body))
	return request, nil
}

func eventQuery(event events.APIGatewayProxyRequest) url.Values {
	query := url.Values{}
	for key, values := range event.MultiValueQueryStringParameters {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	for key, value := range event.QueryStringParameters {
		if _, ok := query[key]; !ok {
			query.Set(key, value)
		}
	}
	return query
}

// responseWriter buffers one response for conversion into a proxy response.
type responseWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newResponseWriter() *responseWriter {
	return &responseWriter{header: http.Header{}}
}

func (writer *responseWriter) Header() http.Header {
	return writer.header
}

func (writer *responseWriter) Write(content []byte) (int, error) {
	if writer.status == 0 {
		writer.status = http.StatusOK
	}
	return writer.body.Write(content)
}

func (writer *responseWriter) WriteHeader(status int) {
	if writer.status == 0 {
		writer.status = status
	}
}

func (writer *responseWriter) proxyResponse() events.APIGatewayProxyResponse {
	status := writer.status
	if status == 0 {
		status = http.StatusOK
	}

	response := events.APIGatewayProxyResponse{
		StatusCode:        status,
		Headers:           make(map[string]string, len(writer.header)),
		MultiValueHeaders: make(map[string][]string, len(writer.header)),
	}
	for key, values := range writer.header {
		if len(values) == 0 {
			continue
		}
		response.Headers[key] = values[0]
		response.MultiValueHeaders[key] = append([]string(nil), values...)
	}

	content := writer.body.Bytes()
	if utf8.Valid(content) {
		response.Body = string(content)
	} else {
		response.Body = base64.StdEncoding.EncodeToString(content)
		response.IsBase64Encoded = true
	}
	return response
}
