package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// FormField is the multipart part name the service reads the PDF from.
const FormField = "file"

// Extractor sends one document to the extraction service.
type Extractor interface {
	Extract(ctx context.Context, doc Document) (Outcome, error)
}

// Option allows for optional client settings.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithTimeout bounds the whole request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.httpClient.Timeout = d
	}
}

// Client talks to the extraction endpoint over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
	schema     *jsonschema.Schema
	tracer     trace.Tracer
}

// Ensure Client implements Extractor
var _ Extractor = &Client{}

func NewClient(endpoint string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, fmt.Errorf("extraction endpoint is required")
	}
	schema, err := compileSchema(BuildResultJSONSchema())
	if err != nil {
		return nil, err
	}

	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{},
		schema:     schema,
		tracer:     otel.Tracer("pdf-extractor/extraction"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the configured extraction URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// --- Wire structs ---

type responseEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Error *string         `json:"error"`
}

// Extract posts doc as multipart form data and decodes the reply.
func (c *Client) Extract(ctx context.Context, doc Document) (Outcome, error) {
	ctx, span := c.tracer.Start(ctx, "extraction.Extract", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("extraction.endpoint", c.endpoint),
		attribute.String("extraction.filename", doc.Filename),
		attribute.Int("extraction.size", doc.Size()),
	)

	out, err := c.extract(ctx, doc)
	switch o := out.(type) {
	case Extracted:
		span.SetAttributes(attribute.String("extraction.outcome", "extracted"))
	case Rejected:
		span.SetAttributes(attribute.String("extraction.outcome", "rejected"))
		span.SetStatus(codes.Error, o.Message)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

func (c *Client) extract(ctx context.Context, doc Document) (Outcome, error) {
	// 1. Build multipart body
	body, contentType, err := buildMultipart(doc)
	if err != nil {
		return nil, &TransportError{Op: "build request", Err: err}
	}

	// 2. Send Request
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, &TransportError{Op: "create request", Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "send request", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read response", Err: err}
	}

	// 3. Parse Response. The error key wins regardless of status code.
	return c.decode(raw)
}

func (c *Client) decode(raw []byte) (Outcome, error) {
	var env responseEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &TransportError{Op: "decode response", Err: err}
	}

	if env.Error != nil {
		return Rejected{Message: *env.Error}, nil
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, &ContractError{Reason: "response has neither data nor error"}
	}
	if err := validateResult(c.schema, env.Data); err != nil {
		return nil, &ContractError{Reason: "data", Err: err}
	}

	var result RawResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		return nil, &ContractError{Reason: "data", Err: err}
	}
	return Extracted{Result: result}, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func buildMultipart(doc Document) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, FormField, quoteEscaper.Replace(doc.Filename)))
	h.Set("Content-Type", doc.MIMEType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(doc.Content); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
