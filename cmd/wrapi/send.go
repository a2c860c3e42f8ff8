package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/LerianStudio/lib-commons/commons/zap"
	wrapi "github.com/LerianStudio/lib-wrapi-go"
	libErr "github.com/LerianStudio/lib-wrapi-go/error"
	"github.com/LerianStudio/lib-wrapi-go/model"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type sendOptions struct {
	method    string
	headers   []string
	query     []string
	form      []string
	data      string
	timeout   time.Duration
	retries   uint
	requestID bool
}

// cliRequest is a request assembled from command line flags
type cliRequest struct {
	endpoint string
	method   string
	params   model.Parameters
	body     json.RawMessage
}

func (r cliRequest) Endpoint() string             { return r.endpoint }
func (r cliRequest) Method() string               { return r.method }
func (r cliRequest) Parameters() model.Parameters { return r.params }

func (r cliRequest) Body() any {
	if len(r.body) == 0 {
		return nil
	}

	return r.body
}

func newSendCmd() *cobra.Command {
	opts := &sendOptions{}

	cmd := &cobra.Command{
		Use:   "send <base-url> <endpoint>",
		Short: "Send one request and print the JSON response",
		Long: `Send one request to <base-url>/<endpoint> and pretty-print the JSON response.

Examples:
  wrapi send https://api.example.com users/7
  wrapi send https://api.example.com users -X POST -d '{"name":"Ada"}'
  wrapi send https://api.example.com search -q term=go -H "Authorization: Bearer abc"
  wrapi send https://auth.example.com token -X POST -f grant_type=client_credentials
  wrapi send https://api.example.com users -X POST -d @user.json`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 2 {
				return usageError{msg: fmt.Sprintf("accepts 2 args, received %d", len(args))}
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.method, "request", "X", http.MethodGet, "HTTP method")
	cmd.Flags().StringArrayVarP(&opts.headers, "header", "H", nil, `Header "Name: value" (repeatable)`)
	cmd.Flags().StringArrayVarP(&opts.query, "query", "q", nil, "Query parameter key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.form, "form", "f", nil, "Form field key=value (repeatable); sends a form body")
	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "JSON body, or @file to read it from a file")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Request timeout")
	cmd.Flags().UintVar(&opts.retries, "retries", 1, "Attempts for idempotent requests, the first included")
	cmd.Flags().BoolVar(&opts.requestID, "request-id", false, "Send a generated X-Request-Id header")

	return cmd
}

func runSend(ctx context.Context, stdout, stderr io.Writer, baseURL, endpoint string, opts *sendOptions) error {
	req, err := buildRequest(endpoint, opts)
	if err != nil {
		return err
	}

	clientOpts := []wrapi.Option{
		wrapi.WithLogger(zap.InitializeLogger()),
		wrapi.WithTimeout(opts.timeout),
		wrapi.WithRetry(opts.retries, 0),
	}

	if opts.requestID {
		clientOpts = append(clientOpts, wrapi.WithRequestID())
	}

	client, err := wrapi.New(baseURL, clientOpts...)
	if err != nil {
		return usageError{msg: err.Error()}
	}
	defer client.Close()

	resp, err := wrapi.Call[json.RawMessage](ctx, client, req)
	if err != nil {
		printError(stderr, err)
		return err
	}

	return printJSON(stdout, resp)
}

func buildRequest(endpoint string, opts *sendOptions) (cliRequest, error) {
	headers, err := parseHeaders(opts.headers)
	if err != nil {
		return cliRequest{}, err
	}

	query, err := parsePairs(opts.query)
	if err != nil {
		return cliRequest{}, err
	}

	form, err := parsePairs(opts.form)
	if err != nil {
		return cliRequest{}, err
	}

	body, err := readBody(opts.data)
	if err != nil {
		return cliRequest{}, err
	}

	return cliRequest{
		endpoint: endpoint,
		method:   strings.ToUpper(opts.method),
		params:   model.NewParameters().WithHeaders(headers).WithQuery(query).WithForm(form),
		body:     body,
	}, nil
}

func parseHeaders(values []string) (http.Header, error) {
	headers := make(http.Header)

	for _, v := range values {
		name, value, ok := strings.Cut(v, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, usageError{msg: fmt.Sprintf("invalid header %q, expected \"Name: value\"", v)}
		}

		headers.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	return headers, nil
}

func parsePairs(values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}

	pairs := make(map[string]string, len(values))

	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		if !ok || key == "" {
			return nil, usageError{msg: fmt.Sprintf("invalid parameter %q, expected key=value", v)}
		}

		pairs[key] = value
	}

	return pairs, nil
}

func readBody(data string) (json.RawMessage, error) {
	if data == "" {
		return nil, nil
	}

	raw := []byte(data)

	if path, ok := strings.CutPrefix(data, "@"); ok {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, usageError{msg: fmt.Sprintf("cannot read body file: %s", err.Error())}
		}

		raw = content
	}

	if !json.Valid(raw) {
		return nil, usageError{msg: "request body is not valid JSON"}
	}

	return json.RawMessage(raw), nil
}

func printJSON(w io.Writer, raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		_, err = fmt.Fprintln(w, string(raw))
		return err
	}

	_, err := fmt.Fprintln(w, out.String())

	return err
}

func printError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)

	var respErr *libErr.ResponseError
	if errors.As(err, &respErr) {
		red.Fprintf(w, "HTTP %d %s\n", respErr.StatusCode, http.StatusText(respErr.StatusCode))

		if len(respErr.Body) > 0 {
			_ = printJSON(w, respErr.Body)
		}

		return
	}

	red.Fprintln(w, err.Error())
}
