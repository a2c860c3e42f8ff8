package main

import (
	"errors"

	cn "github.com/LerianStudio/lib-wrapi-go/constant"
	"github.com/spf13/cobra"
)

// Exit codes for the wrapi CLI
const (
	ExitSuccess = 0

	// ExitResponseError indicates the API answered with a non-2xx status
	ExitResponseError = 1

	// ExitClientError indicates the request could not be built or sent
	ExitClientError = 2

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wrapi",
		Short: "Call HTTP JSON APIs from the command line",
		Long: `wrapi sends a single request to an HTTP JSON API the same way
services using the wrapi library do, and prints the decoded response.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newSendCmd())

	return root
}

func exitCode(err error) int {
	var usage usageError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &usage):
		return ExitUsageError
	case errors.Is(err, cn.ErrResponse):
		return ExitResponseError
	default:
		return ExitClientError
	}
}

type usageError struct {
	msg string
}

func (e usageError) Error() string {
	return e.msg
}
