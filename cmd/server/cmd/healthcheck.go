package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// HealthResponse matches the body served by /readyz
type HealthResponse struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

var errUnhealthy = errors.New("unhealthy")

func newHealthcheckCommand() *cobra.Command {
	var (
		timeout int
		url     string
	)

	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Check if the server is healthy",
		Long: `Performs a health check by calling the /readyz endpoint.

This command is used by container HEALTHCHECK directives to monitor the server.

Exit codes:
  0 - Server is healthy
  1 - Server is unhealthy or unreachable
  2 - Invalid response from server`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				url = defaultHealthURL()
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(timeout)*time.Second)
			defer cancel()

			resp, err := performHealthCheck(ctx, url)
			if err != nil {
				var syntaxErr *json.SyntaxError
				if errors.As(err, &syntaxErr) {
					return &exitError{code: 2, err: err}
				}
				return &exitError{code: 1, err: err}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "status: %s\n", resp.Status)
			return nil
		},
	}

	cmd.Flags().IntVar(&timeout, "timeout", 5, "timeout in seconds")
	cmd.Flags().StringVar(&url, "url", "", "health check URL (default: http://localhost:{PORT}/readyz)")
	return cmd
}

func defaultHealthURL() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = os.Getenv("SERVER_PORT")
	}
	if port == "" {
		port = "5000"
	}
	return fmt.Sprintf("http://localhost:%s/readyz", port)
}

// performHealthCheck calls url and reports an error wrapping errUnhealthy unless the server
// answers 200 with status "healthy".
func performHealthCheck(ctx context.Context, url string) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var health HealthResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&health)

	if resp.StatusCode != http.StatusOK {
		return &health, fmt.Errorf("%w: status %d", errUnhealthy, resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("parse health response: %w", decodeErr)
	}
	if health.Status != "healthy" {
		return &health, fmt.Errorf("%w: status=%s", errUnhealthy, health.Status)
	}
	return &health, nil
}
