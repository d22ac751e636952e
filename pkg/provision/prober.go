package provision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"testlinkctl/pkg/container"
)

// ErrNotReady is returned when the retry budget runs out before both
// readiness signals have fired.
var ErrNotReady = errors.New("dependencies never became healthy")

// Prober blocks until the database container reports running and the
// TestLink login page answers. Both signals must have succeeded at least
// once before Wait returns.
type Prober struct {
	Runtime     container.Runtime
	HTTPClient  *http.Client
	DBContainer string
	LoginURL    string

	// Interval is the fixed delay between attempts; Retries bounds the wait.
	Interval time.Duration
	Retries  int

	// Out receives progress output. Defaults to io.Discard.
	Out io.Writer
}

func (p *Prober) out() io.Writer {
	if p.Out == nil {
		return io.Discard
	}
	return p.Out
}

func (p *Prober) httpClient() *http.Client {
	if p.HTTPClient == nil {
		return &http.Client{Timeout: 5 * time.Second}
	}
	return p.HTTPClient
}

// Wait polls until both readiness signals are true, the retry budget is
// exhausted, or the context is cancelled.
func (p *Prober) Wait(ctx context.Context) error {
	fmt.Fprintf(p.out(), "Waiting for TestLink to be ready...\n")

	dbReady := false
	webReady := false

	for attempt := 0; attempt < p.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.Interval):
			}
		}

		if !dbReady {
			running, err := p.Runtime.ContainerRunning(ctx, p.DBContainer)
			if err == nil && running {
				dbReady = true
				fmt.Fprintf(p.out(), "\nDatabase container %q is running\n", p.DBContainer)
			}
		}

		if dbReady && !webReady {
			if p.probeWeb(ctx) {
				webReady = true
				fmt.Fprintf(p.out(), "\nTestLink web endpoint is responding\n")
			}
		}

		if dbReady && webReady {
			fmt.Fprintf(p.out(), "TestLink is ready!\n")
			return nil
		}

		fmt.Fprint(p.out(), ".")
	}

	fmt.Fprintln(p.out())
	return fmt.Errorf("%w after %d attempts (db running: %v, web responding: %v)",
		ErrNotReady, p.Retries, dbReady, webReady)
}

func (p *Prober) probeWeb(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.LoginURL, nil)
	if err != nil {
		return false
	}
	resp, err := p.httpClient().Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode < 300
}
