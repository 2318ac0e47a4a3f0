package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xhttp "RegimeAudit/pkg/http"
	applogger "RegimeAudit/pkg/logger"
)

func TestRunStopsOnCancel(t *testing.T) {
	srv := xhttp.NewServer(nil, nil,
		xhttp.WithHost("127.0.0.1"),
		xhttp.WithPort(0),
		xhttp.WithTimeouts(time.Second, time.Second, 2*time.Second),
	)
	app := New(applogger.Nop(), srv, false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		assert.Fail(t, "Run did not return after cancel")
	}
}
