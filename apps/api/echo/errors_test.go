package echoapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusight/backend/core"
	"github.com/edusight/backend/core/analytics"
	"github.com/edusight/backend/core/user"
)

type recordingLogger struct {
	nopLogger
	errored []string
}

func (l *recordingLogger) Error(msg string, args ...interface{}) {
	l.errored = append(l.errored, msg)
}

func invokeErrorHandler(t *testing.T, err error) (*httptest.ResponseRecorder, *recordingLogger, *bool) {
	t.Helper()

	var shutdown bool
	logger := &recordingLogger{}
	handler := newAppHTTPErrorHandler(logger, func() { shutdown = true })

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler(err, e.NewContext(req, rec))
	return rec, logger, &shutdown
}

func TestErrorHandlerDataAccessError(t *testing.T) {
	err := errors.Wrap(
		core.NewDataAccessError("querying grades", errors.New("connection refused")),
		"fetching grade points")
	rec, logger, _ := invokeErrorHandler(t, err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Len(t, logger.errored, 1)
	assert.Equal(t, "data source failure", logger.errored[0])
}

func TestErrorHandlerNotFound(t *testing.T) {
	rec, logger, _ := invokeErrorHandler(t, errors.Wrap(user.ErrNotFound, "retrieving user"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, logger.errored)
}

func TestErrorHandlerInvalidWindow(t *testing.T) {
	rec, _, _ := invokeErrorHandler(t, analytics.ErrInvalidWindow)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorHandlerShutdown(t *testing.T) {
	_, _, shutdown := invokeErrorHandler(t, core.NewShutdownError("out of file descriptors"))

	assert.True(t, *shutdown)
}
