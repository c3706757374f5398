// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/dalemusser/grouppages/internal/app/system/viewdata"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrorLogger logs server-side failures and renders a generic 500 page.
// Each failure gets an error id so a user report can be matched to the log line.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// LogServerError logs msg with err and request details, then renders a 500
// page with userMsg and a back link.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	errID := uuid.NewString()
	e.Log.Error(msg,
		zap.Error(err),
		zap.String("error_id", errID),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	vm := viewdata.NewBaseVM(r, "Something went wrong", "/")
	if backURL != "" {
		vm.BackURL = backURL
	}
	render(w, r, http.StatusInternalServerError, pageData{BaseVM: vm, Message: userMsg, ErrorID: errID})
}
