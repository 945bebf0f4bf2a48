package recoverer

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"golang.org/x/exp/slog"

	"lifehub/internal/app/server/api/http/middleware/requestid"
	"lifehub/internal/app/server/api/http/response"
)

type panicDetails struct {
	Panic string `json:"panic"`
	Stack string `json:"stack"`
}

// New перехватывает панику, логирует стек и отвечает INTERNAL_ERROR.
// Стек попадает в ответ только при exposeStack.
func New(log *slog.Logger, exposeStack bool) func(http.Handler) http.Handler {
	log = log.With(slog.String("component", "recoverer"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				stack := string(debug.Stack())
				log.Error("panic recovered",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("request_id", requestid.FromContext(r.Context())),
					slog.String("panic", fmt.Sprint(rec)),
					slog.String("stack", stack),
				)

				var details any
				if exposeStack {
					details = panicDetails{Panic: fmt.Sprint(rec), Stack: stack}
				}
				response.WriteHTTP(w, response.NewError(r.Context(), http.StatusInternalServerError, response.CodeInternal, response.MsgInternal, details))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
