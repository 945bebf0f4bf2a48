package health

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) healthCheckOp() huma.Operation {
	return huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Liveness probe",
		Description: "Returns ok while the process is serving requests. Does not touch the data provider.",
		Tags:        []string{"health"},
		Middlewares: h.middleware,
	}
}
