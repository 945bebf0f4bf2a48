package resource

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

const maxBodyBytes = 10 << 20

var bearer = []map[string][]string{{"bearer": {}}}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "list-" + h.route.OperationID,
		Method:      http.MethodGet,
		Path:        h.route.Path,
		Summary:     "List " + h.def.Plural,
		Tags:        []string{h.route.Tag},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID:   "create-" + h.route.OperationID,
		Method:        http.MethodPost,
		Path:          h.route.Path,
		Summary:       "Create " + h.def.Singular,
		Tags:          []string{h.route.Tag},
		DefaultStatus: http.StatusCreated,
		MaxBodyBytes:  maxBodyBytes,
		Security:      bearer,
		Middlewares:   h.middleware,
	}
}

func (h *Handler) updateOp() huma.Operation {
	return huma.Operation{
		OperationID:  "update-" + h.route.OperationID,
		Method:       http.MethodPut,
		Path:         h.route.Path + "/{id}",
		Summary:      "Update " + h.def.Singular,
		Tags:         []string{h.route.Tag},
		MaxBodyBytes: maxBodyBytes,
		Security:     bearer,
		Middlewares:  h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "delete-" + h.route.OperationID,
		Method:      http.MethodDelete,
		Path:        h.route.Path + "/{id}",
		Summary:     "Delete " + h.def.Singular,
		Tags:        []string{h.route.Tag},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}
