package resource

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"lifehub/internal/app/server/api/http/response"
	"lifehub/internal/domain/resource"
)

// Query - какие параметры списка понимает ресурс
type Query int

const (
	QueryNone Query = iota
	QueryTasks
	QueryHealth
)

// Route привязывает ресурс к пути
type Route struct {
	Path        string
	OperationID string
	Tag         string
	Query       Query
}

type Handler struct {
	service    resource.Servicer
	def        resource.Definition
	route      Route
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service resource.Servicer, route Route, log *slog.Logger, mws huma.Middlewares) *Handler {
	def := service.Definition()
	return &Handler{
		service:    service,
		def:        def,
		route:      route,
		log:        log.With(slog.String("component", "resource_handler"), slog.String("resource", def.Plural)),
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	switch h.route.Query {
	case QueryTasks:
		huma.Register(api, h.listOp(), h.listTasks)
	case QueryHealth:
		huma.Register(api, h.listOp(), h.listHealth)
	default:
		huma.Register(api, h.listOp(), h.list)
	}
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.updateOp(), h.update)
	huma.Register(api, h.deleteOp(), h.delete)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	return h.fetch(ctx, resource.ListOptions{})
}

func (h *Handler) listTasks(ctx context.Context, input *listTasksInput) (*listOutput, error) {
	opts := resource.ListOptions{
		OrderBy:   input.Sort,
		Ascending: input.Order == "asc",
	}
	if input.Completed != "" {
		completed := "false"
		if input.Completed == "true" {
			completed = "true"
		}
		opts.Filters = map[string]string{"completed": completed}
	}
	return h.fetch(ctx, opts)
}

func (h *Handler) listHealth(ctx context.Context, input *listHealthInput) (*listOutput, error) {
	var opts resource.ListOptions
	if input.Date != "" {
		opts.Filters = map[string]string{"date": input.Date}
	}
	return h.fetch(ctx, opts)
}

func (h *Handler) fetch(ctx context.Context, opts resource.ListOptions) (*listOutput, error) {
	items, err := h.service.List(ctx, opts)
	if err != nil {
		return nil, h.fail(ctx, err, response.CodeFetchFailed, "Failed to fetch "+h.def.Plural)
	}

	return &listOutput{
		Body: response.OK(ctx, Items{Items: items}),
	}, nil
}

func (h *Handler) create(ctx context.Context, input *createInput) (*itemOutput, error) {
	item, err := h.service.Create(ctx, input.Body)
	if err != nil {
		return nil, h.fail(ctx, err, response.CodeCreateFailed, "Failed to create "+h.def.Singular)
	}

	return &itemOutput{
		Body: response.OK(ctx, One{Item: item}),
	}, nil
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*itemOutput, error) {
	item, err := h.service.Update(ctx, input.ID, input.Body)
	if err != nil {
		return nil, h.fail(ctx, err, response.CodeUpdateFailed, "Failed to update "+h.def.Singular)
	}

	return &itemOutput{
		Body: response.OK(ctx, One{Item: item}),
	}, nil
}

func (h *Handler) delete(ctx context.Context, input *deleteInput) (*messageOutput, error) {
	if err := h.service.Delete(ctx, input.ID); err != nil {
		return nil, h.fail(ctx, err, response.CodeDeleteFailed, "Failed to delete "+h.def.Singular)
	}

	return &messageOutput{
		Body: response.OK(ctx, response.Message{
			Message: fmt.Sprintf("%s deleted successfully", h.def.Title()),
		}),
	}, nil
}

// fail отдает клиенту только код операции, подробности остаются в логе
func (h *Handler) fail(ctx context.Context, err error, code, message string) error {
	switch {
	case errors.Is(err, resource.ErrNotFound):
		return response.NotFound(ctx, h.def.Title()+" not found")
	case errors.Is(err, resource.ErrEmptyUpdate):
		return response.Validation(ctx, response.FieldError{Message: "No updatable fields in request body", Location: "body"})
	case errors.Is(err, resource.ErrInvalidInput):
		return response.Validation(ctx, response.FieldError{Message: err.Error(), Location: "query"})
	case errors.Is(err, resource.ErrNoIdentity):
		h.log.Error("handler reached without identity", slog.Any("error", err))
		return response.Internal(ctx, response.MsgInternal)
	}

	h.log.Error(message, slog.Any("error", err))
	return response.NewError(ctx, http.StatusInternalServerError, code, message, nil)
}
