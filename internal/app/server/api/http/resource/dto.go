package resource

import (
	"lifehub/internal/app/server/api/http/response"
	"lifehub/internal/domain/resource"
)

type listTasksInput struct {
	Sort      string `query:"sort" default:"created_at" pattern:"^[a-z_][a-z0-9_]*$" doc:"Колонка сортировки"`
	Order     string `query:"order" default:"desc" doc:"asc или desc, все кроме asc считается desc"`
	Completed string `query:"completed" doc:"Фильтр по выполненности: true или false"`
}

type listHealthInput struct {
	Date string `query:"date" pattern:"^\\d{4}-\\d{2}-\\d{2}$" example:"2024-06-01" doc:"Точная дата, YYYY-MM-DD"`
}

type createInput struct {
	Body map[string]any
}

type updateInput struct {
	ID   string `path:"id" minLength:"1" doc:"ID записи"`
	Body map[string]any
}

type deleteInput struct {
	ID string `path:"id" minLength:"1" doc:"ID записи"`
}

type Items struct {
	Items []resource.Item `json:"items"`
}

type One struct {
	Item resource.Item `json:"item"`
}

type listOutput struct {
	Body response.Envelope[Items]
}

type itemOutput struct {
	Body response.Envelope[One]
}

type messageOutput struct {
	Body response.Envelope[response.Message]
}
