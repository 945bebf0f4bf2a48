package middleware

import (
	"github.com/danielgtaylor/huma/v2"
)

// Func - мидлварь уровня операции huma
type Func = func(ctx huma.Context, next func(huma.Context))

// Container хранит общие мидлвари, от которых строятся цепочки групп операций
type Container struct {
	huma.Middlewares
}

// NewContainer создает контейнер с базовой цепочкой
func NewContainer(base ...Func) *Container {
	mc := &Container{Middlewares: make(huma.Middlewares, 0, len(base))}
	return mc.Add(base...)
}

// Add дописывает мидлвари в базовую цепочку
func (mc *Container) Add(mws ...Func) *Container {
	mc.Middlewares = append(mc.Middlewares, mws...)
	return mc
}

// With возвращает новую цепочку: базовые мидлвари + переданные.
// Контейнер при этом не меняется, каждая группа получает свой срез.
func (mc *Container) With(mws ...Func) huma.Middlewares {
	out := make(huma.Middlewares, 0, len(mc.Middlewares)+len(mws))
	out = append(out, mc.Middlewares...)
	return append(out, mws...)
}
