package controllers

import (
	"context"
	"net/http"

	"github.com/fsdevblog/linkshort/internal/services"
	"github.com/gin-gonic/gin"
)

type RedirectController struct {
	resolver   Resolver
	dispatcher VisitDispatcher
}

func NewRedirectController(resolver Resolver, dispatcher VisitDispatcher) *RedirectController {
	return &RedirectController{resolver: resolver, dispatcher: dispatcher}
}

// Redirect обрабатывает GET /:shortCode.
//
// Активная ссылка: переход передается на учет в фоне, ответ 301 на исходный адрес.
// Несуществующая, удаленная, просроченная или исчерпанная ссылка: 404.
func (r *RedirectController) Redirect(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx, DefaultRequestTimeout)
	defer cancel()

	link, err := r.resolver.Resolve(reqCtx, ctx.Param("shortCode"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	r.dispatcher.Dispatch(link, services.VisitMeta{
		IPAddress: ctx.ClientIP(),
		UserAgent: ctx.Request.UserAgent(),
		Referrer:  ctx.Request.Referer(),
	})
	ctx.Redirect(http.StatusMovedPermanently, link.OriginalURL)
}
