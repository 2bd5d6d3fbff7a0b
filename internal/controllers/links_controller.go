package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// LinksController REST API ссылок.
type LinksController struct {
	links LinkManager
}

func NewLinksController(links LinkManager) *LinksController {
	return &LinksController{links: links}
}

// CreatePublic обрабатывает POST /api/public/links: ссылка без владельца.
func (l *LinksController) CreatePublic(ctx *gin.Context) {
	l.create(ctx, nil)
}

// Create обрабатывает POST /api/links: ссылка принадлежит владельцу запроса.
//
// В случае успеха возвращает HTTP 201 и созданную ссылку.
// Ошибки: 400 (валидация), 409 (код занят), 503 (не удалось подобрать код).
func (l *LinksController) Create(ctx *gin.Context) {
	owner, err := ownerID(ctx)
	if err != nil {
		respondError(ctx, err)
		return
	}
	l.create(ctx, &owner)
}

func (l *LinksController) create(ctx *gin.Context, owner *string) {
	var req createLinkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, errors.Wrap(ErrBadRequest, err.Error()))
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, DefaultRequestTimeout)
	defer cancel()

	link, err := l.links.Create(reqCtx, req.params(owner))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, newLinkResponse(link))
}

// List обрабатывает GET /api/links.
func (l *LinksController) List(ctx *gin.Context) {
	owner, err := ownerID(ctx)
	if err != nil {
		respondError(ctx, err)
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, DefaultRequestTimeout)
	defer cancel()

	links, err := l.links.List(reqCtx, owner)
	if err != nil {
		respondError(ctx, err)
		return
	}
	resp := make([]linkResponse, len(links))
	for i := range links {
		resp[i] = newLinkResponse(&links[i])
	}
	ctx.JSON(http.StatusOK, resp)
}

// Update обрабатывает PATCH /api/links/:id.
func (l *LinksController) Update(ctx *gin.Context) {
	owner, err := ownerID(ctx)
	if err != nil {
		respondError(ctx, err)
		return
	}
	var req updateLinkRequest
	if bindErr := ctx.ShouldBindJSON(&req); bindErr != nil {
		respondError(ctx, errors.Wrap(ErrBadRequest, bindErr.Error()))
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, DefaultRequestTimeout)
	defer cancel()

	link, err := l.links.Update(reqCtx, ctx.Param("id"), owner, req.params())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newLinkResponse(link))
}

// Delete обрабатывает DELETE /api/links/:id. Успех - 204 без тела.
func (l *LinksController) Delete(ctx *gin.Context) {
	owner, err := ownerID(ctx)
	if err != nil {
		respondError(ctx, err)
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, DefaultRequestTimeout)
	defer cancel()

	if rmErr := l.links.Remove(reqCtx, ctx.Param("id"), owner); rmErr != nil {
		respondError(ctx, rmErr)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// VerifyPassword обрабатывает POST /api/links/verify/:shortCode.
// Неизвестная ссылка и ссылка без пароля дают success=false.
func (l *LinksController) VerifyPassword(ctx *gin.Context) {
	var req verifyPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, errors.Wrap(ErrBadRequest, err.Error()))
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, DefaultRequestTimeout)
	defer cancel()

	ok, err := l.links.VerifyPassword(reqCtx, ctx.Param("shortCode"), req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, verifyPasswordResponse{Success: ok})
}
