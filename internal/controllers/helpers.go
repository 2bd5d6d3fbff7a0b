package controllers

import (
	"time"

	"github.com/fsdevblog/linkshort/internal/controllers/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const (
	DefaultRequestTimeout = 3 * time.Second
)

// ownerID достает владельца, определенного middlewares.OwnerMiddleware.
func ownerID(ctx *gin.Context) (string, error) {
	id, ok := middlewares.OwnerID(ctx)
	if !ok {
		return "", errors.WithStack(ErrUnauthorized)
	}
	return id, nil
}
