package controllers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/fsdevblog/linkshort/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// QRCodeController генерация QR кодов для произвольных адресов.
type QRCodeController struct {
	qr  QRCodeMaker
	dir string
}

// NewQRCodeController создает контроллер.
//
// Параметры:
//   - qr: генератор QR кодов
//   - dir: каталог, в который генератор сохраняет изображения
//
// Возвращает:
//   - *QRCodeController: новый экземпляр контроллера
func NewQRCodeController(qr QRCodeMaker, dir string) *QRCodeController {
	return &QRCodeController{qr: qr, dir: dir}
}

type generateQRCodeQuery struct {
	URL    string `form:"url" binding:"required"`
	Size   int    `form:"size"`
	Margin *int   `form:"margin"`
	Level  string `form:"errorCorrectionLevel"`
}

type qrCodeResponse struct {
	QRCodeURL string `json:"qrCodeUrl"`
}

// Generate обрабатывает GET /qrcode/generate?url=&size=&margin=&errorCorrectionLevel=.
//
// В случае успеха возвращает HTTP 200 и абсолютный адрес изображения.
// Ошибки: 400 (нет url, некорректные параметры), 500.
func (q *QRCodeController) Generate(ctx *gin.Context) {
	var query generateQRCodeQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		respondError(ctx, errors.Wrap(ErrBadRequest, err.Error()))
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, DefaultRequestTimeout)
	defer cancel()

	qrURL, err := q.qr.Generate(reqCtx, services.QRCodeParams{
		URL:    query.URL,
		Size:   query.Size,
		Margin: query.Margin,
		Level:  query.Level,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, qrCodeResponse{QRCodeURL: qrURL})
}

// Get обрабатывает GET /qrcode/:qrCodeId и отдает изображение <qrCodeId>.png.
func (q *QRCodeController) Get(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("qrCodeId"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, errorResponse{Error: "qr code not found"})
		return
	}
	path := filepath.Join(q.dir, id.String()+".png")
	if _, statErr := os.Stat(path); statErr != nil {
		ctx.JSON(http.StatusNotFound, errorResponse{Error: "qr code not found"})
		return
	}
	ctx.File(path)
}
