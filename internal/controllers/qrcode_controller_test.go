package controllers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/fsdevblog/linkshort/internal/services"
	"github.com/goccy/go-json"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
)

func (s *ControllersSuite) TestGenerateQRCode() {
	s.qr.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, p services.QRCodeParams) (string, error) {
			s.Equal("https://example.com/abc123", p.URL)
			s.Equal(300, p.Size)
			s.Require().NotNil(p.Margin)
			s.Equal(4, *p.Margin)
			s.Equal("H", p.Level)
			return "http://localhost:8080/qrcodes/test-qr.png", nil
		})

	res := s.makeRequest(requestFields{
		Method: http.MethodGet,
		URL:    "/qrcode/generate?url=https%3A%2F%2Fexample.com%2Fabc123&size=300&margin=4&errorCorrectionLevel=H",
	})
	defer res.Body.Close()

	s.Equal(http.StatusOK, res.StatusCode)
	var body map[string]string
	s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
	s.Equal(map[string]string{"qrCodeUrl": "http://localhost:8080/qrcodes/test-qr.png"}, body)
}

func (s *ControllersSuite) TestGenerateQRCode_OptionalParams() {
	s.qr.EXPECT().
		Generate(gomock.Any(), services.QRCodeParams{URL: "https://example.com"}).
		Return("http://localhost:8080/qrcodes/a.png", nil)

	res := s.makeRequest(requestFields{Method: http.MethodGet, URL: "/qrcode/generate?url=https://example.com"})
	defer res.Body.Close()
	s.Equal(http.StatusOK, res.StatusCode)
}

func (s *ControllersSuite) TestGenerateQRCode_Errors() {
	tests := []struct {
		name       string
		url        string
		serviceErr error
		wantStatus int
		wantError  string
	}{
		{name: "missing url", url: "/qrcode/generate", wantStatus: http.StatusBadRequest, wantError: "invalid request"},
		{name: "size is not a number", url: "/qrcode/generate?url=https://x.io&size=big", wantStatus: http.StatusBadRequest},
		{
			name:       "validation",
			url:        "/qrcode/generate?url=ftp://x.io",
			serviceErr: pkgerrors.Wrap(services.ErrValidation, "URL must have http or https scheme"),
			wantStatus: http.StatusBadRequest,
			wantError:  "URL must have http or https scheme",
		},
		{
			name:       "generator failure",
			url:        "/qrcode/generate?url=https://x.io",
			serviceErr: pkgerrors.New("disk full"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal error",
		},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			if tt.serviceErr != nil {
				s.qr.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("", tt.serviceErr)
			}
			res := s.makeRequest(requestFields{Method: http.MethodGet, URL: tt.url})
			defer res.Body.Close()

			s.Equal(tt.wantStatus, res.StatusCode)
			if tt.wantError != "" {
				var body errorResponse
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
				s.Equal(tt.wantError, body.Error)
			}
		})
	}
}

func (s *ControllersSuite) TestGetQRCode() {
	id := uuid.NewString()
	content := []byte("\x89PNG fake image")
	s.Require().NoError(os.WriteFile(filepath.Join(s.qrDir, id+".png"), content, 0o600))

	res := s.makeRequest(requestFields{Method: http.MethodGet, URL: "/qrcode/" + id})
	defer res.Body.Close()
	s.Equal(http.StatusOK, res.StatusCode)
	got, err := readBody(res.Body, false)
	s.Require().NoError(err)
	s.Equal(content, got)

	for _, missing := range []string{uuid.NewString(), "not-a-uuid"} {
		res := s.makeRequest(requestFields{Method: http.MethodGet, URL: "/qrcode/" + missing})
		s.Equal(http.StatusNotFound, res.StatusCode, missing)
		res.Body.Close()
	}
}
