package controllers

import (
	"fmt"
	"net/http"

	"github.com/fsdevblog/linkshort/internal/models"
	"github.com/fsdevblog/linkshort/internal/services"
	"github.com/golang/mock/gomock"
)

func (s *ControllersSuite) TestRedirect() {
	redirectTo := "https://example.com/target?q=1"
	link := &models.Link{ID: "link-1", ShortCode: "abc123", OriginalURL: redirectTo}

	s.resolver.EXPECT().Resolve(gomock.Any(), "abc123").Return(link, nil)
	s.dispatcher.EXPECT().
		Dispatch(link, gomock.Any()).
		Do(func(_ *models.Link, meta services.VisitMeta) {
			s.Equal("test-agent", meta.UserAgent)
			s.Equal("https://google.com/", meta.Referrer)
			s.NotEmpty(meta.IPAddress)
		})

	res := s.makeRequest(requestFields{
		Method: http.MethodGet,
		URL:    "/abc123",
		Headers: map[string]string{
			"User-Agent": "test-agent",
			"Referer":    "https://google.com/",
		},
	})
	defer res.Body.Close()

	s.Equal(http.StatusMovedPermanently, res.StatusCode)
	s.Equal(redirectTo, res.Header.Get("Location"))
}

func (s *ControllersSuite) TestRedirect_NotFound() {
	causes := []error{
		services.ErrNotFound,
		fmt.Errorf("resolve old: %w: %w", services.ErrNotFound, services.ErrLinkExpired),
		fmt.Errorf("resolve max: %w: %w", services.ErrNotFound, services.ErrLinkLimitReached),
	}
	for i, cause := range causes {
		s.Run(cause.Error(), func() {
			code := fmt.Sprintf("code%d", i)
			s.resolver.EXPECT().Resolve(gomock.Any(), code).Return(nil, cause)

			res := s.makeRequest(requestFields{Method: http.MethodGet, URL: "/" + code})
			defer res.Body.Close()

			s.Equal(http.StatusNotFound, res.StatusCode)
			s.Empty(res.Header.Get("Location"))
		})
	}
}

func (s *ControllersSuite) TestRedirect_RootPage() {
	res := s.makeRequest(requestFields{Method: http.MethodGet, URL: "/"})
	defer res.Body.Close()
	s.Equal(http.StatusNotFound, res.StatusCode)
}
