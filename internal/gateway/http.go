// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package gateway

import (
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	perrors "plugctl/cli/internal/errors"
	"plugctl/cli/internal/logging"
)

// ErrorBody is the JSON returned for failed requests.
type ErrorBody struct {
	RequestID string `json:"request_id"`
	Kind      string `json:"kind"`
	Error     string `json:"error"`
}

// NewHTTP builds the echo router:
//
//	GET  /commands
//	POST /devices/:destination/commands/:command   {"dry_run":false,"values":{...}}
func NewHTTP(svc *Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			svc.log.Debug().Str("request_id", v.RequestID).Str("method", v.Method).
				Str("uri", v.URI).Int("status", v.Status).Msg("http request")
			return nil
		},
	}))

	e.GET("/commands", func(c echo.Context) error {
		return c.JSON(http.StatusOK, svc.Commands())
	})

	e.POST("/devices/:destination/commands/:command", func(c echo.Context) error {
		id := c.Response().Header().Get(echo.HeaderXRequestID)

		var req Request
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, ErrorBody{RequestID: id, Kind: string(perrors.ConfigError), Error: "invalid request body"})
		}
		req.Command = c.Param("command")
		req.Destination = pathParam(c.Param("destination"))

		res, err := svc.Dispatch(c.Request().Context(), id, req)
		if err != nil {
			return c.JSON(HTTPStatus(err), ErrorBody{
				RequestID: id,
				Kind:      string(perrors.KindOf(err)),
				Error:     logging.Mask(err.Error()),
			})
		}
		return c.JSON(http.StatusOK, res)
	})
	return e
}

// pathParam undoes percent-encoding, which IPv6 destinations need.
func pathParam(p string) string {
	if u, err := url.PathUnescape(p); err == nil {
		return u
	}
	return p
}
