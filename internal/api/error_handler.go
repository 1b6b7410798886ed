package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/uniportal/thesis-portal/internal/core/domain"
	"github.com/uniportal/thesis-portal/internal/core/ports"
)

// NewHTTPErrorHandler maps domain errors onto HTTP responses. A session
// expiry anywhere in the request destroys the local session and bounces
// the visitor to login, mirroring what a 401 interceptor does in the
// browser.
func NewHTTPErrorHandler(log zerolog.Logger, store ports.SessionStore) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if errors.Is(err, domain.ErrSessionExpired) {
			if clearErr := store.Clear(c.Response(), c.Request()); clearErr != nil {
				log.Error().Err(clearErr).Msg("clearing expired session failed")
			}
			log.Info().Str("path", c.Request().URL.Path).Msg("session expired, redirecting to login")
			if redirErr := c.Redirect(http.StatusFound, "/auth/login"); redirErr != nil {
				log.Error().Err(redirErr).Msg("redirect after session expiry failed")
			}
			return
		}

		code := http.StatusInternalServerError
		message := "Đã có lỗi xảy ra"

		var he *echo.HTTPError
		switch {
		case errors.As(err, &he):
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			}
		case errors.Is(err, domain.ErrInvalidCredentials):
			code = http.StatusUnauthorized
			message = "Tên đăng nhập hoặc mật khẩu không đúng"
		case errors.Is(err, domain.ErrNotFound):
			code = http.StatusNotFound
			message = "Không tìm thấy dữ liệu"
		case errors.Is(err, domain.ErrUserExists):
			code = http.StatusConflict
			message = "Tài khoản đã tồn tại"
		case errors.Is(err, domain.ErrUpstreamUnavailable):
			code = http.StatusBadGateway
			message = "Hệ thống đang bận, vui lòng thử lại sau"
		}

		if code >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Request().URL.Path).Int("status", code).Msg("request failed")
		} else {
			log.Debug().Err(err).Str("path", c.Request().URL.Path).Int("status", code).Msg("request rejected")
		}

		var respErr error
		if c.Request().Method == http.MethodHead {
			respErr = c.NoContent(code)
		} else {
			respErr = c.JSON(code, map[string]string{"error": message})
		}
		if respErr != nil {
			log.Error().Err(respErr).Msg("writing error response failed")
		}
	}
}
