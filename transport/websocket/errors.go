package websocket

import (
	"errors"
	"net/http"

	"github.com/rocketscienceinc/xo-engine/internal/apperror"
)

func statusOf(err error) int {
	if errors.Is(err, apperror.ErrSessionNotFound) {
		return http.StatusNotFound
	}

	return http.StatusInternalServerError
}
