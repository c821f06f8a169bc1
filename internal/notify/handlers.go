package notify

import (
	"net/http"

	"github.com/noah-isme/shopfront/internal/common"
)

// Handler exposes the notification feed over HTTP.
type Handler struct {
	Sink *Sink
}

// List returns all notifications, oldest first.
func (h Handler) List(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{"notifications": h.Sink.All()})
}
