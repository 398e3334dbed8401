package catalog

import (
	"net/http"

	"go.uber.org/zap"

	"phonestore/internal/httpx"
)

type Controller struct {
	catalog *Catalog
	logger  *zap.Logger
}

func NewController(catalog *Catalog, logger *zap.Logger) *Controller {
	return &Controller{
		catalog: catalog,
		logger:  logger,
	}
}

// List serves the models offered by the configure wizard.
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, c.catalog.Models(), c.logger)
}
