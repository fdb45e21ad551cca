// Package controllers translates HTTP (and websocket, and GraphQL) traffic
// into service calls and renders the JSON envelopes.
package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/tienda/app/services"
	"github.com/shashiranjanraj/tienda/app/store"
	"github.com/shashiranjanraj/tienda/config"
	"github.com/shashiranjanraj/tienda/pkg/bind"
	"github.com/shashiranjanraj/tienda/pkg/logger"
	"github.com/shashiranjanraj/tienda/pkg/paginate"
	"github.com/shashiranjanraj/tienda/pkg/response"
	"github.com/shashiranjanraj/tienda/pkg/router"
)

const msgProductNotFound = "Producto no encontrado"

type ProductController struct {
	catalog *services.CatalogService
}

func NewProduct(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// pathID parses a numeric route parameter. Non-numeric ids behave like ids
// that do not exist.
func pathID(r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(router.Param(r, key), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func listQuery(r *http.Request) store.ListQuery {
	q := store.ListQuery{Limit: 10, Page: 1}
	values := r.URL.Query()
	if raw := values.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			q.Limit = n
		}
	}
	if raw := values.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			q.Page = n
		}
	}
	if sort := values.Get("sort"); sort == "asc" || sort == "desc" {
		q.Sort = sort
	}
	q.Category = values.Get("query")
	// Normalizing here keeps the envelope's links in agreement with the
	// page size the store will actually apply.
	return q.Normalize()
}

// List serves the paginated catalog envelope with absolute prev/next links.
func (pc *ProductController) List(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r)
	page, err := pc.catalog.List(r.Context(), q)
	if err != nil {
		fail(w, r, err, msgProductNotFound)
		return
	}
	prev, next := paginate.Links(config.AppURL()+"/api/products", paginate.Query{
		Limit:    q.Limit,
		Sort:     q.Sort,
		Category: q.Category,
	}, page.Meta)
	response.Paginated(w, page.Items, page.Meta, prev, next)
}

func (pc *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "pid")
	if !ok {
		response.NotFound(w, msgProductNotFound)
		return
	}
	p, err := pc.catalog.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err, msgProductNotFound)
		return
	}
	response.Success(w, p)
}

func (pc *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if fe, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, "cuerpo de la petición inválido")
		return
	} else if fe != nil {
		response.BadRequest(w, fe.Message)
		return
	}
	p, err := pc.catalog.Create(r.Context(), in)
	if err != nil {
		fail(w, r, err, msgProductNotFound)
		return
	}
	response.Created(w, p)
}

func (pc *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "pid")
	if !ok {
		response.NotFound(w, msgProductNotFound)
		return
	}
	var patch services.ProductPatch
	if _, err := bind.JSON(r, &patch); err != nil {
		response.BadRequest(w, "cuerpo de la petición inválido")
		return
	}
	p, err := pc.catalog.Update(r.Context(), id, patch)
	if err != nil {
		fail(w, r, err, msgProductNotFound)
		return
	}
	response.Success(w, p)
}

func (pc *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "pid")
	if !ok {
		response.NotFound(w, msgProductNotFound)
		return
	}
	if err := pc.catalog.Delete(r.Context(), id); err != nil {
		fail(w, r, err, msgProductNotFound)
		return
	}
	response.Message(w, "Producto eliminado")
}

// UploadThumbnail accepts a multipart form with a "thumbnail" file field and
// attaches the stored file's URL to the product.
func (pc *ProductController) UploadThumbnail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "pid")
	if !ok {
		response.NotFound(w, msgProductNotFound)
		return
	}
	file, header, err := r.FormFile("thumbnail")
	if err != nil {
		response.BadRequest(w, "se requiere el archivo thumbnail")
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(w, "no se pudo leer el archivo")
		return
	}
	p, err := pc.catalog.AttachThumbnail(r.Context(), id, header.Filename, content)
	if err != nil {
		fail(w, r, err, msgProductNotFound)
		return
	}
	response.Success(w, p)
}

// fail maps service errors onto the envelope: validation to 400, missing
// records to 404 and anything else to a logged 500.
func fail(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		response.BadRequest(w, ve.Message)
	case errors.Is(err, store.ErrNotFound):
		response.NotFound(w, notFoundMsg)
	default:
		logger.WithCtx(r.Context()).Error("catalog request failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "error interno del servidor")
	}
}
