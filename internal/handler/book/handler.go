package book

import (
	"context"
	"errors"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/bookshelf/backend/internal/model/book"
	"github.com/zhouzirui/bookshelf/backend/internal/service/catalog"
	"github.com/zhouzirui/bookshelf/backend/pkg/utils"
)

const (
	msgCreated       = "book added successfully"
	msgCreateFailed  = "failed to add book"
	msgNotFound      = "book not found"
	msgUpdated       = "book updated successfully"
	msgUpdateMissing = "failed to update book: id not found"
	msgDeleted       = "book deleted successfully"
	msgDeleteMissing = "failed to delete book: id not found"
	msgInvalidBody   = "invalid request body"
)

// Catalog is the set of book operations the handler dispatches to.
type Catalog interface {
	Create(ctx context.Context, in book.Input) (string, error)
	List(ctx context.Context, f book.Filter) []book.Summary
	Get(ctx context.Context, id string) (book.Book, error)
	Update(ctx context.Context, id string, in book.Input) error
	Delete(ctx context.Context, id string) error
}

// Handler 图书接口的HTTP处理器
type Handler struct {
	catalog Catalog
	log     logrus.FieldLogger
}

// New 创建图书处理器
func New(catalog Catalog, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{
		catalog: catalog,
		log:     log.WithField("handler", "book"),
	}
}

// RegisterRoutes 注册图书相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/books", h.handleCreate)
	r.Get("/books", h.handleList)
	r.Get("/books/{bookID}", h.handleGet)
	r.Put("/books/{bookID}", h.handleUpdate)
	r.Delete("/books/{bookID}", h.handleDelete)
}

// payload mirrors the loosely typed request body; values are checked in toInput.
type payload struct {
	Name      interface{} `json:"name"`
	Year      interface{} `json:"year"`
	Author    string      `json:"author"`
	Summary   string      `json:"summary"`
	Publisher string      `json:"publisher"`
	PageCount interface{} `json:"pageCount"`
	ReadPage  interface{} `json:"readPage"`
	Reading   interface{} `json:"reading"`
}

func (p payload) toInput() book.Input {
	in := book.Input{
		Year:      asInt(p.Year),
		Author:    p.Author,
		Summary:   p.Summary,
		Publisher: p.Publisher,
		PageCount: asInt(p.PageCount),
		ReadPage:  asInt(p.ReadPage),
	}
	if name, ok := p.Name.(string); ok {
		in.Name = &name
	}
	if reading, ok := p.Reading.(bool); ok {
		in.Reading = reading
	}
	return in
}

// asInt accepts JSON numbers with an integral value; anything else is nil.
func asInt(v interface{}) *int {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return nil
	}
	n := int(f)
	return &n
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (book.Input, bool) {
	var p payload
	if err := utils.DecodeJSON(r.Body, &p); err != nil {
		h.log.WithError(err).Warn("rejecting undecodable book payload")
		utils.RespondFail(w, http.StatusBadRequest, msgInvalidBody)
		return book.Input{}, false
	}
	return p.toInput(), true
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	id, err := h.catalog.Create(r.Context(), in)
	if err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			utils.RespondFail(w, http.StatusBadRequest, verr.Error())
			return
		}
		h.log.WithError(err).Error("create book failed")
		utils.RespondFail(w, http.StatusInternalServerError, msgCreateFailed)
		return
	}

	utils.RespondSuccess(w, http.StatusCreated, msgCreated, map[string]string{"bookId": id})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var f book.Filter
	if query.Has("name") {
		v := query.Get("name")
		f.Name = &v
	}
	if query.Has("reading") {
		v := query.Get("reading")
		f.Reading = &v
	}
	if query.Has("finished") {
		v := query.Get("finished")
		f.Finished = &v
	}

	books := h.catalog.List(r.Context(), f)
	utils.RespondSuccess(w, http.StatusOK, "", map[string]interface{}{"books": books})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "bookID")

	b, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		h.respondLookupError(w, err, msgNotFound)
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "", map[string]interface{}{"book": b})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "bookID")
	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	if err := h.catalog.Update(r.Context(), id, in); err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			utils.RespondFail(w, http.StatusBadRequest, verr.Error())
			return
		}
		h.respondLookupError(w, err, msgUpdateMissing)
		return
	}

	utils.RespondSuccess(w, http.StatusOK, msgUpdated, nil)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "bookID")

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		h.respondLookupError(w, err, msgDeleteMissing)
		return
	}

	utils.RespondSuccess(w, http.StatusOK, msgDeleted, nil)
}

func (h *Handler) respondLookupError(w http.ResponseWriter, err error, notFound string) {
	if errors.Is(err, catalog.ErrNotFound) {
		utils.RespondFail(w, http.StatusNotFound, notFound)
		return
	}
	h.log.WithError(err).Error("book operation failed")
	utils.RespondFail(w, http.StatusInternalServerError, err.Error())
}
