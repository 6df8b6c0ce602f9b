package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	bookHandler "github.com/zhouzirui/bookshelf/backend/internal/handler/book"
	feedHandler "github.com/zhouzirui/bookshelf/backend/internal/handler/feed"
	middlewarePkg "github.com/zhouzirui/bookshelf/backend/internal/middleware"
	"github.com/zhouzirui/bookshelf/backend/internal/service/catalog"
	"github.com/zhouzirui/bookshelf/backend/internal/service/feed"
	"github.com/zhouzirui/bookshelf/backend/pkg/utils"
)

// Options 控制路由的可选部分。
type Options struct {
	FeedBuffer int
	Logger     logrus.FieldLogger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(catalogSvc *catalog.Service, hub *feed.Hub, opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: log, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	books := bookHandler.New(catalogSvc, log)

	var events *feedHandler.Handler
	if hub != nil {
		events = feedHandler.New(hub, opts.FeedBuffer, log)
	}

	register := func(rt chi.Router) {
		books.RegisterRoutes(rt)
		if events != nil {
			events.RegisterRoutes(rt)
		}
	}

	// 原始接口挂在根路径，同时在 /api 下提供一份
	register(r)
	r.Route("/api", func(api chi.Router) {
		register(api)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondSuccess(w, http.StatusOK, "", map[string]int{"books": catalogSvc.Count()})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondFail(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondFail(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
