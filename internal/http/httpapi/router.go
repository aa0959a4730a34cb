package httpapi

import (
	"errors"
	"mime"
	stdhttp "net/http"
	"os"
	"path"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"server/internal/http/handlers"
	"server/internal/infra/geoip"
	"server/internal/middleware"
	"server/internal/storage"
)

// RouterOptions carries the cross-cutting pieces the router wires around the
// application handlers.
type RouterOptions struct {
	JWTSecret       string
	AllowedOrigins  []string
	RateLimitPerMin int
	GeoIP           geoip.CountryResolver
	Blobs           storage.BlobStore
}

func NewRouter(app *handlers.App, opts RouterOptions) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(app.Logger))
	r.Use(middleware.CORS(opts.AllowedOrigins))
	if opts.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
	}

	r.Get("/healthz", app.Health)

	if opts.Blobs != nil {
		r.Get("/static/*", serveBlob(opts.Blobs))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AuthJWT(opts.JWTSecret))
		r.Use(middleware.I18N(opts.GeoIP))

		r.Get("/me", app.Me)
		r.Get("/spots", app.SpotsByCity)
		r.Post("/spots", app.SpotsCreate)

		r.Route("/images", func(r chi.Router) {
			r.Post("/story-background", app.StoryBackground)
			r.Get("/story-background", app.StoryBackgroundSources)
		})

		r.Route("/itineraries", func(r chi.Router) {
			r.Post("/", app.ItinerariesCreate)
			r.Get("/", app.ItinerariesList)
			r.Get("/{id}", app.ItinerariesGet)
			r.Delete("/{id}", app.ItinerariesDelete)
			r.Get("/{id}/story", app.StorySlide)
			r.Post("/{id}/story/prefetch", app.StoryPrefetch)
			r.Get("/{id}/story/archive", app.StoryArchive)
		})
	})

	return r
}

// serveBlob answers /static/* from the blob store. The store sanitizes keys,
// so traversal attempts degrade to a 404.
func serveBlob(blobs storage.BlobStore) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
		key := chi.URLParam(req, "*")
		data, err := blobs.Read(req.Context(), key)
		if err != nil {
			status := stdhttp.StatusNotFound
			if !errors.Is(err, os.ErrNotExist) && !errors.Is(err, storage.ErrInvalidKey) {
				status = stdhttp.StatusInternalServerError
			}
			stdhttp.Error(w, stdhttp.StatusText(status), status)
			return
		}
		ct := mime.TypeByExtension(path.Ext(key))
		if ct == "" {
			ct = stdhttp.DetectContentType(data)
		}
		w.Header().Set("Content-Type", ct)
		w.Header().Set("Cache-Control", "public, max-age=86400")
		_, _ = w.Write(data)
	}
}
