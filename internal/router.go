package internal

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// HandlerFunc handles a request. A returned error goes to the app's
// ErrorHandler unless the response has already been written.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc.
//
//	func RequireJSON(next internal.HandlerFunc) internal.HandlerFunc {
//	    return func(c internal.Context) error {
//	        if c.Header("Content-Type") != "application/json" {
//	            return internal.ErrBadRequest("Invalid request body")
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler renders errors returned from handlers.
type ErrorHandler func(Context, error) error

// Handler declares its routes on a Router.
type Handler interface {
	Routes(r Router)
}

// Router is what handlers see while declaring routes.
// Route middleware passed to GET or POST runs inside the group middleware,
// first argument outermost.
type Router interface {
	GET(path string, h HandlerFunc, mw ...Middleware)
	POST(path string, h HandlerFunc, mw ...Middleware)

	// Group starts an inline group sharing middleware but no prefix.
	Group(fn func(r Router))
	// Route starts a group mounted under pattern.
	Route(pattern string, fn func(r Router))
	// Use adds middleware to the current group.
	Use(mw ...Middleware)
}

type chiRouter struct {
	mux chi.Router
	app *App
}

func (r *chiRouter) GET(path string, h HandlerFunc, mw ...Middleware) {
	r.mux.Get(path, r.app.wrapHandler(chain(h, mw)))
}

func (r *chiRouter) POST(path string, h HandlerFunc, mw ...Middleware) {
	r.mux.Post(path, r.app.wrapHandler(chain(h, mw)))
}

func (r *chiRouter) Group(fn func(Router)) {
	r.mux.Group(func(sub chi.Router) {
		fn(&chiRouter{mux: sub, app: r.app})
	})
}

func (r *chiRouter) Route(pattern string, fn func(Router)) {
	r.mux.Route(pattern, func(sub chi.Router) {
		fn(&chiRouter{mux: sub, app: r.app})
	})
}

func (r *chiRouter) Use(mw ...Middleware) {
	for _, m := range mw {
		r.mux.Use(r.app.adaptMiddleware(m))
	}
}

// chain applies mw around h so that mw[0] runs first.
func chain(h HandlerFunc, mw []Middleware) HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

// adaptMiddleware turns mw into chi middleware. next sees whatever request
// mw left in c.Request(), so derived contexts propagate down the chain.
func (a *App) adaptMiddleware(mw Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := newContext(w, r, a)
			err := mw(func(c Context) error {
				next.ServeHTTP(c.Response(), c.Request())
				return nil
			})(c)
			if err != nil {
				a.handleError(c, err)
			}
		})
	}
}
