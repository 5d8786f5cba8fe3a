package router

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/taxdesk/internal/client/access"
	"github.com/dmitrijs2005/taxdesk/internal/client/models"
	"github.com/dmitrijs2005/taxdesk/internal/client/services"
	"github.com/dmitrijs2005/taxdesk/internal/logging"
)

// maxHops bounds redirect chains. The longest legitimate chain is
// unmatched -> "/" -> role home.
const maxHops = 4

// Session is the part of the session manager the router reads.
type Session interface {
	Snapshot() models.Session
	Subscribe(fn services.Observer) (unsubscribe func())
}

// Result is where a navigation ended.
//
// Decision is ShowLoading or Render, except when the redirect chain loops
// or runs too long; then Forbidden is set and Decision is the last redirect.
type Result struct {
	Requested string
	Path      string
	Route     Route
	Decision  access.Decision
	Redirects []string
	Forbidden bool
}

// Rendered reports whether the view at Path should be shown.
func (r Result) Rendered() bool {
	return r.Decision.Kind == access.Render
}

func (r Result) same(o Result) bool {
	return r.Path == o.Path && r.Decision == o.Decision && r.Forbidden == o.Forbidden
}

// Listener is called after the current result changes.
type Listener func(Result)

// Step makes one routing decision for p in session s.
func Step(p string, s models.Session) (Route, access.Decision) {
	p = Normalize(p)
	route, found := Lookup(p)

	if s.Loading {
		return route, access.Decision{Kind: access.ShowLoading}
	}

	if s.User == nil {
		if found && route.Public {
			return route, access.Decision{Kind: access.Render}
		}
		return route, access.Decision{Kind: access.Redirect, Target: LoginPath}
	}

	if p == RootPath {
		return route, access.Decision{Kind: access.Redirect, Target: access.RoleHome(s.User.Role)}
	}
	if !found || route.Public {
		return route, access.Decision{Kind: access.Redirect, Target: RootPath}
	}
	return route, access.Decide(s, route.Allowed)
}

// Resolve follows redirects from p until a view renders, the session is
// loading, or the chain stops making progress.
func Resolve(p string, s models.Session) Result {
	res := Result{Requested: p, Path: Normalize(p)}
	visited := []string{res.Path}

	for {
		route, d := Step(res.Path, s)
		res.Route = route
		res.Decision = d
		if d.Kind != access.Redirect {
			return res
		}
		if slices.Contains(visited, d.Target) || len(res.Redirects) >= maxHops {
			res.Forbidden = true
			return res
		}
		res.Redirects = append(res.Redirects, d.Target)
		visited = append(visited, d.Target)
		res.Path = d.Target
	}
}

// Router keeps the current location in sync with the session.
type Router struct {
	session Session
	log     logging.Logger

	mu        sync.Mutex
	current   Result
	listeners map[int]Listener
	nextID    int
	unsub     func()
}

// New returns a router positioned at start and subscribed to session.
func New(session Session, start string, log logging.Logger) *Router {
	r := &Router{
		session:   session,
		log:       log.With("component", "router"),
		listeners: make(map[int]Listener),
	}
	r.current = Resolve(start, session.Snapshot())
	r.unsub = session.Subscribe(r.sessionChanged)
	return r
}

// Current returns the last resolved location.
func (r *Router) Current() Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Navigate resolves p against the current session and moves there.
func (r *Router) Navigate(ctx context.Context, p string) Result {
	res := Resolve(p, r.session.Snapshot())
	r.log.Debug(ctx, "navigate", "requested", p, "path", res.Path, "decision", res.Decision.String())
	r.apply(ctx, res, true)
	return res
}

// Reload re-runs the gate for the current path.
func (r *Router) Reload(ctx context.Context) Result {
	return r.Navigate(ctx, r.Current().Path)
}

// OnChange registers fn and returns the function that removes it.
func (r *Router) OnChange(fn Listener) (remove func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.listeners, id)
			r.mu.Unlock()
		})
	}
}

// Close unsubscribes from the session and drops all listeners.
func (r *Router) Close() {
	r.mu.Lock()
	unsub := r.unsub
	r.unsub = nil
	r.listeners = make(map[int]Listener)
	r.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// sessionChanged re-resolves the path the user is on. While loading that is
// still the originally requested path, so a reload lands back on it.
func (r *Router) sessionChanged(s models.Session) {
	ctx := context.Background()
	cur := r.Current()
	res := Resolve(cur.Path, s)
	if len(res.Redirects) > 0 {
		r.log.Info(ctx, "session change redirected", "from", cur.Path, "path", res.Path, "role", roleOf(s))
	}
	r.apply(ctx, res, false)
}

// apply stores res and notifies listeners. Explicit navigations always
// notify so the view reloads; session-driven ones only when something moved.
func (r *Router) apply(ctx context.Context, res Result, force bool) {
	r.mu.Lock()
	changed := !r.current.same(res)
	r.current = res
	var ls []Listener
	if changed || force {
		for id := 0; id < r.nextID; id++ {
			if l, ok := r.listeners[id]; ok {
				ls = append(ls, l)
			}
		}
	}
	r.mu.Unlock()

	if res.Forbidden {
		r.log.Warn(ctx, "redirect loop stopped", "requested", res.Requested, "path", res.Path)
	}
	for _, l := range ls {
		l(res)
	}
}

func roleOf(s models.Session) string {
	if s.User == nil {
		return ""
	}
	return s.User.Role.String()
}
