package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"weather-console/internal/history"
	"weather-console/internal/models"
	"weather-console/internal/observability"
	"weather-console/internal/session"
	"weather-console/internal/theme"
	"weather-console/internal/upstream"
	"weather-console/internal/validation"
)

const sessionCookie = "session_id"

// User-facing fallback messages. Server-supplied messages take
// precedence when present.
const (
	msgLoginFailed    = "Login failed"
	msgRegisterFailed = "Registration failed"
	msgNetworkError   = "Network error. Please try again."
	msgWeatherFailed  = "Failed to fetch weather data"
	msgHistoryFailed  = "Failed to fetch history"
	msgBusy           = "A request is already in progress. Please try again."
)

// Service is the surface of the remote weather service the handlers
// consume. *upstream.Client satisfies it.
type Service interface {
	SignIn(ctx context.Context, email, password string) (*models.AuthResult, error)
	SignUp(ctx context.Context, email, password string) (*models.AuthResult, error)
	Current(ctx context.Context, token, lat, lon string) (*models.WeatherReport, error)
	History(ctx context.Context, token string, skip, limit int) ([]models.HistoryEntry, error)
}

// Handler holds dependencies for the console's HTTP handlers. The
// session store is passed in explicitly; handlers re-read it on every
// request rather than caching sessions in memory.
type Handler struct {
	store    session.Store
	api      Service
	themes   *theme.Broadcaster
	logger   *zap.Logger
	pageSize int
	gate     *sessionGate

	mu     sync.Mutex
	pagers map[string]*history.Pager
}

// NewHandler returns a new Handler.
func NewHandler(store session.Store, api Service, themes *theme.Broadcaster, logger *zap.Logger, pageSize int) *Handler {
	if pageSize <= 0 {
		pageSize = history.DefaultLimit
	}
	return &Handler{
		store:    store,
		api:      api,
		themes:   themes,
		logger:   logger,
		pageSize: pageSize,
		gate:     newSessionGate(),
		pagers:   make(map[string]*history.Pager),
	}
}

// Routes wires the console's routes and middleware. The rate limiter
// guards the auth form posts only; requestTimeout bounds every route
// that calls upstream.
func (h *Handler) Routes(limiter *rate.Limiter, requestTimeout time.Duration) *mux.Router {
	r := mux.NewRouter()
	r.Use(CorrelationIDMiddleware(h.logger))
	r.Use(MetricsMiddleware)

	limit := RateLimitMiddleware(limiter)
	timeout := TimeoutMiddleware(requestTimeout)

	r.HandleFunc("/", h.GetHome).Methods("GET")
	r.HandleFunc("/healthz", h.GetHealth).Methods("GET")
	r.Handle("/metrics", observability.MetricsHandler()).Methods("GET")

	r.HandleFunc("/login", h.GetLogin).Methods("GET")
	r.HandleFunc("/register", h.GetRegister).Methods("GET")
	r.Handle("/login", limit(timeout(http.HandlerFunc(h.PostLogin)))).Methods("POST")
	r.Handle("/register", limit(timeout(http.HandlerFunc(h.PostRegister)))).Methods("POST")
	r.HandleFunc("/logout", h.PostLogout).Methods("POST")

	r.HandleFunc("/weather", h.GetWeatherPage).Methods("GET")
	r.Handle("/weather", timeout(http.HandlerFunc(h.PostWeather))).Methods("POST")
	r.Handle("/history", timeout(http.HandlerFunc(h.GetHistoryPage))).Methods("GET")
	r.Handle("/history/more", timeout(http.HandlerFunc(h.PostHistoryMore))).Methods("POST")
	r.Handle("/history/refresh", timeout(http.HandlerFunc(h.PostHistoryRefresh))).Methods("POST")

	return r
}

// ensureSessionID returns the browser's session ID, minting and
// setting a cookie when none exists yet.
func (h *Handler) ensureSessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int((30 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// currentSession reads the store for the request's session ID. A
// missing or unauthenticated session returns nil.
func (h *Handler) currentSession(ctx context.Context, id string) *session.Session {
	sess, err := h.store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			h.logger.Error("read session", zap.Error(err))
		}
		return nil
	}
	return sess
}

// requireSession redirects to /login when the store holds no token for
// this browser. Authenticated handlers call this first and return
// immediately on !ok.
func (h *Handler) requireSession(w http.ResponseWriter, r *http.Request) (*session.Session, string, bool) {
	id := h.ensureSessionID(w, r)
	sess := h.currentSession(r.Context(), id)
	if !sess.Authenticated() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil, id, false
	}
	return sess, id, true
}

// clearSession removes the stored session and its view state. Used on
// logout and on any authorization failure from an upstream call.
func (h *Handler) clearSession(ctx context.Context, id, reason string) {
	if err := h.store.Clear(ctx, id); err != nil {
		h.logger.Error("clear session", zap.Error(err))
	}
	h.dropPager(id)
	observability.SessionClearsTotal.WithLabelValues(reason).Inc()
}

func (h *Handler) pagerFor(id string) *history.Pager {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.pagers[id]
	if !ok {
		p = history.NewPager(h.pageSize)
		h.pagers[id] = p
	}
	return p
}

func (h *Handler) dropPager(id string) {
	h.mu.Lock()
	delete(h.pagers, id)
	h.mu.Unlock()
}

// historyFetch binds the token read for this request; the pager itself
// never sees credentials.
func (h *Handler) historyFetch(token string) history.Fetcher {
	return func(ctx context.Context, skip, limit int) ([]models.HistoryEntry, error) {
		return h.api.History(ctx, token, skip, limit)
	}
}

func (h *Handler) newPageData(title string, sess *session.Session) *pageData {
	data := &pageData{
		Title:      title,
		Background: theme.BackgroundFor(h.themes.Current().Description),
	}
	if sess.Authenticated() {
		data.Authenticated = true
		data.Email = sess.User.Email
	}
	return data
}

// render executes the page into a buffer first, so a template failure
// yields a clean 500 instead of a half-written page.
func (h *Handler) render(w http.ResponseWriter, name string, data *pageData) {
	var buf bytes.Buffer
	if err := renderPage(&buf, name, data); err != nil {
		h.logger.Error("render page", zap.String("page", name), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// GetHome handles GET /.
func (h *Handler) GetHome(w http.ResponseWriter, r *http.Request) {
	id := h.ensureSessionID(w, r)
	sess := h.currentSession(r.Context(), id)
	h.render(w, "home", h.newPageData("Home", sess))
}

// GetLogin handles GET /login.
func (h *Handler) GetLogin(w http.ResponseWriter, r *http.Request) {
	h.ensureSessionID(w, r)
	h.render(w, "login", h.newPageData("Sign In", nil))
}

// GetRegister handles GET /register.
func (h *Handler) GetRegister(w http.ResponseWriter, r *http.Request) {
	h.ensureSessionID(w, r)
	h.render(w, "register", h.newPageData("Sign Up", nil))
}

// PostLogin handles POST /login.
func (h *Handler) PostLogin(w http.ResponseWriter, r *http.Request) {
	id := h.ensureSessionID(w, r)
	_ = r.ParseForm()
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	data := h.newPageData("Sign In", nil)
	data.Email = email

	if err := validation.ValidateCredentials(email, password); err != nil {
		data.Error = err.Error()
		h.render(w, "login", data)
		return
	}

	if !h.gate.begin(id) {
		data.Error = msgBusy
		h.render(w, "login", data)
		return
	}
	defer h.gate.end(id)

	res, err := h.api.SignIn(r.Context(), email, password)
	if err != nil {
		observability.AuthAttemptsTotal.WithLabelValues("signin", "failure").Inc()
		data.Error = authErrorMessage(err, msgLoginFailed)
		h.render(w, "login", data)
		return
	}

	if err := h.finishAuth(w, r, id, res); err != nil {
		return
	}
	observability.AuthAttemptsTotal.WithLabelValues("signin", "success").Inc()
}

// PostRegister handles POST /register. The local preconditions fail
// here without any network call.
func (h *Handler) PostRegister(w http.ResponseWriter, r *http.Request) {
	id := h.ensureSessionID(w, r)
	_ = r.ParseForm()
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	confirm := r.PostFormValue("confirm_password")

	data := h.newPageData("Sign Up", nil)
	data.Email = email

	if err := validation.ValidateRegistration(email, password, confirm); err != nil {
		data.Error = err.Error()
		h.render(w, "register", data)
		return
	}

	if !h.gate.begin(id) {
		data.Error = msgBusy
		h.render(w, "register", data)
		return
	}
	defer h.gate.end(id)

	res, err := h.api.SignUp(r.Context(), email, password)
	if err != nil {
		observability.AuthAttemptsTotal.WithLabelValues("signup", "failure").Inc()
		data.Error = authErrorMessage(err, msgRegisterFailed)
		h.render(w, "register", data)
		return
	}

	if err := h.finishAuth(w, r, id, res); err != nil {
		return
	}
	observability.AuthAttemptsTotal.WithLabelValues("signup", "success").Inc()
}

// finishAuth writes user and token into the store together and moves
// the now-authenticated browser to the weather page. State propagates
// through the store; no reload-style refresh is needed.
func (h *Handler) finishAuth(w http.ResponseWriter, r *http.Request, id string, res *models.AuthResult) error {
	sess := &session.Session{User: &res.User, Token: res.AccessToken}
	if err := h.store.Put(r.Context(), id, sess); err != nil {
		h.logger.Error("write session", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return err
	}
	h.dropPager(id)
	http.Redirect(w, r, "/weather", http.StatusSeeOther)
	return nil
}

// PostLogout handles POST /logout.
func (h *Handler) PostLogout(w http.ResponseWriter, r *http.Request) {
	id := h.ensureSessionID(w, r)
	h.clearSession(r.Context(), id, "logout")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GetWeatherPage handles GET /weather.
func (h *Handler) GetWeatherPage(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	h.render(w, "weather", h.newPageData("Weather", sess))
}

// PostWeather handles POST /weather: re-check the partial-decimal
// shape the form enforces, normalize, range-check, then forward the
// coordinate strings verbatim to the service.
func (h *Handler) PostWeather(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	_ = r.ParseForm()
	latRaw := strings.TrimSpace(r.PostFormValue("lat"))
	lonRaw := strings.TrimSpace(r.PostFormValue("lon"))

	data := h.newPageData("Weather", sess)
	data.Lat, data.Lon = latRaw, lonRaw

	if !validation.IsPartialDecimal(latRaw) {
		data.Error = validation.ErrLatitudeRange.Error()
		h.render(w, "weather", data)
		return
	}
	if !validation.IsPartialDecimal(lonRaw) {
		data.Error = validation.ErrLongitudeRange.Error()
		h.render(w, "weather", data)
		return
	}

	lat := validation.NormalizeTwoDecimals(latRaw)
	lon := validation.NormalizeTwoDecimals(lonRaw)
	if err := validation.ValidateCoordinates(lat, lon); err != nil {
		data.Error = err.Error()
		h.render(w, "weather", data)
		return
	}
	data.Lat, data.Lon = lat, lon

	if !h.gate.begin(id) {
		data.Error = msgBusy
		h.render(w, "weather", data)
		return
	}
	defer h.gate.end(id)

	report, err := h.api.Current(r.Context(), sess.Token, lat, lon)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			h.clearSession(r.Context(), id, "unauthorized")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		data.Error = serviceErrorMessage(err, msgWeatherFailed)
		h.render(w, "weather", data)
		return
	}

	observability.WeatherLookupsTotal.Inc()
	h.themes.Publish(theme.Update{Description: report.Description})
	data.Background = theme.BackgroundFor(report.Description)
	data.Report = report
	h.render(w, "weather", data)
}

// GetHistoryPage handles GET /history, fetching the first page when
// none has been loaded for this session yet.
func (h *Handler) GetHistoryPage(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	p := h.pagerFor(id)
	data := h.newPageData("History", sess)

	if !p.Loaded() {
		if done := h.loadHistory(w, r, id, p, sess.Token, data, "initial", (*history.Pager).Refresh); done {
			return
		}
	}

	data.Entries, data.HasMore = p.Entries(), p.HasMore()
	h.render(w, "history", data)
}

// PostHistoryMore handles POST /history/more: advance the cursor by one
// page and append.
func (h *Handler) PostHistoryMore(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	p := h.pagerFor(id)
	data := h.newPageData("History", sess)

	if done := h.loadHistory(w, r, id, p, sess.Token, data, "more", (*history.Pager).LoadMore); done {
		return
	}

	data.Entries, data.HasMore = p.Entries(), p.HasMore()
	h.render(w, "history", data)
}

// PostHistoryRefresh handles POST /history/refresh: reset to the first
// page, discarding everything accumulated.
func (h *Handler) PostHistoryRefresh(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	p := h.pagerFor(id)
	data := h.newPageData("History", sess)

	if done := h.loadHistory(w, r, id, p, sess.Token, data, "refresh", (*history.Pager).Refresh); done {
		return
	}

	data.Entries, data.HasMore = p.Entries(), p.HasMore()
	h.render(w, "history", data)
}

// loadHistory runs one pager operation under the session gate and
// applies the shared failure policy. Returns true when it already
// wrote the response (redirect after 401).
func (h *Handler) loadHistory(w http.ResponseWriter, r *http.Request, id string, p *history.Pager, token string, data *pageData, trigger string, op func(*history.Pager, context.Context, history.Fetcher) error) bool {
	if !h.gate.begin(id) {
		data.Error = msgBusy
		return false
	}
	err := op(p, r.Context(), h.historyFetch(token))
	h.gate.end(id)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			h.clearSession(r.Context(), id, "unauthorized")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return true
		}
		data.Error = serviceErrorMessage(err, msgHistoryFailed)
		return false
	}
	observability.HistoryPagesTotal.WithLabelValues(trigger).Inc()
	return false
}

// GetHealth handles GET /healthz.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	statusCode := http.StatusOK
	checks := make(map[string]string)
	if err := h.store.Ping(r.Context()); err != nil {
		checks["sessionStore"] = "unhealthy"
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	} else {
		checks["sessionStore"] = "healthy"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    status,
		"service":   "weather-console",
		"version":   "dev",
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// authErrorMessage picks the message for a failed auth call: the
// network class gets its own message, a service-reported failure keeps
// the server's words when it sent any.
func authErrorMessage(err error, fallback string) string {
	if errors.Is(err, upstream.ErrNetwork) {
		return msgNetworkError
	}
	return serviceErrorMessage(err, fallback)
}

// serviceErrorMessage surfaces a server-supplied message verbatim,
// falling back to the generic one.
func serviceErrorMessage(err error, fallback string) string {
	var svcErr *upstream.ServiceError
	if errors.As(err, &svcErr) && svcErr.Message != "" {
		return svcErr.Message
	}
	return fallback
}
