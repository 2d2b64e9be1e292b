package main

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/Simplici0/ledwall/internal/access"
	"github.com/Simplici0/ledwall/internal/estimator"
	"github.com/Simplici0/ledwall/internal/pricing"
	"github.com/Simplici0/ledwall/internal/report"
	"github.com/Simplici0/ledwall/internal/schematic"
	"github.com/Simplici0/ledwall/internal/session"
	"github.com/Simplici0/ledwall/web"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type server struct {
	log       *zap.Logger
	estimator *estimator.Estimator
	sessions  session.Store
	cookies   *cookieSigner
	defaults  session.Data
}

func newServer(log *zap.Logger, est *estimator.Estimator, sessions session.Store, cookies *cookieSigner, defaults session.Data) *server {
	return &server{
		log:       log,
		estimator: est,
		sessions:  sessions,
		cookies:   cookies,
		defaults:  defaults,
	}
}

type baseViewData struct {
	ErrorMessage   string
	SuccessMessage string
}

type estimatorViewData struct {
	baseViewData
	Form          formValues
	Transparent   bool
	Privileged    bool
	CanSelectTier bool
	Tiers         []pricing.Tier
	Limits        estimator.Limits
	Result        *estimator.Result
	Metrics       []report.Row
	Rows          []report.Row
	Schematic     template.HTML
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleHome"

	_, data, err := s.loadSession(w, r)
	if err != nil {
		s.log.Error("failed to load session", zap.String("op", op), zap.Error(err))
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}

	view := s.estimatorView(data, baseViewData{
		ErrorMessage:   r.URL.Query().Get("error"),
		SuccessMessage: r.URL.Query().Get("success"),
	})
	s.renderTemplate(w, http.StatusOK, "estimator.html", view)
}

func (s *server) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleRecalculate"

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	id, data, err := s.loadSession(w, r)
	if err != nil {
		s.log.Error("failed to load session", zap.String("op", op), zap.Error(err))
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}

	req, extrasText, err := parseEstimateForm(r, data.Request, data.ExtrasText)
	if err == nil {
		_, err = s.estimator.EstimateFor(levelOf(data), req)
	}
	if err != nil {
		view := s.estimatorView(data, baseViewData{ErrorMessage: err.Error()})
		view.Form = formValuesFromForm(r, view.Form)
		s.renderTemplate(w, http.StatusBadRequest, "estimator.html", view)
		return
	}

	data.Request = req
	data.ExtrasText = extrasText
	if err := s.saveSession(w, r, id, data); err != nil {
		s.log.Error("failed to save session", zap.String("op", op), zap.Error(err))
		http.Error(w, "failed to save session", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) handleAdminUnlock(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAdminUnlock"

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	id, data, err := s.loadSession(w, r)
	if err != nil {
		s.log.Error("failed to load session", zap.String("op", op), zap.Error(err))
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}

	if s.estimator.Authenticate(r.FormValue("admin_key")) != access.Privileged {
		s.log.Info("admin unlock rejected", zap.String("op", op), zap.String("remote_addr", r.RemoteAddr))
		http.Redirect(w, r, "/?error=Invalid+admin+key", http.StatusSeeOther)
		return
	}

	data.Privileged = true
	if err := s.saveSession(w, r, id, data); err != nil {
		s.log.Error("failed to save session", zap.String("op", op), zap.Error(err))
		http.Error(w, "failed to save session", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/?success=Admin+unlocked", http.StatusSeeOther)
}

func (s *server) handleAdminLock(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAdminLock"

	id, data, err := s.loadSession(w, r)
	if err != nil {
		s.log.Error("failed to load session", zap.String("op", op), zap.Error(err))
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}

	data.Privileged = false
	data.Request.Tier = ""
	if err := s.saveSession(w, r, id, data); err != nil {
		s.log.Error("failed to save session", zap.String("op", op), zap.Error(err))
		http.Error(w, "failed to save session", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/?success=Admin+locked", http.StatusSeeOther)
}

// handleSessionReset forgets the caller's inputs and privilege. The next
// request starts a fresh session with the configured defaults.
func (s *server) handleSessionReset(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSessionReset"

	if id, ok := s.cookies.sessionID(r); ok {
		if err := s.sessions.Delete(r.Context(), id); err != nil {
			s.log.Error("failed to delete session", zap.String("op", op), zap.Error(err))
			http.Error(w, "failed to reset session", http.StatusInternalServerError)
			return
		}
	}
	s.cookies.clearSessionCookie(w)

	http.Redirect(w, r, "/?success=Session+reset", http.StatusSeeOther)
}

func (s *server) handleSchematic(w http.ResponseWriter, r *http.Request) {
	limits := s.estimator.Limits()
	query := r.URL.Query()

	columns, err := strconv.Atoi(query.Get("columns"))
	if err != nil || columns < 1 || columns > limits.MaxColumns {
		http.Error(w, "columns must be between 1 and "+strconv.Itoa(limits.MaxColumns), http.StatusBadRequest)
		return
	}
	rows, err := strconv.Atoi(query.Get("rows"))
	if err != nil || rows < 1 || rows > limits.MaxRows {
		http.Error(w, "rows must be between 1 and "+strconv.Itoa(limits.MaxRows), http.StatusBadRequest)
		return
	}

	svg, err := schematic.Render(columns, rows)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(svg))
}

func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"

	_, data, err := s.loadSession(w, r)
	if err != nil {
		s.log.Error("failed to load session", zap.String("op", op), zap.Error(err))
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}

	res, err := s.estimator.EstimateFor(levelOf(data), data.Request)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	body, err := report.XLSX(report.Rows(res))
	if err != nil {
		s.log.Error("failed to build workbook", zap.String("op", op), zap.Error(err))
		http.Error(w, "failed to build workbook", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="led-wall-estimate.xlsx"`)
	_, _ = w.Write(body)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// loadSession returns the caller's session, starting a new one with the
// configured defaults when the cookie is missing, forged or expired.
func (s *server) loadSession(w http.ResponseWriter, r *http.Request) (string, session.Data, error) {
	id, ok := s.cookies.sessionID(r)
	if !ok {
		id = session.NewID()
		s.cookies.setSessionCookie(w, id)
		return id, s.newSessionData(), nil
	}

	data, err := s.sessions.Get(r.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		return id, s.newSessionData(), nil
	}
	if err != nil {
		return "", session.Data{}, err
	}
	return id, data, nil
}

func (s *server) saveSession(w http.ResponseWriter, r *http.Request, id string, data session.Data) error {
	if err := s.sessions.Save(r.Context(), id, data); err != nil {
		return err
	}
	s.cookies.setSessionCookie(w, id)
	return nil
}

func (s *server) newSessionData() session.Data {
	data := s.defaults
	data.Request.Extras = append([]pricing.Extra(nil), s.defaults.Request.Extras...)
	return data
}

func levelOf(data session.Data) access.Level {
	if data.Privileged {
		return access.Privileged
	}
	return access.Standard
}

func (s *server) estimatorView(data session.Data, base baseViewData) estimatorViewData {
	const op = "server.estimatorView"

	view := estimatorViewData{
		baseViewData: base,
		Form:         formValuesFromRequest(data.Request, data.ExtrasText, data.Request.Tier),
		Transparent:  s.estimator.Variant() == estimator.Transparent,
		Privileged:   data.Privileged,
		Tiers:        s.estimator.Tiers(),
		Limits:       s.estimator.Limits(),
	}

	res, err := s.estimator.EstimateFor(levelOf(data), data.Request)
	if err != nil {
		if view.ErrorMessage == "" {
			view.ErrorMessage = err.Error()
		}
		return view
	}

	view.Result = &res
	view.CanSelectTier = res.CanSelectTier
	if view.Form.Tier == "" {
		view.Form.Tier = res.Tier.Name
	}
	view.Metrics = headlineMetrics(res)
	view.Rows = report.Rows(res)

	svg, err := schematic.Render(res.Breakdown.Columns, res.Breakdown.Rows)
	if err != nil {
		s.log.Warn("failed to render schematic", zap.String("op", op), zap.Error(err))
		return view
	}
	// Render only emits numeric attributes it formats itself.
	view.Schematic = template.HTML(svg)
	return view
}

func headlineMetrics(res estimator.Result) []report.Row {
	b := res.Breakdown
	return []report.Row{
		{Metric: "Total per screen", Value: report.Money(b.GrandTotal)},
		{Metric: "Order total", Value: report.Money(b.OrderTotal)},
		{Metric: "Per m² all-in", Value: report.Money(b.PerArea)},
		{Metric: "Per cabinet all-in", Value: report.Money(b.PerCabinet)},
	}
}

func (s *server) renderTemplate(w http.ResponseWriter, status int, page string, data any) {
	templates, err := template.ParseFS(web.FS,
		"templates/layout.html",
		"templates/"+page,
	)
	if err != nil {
		s.log.Error("failed to parse template", zap.String("page", page), zap.Error(err))
		http.Error(w, "failed to parse template", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		s.log.Error("failed to render template", zap.String("page", page), zap.Error(err))
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
