package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/jusunglee/railmap-go/internal/itinerary"
	"github.com/jusunglee/railmap-go/internal/models"
	"github.com/jusunglee/railmap-go/internal/permalink"
	"github.com/jusunglee/railmap-go/internal/routing"
	"github.com/jusunglee/railmap-go/internal/store"
	"github.com/jusunglee/railmap-go/pkg/transit"
)

const (
	defaultNearestLimit = 5
	maxNearestLimit     = 50
)

// Handler handles HTTP requests
type Handler struct {
	client     transit.Client
	validate   *validator.Validate
	prefs      routing.Preferences
	maxResults int
}

// NewHandler creates a new HTTP handler
func NewHandler(client transit.Client) *Handler {
	return &Handler{
		client:     client,
		validate:   validator.New(),
		prefs:      routing.DefaultPreferences(),
		maxResults: routing.DefaultMaxResults,
	}
}

// SetDefaults sets the search parameters used when a request leaves them out
func (h *Handler) SetDefaults(prefs routing.Preferences, maxResults int) {
	h.prefs = prefs
	if maxResults > 0 {
		h.maxResults = maxResults
	}
}

// RegisterRoutes registers all routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.handleIndex).Methods("GET")
	r.HandleFunc("/health", h.handleHealth).Methods("GET")
	r.HandleFunc("/stations", h.handleStations).Methods("GET")
	r.HandleFunc("/stations/resolve", h.handleResolve).Methods("GET")
	r.HandleFunc("/stations/nearest", h.handleNearest).Methods("GET")
	r.HandleFunc("/stations/{id}", h.handleStation).Methods("GET")
	r.HandleFunc("/lines", h.handleLines).Methods("GET")
	r.HandleFunc("/lines/{id}", h.handleLine).Methods("GET")
	r.HandleFunc("/routes", h.handleRoutes).Methods("GET")
	r.HandleFunc("/permalink", h.handlePermalink).Methods("GET")
	r.HandleFunc("/permalink/{q}", h.handleDecodePermalink).Methods("GET")
}

// ResponseMetadata is attached to every data response
type ResponseMetadata struct {
	Updated   string `json:"updated,omitempty"`
	Version   uint64 `json:"version"`
	RequestID string `json:"requestId,omitempty"`
}

// StationsResponse lists stations
type StationsResponse struct {
	Data []models.StationResponse `json:"data"`
	ResponseMetadata
}

// StationResponse holds a single station
type StationResponse struct {
	Data models.StationResponse `json:"data"`
	ResponseMetadata
}

// LinesResponse lists lines
type LinesResponse struct {
	Data []models.LineResponse `json:"data"`
	ResponseMetadata
}

// LineResponse holds a single line
type LineResponse struct {
	Data models.LineResponse `json:"data"`
	ResponseMetadata
}

// RouteQuery echoes the normalized search
type RouteQuery struct {
	From       string           `json:"from"`
	To         string           `json:"to"`
	Types      []models.TypeKey `json:"types"`
	Priority   models.Priority  `json:"priority"`
	MaxResults int              `json:"maxResults"`
	Selected   int              `json:"selected"`
	Theme      string           `json:"theme"`
}

// RoutesResponse holds the itineraries of a search
type RoutesResponse struct {
	Data      []itinerary.Card `json:"data"`
	Query     RouteQuery       `json:"query"`
	Permalink string           `json:"permalink"`
	ResponseMetadata
}

// PermalinkResponse holds an encoded permalink and what it points at
type PermalinkResponse struct {
	Q       string      `json:"q"`
	Kind    string      `json:"kind"`
	Route   *RouteQuery `json:"route,omitempty"`
	Layers  string      `json:"layers,omitempty"`
	Station string      `json:"station,omitempty"`
}

// HealthResponse reports the loaded network
type HealthResponse struct {
	Status string `json:"status"`
	transit.Stats
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// routeRequest is the raw form of a route search before resolution
type routeRequest struct {
	From     string `validate:"required"`
	To       string `validate:"required"`
	Types    string
	Priority string
	Max      int `validate:"gte=0,lte=10"`
	Selected int `validate:"gte=0"`
	Layers   permalink.Layers
	Theme    string `validate:"omitempty,oneof=light dark"`
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"title":  "railmap-go",
		"readme": "Route search over the station and line map. Try /routes?from=WAW&to=KR",
	}
	h.writeJSON(w, r, response)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := h.client.Stats()
	status := "ok"
	if stats.Version == 0 {
		status = "loading"
	}
	h.writeJSON(w, r, HealthResponse{Status: status, Stats: stats})
}

func (h *Handler) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.client.GetStations()
	if err != nil {
		h.writeError(w, r, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeStationsResponse(w, r, stations)
}

func (h *Handler) handleStation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	station, err := h.client.GetStation(id)
	if err != nil {
		h.writeClientError(w, r, err)
		return
	}
	lines, err := h.client.GetLinesByStation(id)
	if err != nil {
		h.writeClientError(w, r, err)
		return
	}

	h.writeJSON(w, r, StationResponse{
		Data:             station.ConvertToResponse(lines),
		ResponseMetadata: h.getResponseMetadata(r),
	})
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		h.writeError(w, r, "Missing q parameter", http.StatusBadRequest)
		return
	}

	id, err := h.client.ResolveStation(q)
	if err != nil {
		h.writeClientError(w, r, err)
		return
	}
	station, err := h.client.GetStation(id)
	if err != nil {
		h.writeClientError(w, r, err)
		return
	}

	h.writeJSON(w, r, StationResponse{
		Data:             station.ConvertToResponse(nil),
		ResponseMetadata: h.getResponseMetadata(r),
	})
}

func (h *Handler) handleNearest(w http.ResponseWriter, r *http.Request) {
	topStr := r.URL.Query().Get("top")
	leftStr := r.URL.Query().Get("left")

	if topStr == "" || leftStr == "" {
		h.writeError(w, r, "Missing top/left parameter", http.StatusBadRequest)
		return
	}

	top, err := strconv.ParseFloat(topStr, 64)
	if err != nil {
		h.writeError(w, r, "Invalid top parameter", http.StatusBadRequest)
		return
	}

	left, err := strconv.ParseFloat(leftStr, 64)
	if err != nil {
		h.writeError(w, r, "Invalid left parameter", http.StatusBadRequest)
		return
	}

	limit := defaultNearestLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 || limit > maxNearestLimit {
			h.writeError(w, r, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
	}

	stations, err := h.client.GetStationsNear(top, left, limit)
	if err != nil {
		h.writeError(w, r, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeStationsResponse(w, r, stations)
}

func (h *Handler) handleLines(w http.ResponseWriter, r *http.Request) {
	lines, err := h.client.GetLines()
	if err != nil {
		h.writeError(w, r, err.Error(), http.StatusInternalServerError)
		return
	}

	data := make([]models.LineResponse, len(lines))
	for i := range lines {
		data[i] = lines[i].ConvertToResponse()
	}

	h.writeJSON(w, r, LinesResponse{Data: data, ResponseMetadata: h.getResponseMetadata(r)})
}

func (h *Handler) handleLine(w http.ResponseWriter, r *http.Request) {
	line, err := h.client.GetLine(mux.Vars(r)["id"])
	if err != nil {
		h.writeClientError(w, r, err)
		return
	}

	h.writeJSON(w, r, LineResponse{Data: line.ConvertToResponse(), ResponseMetadata: h.getResponseMetadata(r)})
}

func (h *Handler) handleRoutes(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseRouteRequest(r)
	if err != nil {
		h.writeError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	query, rq, err := h.resolveRouteRequest(req)
	if err != nil {
		h.writeClientError(w, r, err)
		return
	}

	cards, err := h.client.Itineraries(r.Context(), query, itinerary.ParseTheme(req.Theme), req.Selected)
	if err != nil {
		h.writeError(w, r, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, r, RoutesResponse{
		Data:             cards,
		Query:            rq,
		Permalink:        permalink.Encode(permalink.Route(query.From, query.To, query.Types, query.Priority, req.Selected, req.Layers)),
		ResponseMetadata: h.getResponseMetadata(r),
	})
}

func (h *Handler) handlePermalink(w http.ResponseWriter, r *http.Request) {
	if id := r.URL.Query().Get("station"); id != "" {
		resolved, err := h.client.ResolveStation(id)
		if err != nil {
			h.writeClientError(w, r, err)
			return
		}
		h.writeJSON(w, r, PermalinkResponse{
			Q:       permalink.Encode(permalink.Station(resolved)),
			Kind:    "station",
			Station: resolved,
		})
		return
	}

	req, err := h.parseRouteRequest(r)
	if err != nil {
		h.writeError(w, r, err.Error(), http.StatusBadRequest)
		return
	}
	query, rq, err := h.resolveRouteRequest(req)
	if err != nil {
		h.writeClientError(w, r, err)
		return
	}

	h.writeJSON(w, r, PermalinkResponse{
		Q:     permalink.Encode(permalink.Route(query.From, query.To, query.Types, query.Priority, req.Selected, req.Layers)),
		Kind:  "route",
		Route: &rq,
		Layers: req.Layers.String(),
	})
}

func (h *Handler) handleDecodePermalink(w http.ResponseWriter, r *http.Request) {
	q := mux.Vars(r)["q"]
	state, err := permalink.Decode(q)
	if err != nil {
		h.writeError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	if state.Kind == permalink.KindStation {
		h.writeJSON(w, r, PermalinkResponse{Q: q, Kind: "station", Station: state.Station})
		return
	}

	h.writeJSON(w, r, PermalinkResponse{
		Q:    q,
		Kind: "route",
		Route: &RouteQuery{
			From:       state.From,
			To:         state.To,
			Types:      state.Types.Keys(),
			Priority:   state.Priority,
			MaxResults: h.maxResults,
			Selected:   state.Selected,
			Theme:      itinerary.ThemeLight.String(),
		},
		Layers: state.Layers.String(),
	})
}

// parseRouteRequest reads either the packed q parameter or the individual
// from/to/types/priority/max/sel parameters
func (h *Handler) parseRouteRequest(r *http.Request) (routeRequest, error) {
	v := r.URL.Query()
	req := routeRequest{
		Theme:  v.Get("theme"),
		Layers: permalink.ParseLayers(v.Get("layers")),
	}

	if q := v.Get("q"); q != "" {
		state, err := permalink.Decode(q)
		if err != nil {
			return req, err
		}
		if state.Kind != permalink.KindRoute {
			return req, errors.New("permalink does not describe a route")
		}
		req.From, req.To = state.From, state.To
		req.Types = strconv.Itoa(int(state.Types))
		req.Priority = state.Priority.Code()
		req.Selected = state.Selected
		req.Layers = state.Layers
	} else {
		req.From = v.Get("from")
		req.To = v.Get("to")
		req.Types = v.Get("types")
		req.Priority = v.Get("priority")
		if sel := v.Get("sel"); sel != "" {
			n, err := strconv.Atoi(sel)
			if err != nil {
				return req, errors.New("invalid sel parameter")
			}
			req.Selected = n
		}
	}

	if m := v.Get("max"); m != "" {
		n, err := strconv.Atoi(m)
		if err != nil {
			return req, errors.New("invalid max parameter")
		}
		req.Max = n
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return req, parameterError(verrs[0])
		}
		return req, err
	}
	return req, nil
}

var parameterNames = map[string]string{"Selected": "sel"}

func parameterError(fe validator.FieldError) error {
	name, ok := parameterNames[fe.Field()]
	if !ok {
		name = strings.ToLower(fe.Field())
	}
	if fe.Tag() == "required" {
		return fmt.Errorf("missing %s parameter", name)
	}
	return fmt.Errorf("invalid %s parameter", name)
}

// resolveRouteRequest maps station text to ids and applies defaults
func (h *Handler) resolveRouteRequest(req routeRequest) (routing.Query, RouteQuery, error) {
	prefs := h.prefs

	if req.Types != "" {
		types, err := models.ParseTypeSet(req.Types)
		if err != nil {
			return routing.Query{}, RouteQuery{}, badRequest(err.Error())
		}
		if types.Empty() {
			return routing.Query{}, RouteQuery{}, badRequest("At least one line type must be selected")
		}
		prefs = prefs.WithTypes(types)
	}
	if req.Priority != "" {
		p, err := models.ParsePriority(req.Priority)
		if err != nil {
			return routing.Query{}, RouteQuery{}, badRequest(err.Error())
		}
		prefs = prefs.WithPriority(p)
	}

	from, err := h.client.ResolveStation(req.From)
	if err != nil {
		return routing.Query{}, RouteQuery{}, err
	}
	to, err := h.client.ResolveStation(req.To)
	if err != nil {
		return routing.Query{}, RouteQuery{}, err
	}

	limit := req.Max
	if limit == 0 {
		limit = h.maxResults
	}

	query := prefs.Query(from, to, limit)
	theme := itinerary.ParseTheme(req.Theme)
	return query, RouteQuery{
		From:       from,
		To:         to,
		Types:      query.Types.Keys(),
		Priority:   query.Priority,
		MaxResults: limit,
		Selected:   req.Selected,
		Theme:      theme.String(),
	}, nil
}

type badRequestError struct{ msg string }

func (e badRequestError) Error() string { return e.msg }

func badRequest(msg string) error { return badRequestError{msg: msg} }

func (h *Handler) writeStationsResponse(w http.ResponseWriter, r *http.Request, stations []models.Station) {
	data := make([]models.StationResponse, len(stations))
	for i := range stations {
		data[i] = stations[i].ConvertToResponse(nil)
	}

	h.writeJSON(w, r, StationsResponse{
		Data:             data,
		ResponseMetadata: h.getResponseMetadata(r),
	})
}

func (h *Handler) getResponseMetadata(r *http.Request) ResponseMetadata {
	meta := ResponseMetadata{
		Version:   h.client.Stats().Version,
		RequestID: RequestIDFrom(r.Context()),
	}
	if updated := h.client.GetLastUpdate(); !updated.IsZero() {
		meta.Updated = updated.Format(time.RFC3339)
	}
	return meta
}

// writeClientError maps lookup failures to 404 and bad input to 400
func (h *Handler) writeClientError(w http.ResponseWriter, r *http.Request, err error) {
	var bad badRequestError
	switch {
	case errors.As(err, &bad):
		h.writeError(w, r, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrStationNotFound), errors.Is(err, store.ErrLineNotFound):
		h.writeError(w, r, err.Error(), http.StatusNotFound)
	default:
		h.writeError(w, r, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "path", r.URL.Path, "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, RequestID: RequestIDFrom(r.Context())})
}
