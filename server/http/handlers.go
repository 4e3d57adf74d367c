package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/filmflow/filmflow/agent"
	"github.com/filmflow/filmflow/auth"
	"github.com/filmflow/filmflow/cache"
	"github.com/filmflow/filmflow/embedder"
	"github.com/filmflow/filmflow/identity"
	"github.com/filmflow/filmflow/reasoner"
	"github.com/filmflow/filmflow/search"
	"github.com/filmflow/filmflow/store"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type handler struct {
	store    store.Store
	auth     *auth.Manager
	agent    *agent.Service
	engine   *search.Engine
	embedder embedder.Embedder
	cache    cache.Registry
}

type moviePayload struct {
	ID            string   `json:"id,omitempty"`
	Title         string   `json:"title"`
	Year          int      `json:"year"`
	Director      string   `json:"director"`
	Genre         []string `json:"genre"`
	Cast          []string `json:"cast,omitempty"`
	Description   string   `json:"description,omitempty"`
	PosterURL     string   `json:"poster_url,omitempty"`
	AverageRating float64  `json:"average_rating"`
	Score         float64  `json:"score,omitempty"`
	CreatedAt     string   `json:"created_at,omitempty"`
}

func toPayload(m store.Movie) moviePayload {
	p := moviePayload{
		ID:            m.ID,
		Title:         m.Title,
		Year:          m.Year,
		Director:      m.Director,
		Genre:         m.Genre,
		Cast:          m.Cast,
		Description:   m.Description,
		PosterURL:     m.PosterURL,
		AverageRating: m.AverageRating,
	}
	if !m.CreatedAt.IsZero() {
		p.CreatedAt = m.CreatedAt.Format(time.RFC3339)
	}
	return p
}

func (p moviePayload) toMovie() store.Movie {
	return store.Movie{
		ID:            p.ID,
		Title:         p.Title,
		Year:          p.Year,
		Director:      p.Director,
		Genre:         p.Genre,
		Cast:          p.Cast,
		Description:   p.Description,
		PosterURL:     p.PosterURL,
		AverageRating: p.AverageRating,
	}
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if len(req.Username) < 3 {
		writeError(w, http.StatusBadRequest, "username must be at least 3 characters")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := h.auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	id, err := h.store.InsertUser(r.Context(), store.User{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         identity.RoleUser,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeError(w, http.StatusConflict, "username is taken")
			return
		}
		slog.ErrorContext(r.Context(), "user insert failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":       id,
		"username": req.Username,
	})
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.store.GetUserByUsername(r.Context(), strings.TrimSpace(req.Username))
	if err != nil || !h.auth.VerifyPassword(user.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	token, err := h.auth.IssueToken(identity.Identity{ID: user.ID, Role: user.Role})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *handler) listMovies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.Filter{
		Title:    q.Get("title"),
		Director: q.Get("director"),
		Genre:    q.Get("genre"),
	}
	if year := q.Get("year"); len(year) > 0 {
		y, err := strconv.Atoi(year)
		if err != nil {
			writeError(w, http.StatusBadRequest, "year must be an integer")
			return
		}
		filter.Year = y
	}

	movies, err := h.engine.FilterSearch(r.Context(), filter, queryLimit(q.Get("limit"), 20))
	if err != nil {
		slog.ErrorContext(r.Context(), "movie list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list movies")
		return
	}

	payloads := make([]moviePayload, 0, len(movies))
	for _, m := range movies {
		payloads = append(payloads, toPayload(m))
	}

	writeJSON(w, http.StatusOK, map[string]any{"movies": payloads})
}

func (h *handler) semanticSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	results, err := h.engine.SemanticSearch(r.Context(), q.Get("query"), queryLimit(q.Get("limit"), 5))
	if err != nil {
		switch {
		case errors.Is(err, search.ErrEmptyQuery):
			writeError(w, http.StatusBadRequest, "query is required")
		case errors.Is(err, search.ErrNoMovies), errors.Is(err, search.ErrNoVectorData):
			writeJSON(w, http.StatusOK, map[string]any{"movies": []moviePayload{}})
		default:
			slog.ErrorContext(r.Context(), "semantic search failed", "error", err)
			writeError(w, http.StatusInternalServerError, "search failed")
		}
		return
	}

	payloads := make([]moviePayload, 0, len(results))
	for _, sm := range results {
		p := toPayload(sm.Movie)
		p.Score = sm.Score
		payloads = append(payloads, p)
	}

	writeJSON(w, http.StatusOK, map[string]any{"movies": payloads})
}

func (h *handler) getMovie(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if uuid.Validate(id) != nil {
		writeError(w, http.StatusBadRequest, "invalid movie id")
		return
	}

	movie, err := h.store.GetMovie(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "movie not found")
			return
		}
		slog.ErrorContext(r.Context(), "movie lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load movie")
		return
	}

	writeJSON(w, http.StatusOK, toPayload(*movie))
}

func (h *handler) createMovie(w http.ResponseWriter, r *http.Request) {
	var req moviePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	movie := req.toMovie()
	movie.ID = ""

	if err := movie.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	vector, err := h.embedder.Embed(r.Context(), movie.EmbeddingText())
	if err != nil {
		slog.ErrorContext(r.Context(), "embedding failed", "error", err)
		writeError(w, http.StatusBadGateway, "failed to embed movie")
		return
	}
	movie.Embedding = vector

	id, err := h.store.InsertMovie(r.Context(), movie)
	if err != nil {
		slog.ErrorContext(r.Context(), "movie insert failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create movie")
		return
	}

	h.bumpSearchVersion(r)

	movie.ID = id
	writeJSON(w, http.StatusCreated, toPayload(movie))
}

func (h *handler) updateMovie(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if uuid.Validate(id) != nil {
		writeError(w, http.StatusBadRequest, "invalid movie id")
		return
	}

	var req moviePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	movie := req.toMovie()
	movie.ID = id

	if err := movie.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Field changes invalidate the stored vector, so re-embed on every update.
	vector, err := h.embedder.Embed(r.Context(), movie.EmbeddingText())
	if err != nil {
		slog.ErrorContext(r.Context(), "embedding failed", "error", err)
		writeError(w, http.StatusBadGateway, "failed to embed movie")
		return
	}
	movie.Embedding = vector

	if err := h.store.UpdateMovie(r.Context(), movie); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "movie not found")
			return
		}
		slog.ErrorContext(r.Context(), "movie update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update movie")
		return
	}

	h.bumpSearchVersion(r)

	writeJSON(w, http.StatusOK, toPayload(movie))
}

func (h *handler) deleteMovie(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if uuid.Validate(id) != nil {
		writeError(w, http.StatusBadRequest, "invalid movie id")
		return
	}

	if err := h.store.DeleteMovie(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "movie not found")
			return
		}
		slog.ErrorContext(r.Context(), "movie delete failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete movie")
		return
	}

	h.bumpSearchVersion(r)

	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
		History []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"history"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(strings.TrimSpace(req.Message)) == 0 {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	// Only plain user/assistant turns round-trip through the API; tool
	// exchanges stay internal to a single chat call.
	history := make([]reasoner.Message, 0, len(req.History))
	for _, msg := range req.History {
		role := reasoner.RoleUser
		if msg.Role == reasoner.RoleAssistant {
			role = reasoner.RoleAssistant
		}
		history = append(history, reasoner.Message{Role: role, Content: msg.Content})
	}

	reply, err := h.agent.Chat(r.Context(), req.Message, history)
	if err != nil {
		slog.ErrorContext(r.Context(), "chat failed", "error", err)
		writeError(w, http.StatusBadGateway, "the assistant is unavailable right now")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) bumpSearchVersion(r *http.Request) {
	if err := h.cache.Increment(r.Context(), cache.NamespaceSemanticSearch); err != nil {
		slog.WarnContext(r.Context(), "failed to bump search version", "error", err)
	}
}

func queryLimit(raw string, fallback int) int {
	if len(raw) == 0 {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return fallback
	}
	return limit
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
