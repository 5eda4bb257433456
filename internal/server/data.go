package server

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/otoge/internal/shared"
)

// SourceInfo describes one configured source in the /data/sources listing.
type SourceInfo struct {
	Name      string     `json:"name"`
	Available bool       `json:"available"`
	Modified  *time.Time `json:"modified,omitempty"`
}

// DataHandler serves exported JSON catalogs from the generated directory.
//
// Only names passed to [NewDataHandler] are reachable, so arbitrary files under the directory are never exposed.
type DataHandler struct {
	dir    string
	names  []string
	logger *log.Logger
	mux    *http.ServeMux
}

// NewDataHandler creates a handler serving <dir>/music/<name>.json for each name.
func NewDataHandler(dir string, names []string, logger *log.Logger) *DataHandler {
	if logger == nil {
		logger = shared.DiscardLogger()
	}

	h := &DataHandler{dir: dir, names: slices.Clone(names), logger: logger, mux: http.NewServeMux()}
	h.mux.HandleFunc("GET /data/music/{file}", h.music)
	h.mux.HandleFunc("GET /data/sources", h.sources)
	h.mux.HandleFunc("GET /health", h.health)
	return h
}

// Routes returns the HTTP routes this handler serves.
func (h *DataHandler) Routes() []string {
	return []string{"/data/", "/health"}
}

func (h *DataHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *DataHandler) path(name string) string {
	return filepath.Join(h.dir, "music", name+".json")
}

func (h *DataHandler) music(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(r.PathValue("file"), ".json")
	if !ok || !slices.Contains(h.names, name) {
		http.NotFound(w, r)
		return
	}

	f, err := os.Open(h.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		http.Error(w, "Catalog not exported yet", http.StatusNotFound)
		return
	} else if err != nil {
		h.logger.Error("failed to open catalog", "source", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.logger.Error("failed to stat catalog", "source", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func (h *DataHandler) sources(w http.ResponseWriter, _ *http.Request) {
	infos := make([]SourceInfo, 0, len(h.names))
	for _, name := range h.names {
		info := SourceInfo{Name: name}
		if st, err := os.Stat(h.path(name)); err == nil {
			modified := st.ModTime().UTC()
			info.Available, info.Modified = true, &modified
		}
		infos = append(infos, info)
	}
	h.writeJSON(w, http.StatusOK, infos)
}

func (h *DataHandler) health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *DataHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := shared.MarshalJSON(v, false)
	if err != nil {
		h.logger.Error("failed to encode response", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
