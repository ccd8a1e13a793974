package uploader

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"io/fs"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/pocketserve/internal/core/domain"
	"github.com/custodia-labs/pocketserve/internal/core/ports/driven"
)

// maxMemory is how much of a multipart upload is buffered in memory
// before spilling to temporary files.
const maxMemory = 32 << 20

// entry is one item in a directory listing.
type entry struct {
	Path    string    `json:"path"`
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	IsDir   bool      `json:"isDir"`
	ModTime time.Time `json:"modTime"`
}

// handler serves one session's file operations.
type handler struct {
	resolver
	sessionID      string
	observer       driven.FileEventObserver
	maxUploadBytes int64
}

func (h *handler) index(w http.ResponseWriter, _ *http.Request) {
	entries, err := h.readDir("/", h.root)
	if err != nil {
		writeError(w, err)
		return
	}

	var b strings.Builder
	for _, e := range entries {
		target, name := "/download", html.EscapeString(e.Name)
		if e.IsDir {
			target, name = "/list", name+"/"
		}
		fmt.Fprintf(&b, "<li><a href=\"%s?path=%s\">%s</a></li>\n", target, url.QueryEscape(e.Path), name)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprintf(w, indexHTML, b.String())
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	rel, full, err := h.resolve(r.URL.Query().Get("path"))
	if err != nil {
		writeError(w, err)
		return
	}

	entries, err := h.readDir(rel, full)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *handler) download(w http.ResponseWriter, r *http.Request) {
	rel, full, err := h.resolve(r.URL.Query().Get("path"))
	if err != nil {
		writeError(w, err)
		return
	}

	f, err := os.Open(full)
	if err != nil {
		writeError(w, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		writeError(w, err)
		return
	}
	if info.IsDir() {
		http.Error(w, "cannot download a directory", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", info.Name()))
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	h.observer.OnDownload(h.sessionID, rel)
}

func (h *handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		http.Error(w, "upload too large or malformed", http.StatusBadRequest)
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	dirRel, dirFull, err := h.resolve(r.FormValue("path"))
	if err != nil {
		writeError(w, err)
		return
	}
	if info, err := os.Stat(dirFull); err != nil || !info.IsDir() {
		http.Error(w, "destination is not a directory", http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files[]"]
	if len(files) == 0 {
		http.Error(w, "no files in request", http.StatusBadRequest)
		return
	}

	saved := make([]string, 0, len(files))
	for _, fh := range files {
		name := path.Base(filepath.ToSlash(fh.Filename))
		if name == "." || name == ".." || name == "/" {
			http.Error(w, "invalid file name", http.StatusBadRequest)
			return
		}
		rel, full, err := h.resolve(path.Join(dirRel, name))
		if err != nil {
			writeError(w, err)
			return
		}
		if err := saveUpload(fh, full); err != nil {
			log.Printf("uploader: failed to save %s: %v", rel, err)
			writeError(w, err)
			return
		}
		h.observer.OnUpload(h.sessionID, rel)
		saved = append(saved, rel)
	}
	writeJSON(w, http.StatusOK, map[string][]string{"uploaded": saved})
}

func (h *handler) move(w http.ResponseWriter, r *http.Request) {
	fromRel, fromFull, err := h.resolve(r.FormValue("oldPath"))
	if err != nil {
		writeError(w, err)
		return
	}
	toRel, toFull, err := h.resolve(r.FormValue("newPath"))
	if err != nil {
		writeError(w, err)
		return
	}
	if fromRel == "/" || toRel == "/" {
		http.Error(w, "cannot move the upload root", http.StatusBadRequest)
		return
	}

	if _, err := os.Lstat(fromFull); err != nil {
		writeError(w, err)
		return
	}
	if _, err := os.Lstat(toFull); err == nil {
		http.Error(w, "destination already exists", http.StatusConflict)
		return
	}
	if err := os.Rename(fromFull, toFull); err != nil {
		writeError(w, err)
		return
	}

	h.observer.OnMove(h.sessionID, fromRel, toRel)
	writeJSON(w, http.StatusOK, map[string]string{"path": toRel})
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	rel, full, err := h.resolve(r.FormValue("path"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := os.Mkdir(full, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			http.Error(w, "already exists", http.StatusConflict)
			return
		}
		writeError(w, err)
		return
	}

	h.observer.OnCreateDirectory(h.sessionID, rel)
	writeJSON(w, http.StatusOK, map[string]string{"path": rel})
}

func (h *handler) remove(w http.ResponseWriter, r *http.Request) {
	rel, full, err := h.resolve(r.FormValue("path"))
	if err != nil {
		writeError(w, err)
		return
	}
	if rel == "/" {
		http.Error(w, "cannot delete the upload root", http.StatusBadRequest)
		return
	}

	if _, err := os.Lstat(full); err != nil {
		writeError(w, err)
		return
	}
	if err := os.RemoveAll(full); err != nil {
		writeError(w, err)
		return
	}

	h.observer.OnDelete(h.sessionID, rel)
	writeJSON(w, http.StatusOK, map[string]string{"path": rel})
}

// readDir lists a directory, omitting hidden entries unless allowed.
func (h *handler) readDir(rel, full string) ([]entry, error) {
	dirEntries, err := os.ReadDir(full)
	if err != nil {
		return nil, err
	}

	entries := make([]entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if !h.allowHidden && strings.HasPrefix(de.Name(), ".") {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		e := entry{
			Path:    path.Join(rel, de.Name()),
			Name:    de.Name(),
			IsDir:   de.IsDir(),
			ModTime: info.ModTime(),
		}
		if !e.IsDir {
			e.Size = info.Size()
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

func saveUpload(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("uploader: failed to encode response: %v", err)
	}
}

// writeError maps filesystem and path errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrPathOutsideRoot), errors.Is(err, domain.ErrHiddenEntry):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, fs.ErrNotExist):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, fs.ErrPermission):
		http.Error(w, "permission denied", http.StatusForbidden)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>pocketserve</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; margin: 32px; color: #333F50; }
        ul { padding-left: 20px; }
        form { margin-top: 24px; }
    </style>
</head>
<body>
    <h1>pocketserve</h1>
    <ul>
%s    </ul>
    <form action="/upload" method="post" enctype="multipart/form-data">
        <input type="hidden" name="path" value="/">
        <input type="file" name="files[]" multiple required>
        <button type="submit">Upload</button>
    </form>
</body>
</html>`
