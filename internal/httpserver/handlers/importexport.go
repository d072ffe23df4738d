package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"linkstash/internal/domain"
	"linkstash/internal/httpserver/deps"
	"linkstash/internal/httpserver/mw"
	"linkstash/internal/logger"
)

// maxImportBytes caps the uploaded bookmark file size.
const maxImportBytes = 16 << 20

// ImportBookmarks accepts a Netscape bookmark file as the request body
// and inserts its links. ?skip_duplicates=true filters out URLs already
// present in the namespace.
func ImportBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip, _ := strconv.ParseBool(r.URL.Query().Get("skip_duplicates"))

		body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes+1))
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read request body")
			return
		}
		if len(body) > maxImportBytes {
			writeError(w, http.StatusRequestEntityTooLarge, "bookmark file too large")
			return
		}

		result, err := d.Importer.Run(r.Context(), mw.AccessKey(r.Context()), string(body), skip)
		switch {
		case errors.Is(err, domain.ErrEmptyImport):
			writeError(w, http.StatusBadRequest, "no bookmarks found in file")
			return
		case errors.Is(err, domain.ErrNothingToImport):
			// Every link was a known duplicate; report the counts rather
			// than failing the request.
			writeJSON(w, http.StatusOK, result)
			return
		case err != nil:
			d.Logger.Error("import failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "import failure")
			return
		}

		d.Logger.Info("bookmarks imported",
			logger.Int("imported", result.Imported),
			logger.Int("skipped", result.Skipped),
			logger.Bool("skip_duplicates", skip))
		writeJSON(w, http.StatusOK, result)
	}
}

// ExportBookmarks streams the whole namespace as a downloadable
// Netscape bookmark file.
func ExportBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, err := d.Exporter.Run(r.Context(), mw.AccessKey(r.Context()), d.Now())
		switch {
		case errors.Is(err, domain.ErrNothingToExport):
			writeError(w, http.StatusNotFound, "no bookmarks to export")
			return
		case err != nil:
			d.Logger.Error("export failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "export failure")
			return
		}

		w.Header().Set("Content-Type", file.MIMEType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(file.Data)
	}
}
