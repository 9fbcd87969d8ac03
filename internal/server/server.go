// Package server exposes the converter over HTTP: an upload form and an
// endpoint returning the workbook for a posted run record.
package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/askiada/macsima-report/internal/xlsx"
	"github.com/askiada/macsima-report/pkg/macsima"
	"github.com/askiada/macsima-report/pkg/report"
)

// maxUploadBytes caps posted run records at 16 MiB.
const maxUploadBytes = 16 << 20

// Server converts uploaded run records to workbooks.
type Server struct {
	assembler *report.Assembler
	log       *zap.Logger
}

// New builds a server. A nil logger is replaced with a no-op one.
func New(assembler *report.Assembler, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	return &Server{assembler: assembler, log: log}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/upload", s.handleUpload).Methods(http.MethodPost)

	return r
}

// ListenAndServe runs the server on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	s.log.Info("listening", zap.String("addr", addr))

	return srv.ListenAndServe()
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>MACSima run report</title></head>
<body>
<h1>MACSima run report</h1>
<p>Upload a run record (.json) to download its spreadsheet report.</p>
<form action="/upload" method="post" enctype="multipart/form-data">
<input type="file" name="file" accept=".json">
<input type="submit" value="Convert">
</form>
</body>
</html>
`

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexPage)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorJSON(w, http.StatusBadRequest, "missing file field")

		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".json") {
		s.errorJSON(w, http.StatusBadRequest, "only .json run records are accepted")

		return
	}

	doc, err := macsima.Decode(file)
	if err != nil {
		s.log.Warn("rejected upload", zap.String("filename", header.Filename), zap.Error(err))
		s.errorJSON(w, http.StatusUnprocessableEntity, "unable to decode run record")

		return
	}

	rpt, err := s.assembler.Assemble(r.Context(), doc)
	if err != nil {
		s.log.Error("assembly failed", zap.String("filename", header.Filename), zap.Error(err))
		s.errorJSON(w, http.StatusInternalServerError, "unable to assemble report")

		return
	}

	var buf bytes.Buffer
	if err := xlsx.Write(&buf, rpt); err != nil {
		s.log.Error("workbook rendering failed", zap.String("filename", header.Filename), zap.Error(err))
		s.errorJSON(w, http.StatusInternalServerError, "unable to render workbook")

		return
	}

	stem := strings.TrimSuffix(filepath.Base(header.Filename), filepath.Ext(header.Filename))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", stem+"_report.xlsx"))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.log.Warn("response write failed", zap.Error(err))
	}
}

func (s *Server) errorJSON(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		s.log.Warn("error response write failed", zap.Error(err))
	}
}
