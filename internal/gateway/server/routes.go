package server

import (
	"net/http"

	"c4analytics/internal/gateway/handler"
	"c4analytics/internal/gateway/middleware"
)

func NewMux(svc *handler.Service) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/source/fetch", svc.HandleSourceFetch)
	mux.HandleFunc("/api/source/upload", svc.HandleSourceUpload)
	mux.HandleFunc("/api/critical/upload", svc.HandleCriticalUpload)

	mux.HandleFunc("/api/report", svc.HandleReport)
	mux.HandleFunc("/api/report/snapshot", svc.HandleReportSnapshot)
	mux.HandleFunc("/api/snapshots", svc.HandleSnapshots)
	mux.HandleFunc("/api/elements", svc.HandleElements)

	mux.HandleFunc("/api/settings", svc.HandleSettings)
	mux.HandleFunc("/api/watch", svc.HandleWatch)

	return middleware.CORS(mux)
}
