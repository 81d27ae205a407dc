package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

type ReportHandler struct {
	reports ports.ReportService
}

func NewReportHandler(reports ports.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// reportView adds the derived overall score and band to a report.
type reportView struct {
	domain.Report
	OverallScore int              `json:"overallScore"`
	Band         domain.ScoreBand `json:"band"`
}

func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	reports, err := h.reports.List(r.Context(), c.UserID, domain.ReportFilter{
		Child:  q.Get("child"),
		Period: q.Get("period"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	views := make([]reportView, 0, len(reports))
	for _, rep := range reports {
		score := rep.OverallScore()
		views = append(views, reportView{Report: rep, OverallScore: score, Band: domain.BandFor(score)})
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *ReportHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	achievements, err := h.reports.Achievements(r.Context(), c.UserID, r.URL.Query().Get("child"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, achievements)
}

func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	writeError(w, r, h.reports.Download(r.Context(), c.UserID, mux.Vars(r)["id"]))
}

func (h *ReportHandler) Share(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	writeError(w, r, h.reports.Share(r.Context(), c.UserID, mux.Vars(r)["id"]))
}
