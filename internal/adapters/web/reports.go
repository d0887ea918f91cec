package web

import (
	"net/http"
	"strconv"
	"time"

	"salepoint/internal/app"
	"salepoint/internal/core"
)

// apiDailySales handles GET /api/orgs/{code}/reports/daily-sales.
// Query params: date (YYYY-MM-DD, defaults to today), tz (IANA name, defaults
// to the server zone), top_n, completed_only.
func (h *Handler) apiDailySales(w http.ResponseWriter, r *http.Request) {
	req := app.DailySalesRequest{OrgCode: orgCode(r)}

	if tz := r.URL.Query().Get("tz"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			writeError(w, r, "unknown time zone "+strconv.Quote(tz), "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		req.Location = loc
	}

	if date := r.URL.Query().Get("date"); date != "" {
		loc := req.Location
		if loc == nil {
			loc = time.Local
		}
		day, err := time.ParseInLocation("2006-01-02", date, loc)
		if err != nil {
			writeError(w, r, "invalid date, expected YYYY-MM-DD", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		req.Day = day
	}

	opts := core.ReportOptions{}
	if topN := r.URL.Query().Get("top_n"); topN != "" {
		n, err := strconv.Atoi(topN)
		if err != nil || n < 1 {
			writeError(w, r, "top_n must be a positive integer", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		opts.TopN = n
	}
	if co := r.URL.Query().Get("completed_only"); co != "" {
		v, err := strconv.ParseBool(co)
		if err != nil {
			writeError(w, r, "completed_only must be a boolean", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		opts.PaymentTypeCompletedOnly = v
	}
	req.Options = opts

	report, err := h.svc.GetDailySales(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, report)
}
