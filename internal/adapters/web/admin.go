package web

import (
	"net/http"

	"salepoint/internal/app"

	"github.com/shopspring/decimal"
)

// apiListOrgs handles GET /api/orgs.
func (h *Handler) apiListOrgs(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListOrganizations(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Organizations)
}

// apiCreateOrg handles POST /api/orgs.
// Body: { org_code, name, currency?, default_tax_rate? }.
func (h *Handler) apiCreateOrg(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OrgCode        string `json:"org_code"`
		Name           string `json:"name"`
		Currency       string `json:"currency"`
		DefaultTaxRate string `json:"default_tax_rate"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.OrgCode == "" || body.Name == "" {
		writeError(w, r, "org_code and name are required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	taxRate := decimal.Zero
	if body.DefaultTaxRate != "" {
		var err error
		taxRate, err = decimal.NewFromString(body.DefaultTaxRate)
		if err != nil || taxRate.IsNegative() {
			writeError(w, r, "invalid default_tax_rate", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
	}

	org, err := h.svc.CreateOrganization(r.Context(), app.CreateOrgRequest{
		OrgCode:        body.OrgCode,
		Name:           body.Name,
		Currency:       body.Currency,
		DefaultTaxRate: taxRate,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, org)
}

// apiPurgeOrg handles DELETE /api/orgs/{code}. The purge is irreversible and
// all-or-nothing: on failure no rows are removed.
func (h *Handler) apiPurgeOrg(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.PurgeOrganization(r.Context(), orgCode(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
