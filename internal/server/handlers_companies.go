package server

import (
	"net/http"
	"strconv"
)

// parsePathID parses a positive integer path parameter.
func parsePathID(r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(key), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// handleGetCompany retrieves a company by ID
func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "id")
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "Invalid company ID")
		return
	}

	company, err := s.store.GetCompanyByID(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if company == nil {
		s.errorResponse(w, http.StatusNotFound, (&ErrNotFound{Resource: "company", ID: id}).Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, company)
}

// handleGetCompanyNews retrieves a company news chunk by ID
func (s *Server) handleGetCompanyNews(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "id")
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "Invalid company news ID")
		return
	}

	news, err := s.store.GetCompanyNewsByID(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if news == nil {
		s.errorResponse(w, http.StatusNotFound, (&ErrNotFound{Resource: "company news", ID: id}).Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, news)
}
