package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/AnshRaj112/bellaciao-guestbook/internal/export"
	"github.com/AnshRaj112/bellaciao-guestbook/internal/models"
	"github.com/AnshRaj112/bellaciao-guestbook/internal/services"
	"github.com/AnshRaj112/bellaciao-guestbook/internal/telemetry"
)

// TagList accepts tags either as a JSON array or as one comma-delimited string.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*t = strings.Split(joined, ",")
	return nil
}

// SubmitEntryRequest represents the guest feedback form
type SubmitEntryRequest struct {
	Name        string  `json:"name"`
	PhoneNumber string  `json:"phoneNumber"`
	Area        string  `json:"area"`
	Rating      *int    `json:"rating"`
	Tags        TagList `json:"tags"`
	Feedback    string  `json:"feedback"`
}

// ListEntriesResponse is one page of the admin dashboard
type ListEntriesResponse struct {
	Success    bool                `json:"success"`
	Entries    []models.GuestEntry `json:"entries"`
	Pagination models.Pagination   `json:"pagination"`
}

// SubmitEntry stores one guest entry.
func (h *Handler) SubmitEntry(w http.ResponseWriter, r *http.Request) {
	var req SubmitEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	entry, err := h.entries.Submit(ctx, services.SubmitInput{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Area:        req.Area,
		Rating:      req.Rating,
		Tags:        req.Tags,
		Feedback:    req.Feedback,
	})
	if err != nil {
		writeAppError(w, err, "Failed to save entry. Please try again.")
		return
	}

	logger := telemetry.LoggerFromContext(r.Context())
	logger.Info().Str("entry_id", entry.ID).Msg("Guest entry saved")
	writeJSON(w, http.StatusOK, APIResponse{Success: true})
}

// ListEntries answers the dashboard's search, filter and pagination query.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	page, err := h.entries.List(ctx, parseEntryQuery(r))
	if err != nil {
		writeAppError(w, err, "Failed to fetch entries")
		return
	}

	writeJSON(w, http.StatusOK, ListEntriesResponse{
		Success:    true,
		Entries:    page.Entries,
		Pagination: page.Pagination,
	})
}

// ExportEntries downloads the requested page as CSV. It takes the same
// parameters as ListEntries and never exports more than that one page.
func (h *Handler) ExportEntries(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	page, err := h.entries.List(ctx, parseEntryQuery(r))
	if err != nil {
		writeAppError(w, err, "Failed to fetch entries")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, page.Entries, h.entries.Location()); err != nil {
		logger := telemetry.LoggerFromContext(r.Context())
		logger.Error().Err(err).Msg("Error writing CSV export")
		writeError(w, http.StatusInternalServerError, "Failed to export entries")
		return
	}

	filename := export.Filename(h.exportPrefix, h.entries.Now().In(h.entries.Location()))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// parseEntryQuery reads search, filter, page and limit. Values that are not
// positive integers are left at zero so the service applies its defaults.
func parseEntryQuery(r *http.Request) models.EntryQuery {
	q := r.URL.Query()
	return models.EntryQuery{
		Search: strings.TrimSpace(q.Get("search")),
		Filter: models.ParseDateFilter(q.Get("filter")),
		Page:   positiveInt(q.Get("page")),
		Limit:  positiveInt(q.Get("limit")),
	}
}

func positiveInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0
	}
	return n
}
