// Package dto provides data transfer objects for audit chain API responses.
package dto

import (
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/carebridgehq/chartgate/internal/audit/domain"
)

// AuditEntryResponse represents an audit entry in API responses. The raw
// signature stays internal; entries expose exactly the hashed fields.
type AuditEntryResponse struct {
	ID           string         `json:"id"`
	ActorID      string         `json:"actor_id"`
	Action       string         `json:"action"`
	ResourceKind string         `json:"resource_kind,omitempty"`
	ResourceIDs  []uuid.UUID    `json:"resource_ids,omitempty"`
	Sensitivity  string         `json:"sensitivity,omitempty"`
	ProgramID    *uuid.UUID     `json:"program_id,omitempty"`
	ConsentID    *uuid.UUID     `json:"consent_id,omitempty"`
	Purpose      string         `json:"purpose,omitempty"`
	Origin       string         `json:"origin,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	HashVersion  string         `json:"hash_version"`
	Hash         string         `json:"hash"`
	PrevHash     string         `json:"prev_hash"`
	CreatedAt    time.Time      `json:"created_at"`
}

// MapAuditEntryToResponse converts a domain audit entry to an API response.
func MapAuditEntryToResponse(entry *auditDomain.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:           entry.ID.String(),
		ActorID:      entry.ActorID.String(),
		Action:       string(entry.Action),
		ResourceKind: entry.ResourceKind,
		ResourceIDs:  entry.ResourceIDs,
		Sensitivity:  entry.Sensitivity,
		ProgramID:    entry.ProgramID,
		ConsentID:    entry.ConsentID,
		Purpose:      entry.Purpose,
		Origin:       entry.Origin,
		Metadata:     entry.Metadata,
		HashVersion:  entry.HashVersion,
		Hash:         entry.Hash,
		PrevHash:     entry.PrevHash,
		CreatedAt:    entry.CreatedAt,
	}
}

// ListAuditEntriesResponse represents a paginated list of audit entries.
type ListAuditEntriesResponse struct {
	Data  []AuditEntryResponse `json:"data"`
	Total int64                `json:"total"`
}

// MapAuditEntriesToListResponse converts domain audit entries to a list API response.
func MapAuditEntriesToListResponse(entries []*auditDomain.AuditEntry, total int64) ListAuditEntriesResponse {
	entryResponses := make([]AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		entryResponses = append(entryResponses, MapAuditEntryToResponse(entry))
	}
	return ListAuditEntriesResponse{
		Data:  entryResponses,
		Total: total,
	}
}

// VerificationReportResponse is the result of a chain verification run.
type VerificationReportResponse struct {
	TotalEntries    int64   `json:"totalEntries"`
	VerifiedEntries int64   `json:"verifiedEntries"`
	Intact          bool    `json:"intact"`
	BrokenAtID      *string `json:"brokenAtId"`
}

// MapVerificationReportToResponse converts a domain verification report to an API response.
func MapVerificationReportToResponse(report *auditDomain.VerificationReport) VerificationReportResponse {
	resp := VerificationReportResponse{
		TotalEntries:    report.TotalEntries,
		VerifiedEntries: report.VerifiedEntries,
		Intact:          report.Intact,
	}
	if report.BrokenAtID != nil {
		id := report.BrokenAtID.String()
		resp.BrokenAtID = &id
	}
	return resp
}
