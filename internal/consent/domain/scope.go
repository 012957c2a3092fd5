package domain

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
)

// ScopeKind tags which coverage rules a scope can satisfy.
type ScopeKind string

const (
	// ScopeByIDs names explicit resource ids per kind.
	ScopeByIDs ScopeKind = "ids"

	// ScopeByProgram names exactly one program; it covers requests whose
	// every resource belongs to that program.
	ScopeByProgram ScopeKind = "program"

	// ScopeBoth carries both an id list and a program. Coverage holds when
	// either rule independently covers the full request. This shape is not
	// produced by the product today; accepting it is a recorded policy
	// decision pending sign-off.
	ScopeBoth ScopeKind = "both"

	// ScopeInvalid marks a malformed or empty scope document. It covers
	// nothing and is never an error: a bad scope must fail closed, not bypass
	// the consent check.
	ScopeInvalid ScopeKind = "invalid"
)

// Scope is the decoded form of a consent's scope document.
type Scope struct {
	Kind            ScopeKind
	ConversationIDs []uuid.UUID
	NoteIDs         []uuid.UUID
	FileIDs         []uuid.UUID
	ProgramID       *uuid.UUID
}

// CoverageRequest is the full set of resources a disclosure asks for,
// together with each resource's program (nil for resources outside any
// program).
type CoverageRequest struct {
	ConversationIDs []uuid.UUID
	NoteIDs         []uuid.UUID
	FileIDs         []uuid.UUID
	Programs        []*uuid.UUID
}

// Empty reports whether the request names no resources at all.
func (r *CoverageRequest) Empty() bool {
	return len(r.ConversationIDs) == 0 && len(r.NoteIDs) == 0 && len(r.FileIDs) == 0
}

// scopeDocument is the wire shape of a stored scope.
type scopeDocument struct {
	ConversationIDs []uuid.UUID `json:"conversation_ids,omitempty"`
	NoteIDs         []uuid.UUID `json:"note_ids,omitempty"`
	FileIDs         []uuid.UUID `json:"file_ids,omitempty"`
	ProgramID       *uuid.UUID  `json:"program_id,omitempty"`
}

// DecodeScope parses a stored scope document. All malformed input decodes to
// ScopeInvalid; decoding never fails.
func DecodeScope(raw []byte) Scope {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()

	var doc scopeDocument
	if err := decoder.Decode(&doc); err != nil {
		return Scope{Kind: ScopeInvalid}
	}
	// Trailing garbage after the document is malformed too
	if decoder.More() {
		return Scope{Kind: ScopeInvalid}
	}

	scope := Scope{
		ConversationIDs: doc.ConversationIDs,
		NoteIDs:         doc.NoteIDs,
		FileIDs:         doc.FileIDs,
		ProgramID:       doc.ProgramID,
	}

	hasIDs := len(doc.ConversationIDs) > 0 || len(doc.NoteIDs) > 0 || len(doc.FileIDs) > 0
	hasProgram := doc.ProgramID != nil && *doc.ProgramID != uuid.Nil

	switch {
	case hasIDs && hasProgram:
		scope.Kind = ScopeBoth
	case hasIDs:
		scope.Kind = ScopeByIDs
	case hasProgram:
		scope.Kind = ScopeByProgram
	default:
		scope.Kind = ScopeInvalid
	}

	return scope
}

// Encode serializes the scope back to its wire shape.
func (s *Scope) Encode() ([]byte, error) {
	return json.Marshal(scopeDocument{
		ConversationIDs: s.ConversationIDs,
		NoteIDs:         s.NoteIDs,
		FileIDs:         s.FileIDs,
		ProgramID:       s.ProgramID,
	})
}

// Covers reports whether the scope authorizes the whole request. Coverage is
// all-or-nothing: either the explicit id lists contain every requested id, or
// every requested resource belongs to the scope's program. Partial coverage
// is no coverage.
func (s *Scope) Covers(req *CoverageRequest) bool {
	if req == nil || req.Empty() {
		return false
	}

	switch s.Kind {
	case ScopeByIDs:
		return s.coversByIDs(req)
	case ScopeByProgram:
		return s.coversByProgram(req)
	case ScopeBoth:
		return s.coversByIDs(req) || s.coversByProgram(req)
	default:
		return false
	}
}

func (s *Scope) coversByIDs(req *CoverageRequest) bool {
	return containsAll(s.ConversationIDs, req.ConversationIDs) &&
		containsAll(s.NoteIDs, req.NoteIDs) &&
		containsAll(s.FileIDs, req.FileIDs)
}

func (s *Scope) coversByProgram(req *CoverageRequest) bool {
	if s.ProgramID == nil || len(req.Programs) == 0 {
		return false
	}
	for _, programID := range req.Programs {
		if programID == nil || *programID != *s.ProgramID {
			return false
		}
	}
	return true
}

func containsAll(granted, requested []uuid.UUID) bool {
	if len(requested) == 0 {
		return true
	}
	set := make(map[uuid.UUID]struct{}, len(granted))
	for _, id := range granted {
		set[id] = struct{}{}
	}
	for _, id := range requested {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}
