package domain

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeScope(t *testing.T) {
	conversationID := uuid.Must(uuid.NewV7())
	programID := uuid.Must(uuid.NewV7())

	t.Run("ByIDs", func(t *testing.T) {
		raw := fmt.Sprintf(`{"conversation_ids":["%s"]}`, conversationID)
		scope := DecodeScope([]byte(raw))
		assert.Equal(t, ScopeByIDs, scope.Kind)
		assert.Equal(t, []uuid.UUID{conversationID}, scope.ConversationIDs)
	})

	t.Run("ByProgram", func(t *testing.T) {
		raw := fmt.Sprintf(`{"program_id":"%s"}`, programID)
		scope := DecodeScope([]byte(raw))
		assert.Equal(t, ScopeByProgram, scope.Kind)
		require.NotNil(t, scope.ProgramID)
		assert.Equal(t, programID, *scope.ProgramID)
	})

	t.Run("Both", func(t *testing.T) {
		raw := fmt.Sprintf(`{"note_ids":["%s"],"program_id":"%s"}`, conversationID, programID)
		scope := DecodeScope([]byte(raw))
		assert.Equal(t, ScopeBoth, scope.Kind)
	})

	t.Run("MalformedShapesDecodeToInvalid", func(t *testing.T) {
		malformed := []string{
			``,
			`null`,
			`not json at all`,
			`[]`,
			`"a string"`,
			`{}`,
			`{"conversation_ids":[]}`,
			`{"conversation_ids":["not-a-uuid"]}`,
			`{"program_id":"00000000-0000-0000-0000-000000000000"}`,
			`{"unexpected_field":true}`,
			`{"note_ids":["` + conversationID.String() + `"]} trailing`,
		}
		for _, raw := range malformed {
			scope := DecodeScope([]byte(raw))
			assert.Equal(t, ScopeInvalid, scope.Kind, "input: %q", raw)
			assert.False(t, scope.Covers(&CoverageRequest{NoteIDs: []uuid.UUID{conversationID}}), "input: %q", raw)
		}
	})

	t.Run("EncodeRoundTrip", func(t *testing.T) {
		scope := Scope{
			Kind:            ScopeBoth,
			ConversationIDs: []uuid.UUID{conversationID},
			ProgramID:       &programID,
		}
		raw, err := scope.Encode()
		require.NoError(t, err)

		decoded := DecodeScope(raw)
		assert.Equal(t, ScopeBoth, decoded.Kind)
		assert.Equal(t, scope.ConversationIDs, decoded.ConversationIDs)
		assert.Equal(t, programID, *decoded.ProgramID)
	})
}

func TestScope_Covers(t *testing.T) {
	idA := uuid.Must(uuid.NewV7())
	idB := uuid.Must(uuid.NewV7())
	idC := uuid.Must(uuid.NewV7())
	programID := uuid.Must(uuid.NewV7())
	otherProgram := uuid.Must(uuid.NewV7())

	t.Run("ByIDs_FullCoverage", func(t *testing.T) {
		scope := Scope{Kind: ScopeByIDs, ConversationIDs: []uuid.UUID{idA, idB}}
		assert.True(t, scope.Covers(&CoverageRequest{ConversationIDs: []uuid.UUID{idA, idB}}))
		assert.True(t, scope.Covers(&CoverageRequest{ConversationIDs: []uuid.UUID{idB}}))
	})

	t.Run("ByIDs_AllOrNothing", func(t *testing.T) {
		// A consent covering {A, B} denies a request for {A, B, C} as a whole.
		scope := Scope{Kind: ScopeByIDs, ConversationIDs: []uuid.UUID{idA, idB}}
		assert.False(t, scope.Covers(&CoverageRequest{ConversationIDs: []uuid.UUID{idA, idB, idC}}))
	})

	t.Run("ByIDs_KindsAreSeparate", func(t *testing.T) {
		// An id granted as a conversation does not cover the same id requested
		// as a note.
		scope := Scope{Kind: ScopeByIDs, ConversationIDs: []uuid.UUID{idA}}
		assert.False(t, scope.Covers(&CoverageRequest{NoteIDs: []uuid.UUID{idA}}))
	})

	t.Run("ByIDs_AcrossKinds", func(t *testing.T) {
		scope := Scope{
			Kind:            ScopeByIDs,
			ConversationIDs: []uuid.UUID{idA},
			NoteIDs:         []uuid.UUID{idB},
		}
		assert.True(t, scope.Covers(&CoverageRequest{
			ConversationIDs: []uuid.UUID{idA},
			NoteIDs:         []uuid.UUID{idB},
		}))
		assert.False(t, scope.Covers(&CoverageRequest{
			ConversationIDs: []uuid.UUID{idA},
			NoteIDs:         []uuid.UUID{idB},
			FileIDs:         []uuid.UUID{idC},
		}))
	})

	t.Run("ByProgram_AllResourcesMustMatch", func(t *testing.T) {
		scope := Scope{Kind: ScopeByProgram, ProgramID: &programID}

		assert.True(t, scope.Covers(&CoverageRequest{
			NoteIDs:  []uuid.UUID{idA, idB},
			Programs: []*uuid.UUID{&programID, &programID},
		}))
		assert.False(t, scope.Covers(&CoverageRequest{
			NoteIDs:  []uuid.UUID{idA, idB},
			Programs: []*uuid.UUID{&programID, &otherProgram},
		}))
		// A resource outside any program is not covered by a program scope.
		assert.False(t, scope.Covers(&CoverageRequest{
			NoteIDs:  []uuid.UUID{idA, idB},
			Programs: []*uuid.UUID{&programID, nil},
		}))
		// No program information at all means no program coverage.
		assert.False(t, scope.Covers(&CoverageRequest{NoteIDs: []uuid.UUID{idA}}))
	})

	t.Run("Both_EitherRuleSuffices", func(t *testing.T) {
		scope := Scope{
			Kind:      ScopeBoth,
			NoteIDs:   []uuid.UUID{idA},
			ProgramID: &programID,
		}

		// Covered by ids, not by program.
		assert.True(t, scope.Covers(&CoverageRequest{
			NoteIDs:  []uuid.UUID{idA},
			Programs: []*uuid.UUID{&otherProgram},
		}))
		// Covered by program, not by ids.
		assert.True(t, scope.Covers(&CoverageRequest{
			NoteIDs:  []uuid.UUID{idB},
			Programs: []*uuid.UUID{&programID},
		}))
		// Covered by neither.
		assert.False(t, scope.Covers(&CoverageRequest{
			NoteIDs:  []uuid.UUID{idB},
			Programs: []*uuid.UUID{&otherProgram},
		}))
	})

	t.Run("EmptyRequestNeverCovered", func(t *testing.T) {
		scope := Scope{Kind: ScopeByIDs, ConversationIDs: []uuid.UUID{idA}}
		assert.False(t, scope.Covers(&CoverageRequest{}))
		assert.False(t, scope.Covers(nil))
	})
}
