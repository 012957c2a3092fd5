package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	auditDomain "github.com/carebridgehq/chartgate/internal/audit/domain"
	auditUsecase "github.com/carebridgehq/chartgate/internal/audit/usecase"
	consentDomain "github.com/carebridgehq/chartgate/internal/consent/domain"
	disclosureDomain "github.com/carebridgehq/chartgate/internal/disclosure/domain"
	apperrors "github.com/carebridgehq/chartgate/internal/errors"
	programDomain "github.com/carebridgehq/chartgate/internal/program/domain"
	programUsecase "github.com/carebridgehq/chartgate/internal/program/usecase"
	resourceDomain "github.com/carebridgehq/chartgate/internal/resource/domain"
)

// rateLimitEndpoint keys the disclosure budget in the counter store.
const rateLimitEndpoint = "disclosure"

// disclosureUseCase implements the DisclosureUseCase interface.
type disclosureUseCase struct {
	resourceReader  ResourceReader
	consentReader   ConsentReader
	classifier      programUsecase.ClassifierUseCase
	auditUseCase    auditUsecase.AuditUseCase
	limiter         RateLimiter
	rateLimitMax    int64
	rateLimitWindow time.Duration
	logger          *slog.Logger
	now             func() time.Time
}

// NewDisclosureUseCase creates a new DisclosureUseCase.
func NewDisclosureUseCase(
	resourceReader ResourceReader,
	consentReader ConsentReader,
	classifier programUsecase.ClassifierUseCase,
	auditUseCase auditUsecase.AuditUseCase,
	limiter RateLimiter,
	rateLimitMax int64,
	rateLimitWindow time.Duration,
	logger *slog.Logger,
) DisclosureUseCase {
	return &disclosureUseCase{
		resourceReader:  resourceReader,
		consentReader:   consentReader,
		classifier:      classifier,
		auditUseCase:    auditUseCase,
		limiter:         limiter,
		rateLimitMax:    rateLimitMax,
		rateLimitWindow: rateLimitWindow,
		logger:          logger,
		now:             time.Now,
	}
}

// Disclose runs the gate: rate check, visibility-constrained load,
// classification, consent validation, then the audit write and the response,
// strictly in that order.
func (u *disclosureUseCase) Disclose(
	ctx context.Context,
	req *disclosureDomain.Request,
) (*disclosureDomain.Manifest, error) {
	// The transport layer rejects empty requests before they get here; this
	// guard keeps the invariant for other callers.
	if req.Empty() {
		return nil, disclosureDomain.ErrEmptyRequest
	}

	// Rate check. Denials here precede any resource access and are never
	// audited; the limiter logs them outside the chain.
	if !u.limiter.Allow(ctx, req.ActorID.String(), rateLimitEndpoint, u.rateLimitMax, u.rateLimitWindow) {
		return nil, apperrors.Wrap(apperrors.ErrRateLimited, "disclosure budget exhausted")
	}

	// Load the caller-visible rows for every requested id. Rows the actor may
	// not see are simply absent; only the counts are compared so the response
	// never reveals which ids were inaccessible.
	refs, allVisible, err := u.loadResources(ctx, req)
	if err != nil {
		return nil, err
	}

	// Classify what was loaded. The denial entry for a partially inaccessible
	// request is labeled from the visible subset: the invisible rows' programs
	// must not be looked up on the caller's behalf.
	programIDs := make([]*uuid.UUID, len(refs))
	for i, ref := range refs {
		programIDs[i] = ref.ProgramID
	}
	classification, err := u.classifier.Classify(ctx, programIDs)
	if err != nil {
		return nil, err
	}

	label := string(programDomain.SensitivityStandard)
	if classification.Special(programIDs) {
		label = string(programDomain.SensitivitySpecial)
	}

	if !allVisible {
		return nil, u.deny(ctx, req, label, "requested records not fully accessible")
	}

	// Specially protected records are released only under an active consent
	// covering the entire request.
	if label == string(programDomain.SensitivitySpecial) {
		if req.ConsentID == nil {
			return nil, u.deny(ctx, req, label, "no consent supplied")
		}

		consent, err := u.consentReader.Get(ctx, *req.ConsentID)
		if err != nil {
			if apperrors.Is(err, consentDomain.ErrConsentNotFound) {
				return nil, u.deny(ctx, req, label, "consent not found")
			}
			return nil, err
		}

		coverage := &consentDomain.CoverageRequest{
			ConversationIDs: req.ConversationIDs,
			NoteIDs:         req.NoteIDs,
			FileIDs:         req.FileIDs,
			Programs:        programIDs,
		}
		if !consent.Covers(coverage, u.now().UTC()) {
			return nil, u.deny(ctx, req, label, "consent does not cover request")
		}
	}

	// Allowed. The export entry must be on the chain before the manifest is
	// returned, and must complete even if the caller has disconnected.
	if _, err := u.auditUseCase.Append(context.WithoutCancel(ctx), &auditUsecase.AppendInput{
		ActorID:      req.ActorID,
		Action:       auditDomain.ActionDisclosureExport,
		ResourceKind: kindTag(req),
		ResourceIDs:  orderedIDs(req),
		Sensitivity:  label,
		ProgramID:    soleProgram(refs),
		ConsentID:    req.ConsentID,
		Purpose:      req.Purpose,
		Origin:       req.Origin,
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", disclosureDomain.ErrAuditWriteFailed, err)
	}

	return &disclosureDomain.Manifest{
		OK:              true,
		Classification:  label,
		ConversationIDs: req.ConversationIDs,
		NoteIDs:         req.NoteIDs,
		FileIDs:         req.FileIDs,
	}, nil
}

// deny writes the disclosure_denied entry, then returns the single external
// denial error. The sub-reason lives only in the entry's metadata. A failed
// audit write turns the denial into an internal failure: no decision leaves
// the gate without its chain record.
func (u *disclosureUseCase) deny(
	ctx context.Context,
	req *disclosureDomain.Request,
	label string,
	reason string,
) error {
	if _, err := u.auditUseCase.Append(context.WithoutCancel(ctx), &auditUsecase.AppendInput{
		ActorID:      req.ActorID,
		Action:       auditDomain.ActionDisclosureDenied,
		ResourceKind: kindTag(req),
		ResourceIDs:  orderedIDs(req),
		Sensitivity:  label,
		ConsentID:    req.ConsentID,
		Purpose:      req.Purpose,
		Origin:       req.Origin,
		Metadata: map[string]any{
			"reason": reason,
		},
	}); err != nil {
		return fmt.Errorf("%w: %v", disclosureDomain.ErrAuditWriteFailed, err)
	}

	return disclosureDomain.ErrDisclosureDenied
}

// loadResources loads the visible references for each requested kind and
// reports whether every requested id was visible. Duplicate ids within a kind
// are counted once. The per-kind queries are independent and run concurrently;
// results land in fixed slots so the combined order stays conversation, note,
// file.
func (u *disclosureUseCase) loadResources(
	ctx context.Context,
	req *disclosureDomain.Request,
) ([]*resourceDomain.ResourceRef, bool, error) {
	requested := []struct {
		kind resourceDomain.Kind
		ids  []uuid.UUID
	}{
		{resourceDomain.KindConversation, req.ConversationIDs},
		{resourceDomain.KindNote, req.NoteIDs},
		{resourceDomain.KindFile, req.FileIDs},
	}

	loaded := make([][]*resourceDomain.ResourceRef, len(requested))
	visible := make([]bool, len(requested))

	g, gctx := errgroup.WithContext(ctx)
	for i, r := range requested {
		unique := dedupe(r.ids)
		if len(unique) == 0 {
			visible[i] = true
			continue
		}

		g.Go(func() error {
			refs, err := u.resourceReader.GetVisible(gctx, req.ActorID, r.kind, unique)
			if err != nil {
				return err
			}
			loaded[i] = refs
			visible[i] = len(refs) == len(unique)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	var refs []*resourceDomain.ResourceRef
	allVisible := true
	for i := range requested {
		refs = append(refs, loaded[i]...)
		allVisible = allVisible && visible[i]
	}

	return refs, allVisible, nil
}

// kindTag labels an audit entry with the kinds a request names, in the fixed
// conversation, note, file order.
func kindTag(req *disclosureDomain.Request) string {
	tag := ""
	for _, part := range []struct {
		kind resourceDomain.Kind
		ids  []uuid.UUID
	}{
		{resourceDomain.KindConversation, req.ConversationIDs},
		{resourceDomain.KindNote, req.NoteIDs},
		{resourceDomain.KindFile, req.FileIDs},
	} {
		if len(part.ids) == 0 {
			continue
		}
		if tag != "" {
			tag += ","
		}
		tag += string(part.kind)
	}
	return tag
}

// orderedIDs flattens the requested ids in the fixed conversation, note, file
// order so the audit entry's id list is deterministic.
func orderedIDs(req *disclosureDomain.Request) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(req.ConversationIDs)+len(req.NoteIDs)+len(req.FileIDs))
	ids = append(ids, req.ConversationIDs...)
	ids = append(ids, req.NoteIDs...)
	ids = append(ids, req.FileIDs...)
	return ids
}

// soleProgram returns the single program all loaded references share, or nil
// when the references span multiple programs or none.
func soleProgram(refs []*resourceDomain.ResourceRef) *uuid.UUID {
	var program *uuid.UUID
	for _, ref := range refs {
		if ref.ProgramID == nil {
			return nil
		}
		if program == nil {
			program = ref.ProgramID
			continue
		}
		if *program != *ref.ProgramID {
			return nil
		}
	}
	return program
}

// dedupe removes duplicate ids preserving first-seen order.
func dedupe(ids []uuid.UUID) []uuid.UUID {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
