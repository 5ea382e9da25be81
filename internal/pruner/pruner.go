// Package pruner removes attribute options that no product references.
package pruner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/tordrt/optionpruner/internal/catalog"
)

const (
	logMsgStarted            = "pruning attribute options"
	logMsgResolveFailed      = "failed to resolve attribute"
	logMsgSelectFailed       = "failed to select column"
	logMsgDeleteFailed       = "failed to delete unused options"
	logMsgRowsMismatch       = "deleted row count differs from unused option count"
	logMsgPruned             = "unused options pruned"
	logMsgDryRun             = "dry run, nothing deleted"
	logAttrRunID             = "run_id"
	logAttrAttributeCode     = "attribute_code"
	logAttrAttributeID       = "attribute_id"
	logAttrTable             = "table"
	logAttrDefined           = "defined"
	logAttrReferenced        = "referenced"
	logAttrUnused            = "unused"
	logAttrRowsAffected      = "rows_affected"
	logAttrSecureArea        = "secure_area"
	logAttrArea              = "area"
	logAttrError             = "error"
	foundUnusedOptionsFormat = "Found %d unused options for attribute code => %s\n"
)

// Logger is satisfied by *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Store is the data access the pruner needs from the catalog database.
type Store interface {
	// ResolveAttributeID returns catalog.ErrAttributeNotFound when no attribute matches.
	ResolveAttributeID(ctx context.Context, entityTypeCode, attributeCode string) (catalog.AttributeID, error)
	SelectColumn(ctx context.Context, table, column string, attributeIDs []catalog.AttributeID) ([]int64, error)
	DeleteRows(ctx context.Context, table, column string, values []int64) (int64, error)
	OptionTable() string
	ValueTable() string
}

// Pruner computes and deletes the unused options of an attribute.
type Pruner struct {
	store          Store
	logger         Logger
	entityTypeCode string
	dryRun         bool
}

// Option configures a Pruner.
type Option func(*Pruner)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(p *Pruner) {
		p.logger = logger
	}
}

// WithEntityTypeCode changes the entity type attribute codes are resolved in.
func WithEntityTypeCode(code string) Option {
	return func(p *Pruner) {
		if code != "" {
			p.entityTypeCode = code
		}
	}
}

// WithDryRun computes the unused set without deleting it.
func WithDryRun(dryRun bool) Option {
	return func(p *Pruner) {
		p.dryRun = dryRun
	}
}

// New creates a Pruner on top of store.
func New(store Store, options ...Option) *Pruner {
	p := &Pruner{
		store:          store,
		entityTypeCode: catalog.ProductEntityTypeCode,
	}

	for _, option := range options {
		option(p)
	}

	return p
}

// PruneUnusedOptions deletes the options of attributeCode that no product
// references and returns how many were targeted.
func (p *Pruner) PruneUnusedOptions(ctx context.Context, attributeCode string, out io.Writer) (int, error) {
	report, err := p.Run(ctx, attributeCode, out)
	if err != nil {
		return 0, err
	}

	return report.Deleted, nil
}

// Run prunes attributeCode and returns the full report.
func (p *Pruner) Run(ctx context.Context, attributeCode string, out io.Writer) (*catalog.Report, error) {
	attributeCode = strings.TrimSpace(attributeCode)
	if attributeCode == "" {
		return nil, catalog.ErrEmptyAttributeCode
	}

	runID, err := uuid.NewV7()
	if err != nil {
		runID = uuid.New()
	}
	logArgs := []any{logAttrRunID, runID.String(), logAttrAttributeCode, attributeCode}
	p.logDebug(logMsgStarted, append(logArgs,
		logAttrArea, catalog.AreaFromContext(ctx),
		logAttrSecureArea, catalog.IsSecureArea(ctx),
	)...)

	attribute, err := p.resolve(ctx, attributeCode)
	if err != nil {
		p.logError(logMsgResolveFailed, err, logArgs...)
		return nil, err
	}
	logArgs = append(logArgs, logAttrAttributeID, attribute.ID)

	ids := []catalog.AttributeID{attribute.ID}

	defined, err := p.store.SelectColumn(ctx, p.store.OptionTable(), catalog.ColOptionID, ids)
	if err != nil {
		p.logError(logMsgSelectFailed, err, append(logArgs, logAttrTable, p.store.OptionTable())...)
		return nil, errors.Join(catalog.ErrDataAccess, err)
	}

	referenced, err := p.store.SelectColumn(ctx, p.store.ValueTable(), catalog.ColValue, ids)
	if err != nil {
		p.logError(logMsgSelectFailed, err, append(logArgs, logAttrTable, p.store.ValueTable())...)
		return nil, errors.Join(catalog.ErrDataAccess, err)
	}

	definedSet := toSet(defined)
	referencedSet := toSet(referenced)
	unused := difference(definedSet, referencedSet)

	report := &catalog.Report{
		AttributeCode:   attribute.Code,
		AttributeID:     attribute.ID,
		DefinedCount:    len(definedSet),
		ReferencedCount: len(referencedSet),
		UnusedOptionIDs: unused,
		DryRun:          p.dryRun,
	}

	if out != nil {
		_, _ = fmt.Fprintf(out, foundUnusedOptionsFormat, len(unused), attributeCode)
	}

	logArgs = append(logArgs,
		logAttrDefined, report.DefinedCount,
		logAttrReferenced, report.ReferencedCount,
		logAttrUnused, len(unused),
	)

	if p.dryRun {
		p.logInfo(logMsgDryRun, logArgs...)
		return report, nil
	}

	if len(unused) == 0 {
		p.logInfo(logMsgPruned, logArgs...)
		return report, nil
	}

	rowsAffected, err := p.store.DeleteRows(ctx, p.store.OptionTable(), catalog.ColOptionID, unused)
	if err != nil {
		p.logError(logMsgDeleteFailed, err, append(logArgs, logAttrSecureArea, catalog.IsSecureArea(ctx))...)
		return nil, errors.Join(catalog.ErrDataAccess, err)
	}

	report.Deleted = len(unused)
	report.RowsAffected = rowsAffected

	logArgs = append(logArgs, logAttrRowsAffected, rowsAffected)
	if rowsAffected != int64(len(unused)) {
		p.logWarn(logMsgRowsMismatch, logArgs...)
	}
	p.logInfo(logMsgPruned, logArgs...)

	return report, nil
}

func (p *Pruner) resolve(ctx context.Context, attributeCode string) (catalog.Attribute, error) {
	id, err := p.store.ResolveAttributeID(ctx, p.entityTypeCode, attributeCode)
	if err != nil {
		if errors.Is(err, catalog.ErrAttributeNotFound) {
			return catalog.Attribute{}, err
		}
		return catalog.Attribute{}, errors.Join(catalog.ErrDataAccess, err)
	}

	return catalog.Attribute{ID: id, Code: attributeCode, EntityTypeCode: p.entityTypeCode}, nil
}

func toSet(values []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// difference returns the members of a missing from b, sorted ascending.
func difference(a, b map[int64]struct{}) []catalog.OptionID {
	out := make([]catalog.OptionID, 0, len(a))
	for v := range a {
		if _, ok := b[v]; !ok {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}

func (p *Pruner) logDebug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func (p *Pruner) logInfo(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pruner) logWarn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

func (p *Pruner) logError(msg string, err error, args ...any) {
	if p.logger != nil {
		p.logger.Error(msg, append(args, logAttrError, err.Error())...)
	}
}
