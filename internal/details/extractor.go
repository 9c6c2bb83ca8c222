package details

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/gitdetails/internal/gitrepo"
)

const (
	// DirtySuffixConstant is appended to the revision and tag of a modified working tree.
	DirtySuffixConstant = "-dirty"
	// DefaultRemoteNameConstant names the remote consulted when none is configured.
	DefaultRemoteNameConstant = "origin"

	inspectorNotConfiguredMessageConstant = "details extractor inspector not configured"
	queryFailedLogMessageConstant         = "git query failed; leaving field empty"
	queryLogFieldConstant                 = "query"
	remoteLogFieldConstant                = "remote"
	extractedLogMessageConstant           = "extracted repository details"

	repositoryRootQueryConstant = "repository root"
	revisionQueryConstant       = "head revision"
	branchQueryConstant         = "current branch"
	tagQueryConstant            = "tag at head"
	remoteURLQueryConstant      = "remote url"
	dirtyQueryConstant          = "uncommitted changes"
)

// ErrInspectorNotConfigured indicates the extractor was constructed without an inspector.
var ErrInspectorNotConfigured = errors.New(inspectorNotConfiguredMessageConstant)

// Inspector answers the questions an Extractor asks about a working tree.
type Inspector interface {
	RepositoryRoot(executionContext context.Context) (string, error)
	HeadRevision(executionContext context.Context) (string, error)
	// CurrentBranch returns an empty string for a detached HEAD.
	CurrentBranch(executionContext context.Context) (string, error)
	// TagAtHead returns an empty string when no tag points at HEAD.
	TagAtHead(executionContext context.Context) (string, error)
	RemoteURL(executionContext context.Context, remoteName string) (string, error)
	// HasUncommittedChanges ignores untracked files.
	HasUncommittedChanges(executionContext context.Context) (bool, error)
}

// Extractor builds Details from Inspector answers.
type Extractor struct {
	logger     *zap.Logger
	inspector  Inspector
	remoteName string
}

// NewExtractor validates dependencies and constructs an Extractor. An empty remote name selects origin.
func NewExtractor(logger *zap.Logger, inspector Inspector, remoteName string) (*Extractor, error) {
	if inspector == nil {
		return nil, ErrInspectorNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	trimmedRemoteName := strings.TrimSpace(remoteName)
	if len(trimmedRemoteName) == 0 {
		trimmedRemoteName = DefaultRemoteNameConstant
	}

	return &Extractor{logger: logger, inspector: inspector, remoteName: trimmedRemoteName}, nil
}

// Extract queries the inspector and assembles a fresh Details value.
func (extractor *Extractor) Extract(executionContext context.Context) Details {
	isDirty, dirtyError := extractor.inspector.HasUncommittedChanges(executionContext)
	if dirtyError != nil {
		extractor.logQueryFailure(dirtyQueryConstant, dirtyError)
		isDirty = false
	}

	repositoryRoot := extractor.stringQuery(repositoryRootQueryConstant, func() (string, error) {
		return extractor.inspector.RepositoryRoot(executionContext)
	})
	revision := extractor.stringQuery(revisionQueryConstant, func() (string, error) {
		return extractor.inspector.HeadRevision(executionContext)
	})
	branch := extractor.stringQuery(branchQueryConstant, func() (string, error) {
		return extractor.inspector.CurrentBranch(executionContext)
	})
	tag := extractor.stringQuery(tagQueryConstant, func() (string, error) {
		return extractor.inspector.TagAtHead(executionContext)
	})
	rawRemoteURL := extractor.stringQuery(remoteURLQueryConstant, func() (string, error) {
		return extractor.inspector.RemoteURL(executionContext, extractor.remoteName)
	})

	extracted := Details{
		Name:     repositoryName(repositoryRoot),
		Revision: markDirty(revision, isDirty),
		Branch:   branch,
		Tag:      markDirty(tag, isDirty),
		URL:      gitrepo.NormalizeRemoteURL(rawRemoteURL),
		Git:      rawRemoteURL,
		IsDirty:  isDirty,
	}

	extractor.logger.Debug(
		extractedLogMessageConstant,
		zap.String(NameKeyConstant, extracted.Name),
		zap.String(RevisionKeyConstant, extracted.Revision),
		zap.String(BranchKeyConstant, extracted.Branch),
		zap.String(TagKeyConstant, extracted.Tag),
		zap.Bool(IsDirtyKeyConstant, extracted.IsDirty),
	)
	return extracted
}

func (extractor *Extractor) stringQuery(queryName string, query func() (string, error)) string {
	value, queryError := query()
	if queryError != nil {
		extractor.logQueryFailure(queryName, queryError)
		return ""
	}
	return strings.TrimSpace(value)
}

func (extractor *Extractor) logQueryFailure(queryName string, queryError error) {
	extractor.logger.Debug(
		queryFailedLogMessageConstant,
		zap.String(queryLogFieldConstant, queryName),
		zap.String(remoteLogFieldConstant, extractor.remoteName),
		zap.Error(queryError),
	)
}

func markDirty(value string, isDirty bool) string {
	if !isDirty || len(value) == 0 {
		return value
	}
	return value + DirtySuffixConstant
}

func repositoryName(repositoryRoot string) string {
	if len(repositoryRoot) == 0 {
		return ""
	}
	return filepath.Base(filepath.Clean(repositoryRoot))
}
