package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

const (
	repositoryOpenTemplateConstant   = "open repository at %s: %w"
	headReferenceTemplateConstant    = "resolve HEAD: %w"
	worktreeTemplateConstant         = "open worktree: %w"
	tagIterationTemplateConstant     = "list tags: %w"
	remoteLookupTemplateConstant     = "remote %s: %w"
	worktreeStatusTemplateConstant   = "worktree status: %w"
	remoteWithoutURLsMessageConstant = "remote has no configured url"
)

// ErrRemoteWithoutURL indicates a remote exists but carries no url.
var ErrRemoteWithoutURL = errors.New(remoteWithoutURLsMessageConstant)

// GoGitInspector answers repository questions in-process through go-git.
type GoGitInspector struct {
	repository *git.Repository
}

// NewGoGitInspector opens the repository enclosing path.
func NewGoGitInspector(path string) (*GoGitInspector, error) {
	repository, openError := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if openError != nil {
		return nil, fmt.Errorf(repositoryOpenTemplateConstant, path, openError)
	}
	return &GoGitInspector{repository: repository}, nil
}

// RepositoryRoot returns the root of the working tree.
func (inspector *GoGitInspector) RepositoryRoot(executionContext context.Context) (string, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return "", contextError
	}
	worktree, worktreeError := inspector.repository.Worktree()
	if worktreeError != nil {
		return "", fmt.Errorf(worktreeTemplateConstant, worktreeError)
	}
	return worktree.Filesystem.Root(), nil
}

// HeadRevision returns the full commit id of HEAD.
func (inspector *GoGitInspector) HeadRevision(executionContext context.Context) (string, error) {
	headReference, headError := inspector.head(executionContext)
	if headError != nil {
		return "", headError
	}
	return headReference.Hash().String(), nil
}

// CurrentBranch returns the short branch name, or an empty string when HEAD is detached.
func (inspector *GoGitInspector) CurrentBranch(executionContext context.Context) (string, error) {
	headReference, headError := inspector.head(executionContext)
	if headError != nil {
		return "", headError
	}
	if !headReference.Name().IsBranch() {
		return "", nil
	}
	return headReference.Name().Short(), nil
}

// TagAtHead returns the first tag, in name order, whose target commit is HEAD.
// Annotated tags are peeled to their commit.
func (inspector *GoGitInspector) TagAtHead(executionContext context.Context) (string, error) {
	headReference, headError := inspector.head(executionContext)
	if headError != nil {
		return "", headError
	}

	tagReferences, tagsError := inspector.repository.Tags()
	if tagsError != nil {
		return "", fmt.Errorf(tagIterationTemplateConstant, tagsError)
	}
	defer tagReferences.Close()

	var matchingTags []string
	iterationError := tagReferences.ForEach(func(tagReference *plumbing.Reference) error {
		if inspector.tagTarget(tagReference) == headReference.Hash() {
			matchingTags = append(matchingTags, tagReference.Name().Short())
		}
		return nil
	})
	if iterationError != nil {
		return "", fmt.Errorf(tagIterationTemplateConstant, iterationError)
	}

	if len(matchingTags) == 0 {
		return "", nil
	}
	sort.Strings(matchingTags)
	return matchingTags[0], nil
}

// RemoteURL returns the first configured url of the named remote.
func (inspector *GoGitInspector) RemoteURL(executionContext context.Context, remoteName string) (string, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return "", contextError
	}
	trimmedRemoteName := strings.TrimSpace(remoteName)
	if len(trimmedRemoteName) == 0 {
		return "", ErrRemoteNameRequired
	}

	remote, remoteError := inspector.repository.Remote(trimmedRemoteName)
	if remoteError != nil {
		return "", fmt.Errorf(remoteLookupTemplateConstant, trimmedRemoteName, remoteError)
	}
	remoteURLs := remote.Config().URLs
	if len(remoteURLs) == 0 {
		return "", fmt.Errorf(remoteLookupTemplateConstant, trimmedRemoteName, ErrRemoteWithoutURL)
	}
	return remoteURLs[0], nil
}

// HasUncommittedChanges reports staged or unstaged changes to tracked files. Untracked files are ignored.
func (inspector *GoGitInspector) HasUncommittedChanges(executionContext context.Context) (bool, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return false, contextError
	}
	worktree, worktreeError := inspector.repository.Worktree()
	if worktreeError != nil {
		return false, fmt.Errorf(worktreeTemplateConstant, worktreeError)
	}

	status, statusError := worktree.Status()
	if statusError != nil {
		return false, fmt.Errorf(worktreeStatusTemplateConstant, statusError)
	}

	for _, fileStatus := range status {
		if isTrackedChange(fileStatus.Staging) || isTrackedChange(fileStatus.Worktree) {
			return true, nil
		}
	}
	return false, nil
}

func (inspector *GoGitInspector) head(executionContext context.Context) (*plumbing.Reference, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return nil, contextError
	}
	headReference, headError := inspector.repository.Head()
	if headError != nil {
		return nil, fmt.Errorf(headReferenceTemplateConstant, headError)
	}
	return headReference, nil
}

func (inspector *GoGitInspector) tagTarget(tagReference *plumbing.Reference) plumbing.Hash {
	tagObject, tagObjectError := inspector.repository.TagObject(tagReference.Hash())
	if tagObjectError != nil {
		return tagReference.Hash()
	}
	commit, commitError := tagObject.Commit()
	if commitError != nil {
		return plumbing.ZeroHash
	}
	return commit.Hash
}

func isTrackedChange(statusCode git.StatusCode) bool {
	return statusCode != git.Unmodified && statusCode != git.Untracked
}
