package gitrepo

import (
	"net/url"
	"strings"
)

const (
	httpSchemeConstant          = "http"
	httpsSchemeConstant         = "https"
	schemeSeparatorConstant     = ":"
	pathSeparatorConstant       = "/"
	gitUserPrefixConstant       = "git@"
	httpsProtocolPrefixConstant = "https://"
	gitSuffixConstant           = ".git"
)

// NormalizeRemoteURL converts a remote into the form recorded in the url field.
//
// Credentials are dropped from http(s) remotes, a leading "git@" becomes
// "https://", every ":" becomes "/" and a trailing ".git" is removed. The
// colon rewrite also hits the scheme, so both ssh and https remotes come out
// as "https///host/path"; consumers rely on that exact shape.
func NormalizeRemoteURL(remote string) string {
	normalized := strings.TrimSpace(remote)
	if len(normalized) == 0 {
		return ""
	}

	normalized = stripCredentials(normalized)
	if strings.HasPrefix(normalized, gitUserPrefixConstant) {
		normalized = httpsProtocolPrefixConstant + strings.TrimPrefix(normalized, gitUserPrefixConstant)
	}
	normalized = strings.ReplaceAll(normalized, schemeSeparatorConstant, pathSeparatorConstant)
	return strings.TrimSuffix(normalized, gitSuffixConstant)
}

func stripCredentials(remote string) string {
	parsedURL, parseError := url.Parse(remote)
	if parseError != nil || parsedURL.User == nil {
		return remote
	}

	scheme := strings.ToLower(parsedURL.Scheme)
	if scheme != httpSchemeConstant && scheme != httpsSchemeConstant {
		return remote
	}

	parsedURL.User = nil
	return parsedURL.String()
}
