// Package show implements the diagnostic show command that prints repository details.
package show
