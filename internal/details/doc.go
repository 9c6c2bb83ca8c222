// Package details assembles the repository metadata git-details writes into
// generated files.
//
// An Extractor asks an Inspector a fixed set of questions about the working
// tree and folds the answers into a Details value. Every question may fail on
// its own; a failed answer leaves its field empty and extraction continues.
package details
