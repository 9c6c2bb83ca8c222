// Package dependencies constructs the default collaborators shared by the
// generate and show commands when callers do not inject their own.
package dependencies
