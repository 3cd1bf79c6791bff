// Package git resolves the revision of the project being built so outcomes
// can be traced back to a commit.
package git
