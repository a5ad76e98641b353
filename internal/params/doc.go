// Package params implements the search input grammar: line-oriented
// key=value statements with '#' comments, grouped into complete parameter
// sets, plus the command expansion that turns one user input set into many
// machine-readable run lines.
package params
