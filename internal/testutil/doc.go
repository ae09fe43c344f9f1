// Package testutil holds fixtures shared by package tests: profile trees on
// disk, go-git repositories with tags, and file assertions on generated output.
package testutil
