// Package site assembles the static site: one page per profile file, one
// index per profile collection, and a top-level index.
//
// A build is sequential. The version string is resolved by the caller once
// per run and passed in through Options, so every page carries the same value.
package site
