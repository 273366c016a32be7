// Package bundler turns a Configuration Record into a deployable output
// directory using esbuild.
//
// A build bundles the entry module with hashed file names under assets/,
// copies the public directory verbatim, renders index.html so that it
// loads the hashed bundle, and then runs the post-build hooks of the
// enabled extensions exactly once. Bundle errors abort the build before
// anything in the output directory is touched; hook problems never do.
//
// Watch keeps rebuilding on source changes for the dev server. Rebuilds
// are serialized and a failed rebuild leaves the previous output in place.
package bundler
