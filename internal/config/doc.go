// Package config builds the Configuration Record that drives a spabuild
// project: enabled extensions, the import alias table, dev-server settings
// and bundle settings.
//
// A record is constructed once, either from defaults or from a
// spabuild.yaml file, and is treated as read-only afterwards. Commands
// receive a *Config and pass it on to the bundler, hooks and dev server;
// nothing looks configuration up from global state.
//
// # Project Root
//
// The directory holding spabuild.yaml is the project root. Every relative
// path in the file (alias replacements, entry, out dir, public dir) is
// resolved against that directory, never against the process working
// directory, so the same file yields the same record wherever the tool is
// started from.
//
// Example spabuild.yaml:
//
//	extensions:
//	  - name: react
//	  - name: copy-routing-rules
//	alias:
//	  - find: "@"
//	    replacement: ./src
//	server:
//	  port: 5174
//	  proxy:
//	    - prefix: /api
//	      target: http://localhost:8888
//	      change_origin: true
//	build:
//	  entry: src/main.jsx
//	  out_dir: dist
//	routing_rules: _redirects
//
// Fields missing from the file keep their defaults (see Default).
//
// # Duplicates and Overlaps
//
// Alias keys and proxy prefixes are unique after loading: when a key
// appears twice the first entry wins and the later one is dropped with a
// warning. Proxy prefixes that overlap without being identical are all
// kept; MatchProxy picks the longest matching prefix.
//
// # Thread Safety
//
// A loaded Config is never mutated, so concurrent readers need no locking.
package config
