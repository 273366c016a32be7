// Package template renders the starter files written by `spabuild init`
// from embedded Go templates.
//
// # Template Organization
//
// Templates live under scaffold/ and are embedded in the binary. Each
// file maps to the project path it produces:
//
//	scaffold/spabuild.yaml.tmpl  -> spabuild.yaml
//	scaffold/index.html.tmpl     -> index.html
//	scaffold/src/main.jsx.tmpl   -> src/main.jsx
//	scaffold/src/App.jsx.tmpl    -> src/App.jsx
//	scaffold/_redirects.tmpl     -> _redirects
//
// # Rendering
//
//	files, err := template.Scaffold(template.Data{
//	    Name:        "admin-dashboard",
//	    Port:        5174,
//	    ProxyPrefix: "/api",
//	    ProxyTarget: "http://localhost:8888",
//	})
//
// # Custom Functions
//
// Templates have access to these functions:
//   - replace: strings.ReplaceAll for string manipulation
//   - quote: strconv.Quote for YAML and JS string literals
package template
