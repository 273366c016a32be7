package template

import "embed"

//go:embed all:scaffold
var scaffoldFS embed.FS

// scaffoldRoot is the embedded directory holding the templates.
const scaffoldRoot = "scaffold"
