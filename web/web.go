// Package web holds the HTML templates and static assets of the estimator page.
package web

import "embed"

//go:embed templates/*.html static/*
var FS embed.FS
