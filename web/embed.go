package web

import "embed"

// StaticFS embeds the single-page frontend (html/js/css).
//
//go:embed static/*
var StaticFS embed.FS
