// Package main is the portfolio site: a gin server whose page is driven
// by live sessions, plus a terminal preview and a few content tools.
//
// Usage:
//
//	portfolio serve
//	portfolio preview
//	portfolio export -o resume.md
//	portfolio check portfolio.yaml
package main

import (
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	Execute()
}
