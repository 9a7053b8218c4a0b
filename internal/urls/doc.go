// Package urls holds the documentation links printed in command hints, so they
// can be updated in one place.
//
// Usage:
//
//	import "github.com/muurk/espcoredump/internal/urls"
//
//	hints = append(hints, "Core dump formats: "+urls.CoreDumpGuide)
package urls
