// Package types provides type definitions for structured data used throughout the jd-agent system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// JobProfile represents a structured job description produced by the upstream
// parsing component. It is an immutable input value object.
type JobProfile struct {
	Role            string   `json:"role"`
	Company         string   `json:"company"`
	Skills          []string `json:"skills"`
	ExperienceYears int      `json:"experience_years"`
}
