package config

// NewPlansForTest creates a Plans config bypassing flag parsing
func NewPlansForTest(path string) *Plans {
	return &Plans{path: path}
}
