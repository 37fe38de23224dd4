package drain

import "strings"

// InferEnvironment derives the environment segment of snapshot blob names from
// the storage base URL. Substring priority matters: "premo" must be checked
// before "pre".
func InferEnvironment(baseURL string) string {
	switch {
	case strings.Contains(baseURL, "localhost"):
		return "localhost"
	case strings.Contains(baseURL, "snd"):
		return "SND"
	case strings.Contains(baseURL, "tst"):
		return "TST"
	case strings.Contains(baseURL, "premo"):
		return "PREMO"
	case strings.Contains(baseURL, "pre"):
		return "PRE"
	default:
		return "PRD"
	}
}
