package build

import "strings"

// expandArgs substitutes template variables in every argument.
//
// Supported templates:
//
//	{project}  → "CRYENGINE"
func expandArgs(templates []string, project string) []string {
	args := make([]string, 0, len(templates))
	for _, tmpl := range templates {
		args = append(args, expand(tmpl, project))
	}
	return args
}

func expand(tmpl, project string) string {
	return strings.ReplaceAll(tmpl, "{project}", project)
}
