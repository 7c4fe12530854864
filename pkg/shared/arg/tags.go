package arg

import (
	"fmt"
	"regexp"
	"strings"
)

var validTag = regexp.MustCompile(`^[a-zA-Z0-9-_]+$`)

// ParseTags splits a space or comma separated tag list. Tags may only
// contain alphanumerics, hyphens and underscores.
func ParseTags(input string) ([]string, error) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ' ' || r == ','
	})

	tags := make([]string, 0, len(fields))
	for _, tag := range fields {
		if !validTag.MatchString(tag) {
			return nil, fmt.Errorf(
				"invalid tag '%s': tags must only contain alphanumeric characters, hyphens, and underscores",
				tag,
			)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// HandleContent joins the positional arguments after the first two
// (title and tags) into the content body.
func HandleContent(args []string) string {
	if len(args) < 3 {
		return ""
	}
	return strings.Join(args[2:], " ")
}
