package docker

import "strings"

// splitTag splits a reference into repository and tag. The tag separator is the
// last ':' after the final '/', so registry ports are not mistaken for tags.
func splitTag(ref string) (repo, tag string, tagged bool) {
	slash := strings.LastIndex(ref, "/")
	colon := strings.LastIndex(ref, ":")
	if colon <= slash {
		return ref, "", false
	}
	return ref[:colon], ref[colon+1:], true
}

// imageMatches reports whether name refers to the image with the given id and
// tags. Tagged names must match a tag exactly; untagged names match any tag of
// the same repository.
func imageMatches(id string, repoTags []string, name string) bool {
	if id == name {
		return true
	}

	_, _, tagged := splitTag(name)
	for _, ref := range repoTags {
		if tagged {
			if ref == name {
				return true
			}
			continue
		}
		if repo, _, _ := splitTag(ref); repo == name {
			return true
		}
	}

	return false
}
