package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// RepositoryRef identifies a repository by owner and name.
type RepositoryRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// ParseRepositoryURL extracts the owner and name from a repository URL such as
// "https://github.com/fastlane/fastlane/". The URL needs a scheme, a host and a path.
func ParseRepositoryURL(raw string) (RepositoryRef, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return RepositoryRef{}, fmt.Errorf("%w: %v", ErrInvalidRepository, err)
	}
	if u.Scheme == "" || u.Host == "" || u.Path == "" {
		return RepositoryRef{}, fmt.Errorf("%w: %q needs a scheme, host and path", ErrInvalidRepository, raw)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	ref := RepositoryRef{Owner: segments[0]}
	if len(segments) > 1 {
		ref.Name = strings.TrimSuffix(segments[1], ".git")
	}
	if !ref.Valid() {
		return RepositoryRef{}, fmt.Errorf("%w: %q has no owner/name path", ErrInvalidRepository, raw)
	}
	return ref, nil
}

// Valid reports whether both owner and name are set.
func (r RepositoryRef) Valid() bool {
	return r.Owner != "" && r.Name != ""
}

// String returns "owner/name".
func (r RepositoryRef) String() string {
	return r.Owner + "/" + r.Name
}
