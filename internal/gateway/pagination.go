package gateway

import (
	"net/url"
	"strconv"
	"strings"
)

// linkTrimChars are stripped around Link header keys and values.
const linkTrimChars = " '\""

// ResolvePageCount returns the total page count encoded in a Link header such as
//
//	<https://api.github.com/repos/o/r/commits?page=2>; rel="next", <https://api.github.com/repos/o/r/commits?page=5>; rel="last"
//
// by reading the page parameter of the rel="last" entry. When there is no
// usable rel="last" entry the result is 0, meaning the results fit on a single page.
func ResolvePageCount(link string) int {
	for _, entry := range strings.Split(link, ",") {
		target, params, _ := strings.Cut(entry, ";")
		target = strings.Trim(strings.TrimSpace(target), "<>"+linkTrimChars)

		rel := ""
		for _, param := range strings.Split(params, ";") {
			key, value, ok := strings.Cut(param, "=")
			if !ok {
				continue
			}
			if strings.Trim(key, linkTrimChars) == "rel" {
				rel = strings.Trim(value, linkTrimChars)
			}
		}
		if rel != "last" {
			continue
		}

		u, err := url.Parse(target)
		if err != nil {
			return 0
		}
		page, err := strconv.Atoi(u.Query().Get("page"))
		if err != nil || page < 0 {
			return 0
		}
		return page
	}
	return 0
}
