// Package fs writes regenerated artifacts and reports to the file system.
package fs

import (
	"path"
	"strings"

	"github.com/fwojciec/parity"
)

// RouteToPath converts a route to a relative file path with extension ext.
// The root route becomes "index"+ext; "/blog/post" becomes "blog/post"+ext.
// Routes that would escape the output directory are rejected.
func RouteToPath(route, ext string) (string, error) {
	route = parity.NormalizeRoute(route)
	if route == "/" {
		return "index" + ext, nil
	}
	for _, seg := range strings.Split(route, "/") {
		if seg == ".." || seg == "." {
			return "", parity.Errorf(parity.EINVALID, "route %q escapes output directory", route)
		}
	}
	return path.Clean(strings.TrimPrefix(route, "/")) + ext, nil
}
