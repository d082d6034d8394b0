package audit

import "strings"

// ActionResource holds action and resource derived from a REST route.
type ActionResource struct {
	Action   string
	Resource string
}

// Collection overrides where the resource name is not the plural minus "s".
var resourceNames = map[string]string{
	"audit-logs":         "audit_log",
	"security-incidents": "security_incident",
	"statistics":         "statistics",
	"auth":               "auth",
}

// Auth route overrides: the segment after /auth/ is the verb, with a few renamed.
var authActions = map[string]string{
	"signin":      "login",
	"signup":      "register",
	"regist":      "create_account",
	"sendotpcode": "send_otp",
	"verify-otp":  "verify_otp",
}

// ParseRoute returns action and resource for a method and request path (e.g. GET /users/42).
// Action is a verb: list (GET on a collection), get, create, update, delete, or the lowercase
// method for others. Resource is the singular form of the first path segment (users -> user).
// Routes under /auth map to resource "auth" with the auth verb as action (/auth/signin -> login).
func ParseRoute(method, path string) ActionResource {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	segments := splitPath(path)
	if len(segments) == 0 {
		return ActionResource{Action: "unknown", Resource: "unknown"}
	}
	resource := collectionToResource(segments[0])
	if resource == "auth" {
		if len(segments) < 2 {
			return ActionResource{Action: "unknown", Resource: "auth"}
		}
		verb := strings.ToLower(segments[1])
		if a, ok := authActions[verb]; ok {
			return ActionResource{Action: a, Resource: "auth"}
		}
		return ActionResource{Action: strings.ReplaceAll(verb, "-", "_"), Resource: "auth"}
	}
	return ActionResource{Action: methodToAction(method, len(segments) > 1), Resource: resource}
}

// IsAuthRoute reports whether path is one of the public /auth endpoints.
func IsAuthRoute(path string) bool {
	segments := splitPath(path)
	return len(segments) > 0 && strings.EqualFold(segments[0], "auth")
}

func splitPath(path string) []string {
	var out []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func collectionToResource(collection string) string {
	c := strings.ToLower(collection)
	if r, ok := resourceNames[c]; ok {
		return r
	}
	s := strings.TrimSuffix(c, "s")
	if s == "" {
		return "unknown"
	}
	return strings.ReplaceAll(s, "-", "_")
}

func methodToAction(method string, item bool) string {
	switch strings.ToUpper(method) {
	case "GET", "":
		if item {
			return "get"
		}
		return "list"
	case "POST":
		return "create"
	case "PUT", "PATCH":
		return "update"
	case "DELETE":
		return "delete"
	default:
		return strings.ToLower(method)
	}
}
