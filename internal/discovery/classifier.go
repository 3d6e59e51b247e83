package discovery

import "strings"

// Rule matches tool names by suffix or exact name.
type Rule struct {
	// Label names the capability in logs, e.g. "query".
	Label    string
	Suffixes []string
	Exact    []string
}

// Matches reports whether name satisfies the rule.
func (r Rule) Matches(name string) bool {
	for _, exact := range r.Exact {
		if name == exact {
			return true
		}
	}
	for _, suffix := range r.Suffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// IsZero reports whether the rule matches nothing.
func (r Rule) IsZero() bool {
	return len(r.Suffixes) == 0 && len(r.Exact) == 0
}

// QueryRule matches the SQL query tool exposed by data gateways.
var QueryRule = Rule{
	Label:    "query",
	Suffixes: []string{"-query"},
	Exact:    []string{"query"},
}

// ListDatabasesRule matches the database listing tool exposed by data
// gateways.
var ListDatabasesRule = Rule{
	Label:    "list_databases",
	Suffixes: []string{"-list-databases", "-list_databases"},
	Exact:    []string{"list_databases"},
}

// Role is the capability a tool was classified as.
type Role int

const (
	RoleNone Role = iota
	RoleRequired
	RoleOptional
)

// Classifier assigns tools to a required and an optional capability.
type Classifier struct {
	Required Rule
	Optional Rule
}

// Classify returns the role of a tool name. The required rule wins when
// both match.
func (c Classifier) Classify(name string) Role {
	switch {
	case c.Required.Matches(name):
		return RoleRequired
	case !c.Optional.IsZero() && c.Optional.Matches(name):
		return RoleOptional
	default:
		return RoleNone
	}
}
