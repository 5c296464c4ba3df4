package schema

import "embed"

//go:embed builtin/*.json
var builtinFS embed.FS

// builtinSchemaFiles lists the embedded schema documents shipped with the
// registry, in load order (core schemas first, extensions after).
var builtinSchemaFiles = []string{
	"user.json",
	"group.json",
	"enterprise_user.json",
}

// Core schema URIs (RFC 7643 §8).
const (
	UserSchemaURI           = "urn:ietf:params:scim:schemas:core:2.0:User"
	GroupSchemaURI          = "urn:ietf:params:scim:schemas:core:2.0:Group"
	EnterpriseUserSchemaURI = "urn:ietf:params:scim:schemas:extension:enterprise:2.0:User"
)
