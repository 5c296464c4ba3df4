// Command scim-validate loads a directory of SCIM schema definition files
// through the same registry code path the engine uses at runtime, so a
// schema that passes here is guaranteed to load in production (spec §4.A
// "the canonical validator uses the same code path as runtime
// registration").
package main

func main() {
	Execute()
}
