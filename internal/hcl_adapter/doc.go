// Package hcl_adapter implements config.Loader for bundle.hcl files.
//
// Every attribute is optional. String attributes are HCL templates that may
// refer to the `problem` and `root` variables:
//
//	library      = "lib"
//	entry        = "cmd/${problem}/main.go"
//	output       = "bundled/${problem}.go"
//	header       = "Bundled ${problem}. DO NOT EDIT."
//	keep_methods = ["String", "Error"]
package hcl_adapter
