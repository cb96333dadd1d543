// Package config defines the format-agnostic project configuration of a
// bundling run and the Loader interface that produces it. The HCL
// implementation lives in the hcl_adapter package.
package config
