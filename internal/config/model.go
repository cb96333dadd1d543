package config

// DefaultFileName is the project configuration file looked up in the root.
const DefaultFileName = "bundle.hcl"

// Defaults applied when the configuration omits an attribute. Path
// attributes are templates over the Vars of the run.
const (
	DefaultLibrary = "lib"
	DefaultEntry   = "cmd/${problem}/main.go"
	DefaultOutput  = "bundled/${problem}.go"
	DefaultHeader  = "Code generated by gobundle for problem ${problem}. DO NOT EDIT."
)

// Vars are the values configuration templates may refer to.
type Vars struct {
	Problem string
	Root    string
}

// Project is the evaluated configuration for one problem.
type Project struct {
	// LibraryDir is the library root, relative to the project root.
	LibraryDir string
	// EntryFile is the problem's entry file, relative to the project root.
	EntryFile string
	// OutputFile is the bundle destination, relative to the project root
	// unless absolute.
	OutputFile string
	Header     string
	// KeepMethods lists method names retained on every reachable type.
	KeepMethods []string
}
