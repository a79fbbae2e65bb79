package cli

// Options are the settings shared by every eos command.
type Options struct {
	ParametersFile string
	CatalogFile    string
	LogLevel       string

	// Constraints are catalog names added in order.
	Constraints []string
	// ConstraintOptions apply to every constraint, in "key=value,key=value" form.
	ConstraintOptions string
	// Sets are "name=value" assignments applied after loading.
	Sets []string
}
