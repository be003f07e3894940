package conformance

// TestSuite represents a complete YAML test file
type TestSuite struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Setup       string     `yaml:"setup,omitempty"` // source run on the suite's VM before each test
	Tests       []TestCase `yaml:"tests"`
}

// TestCase represents a single script and what running it must produce
type TestCase struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Skip        interface{} `yaml:"skip,omitempty"` // bool or string
	Source      string      `yaml:"source"`
	Expect      Expectation `yaml:"expect"`
}

// Expectation defines the observable outcome of a test
type Expectation struct {
	Output []string `yaml:"output,omitempty"` // printed lines, in order
	Result string   `yaml:"result,omitempty"` // ok (default), compile_error, runtime_error
	Error  string   `yaml:"error,omitempty"`  // substring of the diagnostic
}

// IsSkipped returns true if this test should be skipped
func (tc *TestCase) IsSkipped() (bool, string) {
	if tc.Skip == nil {
		return false, ""
	}

	switch v := tc.Skip.(type) {
	case bool:
		if v {
			return true, "skipped"
		}
		return false, ""
	case string:
		return true, v
	default:
		return false, ""
	}
}
