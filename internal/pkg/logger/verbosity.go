package logger

// Verbosity controls how loudly the batch engine and interpreters report call failures.
// Errors covers unexpected failures; Expected covers reverts that legitimately mean zero.
type Verbosity struct {
	Errors   bool `yaml:"multicallErrors"`
	Expected bool `yaml:"multicallExpected"`
}
