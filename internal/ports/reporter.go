package ports

// Reporter prints short user-facing status lines as soon as something happens.
type Reporter interface {
	Status(scope string, format string, args ...any)
}

type NopReporter struct{}

func (NopReporter) Status(string, string, ...any) {}
