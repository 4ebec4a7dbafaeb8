package fsops

// FakeDeleter implements Deleter for testing
// Records all delete calls without performing actual deletions
type FakeDeleter struct {
	Calls []string
	Err   error // Returned from every call when set
}

func (f *FakeDeleter) Remove(path string) error {
	f.Calls = append(f.Calls, path)
	return f.Err
}
