package model

// RemoteRef identifies a branch on a hosted remote repository.
type RemoteRef struct {
	Owner  string
	Repo   string
	Branch string
}

// FullName returns the "owner/repo" form used in log output.
func (r RemoteRef) FullName() string {
	return r.Owner + "/" + r.Repo
}
