package models

import "fmt"

// RepositoryReference identifies a repository snapshot on the hosting service.
type RepositoryReference struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
	Ref   string `json:"ref"`
}

// FullName returns "owner/name".
func (r RepositoryReference) FullName() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

func (r RepositoryReference) String() string {
	return fmt.Sprintf("%s/%s@%s", r.Owner, r.Name, r.Ref)
}

// EntryKind mirrors the git object type of a tree entry.
type EntryKind string

const (
	EntryBlob   EntryKind = "blob"
	EntryTree   EntryKind = "tree"
	EntryCommit EntryKind = "commit"
)

// TreeEntry is one item of a recursive tree listing. Size is nil when the
// host did not report it.
type TreeEntry struct {
	Path string    `json:"path"`
	Kind EntryKind `json:"kind"`
	Size *int      `json:"size,omitempty"`
}

// SizeKnown reports whether the listing carried a size for the entry.
func (e TreeEntry) SizeKnown() bool {
	return e.Size != nil
}
