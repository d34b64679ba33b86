package filesystem

import (
	"net/url"
	"path/filepath"
	"strings"
)

const (
	ownersDirName  = "owners"
	tasksDirName   = "tasks"
	taskFileSuffix = ".md"
)

// PathBuilder constructs filesystem paths for task documents:
// <root>/owners/<owner>/tasks/<id>.md
type PathBuilder struct {
	rootPath string
}

// NewPathBuilder creates a new PathBuilder
func NewPathBuilder(rootPath string) *PathBuilder {
	return &PathBuilder{
		rootPath: rootPath,
	}
}

// Root returns the data root
func (pb *PathBuilder) Root() string {
	return pb.rootPath
}

// OwnersRoot returns the directory holding one folder per owner
func (pb *PathBuilder) OwnersRoot() string {
	return filepath.Join(pb.rootPath, ownersDirName)
}

// OwnerDir returns the directory of an owner
func (pb *PathBuilder) OwnerDir(ownerID string) string {
	return filepath.Join(pb.OwnersRoot(), encodeOwner(ownerID))
}

// TasksDir returns the directory holding an owner's task documents
func (pb *PathBuilder) TasksDir(ownerID string) string {
	return filepath.Join(pb.OwnerDir(ownerID), tasksDirName)
}

// TaskFile returns the path of a task document
func (pb *PathBuilder) TaskFile(ownerID, docID string) string {
	return filepath.Join(pb.TasksDir(ownerID), docID+taskFileSuffix)
}

// OwnerFromPath returns the owner a path under OwnersRoot belongs to
func (pb *PathBuilder) OwnerFromPath(path string) (string, bool) {
	rel, err := filepath.Rel(pb.OwnersRoot(), path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}

	first := strings.SplitN(filepath.ToSlash(rel), "/", 2)[0]
	owner, err := url.PathUnescape(first)
	if err != nil {
		return "", false
	}
	return owner, true
}

// encodeOwner turns an owner id into a single safe path segment.
// Dots are escaped too so "." and ".." cannot address other directories.
func encodeOwner(ownerID string) string {
	return strings.ReplaceAll(url.PathEscape(ownerID), ".", "%2E")
}

func docIDFromFile(name string) (string, bool) {
	if !strings.HasSuffix(name, taskFileSuffix) || strings.HasPrefix(name, ".") {
		return "", false
	}
	return strings.TrimSuffix(name, taskFileSuffix), true
}
