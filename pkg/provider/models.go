/*
Copyright 2025 The Merge Warden Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package provider defines the capability surface that the merge-warden core
// consumes from a hosted Git forge, plus the shared data model for pull
// requests, their files, labels and comments.
package provider

// User identifies a forge account, e.g. the author of a pull request.
type User struct {
	ID    int64
	Login string
}

// PullRequestSnapshot is the immutable view of a pull request that one
// evaluation of the core operates over.
type PullRequestSnapshot struct {
	Number int
	Title  string
	Body   string
	// HasBody distinguishes an empty body from an absent one, since the
	// work-item check treats "no body at all" the same as "no reference" but
	// forges differ in whether they send "" or omit the field.
	HasBody bool
	Draft   bool
	Author  *User
}

// FileStatus is the forge's classification of how a file changed in a PR.
type FileStatus string

const (
	FileAdded    FileStatus = "added"
	FileModified FileStatus = "modified"
	FileDeleted  FileStatus = "deleted"
	FileRenamed  FileStatus = "renamed"
	FileCopied   FileStatus = "copied"
	FileUnchanged FileStatus = "unchanged"
)

// FileChange describes one file touched by a pull request.
type FileChange struct {
	Filename  string
	Additions int
	Deletions int
	Changes   int
	Status    FileStatus
}

// Label is a repository or pull-request label.
type Label struct {
	Name        string
	Description string
}

// Comment is a single comment on a pull request.
type Comment struct {
	ID   int64
	Body string
}
