// Package filesystem implements the ContentRepository port over a flat-file
// page tree.
//
// Every folder below the content root holding a page file is a page. Folder
// names may carry a numeric ordering prefix ("01.blog") which is dropped from
// the route ("/blog"). A folder may hold one file per language following the
// "<base-name>.<lang><format>" convention; the untagged file, or else the
// file in the first configured language, is the folder's primary page.
// An untagged primary page belongs to the first configured language.
//
// Page files start with an optional YAML front matter block delimited by
// "---" lines.
package filesystem
